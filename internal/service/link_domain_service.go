package service

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"linkgate-go/internal/apperrors"
	"linkgate-go/internal/model"
	"linkgate-go/internal/repository"
	"linkgate-go/response"
)

// LinkDomainService 管理自定义发布域名的登记
type LinkDomainService struct {
	domains *repository.DomainRepo
}

func NewLinkDomainService(domains *repository.DomainRepo) *LinkDomainService {
	return &LinkDomainService{domains: domains}
}

// RegisterDomain 登记自定义域名
func (s *LinkDomainService) RegisterDomain(domain string) error {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return apperrors.BusinessError(http.StatusBadRequest, "域名不能为空")
	}

	exists, err := s.domains.Exists(domain)
	if err != nil {
		return apperrors.SystemErrorDefault()
	}
	if exists {
		return apperrors.BusinessError(http.StatusBadRequest, "该域名已存在")
	}

	if err := s.domains.Create(&model.LinkDomain{Domain: domain}); err != nil {
		zap.L().Info("登记自定义域名失败", zap.Error(err))
		return err
	}
	return nil
}

// ListDomains 支持分页查询已登记域名列表
func (s *LinkDomainService) ListDomains(page, size int, domain string) (*response.PageResponse[model.LinkDomain], error) {
	// 参数校验
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10 // 默认每页10条，最大100条
	}

	domains, total, err := s.domains.List(page, size, domain)
	if err != nil {
		return nil, apperrors.SystemError("查询已登记域名失败: " + err.Error())
	}

	totalPage := (int(total) + size - 1) / size

	return &response.PageResponse[model.LinkDomain]{
		Page:      page,
		Size:      size,
		Total:     int(total),
		TotalPage: totalPage,
		List:      domains,
	}, nil
}

// RemoveDomain 注销已登记域名
func (s *LinkDomainService) RemoveDomain(id uint) error {
	return s.domains.Delete(id)
}
