package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"
	"go.uber.org/zap"

	"linkgate-go/constant"
	"linkgate-go/internal/apperrors"
	"linkgate-go/internal/dto"
	"linkgate-go/internal/model"
	"linkgate-go/internal/repository"
	"linkgate-go/pkg/logging"
	"linkgate-go/pkg/utils"
	"linkgate-go/response"
)

// LinkService 编排短链的创建、访问与批量导入
// 不直接改动存储：唯一性归 LinkRepo，计数归 AnalyticsRepo
type LinkService struct {
	links         *repository.LinkRepo
	analytics     *repository.AnalyticsRepo
	domains       *repository.DomainRepo
	slugs         *SlugAllocator
	cache         *redis.Pool // 可为 nil，nil 时直接查库
	defaultDomain string
}

func NewLinkService(
	links *repository.LinkRepo,
	analytics *repository.AnalyticsRepo,
	domains *repository.DomainRepo,
	slugs *SlugAllocator,
	cache *redis.Pool,
	defaultDomain string,
) *LinkService {
	return &LinkService{
		links:         links,
		analytics:     analytics,
		domains:       domains,
		slugs:         slugs,
		cache:         cache,
		defaultDomain: defaultDomain,
	}
}

// AccessOutcome 一次访问请求的结果
// Allowed 时 TargetURL 即重定向目标，否则 Reason 给出拒绝原因
type AccessOutcome struct {
	Allowed   bool
	TargetURL string
	Reason    DenyReason
}

// CreateLink 创建短链：先校验 URL，再解析域名和过期策略，
// 最后连同清零的统计记录一起原子落库
// 自动生成的 slug 撞到唯一索引时重新分配一次，自定义 slug 冲突直接报错
func (s *LinkService) CreateLink(req dto.CreateShortLinkRequest) (*dto.ShortLinkWithAnalytics, error) {
	// URL 校验最先做
	if err := utils.ValidateTargetURL(req.TargetURL); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrInvalidURL, err.Error())
	}

	customSlug := strings.TrimSpace(req.Slug)
	if customSlug != "" {
		if err := utils.ValidateSlug(customSlug); err != nil {
			return nil, err
		}
	}

	policy, err := req.Policy()
	if err != nil {
		return nil, err
	}

	domain, err := s.resolveDomain(req.Domain)
	if err != nil {
		return nil, err
	}

	slug, err := s.slugs.Allocate(customSlug)
	if err != nil {
		return nil, err
	}

	link := &model.ShortLink{
		Domain:    domain,
		Slug:      slug,
		TargetURL: req.TargetURL,
		Password:  req.Password,
	}
	link.SetPolicy(policy)

	analytics, err := s.links.Insert(link)
	if apperrors.IsDuplicateSlug(err) {
		if customSlug != "" {
			// 操作员指定的 slug 不能偷换，冲突原样上报
			logging.Logger.Info("自定义 slug 已存在",
				zap.String("domain", domain),
				zap.String("slug", slug))
			return nil, apperrors.ErrDuplicateSlug
		}

		// 随机 slug 撞车概率极低，重新分配一次
		logging.Logger.Warn("Generated slug collision, reallocating",
			zap.String("domain", domain),
			zap.String("slug", slug))
		slug, err = randomSlug(s.slugs.length)
		if err != nil {
			return nil, err
		}
		link.ID = 0
		link.Slug = slug
		analytics, err = s.links.Insert(link)
	}
	if err != nil {
		logging.Logger.Error("短链落库失败",
			zap.String("domain", domain),
			zap.String("slug", slug),
			zap.Error(err))
		return nil, err
	}

	return &dto.ShortLinkWithAnalytics{Link: link, Analytics: analytics}, nil
}

// AccessLink 解析一次访问：查找 → 策略裁决 → 记录
// 拒绝和未命中都不触碰统计状态
func (s *LinkService) AccessLink(domain, slug, suppliedPassword string, d model.AccessDescriptors, clientIP string, now time.Time) (*AccessOutcome, error) {
	link, err := s.lookupLink(domain, slug)
	if err != nil {
		return nil, err
	}

	// 点击数必须读新鲜值，不走缓存
	analytics, err := s.analytics.GetByLinkID(link.ID)
	if err != nil {
		return nil, err
	}

	decision := EvaluateAccess(link, analytics, suppliedPassword, now)
	if !decision.Allowed {
		return &AccessOutcome{Reason: decision.Reason}, nil
	}

	var clickLimit int64
	if policy := link.Policy(); policy.Kind == model.ExpireByClicks {
		clickLimit = policy.MaxClicks
	}

	if _, err := s.analytics.RecordAccess(link.ID, d, now, clickLimit); err != nil {
		if errors.Is(err, apperrors.ErrClickLimitExceeded) {
			// 并发访问抢走了最后一次配额
			return &AccessOutcome{Reason: ReasonClickLimitReached}, nil
		}
		return nil, err
	}

	s.recordTraffic(domain, slug, clientIP)

	return &AccessOutcome{Allowed: true, TargetURL: link.TargetURL}, nil
}

// BulkImport 逐行创建短链，全部使用自动 slug、无过期无密码
// 单行失败不影响后续行，结果按输入顺序返回
func (s *LinkService) BulkImport(targetURLs []string, domain string) []dto.BulkImportResult {
	results := make([]dto.BulkImportResult, 0, len(targetURLs))
	for i, targetURL := range targetURLs {
		created, err := s.CreateLink(dto.CreateShortLinkRequest{
			TargetURL: targetURL,
			Domain:    domain,
		})
		if err != nil {
			logging.Logger.Info("批量导入单行失败",
				zap.Int("index", i),
				zap.String("target_url", targetURL),
				zap.Error(err))
			results = append(results, dto.BulkImportResult{
				Index: i,
				Error: err.Error(),
			})
			continue
		}
		results = append(results, dto.BulkImportResult{
			Index:   i,
			Success: true,
			Link:    created.Link,
		})
	}
	return results
}

// ListShortLinks 支持分页查询短链列表
func (s *LinkService) ListShortLinks(page, size int, slug string) (*response.PageResponse[model.ShortLink], error) {
	// 参数校验
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 100 {
		size = 10 // 默认每页10条，最大100条
	}

	links, total, err := s.links.List(page, size, slug)
	if err != nil {
		logging.Logger.Info("数据库操作失败", zap.Error(err))
		return nil, apperrors.SystemErrorDefault()
	}

	totalPage := (int(total) + size - 1) / size

	return &response.PageResponse[model.ShortLink]{
		Page:      page,
		Size:      size,
		Total:     int(total),
		TotalPage: totalPage,
		List:      links,
	}, nil
}

// LinkHistory 返回某条短链的访问采样历史
func (s *LinkService) LinkHistory(linkID uint) ([]model.AccessSample, error) {
	return s.analytics.History(linkID)
}

// resolveDomain 解析发布域名：默认域名直接放行，自定义域名必须已登记
func (s *LinkService) resolveDomain(requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" || requested == s.defaultDomain {
		return s.defaultDomain, nil
	}

	registered, err := s.domains.Exists(requested)
	if err != nil {
		return "", err
	}
	if !registered {
		return "", apperrors.ErrDomainUnknown
	}
	return requested, nil
}

// lookupLink 先查 Redis 缓存再查库，未命中时写空值防止缓存穿透
func (s *LinkService) lookupLink(domain, slug string) (*model.ShortLink, error) {
	if s.cache == nil {
		return s.links.Lookup(domain, slug)
	}

	cacheKey := constant.GetLinkCacheKey(domain, slug)

	conn := s.cache.Get()
	defer repository.CloseRedisConn(conn)

	cachedValue, err := redis.Bytes(conn.Do("GET", cacheKey))
	if err == nil {
		if len(cachedValue) == 0 {
			// 负缓存命中
			return nil, apperrors.ErrNotFound
		}
		var link model.ShortLink
		if unmarshalErr := json.Unmarshal(cachedValue, &link); unmarshalErr == nil {
			return &link, nil
		}
		logging.Logger.Warn("Failed to unmarshal cached value",
			zap.String("cache_key", cacheKey),
			zap.Error(err))
	} else if err != redis.ErrNil {
		logging.Logger.Warn("Error getting from Redis",
			zap.String("cache_key", cacheKey),
			zap.Error(err))
	}

	// 缓存未命中，从数据库查询
	link, err := s.links.Lookup(domain, slug)
	if err != nil {
		if apperrors.IsNotFound(err) {
			// 缓存空值，防止缓存穿透
			if _, setErr := conn.Do("SET", cacheKey, "", "EX", 300); setErr != nil {
				logging.Logger.Error("设置缓存失败",
					zap.String("cache_key", cacheKey),
					zap.Error(setErr))
			}
		}
		return nil, err
	}

	// 缓存结果（1小时）
	cachedValue, _ = json.Marshal(link)
	if _, err := conn.Do("SET", cacheKey, cachedValue, "EX", 3600); err != nil {
		logging.Logger.Error("设置缓存失败",
			zap.String("cache_key", cacheKey),
			zap.Error(err))
	}

	return link, nil
}

// recordTraffic 把 PV/UV 写进 Redis，供定时任务汇总
func (s *LinkService) recordTraffic(domain, slug, clientIP string) {
	if s.cache == nil {
		return
	}

	conn := s.cache.Get()
	defer repository.CloseRedisConn(conn)

	linkKey := constant.LinkKey(domain, slug)
	RecordDailyPV(conn, linkKey)
	RecordDailyUV(conn, linkKey, clientIP)
	RecordTotalPV(conn, linkKey)
	RecordTotalUV(conn, linkKey, clientIP)
}
