package handler

import (
	"net/http"
	"reflect"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"linkgate-go/internal/apperrors"
	"linkgate-go/internal/dto"
	"linkgate-go/internal/service"
	"linkgate-go/response"
)

type LinkDomainHandler struct {
	domains *service.LinkDomainService
}

func NewLinkDomainHandler(domains *service.LinkDomainService) *LinkDomainHandler {
	return &LinkDomainHandler{domains: domains}
}

func (h *LinkDomainHandler) Create(c *gin.Context) {
	var req dto.CreateLinkDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// 校验失败时优先取字段上的 msg 标签作为提示
		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			for _, e := range validationErrs {
				field, ok := reflect.TypeOf(req).FieldByName(e.Field())
				if !ok {
					_ = c.Error(apperrors.InvalidRequestErrorDefault())
					return
				}

				if customMsg := field.Tag.Get("msg"); customMsg != "" {
					_ = c.Error(apperrors.InvalidRequestError(customMsg))
					return
				}
			}
		}
		zap.L().Warn("Request body binding failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	if err := h.domains.RegisterDomain(req.Domain); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK("", "Domain registered"))
}

// List 分页查询已登记域名
func (h *LinkDomainHandler) List(c *gin.Context) {
	pageStr := c.DefaultQuery("page", "1")
	sizeStr := c.DefaultQuery("size", "10")
	domain := c.Query("domain")

	page, err := strconv.Atoi(pageStr)
	if err != nil || page < 1 {
		_ = c.Error(apperrors.InvalidRequestError("页码必须为正整数"))
		return
	}

	size, err := strconv.Atoi(sizeStr)
	if err != nil || size < 1 || size > 100 {
		_ = c.Error(apperrors.InvalidRequestError("每页数量必须为1-100之间的整数"))
		return
	}

	pageResp, err := h.domains.ListDomains(page, size, domain)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK(pageResp, "success"))
}

func (h *LinkDomainHandler) Delete(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id < 1 {
		_ = c.Error(apperrors.InvalidRequestError("无效的 ID"))
		return
	}

	if err := h.domains.RemoveDomain(uint(id)); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK(struct{}{}, "Domain removed"))
}
