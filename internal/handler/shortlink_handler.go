package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkgate-go/internal/apperrors"
	"linkgate-go/internal/dto"
	"linkgate-go/internal/i18n"
	"linkgate-go/internal/service"
	"linkgate-go/response"
)

type ShortLinkHandler struct {
	links *service.LinkService
	stats *service.StatsService
}

func NewShortLinkHandler(links *service.LinkService, stats *service.StatsService) *ShortLinkHandler {
	return &ShortLinkHandler{links: links, stats: stats}
}

func (h *ShortLinkHandler) Create(c *gin.Context) {
	var req dto.CreateShortLinkRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		// 记录请求上下文（方法、路径）
		zap.L().Warn("Request body binding failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	created, err := h.links.CreateLink(req)
	if err != nil {
		zap.L().Warn("Short link creation failed",
			zap.Error(err),
			zap.String("slug", req.Slug),
			zap.String("domain", req.Domain),
		)
		_ = c.Error(mapServiceError(c, err))
		return
	}

	c.JSON(http.StatusOK, response.OK(created, "Short link creation successful"))
}

// List 分页查询短链列表
func (h *ShortLinkHandler) List(c *gin.Context) {
	// 获取分页参数
	pageStr := c.DefaultQuery("page", "1")
	sizeStr := c.DefaultQuery("size", "10")
	slug := c.Query("slug")

	// 参数转换
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

	pageResp, err := h.links.ListShortLinks(page, size, slug)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, response.OK(pageResp, "success"))
}

// BulkImport 批量导入长链接，CSV 解析由前端完成，这里只收 URL 序列
func (h *ShortLinkHandler) BulkImport(c *gin.Context) {
	var req dto.BulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		zap.L().Warn("Request body binding failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
		)
		_ = c.Error(apperrors.InvalidRequestErrorDefault())
		return
	}

	results := h.links.BulkImport(req.TargetURLs, req.Domain)

	c.JSON(http.StatusOK, response.OK(results, "Bulk import finished"))
}

// Export 导出全部短链，format 支持 csv / json，默认 json
func (h *ShortLinkHandler) Export(c *gin.Context) {
	rows, err := h.links.ExportLinks()
	if err != nil {
		_ = c.Error(mapServiceError(c, err))
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "csv":
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="shortlinks.csv"`)
		if err := service.WriteExportCSV(c.Writer, rows); err != nil {
			zap.L().Error("CSV 导出失败", zap.Error(err))
		}
	case "json":
		c.JSON(http.StatusOK, response.OK(rows, "success"))
	default:
		_ = c.Error(apperrors.InvalidRequestError("format 必须为 csv 或 json"))
	}
}

// Stats 查询某条短链的每日统计和访问采样历史
func (h *ShortLinkHandler) Stats(c *gin.Context) {
	idStr := c.Param("id")
	id, err := strconv.Atoi(idStr)
	if err != nil || id < 1 {
		_ = c.Error(apperrors.InvalidRequestError("无效的 ID"))
		return
	}

	stats, err := h.stats.DailyStats(uint(id))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	history, err := h.links.LinkHistory(uint(id))
	if err != nil {
		_ = c.Error(mapServiceError(c, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats, "history": history})
}

// mapServiceError 把服务层错误翻译为带本地化消息的 AppError
func mapServiceError(c *gin.Context, err error) *apperrors.AppError {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, apperrors.ErrInvalidURL):
		return apperrors.InvalidRequestError(i18n.T(ctx, "error.target_url_invalid", nil))
	case apperrors.IsDuplicateSlug(err):
		return apperrors.ConflictError(i18n.T(ctx, "error.slug_exists", nil))
	case apperrors.IsNotFound(err):
		return apperrors.NotFoundError(i18n.T(ctx, "error.link_not_found", nil))
	case errors.Is(err, apperrors.ErrDomainUnknown):
		return apperrors.InvalidRequestError(i18n.T(ctx, "error.domain_not_registered", nil))
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	// 校验器直接返回 i18n 消息键
	if strings.HasPrefix(err.Error(), "error.") {
		return apperrors.InvalidRequestError(i18n.T(ctx, err.Error(), nil))
	}

	return apperrors.SystemErrorDefault()
}
