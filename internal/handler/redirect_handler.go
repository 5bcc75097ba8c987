package handler

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"linkgate-go/internal/apperrors"
	"linkgate-go/internal/i18n"
	"linkgate-go/internal/model"
	"linkgate-go/internal/service"
	"linkgate-go/pkg/utils"
	"linkgate-go/response"
)

type RedirectHandler struct {
	links         *service.LinkService
	defaultDomain string
}

func NewRedirectHandler(links *service.LinkService, defaultDomain string) *RedirectHandler {
	return &RedirectHandler{links: links, defaultDomain: defaultDomain}
}

// Redirect 解析短链访问：Host 头定位发布域名，路径即 slug
// 密码通过 pw 查询参数或 X-Link-Password 头提交
func (h *RedirectHandler) Redirect(c *gin.Context) {
	// 提取路径作为完整的 slug（去掉前导 '/'）
	slug := strings.TrimPrefix(c.Request.URL.Path, "/")
	if slug == "" {
		c.Status(http.StatusNotFound)
		return
	}

	domain := hostWithoutPort(c.Request.Host)
	if domain == "" {
		domain = h.defaultDomain
	}

	password := c.Query("pw")
	if password == "" {
		password = c.GetHeader("X-Link-Password")
	}

	descriptors := descriptorsFromRequest(c)

	outcome, err := h.links.AccessLink(domain, slug, password, descriptors, c.ClientIP(), time.Now())
	if err != nil {
		if apperrors.IsNotFound(err) {
			c.AbortWithStatusJSON(http.StatusNotFound,
				response.Error(i18n.T(c.Request.Context(), "error.link_not_found", nil)))
			return
		}
		zap.L().Error("短链访问失败",
			zap.String("domain", domain),
			zap.String("slug", slug),
			zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.Error("系统内部错误"))
		return
	}

	if !outcome.Allowed {
		c.AbortWithStatusJSON(denialStatus(outcome.Reason),
			response.Error(i18n.T(c.Request.Context(), denialMessageKey(outcome.Reason), nil)))
		return
	}

	// 计数类短链不能被中间层缓存，否则命中缓存的访问数不准
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Redirect(http.StatusFound, outcome.TargetURL)
	c.Abort()
}

// descriptorsFromRequest 从请求头提取访问描述
// 地理信息交给上游（CDN / 反向代理）注入的头，引擎不做网络探测
func descriptorsFromRequest(c *gin.Context) model.AccessDescriptors {
	ua := c.Request.UserAgent()
	geo := c.GetHeader("CF-IPCountry")
	if geo == "" {
		geo = c.GetHeader("X-Geo-Country")
	}
	return model.AccessDescriptors{
		Geo:      geo,
		Device:   utils.DeviceTypeFromUA(ua),
		OS:       utils.OSFromUA(ua),
		Browser:  utils.BrowserFromUA(ua),
		Referrer: c.Request.Referer(),
	}
}

func denialStatus(reason service.DenyReason) int {
	if reason == service.ReasonInvalidPassword {
		return http.StatusUnauthorized
	}
	return http.StatusGone
}

func denialMessageKey(reason service.DenyReason) string {
	switch reason {
	case service.ReasonExpired:
		return "error.link_expired"
	case service.ReasonClickLimitReached:
		return "error.click_limit_reached"
	case service.ReasonInvalidPassword:
		return "error.invalid_password"
	default:
		return "error.link_not_found"
	}
}

func hostWithoutPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
