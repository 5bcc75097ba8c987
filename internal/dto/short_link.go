package dto

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"linkgate-go/internal/model"
	"linkgate-go/pkg/utils"
)

// CreateShortLinkRequest 用于创建短链的请求参数
type CreateShortLinkRequest struct {
	TargetURL  string     `json:"targetUrl" binding:"required"`
	Slug       string     `json:"slug" binding:"omitempty,max=32"` // 留空则自动生成
	Domain     string     `json:"domain"`                          // 留空则使用默认域名
	ExpireType string     `json:"expireType" binding:"omitempty,oneof=none date clicks"`
	ExpiresAt  *time.Time `json:"expiresAt"`
	MaxClicks  *int64     `json:"maxClicks" binding:"omitempty,min=1"`
	Password   string     `json:"password" binding:"omitempty,max=64"`
}

// Validate 自定义验证逻辑
func (r *CreateShortLinkRequest) Validate() error {
	// 1. 复用公共的 TargetURL 校验逻辑
	if err := utils.ValidateTargetURL(r.TargetURL); err != nil {
		return gin.Error{
			Err:  err,
			Type: gin.ErrorTypeBind,
		}
	}

	// 2. 自定义 slug 只在提供时校验
	if r.Slug != "" {
		if err := utils.ValidateSlug(r.Slug); err != nil {
			return gin.Error{
				Err:  err,
				Type: gin.ErrorTypeBind,
			}
		}
	}

	return nil
}

// Policy 把松散的 type + value 入参折叠成过期策略变体
// date 必须带 expiresAt，clicks 必须带正的 maxClicks，杜绝混搭
func (r *CreateShortLinkRequest) Policy() (model.ExpirationPolicy, error) {
	switch r.ExpireType {
	case "", string(model.ExpireNone):
		return model.NoExpiration(), nil
	case string(model.ExpireByDate):
		if r.ExpiresAt == nil {
			return model.ExpirationPolicy{}, fmt.Errorf("error.expires_at_required")
		}
		return model.ExpiresAt(*r.ExpiresAt), nil
	case string(model.ExpireByClicks):
		if r.MaxClicks == nil || *r.MaxClicks < 1 {
			return model.ExpirationPolicy{}, fmt.Errorf("error.max_clicks_required")
		}
		return model.ClickLimit(*r.MaxClicks), nil
	default:
		return model.ExpirationPolicy{}, fmt.Errorf("error.expire_type_invalid")
	}
}

// BulkImportRequest 批量导入请求，外层负责把 CSV 解析成 URL 序列
type BulkImportRequest struct {
	TargetURLs []string `json:"targetUrls" binding:"required,min=1"`
	Domain     string   `json:"domain"`
}

// BulkImportResult 批量导入的单行结果，与输入顺序一一对应
type BulkImportResult struct {
	Index   int              `json:"index"`
	Success bool             `json:"success"`
	Link    *model.ShortLink `json:"link,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// ShortLinkWithAnalytics 创建成功后的出参：短链加上清零的统计记录
type ShortLinkWithAnalytics struct {
	Link      *model.ShortLink       `json:"link"`
	Analytics *model.AnalyticsRecord `json:"analytics"`
}
