package service

import (
	"time"

	"linkgate-go/internal/model"
)

// DenyReason 访问被拒绝的原因
type DenyReason string

const (
	ReasonExpired           DenyReason = "expired"
	ReasonClickLimitReached DenyReason = "click_limit_reached"
	ReasonInvalidPassword   DenyReason = "invalid_password"
)

// Decision 一次访问尝试的裁决结果
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// EvaluateAccess 对一次访问尝试做纯函数裁决，不产生任何副作用
// 检查顺序固定：按日期过期 → 按点击数过期 → 密码，第一个不通过的胜出
//
// 边界约定：expiresAt 当刻的访问仍然放行，超过才算过期；
// 点击限额为 N 时恰好放行 N 次，观测到 clicks >= N 的尝试被拒
func EvaluateAccess(link *model.ShortLink, analytics *model.AnalyticsRecord, suppliedPassword string, now time.Time) Decision {
	policy := link.Policy()

	switch policy.Kind {
	case model.ExpireByDate:
		if now.After(policy.ExpiresAt) {
			return deny(ReasonExpired)
		}
	case model.ExpireByClicks:
		if analytics.Clicks >= policy.MaxClicks {
			return deny(ReasonClickLimitReached)
		}
	}

	if link.Password != "" && suppliedPassword != link.Password {
		return deny(ReasonInvalidPassword)
	}

	return allow()
}
