package apperrors

import (
	"errors"
	"net/http"
)

// 业务哨兵错误，供服务层做流程控制
var (
	ErrNotFound      = errors.New("short link not found")
	ErrDuplicateSlug = errors.New("slug already exists in domain")
	ErrInvalidURL    = errors.New("invalid target url")
	ErrDomainUnknown = errors.New("domain not registered")
	// ErrClickLimitExceeded 由带限额守卫的计数更新返回，
	// 用于关闭策略检查和计数落库之间的竞争窗口
	ErrClickLimitExceeded = errors.New("click limit exceeded")
)

// IsNotFound 判断是否为未找到
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsDuplicateSlug 判断是否为 (domain, slug) 唯一性冲突
func IsDuplicateSlug(err error) bool { return errors.Is(err, ErrDuplicateSlug) }

// AppError 自定义错误类型
type AppError struct {
	Code    int
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode 创建通用业务错误
func WithCode(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// BusinessError 封装业务逻辑错误（通用）
func BusinessError(code int, message string) *AppError {
	return WithCode(code, message)
}

// InvalidRequestError 封装参数校验错误
func InvalidRequestError(message string) *AppError {
	return WithCode(http.StatusBadRequest, message)
}

// InvalidRequestErrorDefault 默认参数校验错误
func InvalidRequestErrorDefault() *AppError {
	return WithCode(http.StatusBadRequest, "Parameter verification failed")
}

// NotFoundError 封装未找到错误
func NotFoundError(message string) *AppError {
	return WithCode(http.StatusNotFound, message)
}

// ConflictError 封装唯一性冲突错误
func ConflictError(message string) *AppError {
	return WithCode(http.StatusConflict, message)
}

// SystemError 封装系统内部错误
func SystemError(message string) *AppError {
	return WithCode(http.StatusInternalServerError, message)
}

// SystemErrorDefault 默认系统内部错误
func SystemErrorDefault() *AppError {
	return WithCode(http.StatusInternalServerError, "System error")
}
