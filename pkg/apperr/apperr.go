// Package apperr 提供统一的业务错误分类，供各聚合服务与 HTTP 层共享
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误类别
type Kind int

const (
	// KindInternal 存储或其他内部故障
	KindInternal Kind = iota
	// KindValidation 请求字段缺失或非法
	KindValidation
	// KindAuth 凭证缺失、非法或过期
	KindAuth
	// KindNotFound 用户/购物车/心愿单/订单/条目不存在
	KindNotFound
	// KindConflict 重复注册邮箱、重复心愿单条目
	KindConflict
	// KindInvalidState 非法的订单状态迁移
	KindInvalidState
)

// Error 携带类别的业务错误
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Validation 创建字段校验错误
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Auth 创建认证错误
func Auth(format string, args ...any) *Error {
	return &Error{Kind: KindAuth, Message: fmt.Sprintf(format, args...)}
}

// NotFound 创建资源不存在错误
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflict 创建资源冲突错误
func Conflict(format string, args ...any) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// InvalidState 创建非法状态迁移错误
func InvalidState(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

// Internal 包装内部故障，message 面向调用方，cause 仅用于日志
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: cause}
}

// KindOf 返回错误的类别，未分类错误一律视为内部错误
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is 判断错误是否属于指定类别
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// HTTPStatus 将错误类别映射为 HTTP 状态码
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict, KindInvalidState:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
