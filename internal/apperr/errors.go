// Package apperr 定义服务层统一使用的错误类型及其到 HTTP 状态码的映射。
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 错误分类
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidArgument
	KindUnauthenticated
	KindConflict
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindUnauthenticated:
		return "UNAUTHENTICATED"
	case KindConflict:
		return "CONFLICT"
	case KindNotFound:
		return "NOT_FOUND"
	default:
		return "INTERNAL"
	}
}

// AppError 业务错误，Message 可以直接返回给客户端
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Wrap(err error, kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

func InvalidArgument(message string) *AppError { return New(KindInvalidArgument, message) }
func Unauthenticated(message string) *AppError { return New(KindUnauthenticated, message) }
func Conflict(message string) *AppError        { return New(KindConflict, message) }
func NotFound(message string) *AppError        { return New(KindNotFound, message) }

// Internal 包装底层错误，客户端只会看到通用提示
func Internal(err error, message string) *AppError {
	return Wrap(err, KindInternal, message)
}

// KindOf 返回错误的分类，非 AppError 视为内部错误
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is 判断 err 是否属于指定分类
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus 冲突沿用 400，保持与既有客户端兼容
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidArgument, KindConflict:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage 返回可以暴露给客户端的错误信息
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return appErr.Message
	}
	return "Internal server error"
}
