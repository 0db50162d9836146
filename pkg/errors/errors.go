package errors

import (
	"errors"
	"net/http"
)

// Kind 业务错误分类，决定 HTTP 状态码
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindBadRequest
)

// Status 返回错误分类对应的 HTTP 状态码
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error 带分类的业务错误
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// New 创建指定分类的错误
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(message string) *Error   { return New(KindValidation, message) }
func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }
func Forbidden(message string) *Error    { return New(KindForbidden, message) }
func NotFound(message string) *Error     { return New(KindNotFound, message) }
func BadRequest(message string) *Error   { return New(KindBadRequest, message) }

// KindOf 提取错误链中的业务分类；未分类错误视为 Internal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As 是标准库 errors.As 的转发，避免调用方同时导入两个 errors 包
func As(err error, target any) bool { return errors.As(err, target) }

// Is 是标准库 errors.Is 的转发
func Is(err, target error) bool { return errors.Is(err, target) }
