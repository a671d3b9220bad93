package pkg

import (
	"errors"
	"net/http"
)

type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindInternal     Kind = "internal"
)

// AppError 业务错误，Kind 决定 HTTP 状态码；Fields 仅用于校验失败
type AppError struct {
	Kind    Kind
	Message string
	Fields  map[string][]string
}

func (e *AppError) Error() string {
	return e.Message
}

func NewError(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Validation(message string, fields map[string][]string) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Fields: fields}
}

// FieldError 单个字段的校验失败
func FieldError(field, message string) *AppError {
	return Validation(message, map[string][]string{field: {message}})
}

func Unauthorized(message string) *AppError {
	return NewError(KindUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return NewError(KindForbidden, message)
}

func NotFound(message string) *AppError {
	return NewError(KindNotFound, message)
}

func Conflict(message string) *AppError {
	return NewError(KindConflict, message)
}

// KindOf 非 AppError 一律视为内部错误
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func StatusOf(kind Kind) int {
	switch kind {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
