package apperr

import (
	"errors"
	"net/http"
)

// Kind 错误分类，handler 层按分类决定 HTTP 状态码
type Kind int

const (
	KindStorage Kind = iota // 零值：未识别的错误一律按存储错误处理
	KindValidation
	KindNotFound
	KindUnauthenticated
	KindAuthorization
	KindMethodNotAllowed
)

// Error 带分类和消息码的业务错误。Message 可以直接展示给调用方，Err 只进日志
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Storage 包装底层持久化错误，对外只暴露通用消息
func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Code: "storage_error", Message: "internal server error", Err: err}
}

// As 取出错误链上的 *Error，不是业务错误时按存储错误包装
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Storage(err)
}

// KindOf 返回错误的分类
func KindOf(err error) Kind {
	return As(err).Kind
}

func IsValidation(err error) bool { return err != nil && KindOf(err) == KindValidation }

func IsNotFound(err error) bool { return err != nil && KindOf(err) == KindNotFound }

// Status 分类对应的 HTTP 状态码
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}
