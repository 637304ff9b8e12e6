package common

import (
	"errors"
	"fmt"

	"github.com/Phechr2025/Bio-Shop-VPN-information/logger"
)

func NewErrorf(format string, a ...any) error {
	msg := fmt.Sprintf(format, a...)
	return errors.New(msg)
}

func NewError(a ...any) error {
	msg := fmt.Sprintln(a...)
	return errors.New(msg)
}

func Recover(msg string) any {
	panicErr := recover()
	if panicErr != nil {
		if msg != "" {
			logger.Error(msg, "panic:", panicErr)
		}
	}
	return panicErr
}

// Combine 合并多个错误，忽略 nil
func Combine(errs ...error) error {
	return errors.Join(errs...)
}

// =================================================================
// 统一错误处理辅助函数
// =================================================================

// HandleError 统一错误处理，记录日志并包装错误
func HandleError(op string, err error) error {
	if err == nil {
		return nil
	}
	logger.Warningf("[%s] %v", op, err)
	return NewServiceError(op, err).WithCode(GetErrorCode(err))
}

// IgnoreError 忽略错误，仅记录警告日志
func IgnoreError(op string, err error) {
	if err != nil {
		logger.Warningf("[%s] ignored error: %v", op, err)
	}
}

// GetErrorCode 从错误中提取错误码
func GetErrorCode(err error) string {
	var se *ServiceError
	if errors.As(err, &se) && se.Code != "" {
		return se.Code
	}
	var statusErr *HTTPStatusError
	switch {
	case errors.Is(err, ErrConfigMissing):
		return ErrCodeConfigMissing
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrClientNotFound), errors.Is(err, ErrNoUsableAPI):
		return ErrCodeNotFound
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrEmptyClientID),
		errors.Is(err, ErrEmptySubID), errors.Is(err, ErrMissingFields):
		return ErrCodeInvalidInput
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrAuthFailure), errors.Is(err, ErrAdminPassword):
		return ErrCodeUnauthorized
	case errors.Is(err, ErrTransport), errors.As(err, &statusErr):
		return ErrCodeExternal
	default:
		return ErrCodeInternal
	}
}
