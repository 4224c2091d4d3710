package errors

import (
	"errors"
	"fmt"
)

// ErrorCode 错误码类型
type ErrorCode string

const (
	CodeInvalidInput       ErrorCode = "INVALID_INPUT"
	CodeNotFound           ErrorCode = "NOT_FOUND"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeChannelUnavailable ErrorCode = "CHANNEL_UNAVAILABLE"
	CodeDeliveryFailed     ErrorCode = "DELIVERY_FAILED"
	CodeStoreUnavailable   ErrorCode = "STORE_UNAVAILABLE"
	CodePersistFailed      ErrorCode = "PERSIST_FAILED"
	CodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// AppError 应用错误
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// Detail 返回底层错误文本, 无底层错误时返回空串。
// 对外展示诊断信息时用它, 避免带错误码前缀的 Error() 全文。
func (e *AppError) Detail() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return ""
}

// NewInvalidInputError 创建无效输入错误
func NewInvalidInputError(message string) *AppError {
	return &AppError{Code: CodeInvalidInput, Message: message}
}

// NewNotFoundError 创建未找到错误
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: CodeNotFound, Message: message}
}

// NewForbiddenError 创建权限不足错误
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: CodeForbidden, Message: message}
}

// NewChannelUnavailableError 创建频道不可用错误
func NewChannelUnavailableError(message string, cause error) *AppError {
	return &AppError{Code: CodeChannelUnavailable, Message: message, Err: cause}
}

// NewDeliveryFailedError 创建投递失败错误
func NewDeliveryFailedError(message string, cause error) *AppError {
	return &AppError{Code: CodeDeliveryFailed, Message: message, Err: cause}
}

// NewStoreUnavailableError 创建存储不可达错误
func NewStoreUnavailableError(message string, cause error) *AppError {
	return &AppError{Code: CodeStoreUnavailable, Message: message, Err: cause}
}

// NewPersistFailedError 创建持久化失败错误
func NewPersistFailedError(message string, cause error) *AppError {
	return &AppError{Code: CodePersistFailed, Message: message, Err: cause}
}

// NewInternalError 创建内部错误
func NewInternalError(message string) *AppError {
	return &AppError{Code: CodeInternal, Message: message}
}

// NewInternalErrorWithCause 创建带原因的内部错误
func NewInternalErrorWithCause(message string, cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: message, Err: cause}
}

// CodeOf 提取错误码, 非 AppError 时返回 CodeInternal
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// IsCode 判断错误是否携带指定错误码
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsInvalidInput 判断是否为无效输入错误
func IsInvalidInput(err error) bool {
	return IsCode(err, CodeInvalidInput)
}

// IsForbidden 判断是否为权限不足错误
func IsForbidden(err error) bool {
	return IsCode(err, CodeForbidden)
}
