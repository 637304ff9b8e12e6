package common

import (
	"errors"
	"fmt"
	"strings"
)

// =================================================================
// 错误码常量
// =================================================================

const (
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeUnauthorized  = "UNAUTHORIZED"
	ErrCodeInternal      = "INTERNAL"
	ErrCodeExternal      = "EXTERNAL"
	ErrCodeConfigMissing = "CONFIG_MISSING"
)

// =================================================================
// ServiceError 服务层错误包装
// =================================================================

type ServiceError struct {
	Op   string // 操作名称，如 "LookupService.Lookup"
	Code string // 错误码，如 "NOT_FOUND"
	Err  error  // 原始错误
}

func (e *ServiceError) Error() string {
	var sb strings.Builder
	if e.Op != "" {
		sb.WriteString("[")
		sb.WriteString(e.Op)
		sb.WriteString("] ")
	}
	if e.Code != "" {
		sb.WriteString("(")
		sb.WriteString(e.Code)
		sb.WriteString(") ")
	}
	if e.Err != nil {
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError 创建服务层错误
func NewServiceError(op string, err error) *ServiceError {
	return &ServiceError{
		Op:  op,
		Err: err,
	}
}

// WithCode 添加错误码
func (e *ServiceError) WithCode(code string) *ServiceError {
	e.Code = code
	return e
}

// Wrap 快速包装错误
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return NewServiceError(op, err)
}

// Wrapf 带格式化消息包装错误
func Wrapf(op string, err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	return NewServiceError(op, fmt.Errorf("%s: %w", msg, err))
}

// =================================================================
// 通用错误定义
// =================================================================

var (
	// ErrNotFound 资源未找到
	ErrNotFound = errors.New("资源未找到")

	// ErrInvalidInput 无效输入
	ErrInvalidInput = errors.New("无效输入")

	// ErrUnauthorized 未授权
	ErrUnauthorized = errors.New("未授权访问")
)

// =================================================================
// 配置相关错误
// =================================================================

var (
	// ErrConfigMissing 尚未保存面板/订阅地址配置
	ErrConfigMissing = errors.New("尚未配置面板连接信息")
)

// =================================================================
// 面板相关错误
// =================================================================

var (
	// ErrAuthFailure 面板登录失败（被拒绝或请求出错）
	ErrAuthFailure = errors.New("面板登录失败")

	// ErrNoUsableAPI 所有候选 inbounds 接口都不可用
	ErrNoUsableAPI = errors.New("没有可用的 inbounds API")

	// ErrClientNotFound 在所有 inbound 中都找不到该客户端
	ErrClientNotFound = errors.New("客户端未找到")
)

// =================================================================
// 外部请求相关错误
// =================================================================

var (
	// ErrTransport 访问外部地址时的网络错误
	ErrTransport = errors.New("外部请求失败")
)

// HTTPStatusError 外部地址返回了非 2xx 状态码
type HTTPStatusError struct {
	URL        string
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("%s 返回状态码 %d", e.URL, e.StatusCode)
}

// =================================================================
// 输入校验相关错误
// =================================================================

var (
	// ErrEmptyClientID 未填写 Client ID
	ErrEmptyClientID = errors.New("client id 不能为空")

	// ErrEmptySubID 未填写订阅 ID
	ErrEmptySubID = errors.New("subscription id 不能为空")

	// ErrMissingFields 管理页必填项为空
	ErrMissingFields = errors.New("必填项不能为空")

	// ErrAdminPassword 管理密码错误
	ErrAdminPassword = errors.New("管理密码错误")
)

// =================================================================
// 辅助函数
// =================================================================

// IsNotFoundError 检查是否为未找到错误
func IsNotFoundError(err error) bool {
	return GetErrorCode(err) == ErrCodeNotFound
}

// IsValidationError 检查是否为输入校验错误
func IsValidationError(err error) bool {
	return GetErrorCode(err) == ErrCodeInvalidInput || errors.Is(err, ErrAdminPassword)
}
