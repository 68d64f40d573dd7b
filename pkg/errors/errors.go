package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError 自定义应用错误
// 设计说明：
// 1. Code用于客户端判断错误类型，前三位与HTTP状态码一致（40400 → 404）
// 2. Message是用户友好的提示信息
// 3. Fields是字段级错误明细（一次校验收集到的全部原因）
// 4. Err是内部错误，仅记录到日志，不返回给客户端（防止泄露敏感信息）
type AppError struct {
	Code    int          `json:"code"`             // 业务错误码
	Message string       `json:"message"`          // 用户友好的错误提示
	Fields  []FieldError `json:"fields,omitempty"` // 字段级错误明细
	Err     error        `json:"-"`                // 内部错误（不序列化）
}

// FieldError 单个字段(或单条规则)的失败原因
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 支持errors.Is和errors.As
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，便于 errors.Is(err, ErrCountryNotFound) 判断
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// HTTPStatus 错误码对应的HTTP状态码
func (e *AppError) HTTPStatus() int {
	status := e.Code / 100
	if http.StatusText(status) == "" {
		return http.StatusInternalServerError
	}
	return status
}

// WithFields 返回携带字段明细的副本（预定义错误是共享变量，不能原地修改）
func (e *AppError) WithFields(fields ...FieldError) *AppError {
	cp := *e
	cp.Fields = append(append([]FieldError(nil), e.Fields...), fields...)
	return &cp
}

// WithMessage 返回替换了提示信息的副本
func (e *AppError) WithMessage(message string) *AppError {
	cp := *e
	cp.Message = message
	return &cp
}

// New 创建新的AppError
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装系统错误（如数据库错误、网络错误）
// 用途：将底层错误转换为业务错误，隐藏实现细节
func Wrap(err error, message string) *AppError {
	return &AppError{
		Code:    ErrCodeDatabaseError,
		Message: message,
		Err:     err,
	}
}

// Wrapf 格式化包装错误
func Wrapf(err error, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    ErrCodeDatabaseError,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

// =========================================
// 错误码定义
// =========================================
// 规范：错误码前三位即HTTP状态码
// - 400xx: 参数错误（字段约束、ID不一致）
// - 401xx: 认证错误
// - 403xx: 权限不足
// - 404xx: 资源不存在
// - 409xx: 冲突（存在依赖数据，禁止删除）
// - 422xx: 重复记录（自然键冲突）
// - 429xx: 限流
// - 500xx: 服务端错误（数据库异常）

const (
	// 参数错误（40000-40099）
	ErrCodeInvalidParams = 40000 // 参数错误(通用)
	ErrCodeBindError     = 40001 // 参数绑定失败
	ErrCodeIDMismatch    = 40002 // 请求体ID与路径ID不一致

	// 认证错误（40100-40199）
	ErrCodeUnauthorized = 40100 // 未登录
	ErrCodeInvalidToken = 40101 // Token无效
	ErrCodeTokenExpired = 40102 // Token过期

	// 权限错误（40300-40399）
	ErrCodeForbidden = 40300 // Token缺少所需权限

	// 资源错误（40400-40499）
	ErrCodeNotFound         = 40400 // 资源不存在(通用)
	ErrCodeCountryNotFound  = 40401 // 国家不存在
	ErrCodeAuthorNotFound   = 40402 // 作者不存在
	ErrCodeCategoryNotFound = 40403 // 分类不存在
	ErrCodeBookNotFound     = 40404 // 图书不存在
	ErrCodeReviewerNotFound = 40405 // 评论者不存在
	ErrCodeReviewNotFound   = 40406 // 书评不存在

	// 冲突（40900-40999）
	ErrCodeConflict = 40900 // 存在依赖数据

	// 重复记录（42200-42299）
	ErrCodeDuplicateEntry = 42200 // 重复记录(通用)

	// 限流（42900-42999）
	ErrCodeTooManyRequests = 42900

	// 系统级错误码（50000-50099）
	ErrCodeInternal      = 50000 // 内部错误
	ErrCodeDatabaseError = 50001 // 数据库错误
	ErrCodeRedisError    = 50002 // Redis错误
)

// =========================================
// 预定义错误（避免每次都New）
// =========================================

var (
	// 系统错误
	ErrInternal      = New(ErrCodeInternal, "系统内部错误")
	ErrDatabaseError = New(ErrCodeDatabaseError, "数据库错误")
	ErrRedisError    = New(ErrCodeRedisError, "缓存服务错误")

	// 认证
	ErrUnauthorized = New(ErrCodeUnauthorized, "请先登录")
	ErrInvalidToken = New(ErrCodeInvalidToken, "无效的Token")
	ErrTokenExpired = New(ErrCodeTokenExpired, "Token已过期")
	ErrForbidden    = New(ErrCodeForbidden, "权限不足")

	// 参数错误
	ErrInvalidParams = New(ErrCodeInvalidParams, "参数错误")
	ErrBindError     = New(ErrCodeBindError, "参数格式错误")
	ErrIDMismatch    = New(ErrCodeIDMismatch, "请求体ID与路径ID不一致")

	// 通用
	ErrNotFound        = New(ErrCodeNotFound, "资源不存在")
	ErrConflict        = New(ErrCodeConflict, "存在关联数据，无法删除")
	ErrDuplicateEntry  = New(ErrCodeDuplicateEntry, "记录已存在")
	ErrTooManyRequests = New(ErrCodeTooManyRequests, "请求过于频繁")
)

// =========================================
// 结果分类
// =========================================

// Outcome 操作结果的封闭集合，传输层据此映射状态码
type Outcome int

const (
	OutcomeOK Outcome = iota
	OutcomeInvalid
	OutcomeNotFound
	OutcomeDuplicate
	OutcomeConflict
	OutcomeStorageFailure
)

// String 返回结果名称（用作指标标签）
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeConflict:
		return "conflict"
	default:
		return "storage_failure"
	}
}

// OutcomeOf 把任意error归入结果集合
// nil → OK；非AppError一律视为存储失败
func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeOK
	}
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return OutcomeStorageFailure
	}
	switch appErr.HTTPStatus() {
	case http.StatusBadRequest:
		return OutcomeInvalid
	case http.StatusNotFound:
		return OutcomeNotFound
	case http.StatusUnprocessableEntity:
		return OutcomeDuplicate
	case http.StatusConflict:
		return OutcomeConflict
	default:
		return OutcomeStorageFailure
	}
}

// =========================================
// 辅助函数
// =========================================

// IsAppError 判断是否为AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError 提取AppError（如果不是AppError则包装成Internal错误）
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{Code: ErrCodeInternal, Message: "系统内部错误", Err: err}
}
