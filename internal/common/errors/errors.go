// Package errors 定义业务错误码和错误处理
package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError 应用错误
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 实现 errors.Unwrap
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is 按错误码比较，WithMessage/WithError 派生出的错误仍与原错误匹配
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New 创建新的应用错误
func New(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装错误
func Wrap(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithMessage 修改错误消息
func (e *AppError) WithMessage(message string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: message,
		Err:     e.Err,
	}
}

// WithError 添加原始错误
func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Err:     err,
	}
}

// 通用错误码 (1000-1999)
var (
	ErrUnknown         = New(1000, "未知错误")
	ErrInvalidParams   = New(1001, "参数错误")
	ErrNotFound        = New(1002, "资源不存在")
	ErrAlreadyExists   = New(1003, "资源已存在")
	ErrDatabaseError   = New(1004, "数据库错误")
	ErrCacheError      = New(1005, "缓存错误")
	ErrInternalError   = New(1006, "内部错误")
	ErrRateLimitExceed = New(1008, "请求过于频繁")
	ErrOperationFailed = New(1009, "操作失败")
)

// 管理员认证错误码 (2000-2999)
var (
	ErrUnauthorized     = New(2000, "未登录")
	ErrTokenExpired     = New(2001, "登录已过期")
	ErrTokenInvalid     = New(2002, "无效的令牌")
	ErrPermissionDenied = New(2004, "权限不足")
	ErrAccountLocked    = New(2006, "账号已锁定")
	ErrPasswordError    = New(2007, "用户名或密码错误")
	ErrTokenRevoked     = New(2013, "令牌已注销")
)

// 营收记录错误码 (3000-3999)
var (
	ErrRecordNotFound  = New(3000, "营收记录不存在")
	ErrRecordDuplicate = New(3001, "相同日期、渠道和科目的记录已存在")
	ErrRecordInvalid   = New(3002, "营收记录数据无效")
)

// 导入导出错误码 (4000-4999)
var (
	ErrImportFormat        = New(4000, "仅支持 .xlsx 格式的 Excel 文件")
	ErrImportMissingColumn = New(4001, "Excel 缺少必要的列")
	ErrImportEmpty         = New(4002, "Excel 中没有数据")
	ErrImportTooLarge      = New(4003, "上传文件过大")
	ErrExportFailed        = New(4004, "导出失败")
)

// 报表与分析错误码 (5000-5999)
var (
	ErrInvalidRange     = New(5000, "结束日期不能早于开始日期")
	ErrInvalidRooms     = New(5001, "房间总数不能为负数")
	ErrInvalidDimension = New(5002, "不支持的分析维度")
	ErrInvalidMetric    = New(5003, "不支持的分析指标")
)

// IsAppError 判断是否为应用错误
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// GetAppError 获取应用错误
func GetAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return ErrUnknown.WithError(err)
}
