// Package handler 提供 API Handler 的通用辅助函数
// 用于减少 Handler 层的代码重复，统一错误处理、认证检查、参数解析等操作
package handler

import (
	stderrors "errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/errors"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/logger"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/response"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/utils"
	"github.com/dumeirei/hotel-revenue-backend/internal/middleware"
)

// ============================================================================
// 统一错误处理
// ============================================================================

// HandleError 处理错误并发送适当的响应
// 如果 err 为 nil，返回 false（表示无错误需要处理）
// 如果 err 不为 nil，发送错误响应并返回 true（表示已处理错误，调用方应该 return）
//
// 使用示例:
//
//	result, err := service.DoSomething()
//	if HandleError(c, err) {
//	    return
//	}
func HandleError(c *gin.Context, err error) bool {
	if err == nil {
		return false
	}

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		middleware.SetBizCode(c, appErr.Code)
		if appErr.Err != nil {
			logger.WithContext(c.Request.Context()).Warn("request failed",
				zap.Int("code", appErr.Code),
				zap.Error(appErr.Err),
			)
		}
		response.Error(c, appErr.Code, appErr.Message)
		return true
	}

	logger.WithContext(c.Request.Context()).Error("unhandled error", zap.Error(err))
	response.InternalError(c, "服务器内部错误")
	return true
}

// MustSucceed 便捷封装：如果有错误则返回错误响应，否则返回成功响应
//
//	result, err := service.GetData()
//	MustSucceed(c, err, result)
//	return  // 注意：调用 MustSucceed 后必须 return
func MustSucceed(c *gin.Context, err error, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.Success(c, data)
}

// MustSucceedWithMessage 便捷封装：带自定义成功消息
func MustSucceedWithMessage(c *gin.Context, err error, message string, data interface{}) {
	if HandleError(c, err) {
		return
	}
	response.SuccessWithMessage(c, message, data)
}

// MustSucceedPage 便捷封装：分页响应版本
func MustSucceedPage(c *gin.Context, err error, list interface{}, total int64, p utils.Pagination) {
	if HandleError(c, err) {
		return
	}
	response.SuccessPage(c, list, total, p.Offset, p.Limit)
}

// ============================================================================
// 认证检查
// ============================================================================

// RequireAdminID 获取当前管理员ID，如果未登录则返回401响应
func RequireAdminID(c *gin.Context) (int64, bool) {
	adminID := middleware.GetAdminID(c)
	if adminID == 0 {
		response.Unauthorized(c, "请先登录")
		return 0, false
	}
	return adminID, true
}

// ============================================================================
// 参数解析
// ============================================================================

// ParseID 解析路径参数 "id" 为 int64
// 返回 (0, false) 表示解析失败（已发送400响应，调用方应该 return）
func ParseID(c *gin.Context, resourceName string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "无效的"+resourceName+"ID")
		return 0, false
	}
	return id, true
}

// ParseQueryInt 解析可选的整数查询参数，参数为空时返回默认值
func ParseQueryInt(c *gin.Context, name string, def int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		response.BadRequest(c, "参数 "+name+" 必须是整数")
		return 0, false
	}
	return v, true
}

// ParseDateRange 从查询参数解析日期范围（start_date, end_date）
// 两个参数都为空时取截至今天的最近 defaultDays 天；只给一端时按 defaultDays 补齐另一端
// 返回 (zero, zero, false) 表示解析失败（已发送响应）
func ParseDateRange(c *gin.Context, defaultDays int) (time.Time, time.Time, bool) {
	if defaultDays < 1 {
		defaultDays = 7
	}
	span := defaultDays - 1

	start, ok := parseQueryDate(c, "start_date", "无效的开始日期格式")
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok := parseQueryDate(c, "end_date", "无效的结束日期格式")
	if !ok {
		return time.Time{}, time.Time{}, false
	}

	switch {
	case start.IsZero() && end.IsZero():
		end = utils.Today()
		start = end.AddDate(0, 0, -span)
	case start.IsZero():
		start = end.AddDate(0, 0, -span)
	case end.IsZero():
		end = start.AddDate(0, 0, span)
	}

	if end.Before(start) {
		HandleError(c, errors.ErrInvalidRange)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// ParseRequiredDateRange 解析必填的日期范围
func ParseRequiredDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	if c.Query("start_date") == "" || c.Query("end_date") == "" {
		response.BadRequest(c, "请指定开始和结束日期")
		return time.Time{}, time.Time{}, false
	}
	return ParseDateRange(c, 1)
}

func parseQueryDate(c *gin.Context, name, msg string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := utils.ParseDate(raw)
	if err != nil {
		response.BadRequest(c, msg)
		return time.Time{}, false
	}
	return t, true
}

// ============================================================================
// 分页处理
// ============================================================================

// BindPagination 从 offset/limit 查询参数绑定分页参数
// limit 缺省为 defaultLimit，上限为 utils.MaxLimit
//
//	p := handler.BindPagination(c, 100)
//	list, total, err := service.List(ctx, filter, p.Offset, p.Limit)
//	handler.MustSucceedPage(c, err, list, total, p)
func BindPagination(c *gin.Context, defaultLimit int) utils.Pagination {
	var p utils.Pagination
	p.Offset, _ = strconv.Atoi(c.Query("offset"))
	p.Limit, _ = strconv.Atoi(c.Query("limit"))
	p.Normalize(defaultLimit, utils.MaxLimit)
	return p
}
