// Package response 提供统一的 API 响应格式
//
// 业务错误统一返回 HTTP 200，由 code 区分；参数、认证、限流等协议层错误使用对应的 HTTP 状态码，code 与状态码相同。
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CodeSuccess 成功响应的 code
const CodeSuccess = 0

// Response API 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PageData 分页数据结构
type PageData struct {
	List   interface{} `json:"list"`
	Total  int64       `json:"total"`
	Offset int         `json:"offset"`
	Limit  int         `json:"limit"`
}

func write(c *gin.Context, status, code int, message string, data interface{}) {
	c.JSON(status, Response{Code: code, Message: message, Data: data})
}

// writeStatus 协议层错误，message 为空时使用默认文案
func writeStatus(c *gin.Context, status int, message, fallback string) {
	if message == "" {
		message = fallback
	}
	write(c, status, status, message, nil)
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, CodeSuccess, "success", data)
}

// SuccessWithMessage 成功响应（带消息）
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	write(c, http.StatusOK, CodeSuccess, message, data)
}

// SuccessPage 分页成功响应
func SuccessPage(c *gin.Context, list interface{}, total int64, offset, limit int) {
	write(c, http.StatusOK, CodeSuccess, "success", PageData{List: list, Total: total, Offset: offset, Limit: limit})
}

// Error 业务错误响应
func Error(c *gin.Context, code int, message string) {
	write(c, http.StatusOK, code, message, nil)
}

func BadRequest(c *gin.Context, message string) {
	writeStatus(c, http.StatusBadRequest, message, "参数错误")
}

func Unauthorized(c *gin.Context, message string) {
	writeStatus(c, http.StatusUnauthorized, message, "请先登录")
}

func RequestEntityTooLarge(c *gin.Context, message string) {
	writeStatus(c, http.StatusRequestEntityTooLarge, message, "上传内容过大")
}

func TooManyRequests(c *gin.Context, message string) {
	writeStatus(c, http.StatusTooManyRequests, message, "请求过于频繁")
}

func InternalError(c *gin.Context, message string) {
	writeStatus(c, http.StatusInternalServerError, message, "服务器内部错误")
}
