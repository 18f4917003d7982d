// Package middleware 提供 HTTP 中间件
package middleware

import (
	"net"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/logger"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/response"
)

// 上下文键
const (
	ContextKeyRequestID = "request_id"
	ContextKeyBizCode   = "biz_code"
)

// RequestID 请求 ID 中间件，同时把带 request_id 的日志器放入请求 context
func RequestID(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(ContextKeyRequestID, requestID)
		c.Header("X-Request-ID", requestID)

		if base != nil {
			ctx := logger.NewContext(c.Request.Context(), base.With(logger.RequestID(requestID)))
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// GetRequestID 获取请求 ID
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextKeyRequestID)
}

// SetBizCode 记录本次请求返回的业务错误码，供访问日志和追踪使用
func SetBizCode(c *gin.Context, code int) {
	c.Set(ContextKeyBizCode, code)
}

// GetBizCode 获取业务错误码，成功请求返回 0
func GetBizCode(c *gin.Context) int {
	return c.GetInt(ContextKeyBizCode)
}

// Recovery 恢复中间件
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered",
					logger.RequestID(GetRequestID(c)),
					logger.Method(c.Request.Method),
					logger.Path(c.Request.URL.Path),
					logger.IP(c.ClientIP()),
					zap.Any("error", err),
					zap.String("stack", string(debug.Stack())),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Response{
					Code:    500,
					Message: "服务器内部错误",
				})
			}
		}()

		c.Next()
	}
}

// RealIP 用代理头中的客户端地址覆盖 RemoteAddr，登录失败计数和限流按该地址区分。
// 只有直连对端属于 trustedProxies（IP 或 CIDR）时才读取代理头，列表为空时不信任任何代理头。
func RealIP(trustedProxies []string) gin.HandlerFunc {
	trusted := parseProxies(trustedProxies)
	return func(c *gin.Context) {
		host, _, err := net.SplitHostPort(c.Request.RemoteAddr)
		if err != nil {
			host = c.Request.RemoteAddr
		}
		if !isTrusted(net.ParseIP(host), trusted) {
			c.Next()
			return
		}

		ip := strings.TrimSpace(c.GetHeader("X-Real-IP"))
		if net.ParseIP(ip) == nil {
			ip = forwardedFor(c.GetHeader("X-Forwarded-For"), trusted)
		}
		if ip != "" {
			c.Request.RemoteAddr = net.JoinHostPort(ip, "0")
		}

		c.Next()
	}
}

// forwardedFor 从右往左跳过可信代理，返回第一个不可信地址
// X-Forwarded-For: client, proxy1, proxy2
func forwardedFor(header string, trusted []*net.IPNet) string {
	if header == "" {
		return ""
	}
	parts := strings.Split(header, ",")
	for i := len(parts) - 1; i >= 0; i-- {
		ip := net.ParseIP(strings.TrimSpace(parts[i]))
		if ip == nil {
			return ""
		}
		if i == 0 || !isTrusted(ip, trusted) {
			return ip.String()
		}
	}
	return ""
}

func parseProxies(list []string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(list))
	for _, item := range list {
		item = strings.TrimSpace(item)
		if !strings.Contains(item, "/") {
			ip := net.ParseIP(item)
			if ip == nil {
				continue
			}
			bits := 128
			if ip.To4() != nil {
				ip, bits = ip.To4(), 32
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		if _, n, err := net.ParseCIDR(item); err == nil {
			nets = append(nets, n)
		}
	}
	return nets
}

func isTrusted(ip net.IP, trusted []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, n := range trusted {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// SecureHeaders 安全头中间件
func SecureHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		c.Next()
	}
}

// RequestSizeLimiter 请求大小限制中间件，用于文件上传
func RequestSizeLimiter(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			response.RequestEntityTooLarge(c, "上传文件过大")
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
