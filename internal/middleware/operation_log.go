package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/logger"
)

// ContextKeyAffectedRows 处理函数写入的受影响记录数
const ContextKeyAffectedRows = "affected_rows"

// OperationConfig 操作描述
type OperationConfig struct {
	Module string
	Action string
}

// operationMap 需要记录操作日志的管理接口，键为 "METHOD 路由"
var operationMap = map[string]OperationConfig{
	"POST /api/v1/admin/imports":                      {Module: "import", Action: "import_excel"},
	"PUT /api/v1/admin/records/:id":                   {Module: "record", Action: "update"},
	"DELETE /api/v1/admin/records/:id":                {Module: "record", Action: "delete"},
	"POST /api/v1/admin/records/delete_batch":         {Module: "record", Action: "delete_batch"},
	"POST /api/v1/admin/records/delete_by_date_range": {Module: "record", Action: "delete_by_date_range"},
	"POST /api/v1/admin/records/clear_all":            {Module: "record", Action: "clear_all"},
	"POST /api/v1/revenues":                           {Module: "revenue", Action: "create"},
	"PUT /api/v1/revenues/:id":                        {Module: "revenue", Action: "update"},
	"DELETE /api/v1/revenues/:id":                     {Module: "revenue", Action: "delete"},
}

// OperationLogger 操作日志中间件，把管理端写操作记录到 zap
type OperationLogger struct {
	log *zap.Logger
}

// NewOperationLogger 创建操作日志中间件
func NewOperationLogger(log *zap.Logger) *OperationLogger {
	return &OperationLogger{log: log.Named("oplog")}
}

// SetAffectedRows 记录本次操作影响的记录数
func SetAffectedRows(c *gin.Context, n int64) {
	c.Set(ContextKeyAffectedRows, n)
}

// Log 操作日志中间件处理函数
func (l *OperationLogger) Log() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isWriteMethod(c.Request.Method) {
			c.Next()
			return
		}

		c.Next()

		op, ok := operationMap[c.Request.Method+" "+c.FullPath()]
		if !ok {
			return
		}

		fields := []zap.Field{
			logger.Module(op.Module),
			logger.Action(op.Action),
			zap.String("admin", GetUsername(c)),
			logger.RequestID(GetRequestID(c)),
			logger.IP(c.ClientIP()),
			logger.StatusCode(c.Writer.Status()),
		}
		if adminID := GetAdminID(c); adminID > 0 {
			fields = append(fields, logger.AdminID(adminID))
		}
		if id := c.Param("id"); id != "" {
			fields = append(fields, zap.String("target_id", id))
		}
		if n, ok := c.Get(ContextKeyAffectedRows); ok {
			if rows, ok := n.(int64); ok {
				fields = append(fields, logger.Rows(rows))
			}
		}

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			l.log.Warn("admin operation failed", fields...)
			return
		}
		l.log.Info("admin operation", fields...)
	}
}

func isWriteMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
