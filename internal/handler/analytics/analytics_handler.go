// Package analytics 数据分析 HTTP Handler
package analytics

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/handler"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/response"
	analyticsService "github.com/dumeirei/hotel-revenue-backend/internal/service/analytics"
)

// Handler 数据分析处理器
type Handler struct {
	analyticsService *analyticsService.Service
}

// NewHandler 创建数据分析处理器
func NewHandler(svc *analyticsService.Service) *Handler {
	return &Handler{analyticsService: svc}
}

// Query 执行结构化分析查询
// @Summary 结构化分析查询
// @Description 维度、指标和图表类型均为白名单取值
// @Tags 数据分析
// @Accept json
// @Produce json
// @Param request body analyticsService.Query true "查询条件"
// @Success 200 {object} response.Response{data=analyticsService.Result}
// @Router /api/v1/analytics/query [post]
func (h *Handler) Query(c *gin.Context) {
	var q analyticsService.Query
	if err := c.ShouldBindJSON(&q); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	result, err := h.analyticsService.Run(c.Request.Context(), &q)
	handler.MustSucceed(c, err, result)
}
