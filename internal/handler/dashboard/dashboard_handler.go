// Package dashboard 经营看板 HTTP Handler
package dashboard

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/handler"
	dashboardService "github.com/dumeirei/hotel-revenue-backend/internal/service/dashboard"
)

// Handler 看板处理器
type Handler struct {
	dashboardService *dashboardService.Service
}

// NewHandler 创建看板处理器
func NewHandler(svc *dashboardService.Service) *Handler {
	return &Handler{dashboardService: svc}
}

// Get 获取看板数据
// @Summary 经营看板
// @Description 本周、上周、本月的收入、间夜、平均房价、出租率和 RevPAR
// @Tags 看板
// @Produce json
// @Success 200 {object} response.Response{data=dashboardService.Dashboard}
// @Router /api/v1/dashboard [get]
func (h *Handler) Get(c *gin.Context) {
	data, err := h.dashboardService.Get(c.Request.Context())
	handler.MustSucceed(c, err, data)
}
