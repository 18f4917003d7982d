// Package revenue 营收录入 HTTP Handler
package revenue

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/handler"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/response"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/utils"
	"github.com/dumeirei/hotel-revenue-backend/internal/middleware"
	revenueService "github.com/dumeirei/hotel-revenue-backend/internal/service/revenue"
)

// Handler 营收记录处理器
type Handler struct {
	revenueService *revenueService.Service
}

// NewHandler 创建营收记录处理器
func NewHandler(svc *revenueService.Service) *Handler {
	return &Handler{revenueService: svc}
}

// Create 新增营收记录
// @Summary 新增营收记录
// @Tags 营收录入
// @Accept json
// @Produce json
// @Param request body revenueService.RecordRequest true "营收记录"
// @Success 200 {object} response.Response{data=models.DailyRevenue}
// @Router /api/v1/revenues [post]
func (h *Handler) Create(c *gin.Context) {
	var req revenueService.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	rec, err := h.revenueService.Create(c.Request.Context(), &req)
	if err == nil {
		middleware.SetAffectedRows(c, 1)
	}
	handler.MustSucceedWithMessage(c, err, "添加成功", rec)
}

// Get 获取营收记录
// @Summary 获取营收记录
// @Tags 营收录入
// @Produce json
// @Param id path int true "记录ID"
// @Success 200 {object} response.Response{data=models.DailyRevenue}
// @Router /api/v1/revenues/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := handler.ParseID(c, "记录")
	if !ok {
		return
	}

	rec, err := h.revenueService.Get(c.Request.Context(), id)
	handler.MustSucceed(c, err, rec)
}

// Update 修改营收记录
// @Summary 修改营收记录
// @Tags 营收录入
// @Accept json
// @Produce json
// @Param id path int true "记录ID"
// @Param request body revenueService.RecordRequest true "营收记录"
// @Success 200 {object} response.Response{data=models.DailyRevenue}
// @Router /api/v1/revenues/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, ok := handler.ParseID(c, "记录")
	if !ok {
		return
	}

	var req revenueService.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	rec, err := h.revenueService.Update(c.Request.Context(), id, &req)
	if err == nil {
		middleware.SetAffectedRows(c, 1)
	}
	handler.MustSucceedWithMessage(c, err, "更新成功", rec)
}

// View 按年月浏览营收记录
// @Summary 按年月浏览营收记录
// @Description month=0 返回全年
// @Tags 营收录入
// @Produce json
// @Param year query int false "年份，默认今年"
// @Param month query int false "月份，默认本月"
// @Success 200 {object} response.Response{data=revenueService.MonthView}
// @Router /api/v1/revenues/view [get]
func (h *Handler) View(c *gin.Context) {
	today := utils.Today()
	year, ok := handler.ParseQueryInt(c, "year", today.Year())
	if !ok {
		return
	}
	month, ok := handler.ParseQueryInt(c, "month", int(today.Month()))
	if !ok {
		return
	}

	view, err := h.revenueService.View(c.Request.Context(), year, month)
	handler.MustSucceed(c, err, view)
}
