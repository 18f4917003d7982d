package admin

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/handler"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/response"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/utils"
	"github.com/dumeirei/hotel-revenue-backend/internal/middleware"
	"github.com/dumeirei/hotel-revenue-backend/internal/repository"
	adminService "github.com/dumeirei/hotel-revenue-backend/internal/service/admin"
	"github.com/dumeirei/hotel-revenue-backend/internal/service/export"
	revenueService "github.com/dumeirei/hotel-revenue-backend/internal/service/revenue"
)

// RecordHandler 营收记录维护处理器
type RecordHandler struct {
	recordService *adminService.RecordService
	exportService *export.Service
	listLimit     int
}

// NewRecordHandler 创建记录维护处理器，listLimit 为列表默认条数
func NewRecordHandler(recordService *adminService.RecordService, exportService *export.Service, listLimit int) *RecordHandler {
	if listLimit <= 0 {
		listLimit = utils.MaxLimit
	}
	return &RecordHandler{
		recordService: recordService,
		exportService: exportService,
		listLimit:     listLimit,
	}
}

// Stats 数据概况
// @Summary 数据概况
// @Tags 管理-数据维护
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=repository.RevenueStats}
// @Router /api/v1/admin/stats [get]
func (h *RecordHandler) Stats(c *gin.Context) {
	stats, err := h.recordService.Stats(c.Request.Context())
	handler.MustSucceed(c, err, stats)
}

// List 记录列表
// @Summary 营收记录列表
// @Description 按营业日倒序
// @Tags 管理-数据维护
// @Produce json
// @Security Bearer
// @Param offset query int false "偏移量" default(0)
// @Param limit query int false "条数" default(1000)
// @Param start_date query string false "开始日期 YYYY-MM-DD"
// @Param end_date query string false "结束日期 YYYY-MM-DD"
// @Param channel query string false "渠道"
// @Param fee_type query string false "房费科目"
// @Param keyword query string false "客人姓名或订单号"
// @Success 200 {object} response.Response{data=response.PageData}
// @Router /api/v1/admin/records [get]
func (h *RecordHandler) List(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	p := handler.BindPagination(c, h.listLimit)

	list, total, err := h.recordService.List(c.Request.Context(), filter, p.Offset, p.Limit)
	handler.MustSucceedPage(c, err, list, total, p)
}

// Get 记录详情
// @Summary 营收记录详情
// @Tags 管理-数据维护
// @Produce json
// @Security Bearer
// @Param id path int true "记录ID"
// @Success 200 {object} response.Response{data=models.DailyRevenue}
// @Router /api/v1/admin/records/{id} [get]
func (h *RecordHandler) Get(c *gin.Context) {
	id, ok := handler.ParseID(c, "记录")
	if !ok {
		return
	}
	rec, err := h.recordService.Get(c.Request.Context(), id)
	handler.MustSucceed(c, err, rec)
}

// Update 修改记录
// @Summary 修改营收记录
// @Tags 管理-数据维护
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path int true "记录ID"
// @Param request body revenueService.RecordRequest true "营收记录"
// @Success 200 {object} response.Response{data=models.DailyRevenue}
// @Router /api/v1/admin/records/{id} [put]
func (h *RecordHandler) Update(c *gin.Context) {
	id, ok := handler.ParseID(c, "记录")
	if !ok {
		return
	}
	var req revenueService.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	rec, err := h.recordService.Update(c.Request.Context(), id, &req)
	if err == nil {
		middleware.SetAffectedRows(c, 1)
	}
	handler.MustSucceedWithMessage(c, err, "记录已更新", rec)
}

// DeletedResult 删除结果
type DeletedResult struct {
	DeletedCount int64 `json:"deleted_count"`
}

// Delete 删除记录
// @Summary 删除营收记录
// @Tags 管理-数据维护
// @Produce json
// @Security Bearer
// @Param id path int true "记录ID"
// @Success 200 {object} response.Response{data=DeletedResult}
// @Router /api/v1/admin/records/{id} [delete]
func (h *RecordHandler) Delete(c *gin.Context) {
	id, ok := handler.ParseID(c, "记录")
	if !ok {
		return
	}
	n, err := h.recordService.Delete(c.Request.Context(), id)
	h.deleted(c, err, n, "记录已删除")
}

// DeleteBatch 批量删除
// @Summary 批量删除营收记录
// @Tags 管理-数据维护
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.DeleteBatchRequest true "记录ID列表"
// @Success 200 {object} response.Response{data=DeletedResult}
// @Router /api/v1/admin/records/delete_batch [post]
func (h *RecordHandler) DeleteBatch(c *gin.Context) {
	var req adminService.DeleteBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "未选择记录")
		return
	}
	n, err := h.recordService.DeleteBatch(c.Request.Context(), req.IDs)
	h.deleted(c, err, n, "批量删除完成")
}

// DeleteByDateRange 按日期区间删除
// @Summary 按日期区间删除营收记录
// @Tags 管理-数据维护
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body adminService.DateRangeRequest true "日期区间"
// @Success 200 {object} response.Response{data=DeletedResult}
// @Router /api/v1/admin/records/delete_by_date_range [post]
func (h *RecordHandler) DeleteByDateRange(c *gin.Context) {
	var req adminService.DateRangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请指定开始和结束日期")
		return
	}
	n, err := h.recordService.DeleteByDateRange(c.Request.Context(), &req)
	h.deleted(c, err, n, "删除完成")
}

// ClearAll 清空全部记录
// @Summary 清空全部营收记录
// @Tags 管理-数据维护
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=DeletedResult}
// @Router /api/v1/admin/records/clear_all [post]
func (h *RecordHandler) ClearAll(c *gin.Context) {
	n, err := h.recordService.ClearAll(c.Request.Context())
	h.deleted(c, err, n, "已清空全部记录")
}

// Export 导出 CSV
// @Summary 导出营收记录 CSV
// @Tags 管理-数据维护
// @Produce text/csv
// @Security Bearer
// @Param start_date query string false "开始日期 YYYY-MM-DD"
// @Param end_date query string false "结束日期 YYYY-MM-DD"
// @Param channel query string false "渠道"
// @Param fee_type query string false "房费科目"
// @Param keyword query string false "客人姓名或订单号"
// @Success 200 {file} file
// @Router /api/v1/admin/records/export [get]
func (h *RecordHandler) Export(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if _, err := h.exportService.RecordsCSV(c.Request.Context(), filter, &buf); handler.HandleError(c, err) {
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.CSVFilename(time.Now())+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *RecordHandler) deleted(c *gin.Context, err error, n int64, message string) {
	if err == nil {
		middleware.SetAffectedRows(c, n)
	}
	handler.MustSucceedWithMessage(c, err, message, DeletedResult{DeletedCount: n})
}

// bindFilter 解析列表和导出共用的查询条件，日期均可选
func bindFilter(c *gin.Context) (repository.RevenueFilter, bool) {
	filter := repository.RevenueFilter{
		Channel: c.Query("channel"),
		FeeType: c.Query("fee_type"),
		Keyword: c.Query("keyword"),
	}
	for _, q := range []struct {
		name string
		dst  **time.Time
	}{
		{"start_date", &filter.StartDate},
		{"end_date", &filter.EndDate},
	} {
		raw := c.Query(q.name)
		if raw == "" {
			continue
		}
		t, err := utils.ParseDate(raw)
		if err != nil {
			response.BadRequest(c, "无效的日期格式: "+raw)
			return filter, false
		}
		*q.dst = &t
	}
	return filter, true
}
