// Package report 周报 HTTP Handler
package report

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/errors"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/handler"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/response"
	"github.com/dumeirei/hotel-revenue-backend/internal/service/export"
	reportService "github.com/dumeirei/hotel-revenue-backend/internal/service/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handler 周报处理器
type Handler struct {
	reportService *reportService.Service
	totalRooms    int
	defaultDays   int
}

// NewHandler 创建周报处理器
func NewHandler(svc *reportService.Service, totalRooms, defaultDays int) *Handler {
	return &Handler{
		reportService: svc,
		totalRooms:    totalRooms,
		defaultDays:   defaultDays,
	}
}

// Weekly 生成周报
// @Summary 生成区间周报
// @Description 不传日期时取截至今天的最近 N 天，同时与上一等长区间对比
// @Tags 报表
// @Produce json
// @Param start_date query string false "开始日期 YYYY-MM-DD"
// @Param end_date query string false "结束日期 YYYY-MM-DD"
// @Param total_rooms query int false "房间总数，默认取配置"
// @Success 200 {object} response.Response{data=reportService.Document}
// @Router /api/v1/reports/weekly [get]
func (h *Handler) Weekly(c *gin.Context) {
	doc, ok := h.build(c)
	if !ok {
		return
	}
	response.Success(c, doc)
}

// Export 以 Excel 下载周报
// @Summary 导出周报 Excel
// @Tags 报表
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param start_date query string false "开始日期 YYYY-MM-DD"
// @Param end_date query string false "结束日期 YYYY-MM-DD"
// @Param total_rooms query int false "房间总数，默认取配置"
// @Success 200 {file} file
// @Router /api/v1/reports/weekly/export [get]
func (h *Handler) Export(c *gin.Context) {
	doc, ok := h.build(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.ReportXLSX(doc, &buf); err != nil {
		handler.HandleError(c, errors.ErrExportFailed.WithError(err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.ReportFilename(doc)+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) build(c *gin.Context) (*reportService.Document, bool) {
	start, end, ok := handler.ParseDateRange(c, h.defaultDays)
	if !ok {
		return nil, false
	}
	rooms, ok := handler.ParseQueryInt(c, "total_rooms", h.totalRooms)
	if !ok {
		return nil, false
	}

	doc, err := h.reportService.WeeklyReport(c.Request.Context(), start, end, rooms)
	if handler.HandleError(c, err) {
		return nil, false
	}
	return doc, true
}
