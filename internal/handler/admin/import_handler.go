package admin

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/errors"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/handler"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/response"
	"github.com/dumeirei/hotel-revenue-backend/internal/middleware"
	"github.com/dumeirei/hotel-revenue-backend/internal/service/importer"
)

// ImportHandler Excel 导入处理器
type ImportHandler struct {
	importService *importer.Service
}

// NewImportHandler 创建导入处理器
func NewImportHandler(importService *importer.Service) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// Import 上传并导入 Excel
// @Summary 导入营收 Excel
// @Description 仅支持 .xlsx，必须包含 统计渠道/营业日/房费科目/间夜数/房费 列，已存在的订单跳过
// @Tags 管理-数据维护
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param file formData file true "Excel 文件"
// @Success 200 {object} response.Response{data=importer.Result}
// @Router /api/v1/admin/imports [post]
func (h *ImportHandler) Import(c *gin.Context) {
	if _, ok := handler.RequireAdminID(c); !ok {
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			response.RequestEntityTooLarge(c, errors.ErrImportTooLarge.Message)
			return
		}
		response.BadRequest(c, "请选择要上传的文件")
		return
	}

	file, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "无法读取上传的文件")
		return
	}
	defer file.Close()

	result, err := h.importService.Import(c.Request.Context(), fh.Filename, file)
	if err == nil {
		middleware.SetAffectedRows(c, int64(result.Imported))
	}
	handler.MustSucceedWithMessage(c, err, "导入完成", result)
}
