package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/service"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// Gradebook 导出课程成绩册
// GET /courses/:id/gradebook
func (h *ExportHandler) Gradebook(c *gin.Context) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.Gradebook(c.Request.Context(), courseID)
	if err != nil {
		response.FromError(c, err)
		return
	}

	// 设置下载响应头
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
