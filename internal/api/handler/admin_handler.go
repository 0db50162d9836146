package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/dto"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/service"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/response"
)

// AdminHandler 管理员账户 HTTP 处理器
type AdminHandler struct {
	adminSvc service.AdminService
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(adminSvc service.AdminService) *AdminHandler {
	return &AdminHandler{adminSvc: adminSvc}
}

// Create 创建管理员
// POST /admins
func (h *AdminHandler) Create(c *gin.Context) {
	var req dto.CreateAdminRequest
	if !bindJSON(c, &req) {
		return
	}

	admin, err := h.adminSvc.Create(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Created(c, admin)
}

// List 管理员列表
// GET /admins
func (h *AdminHandler) List(c *gin.Context) {
	var req dto.AccountListRequest
	if !bindQuery(c, &req) {
		return
	}

	admins, total, err := h.adminSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OKPage(c, admins, total, req.GetPage(), req.GetPageSize())
}

// Get 管理员详情
// GET /admins/:id
func (h *AdminHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	admin, err := h.adminSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, admin)
}

// Update 更新管理员
// PUT /admins/:id
func (h *AdminHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateAdminRequest
	if !bindJSON(c, &req) {
		return
	}

	admin, err := h.adminSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, admin)
}

// Delete 删除管理员
// DELETE /admins/:id
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.adminSvc.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, nil)
}
