package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/dto"
	"github.com/PashaShevchuk/course-management-system-api-sub000/internal/service"
	"github.com/PashaShevchuk/course-management-system-api-sub000/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 登录
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Created(c, result)
}

// Logout 登出：清除当前账户的缓存 Token
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	h.authSvc.DeclineToken(c.Request.Context(), role, userID)
	response.OK(c, nil)
}

// Me 当前账户信息
// GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	role, ok := MustGetRole(c)
	if !ok {
		return
	}

	me, err := h.authSvc.Me(c.Request.Context(), role, userID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.OK(c, me)
}
