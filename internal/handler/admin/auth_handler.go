// Package admin 数据管理后台 HTTP Handler
package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/handler"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/response"
	"github.com/dumeirei/hotel-revenue-backend/internal/middleware"
	adminService "github.com/dumeirei/hotel-revenue-backend/internal/service/admin"
)

// AuthHandler 管理员认证处理器
type AuthHandler struct {
	authService *adminService.AuthService
}

// NewAuthHandler 创建管理员认证处理器
func NewAuthHandler(authService *adminService.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login 管理员登录
// @Summary 管理员登录
// @Description 连续失败达到上限后账号锁定一段时间
// @Tags 管理员认证
// @Accept json
// @Produce json
// @Param request body adminService.LoginRequest true "请求参数"
// @Success 200 {object} response.Response{data=adminService.LoginResponse}
// @Router /api/v1/admin/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req adminService.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}
	req.IP = c.ClientIP()

	result, err := h.authService.Login(c.Request.Context(), &req)
	handler.MustSucceedWithMessage(c, err, "登录成功", result)
}

// Logout 管理员退出登录
// @Summary 退出登录
// @Tags 管理员认证
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response
// @Router /api/v1/admin/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, ok := handler.RequireAdminID(c); !ok {
		return
	}

	err := h.authService.Logout(c.Request.Context(), middleware.GetClaims(c))
	handler.MustSucceedWithMessage(c, err, "已退出登录", nil)
}

// CurrentAdmin 当前登录的管理员
type CurrentAdmin struct {
	AdminID  int64  `json:"admin_id"`
	Username string `json:"username"`
}

// Me 获取当前管理员
// @Summary 获取当前管理员
// @Tags 管理员认证
// @Produce json
// @Security Bearer
// @Success 200 {object} response.Response{data=CurrentAdmin}
// @Router /api/v1/admin/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	adminID, ok := handler.RequireAdminID(c)
	if !ok {
		return
	}
	response.Success(c, CurrentAdmin{AdminID: adminID, Username: middleware.GetUsername(c)})
}
