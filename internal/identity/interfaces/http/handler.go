package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/linjx/gomall/internal/identity/application"
	"github.com/linjx/gomall/internal/identity/domain"
	"github.com/linjx/gomall/pkg/apperr"
	"github.com/linjx/gomall/pkg/metrics"
	"github.com/linjx/gomall/pkg/middleware"
	"github.com/linjx/gomall/pkg/response"
)

// Handler 认证与用户资料 HTTP 处理器
type Handler struct {
	cmd     *application.AuthCommandService
	query   *application.AuthQueryService
	metrics *metrics.Metrics
}

// NewHandler 创建 HTTP 处理器实例
func NewHandler(cmd *application.AuthCommandService, query *application.AuthQueryService, m *metrics.Metrics) *Handler {
	return &Handler{cmd: cmd, query: query, metrics: m}
}

// RegisterRoutes 注册路由，public 为免鉴权组，authed 为 Bearer 鉴权组
func (h *Handler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.POST("/register", h.Register)
	public.POST("/login", h.Login)
	authed.GET("/profile", h.Profile)
	authed.POST("/add-phone", h.AddPhone)
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

// Register 用户注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("%s", err.Error()))
		return
	}

	user, err := h.cmd.Register(c.Request.Context(), application.RegisterCommand{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.UsersRegisteredTotal.Inc()
	}
	response.SuccessWithStatus(c, http.StatusCreated, userView(user))
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("%s", err.Error()))
		return
	}

	result, err := h.cmd.Login(c.Request.Context(), application.LoginCommand{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"token":      result.Token,
		"type":       "Bearer",
		"expires_at": result.ExpiresAt.Unix(),
		"user_id":    result.UserID,
	})
}

// Profile 获取当前用户资料
func (h *Handler) Profile(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, apperr.Auth("missing identity"))
		return
	}

	user, err := h.query.Profile(c.Request.Context(), identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, userView(user))
}

// AddPhoneRequest 更新联系电话请求
type AddPhoneRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// AddPhone 更新当前用户联系电话
func (h *Handler) AddPhone(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, apperr.Auth("missing identity"))
		return
	}

	var req AddPhoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("%s", err.Error()))
		return
	}

	user, err := h.cmd.AddPhone(c.Request.Context(), identity.UserID, req.Phone)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, userView(user))
}

// userView 序列化用户资料，凭证散列不外泄
func userView(u *domain.User) gin.H {
	return gin.H{
		"user_id":    u.UserID,
		"name":       u.Name,
		"email":      u.Email,
		"phone":      u.Phone,
		"created_at": u.CreatedAt,
	}
}
