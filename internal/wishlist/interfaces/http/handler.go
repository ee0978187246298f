package http

import (
	"github.com/gin-gonic/gin"

	"github.com/linjx/gomall/internal/wishlist/application"
	"github.com/linjx/gomall/internal/wishlist/domain"
	"github.com/linjx/gomall/pkg/apperr"
	"github.com/linjx/gomall/pkg/metrics"
	"github.com/linjx/gomall/pkg/middleware"
	"github.com/linjx/gomall/pkg/response"
)

// Handler 心愿单 HTTP 处理器
type Handler struct {
	cmd     *application.WishlistCommandService
	query   *application.WishlistQueryService
	metrics *metrics.Metrics
}

// NewHandler 创建 HTTP 处理器实例
func NewHandler(cmd *application.WishlistCommandService, query *application.WishlistQueryService, m *metrics.Metrics) *Handler {
	return &Handler{cmd: cmd, query: query, metrics: m}
}

// RegisterRoutes 注册路由，心愿单操作全部要求鉴权
func (h *Handler) RegisterRoutes(authed *gin.RouterGroup) {
	authed.POST("/add-to-wishlist", h.AddToWishlist)
	authed.GET("/get-wishlist", h.GetWishlist)
	authed.DELETE("/remove-from-wishlist/:productId", h.RemoveFromWishlist)
	authed.DELETE("/clear-wishlist", h.ClearWishlist)
}

// AddToWishlistRequest 收藏请求
type AddToWishlistRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// AddToWishlist 收藏商品
func (h *Handler) AddToWishlist(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, apperr.Auth("missing identity"))
		return
	}

	var req AddToWishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("%s", err.Error()))
		return
	}

	wishlist, err := h.cmd.Add(c.Request.Context(), identity.UserID, req.ProductID)
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.WishlistOpsTotal.WithLabelValues("add").Inc()
	}
	response.Success(c, wishlistView(wishlist))
}

// GetWishlist 获取当前用户心愿单
func (h *Handler) GetWishlist(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, apperr.Auth("missing identity"))
		return
	}

	wishlist, err := h.query.Get(c.Request.Context(), identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, wishlistView(wishlist))
}

// RemoveFromWishlist 取消收藏
func (h *Handler) RemoveFromWishlist(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, apperr.Auth("missing identity"))
		return
	}

	wishlist, err := h.cmd.Remove(c.Request.Context(), identity.UserID, c.Param("productId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.WishlistOpsTotal.WithLabelValues("remove").Inc()
	}
	response.Success(c, wishlistView(wishlist))
}

// ClearWishlist 清空心愿单
func (h *Handler) ClearWishlist(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, apperr.Auth("missing identity"))
		return
	}

	if err := h.cmd.Clear(c.Request.Context(), identity.UserID); err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.WishlistOpsTotal.WithLabelValues("clear").Inc()
	}
	response.Success(c, gin.H{"cleared": true})
}

func wishlistView(w *domain.Wishlist) gin.H {
	entries := make([]gin.H, 0, len(w.Entries))
	for _, e := range w.Entries {
		entries = append(entries, gin.H{
			"product_id": e.ProductID,
			"added_at":   e.AddedAt,
		})
	}
	return gin.H{
		"user_id": w.UserID,
		"entries": entries,
	}
}
