package http

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/linjx/gomall/internal/cart/application"
	"github.com/linjx/gomall/internal/cart/domain"
	"github.com/linjx/gomall/pkg/apperr"
	"github.com/linjx/gomall/pkg/metrics"
	"github.com/linjx/gomall/pkg/middleware"
	"github.com/linjx/gomall/pkg/response"
)

// Handler 购物车 HTTP 处理器
type Handler struct {
	cmd     *application.CartCommandService
	query   *application.CartQueryService
	metrics *metrics.Metrics
}

// NewHandler 创建 HTTP 处理器实例
func NewHandler(cmd *application.CartCommandService, query *application.CartQueryService, m *metrics.Metrics) *Handler {
	return &Handler{cmd: cmd, query: query, metrics: m}
}

// RegisterRoutes 注册路由，购物车操作全部要求鉴权
func (h *Handler) RegisterRoutes(authed *gin.RouterGroup) {
	authed.POST("/add-to-cart", h.AddToCart)
	authed.GET("/get-cart", h.GetCart)
	authed.POST("/update-cart", h.UpdateCart)
	authed.DELETE("/remove-from-cart/:productId", h.RemoveFromCart)
	authed.DELETE("/clear-cart", h.ClearCart)
}

// AddToCartRequest 加购请求
type AddToCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// AddToCart 向购物车加入商品
func (h *Handler) AddToCart(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, apperr.Auth("missing identity"))
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("%s", err.Error()))
		return
	}

	cart, err := h.cmd.AddItem(c.Request.Context(), application.AddItemCommand{
		UserID:    identity.UserID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.CartOpsTotal.WithLabelValues("add").Inc()
	}
	response.Success(c, cartView(cart))
}

// GetCart 获取当前用户购物车
func (h *Handler) GetCart(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, apperr.Auth("missing identity"))
		return
	}

	cart, err := h.query.Get(c.Request.Context(), identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cartView(cart))
}

// UpdateCartRequest 修改条目数量请求
type UpdateCartRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  *int   `json:"quantity" binding:"required"`
}

// UpdateCart 修改购物车条目数量，数量为 0 时删除条目
func (h *Handler) UpdateCart(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, apperr.Auth("missing identity"))
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("%s", err.Error()))
		return
	}

	cart, err := h.cmd.SetItemQuantity(c.Request.Context(), application.SetQuantityCommand{
		UserID:    identity.UserID,
		ProductID: req.ProductID,
		Quantity:  *req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.CartOpsTotal.WithLabelValues("update").Inc()
	}
	response.Success(c, cartView(cart))
}

// RemoveFromCart 删除购物车条目
func (h *Handler) RemoveFromCart(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, apperr.Auth("missing identity"))
		return
	}

	cart, err := h.cmd.RemoveItem(c.Request.Context(), identity.UserID, c.Param("productId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.CartOpsTotal.WithLabelValues("remove").Inc()
	}
	response.Success(c, cartView(cart))
}

// ClearCart 清空购物车，幂等
func (h *Handler) ClearCart(c *gin.Context) {
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
		h.metrics.CartOpsTotal.WithLabelValues("clear").Inc()
	}
	response.Success(c, gin.H{"cleared": true})
}

func cartView(cart *domain.Cart) gin.H {
	items := make([]gin.H, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, gin.H{
			"product_id": item.ProductID,
			"name":       item.Name,
			"quantity":   item.Quantity,
			"price":      item.Price.String(),
			"subtotal":   item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))).String(),
		})
	}
	return gin.H{
		"user_id": cart.UserID,
		"items":   items,
		"total":   cart.Total().String(),
	}
}
