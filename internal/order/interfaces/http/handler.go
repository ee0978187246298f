package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/linjx/gomall/internal/order/application"
	"github.com/linjx/gomall/internal/order/domain"
	"github.com/linjx/gomall/pkg/apperr"
	"github.com/linjx/gomall/pkg/metrics"
	"github.com/linjx/gomall/pkg/middleware"
	"github.com/linjx/gomall/pkg/response"
)

// Handler 订单 HTTP 处理器
type Handler struct {
	cmd     *application.OrderCommandService
	query   *application.OrderQueryService
	metrics *metrics.Metrics
}

// NewHandler 创建 HTTP 处理器实例
func NewHandler(cmd *application.OrderCommandService, query *application.OrderQueryService, m *metrics.Metrics) *Handler {
	return &Handler{cmd: cmd, query: query, metrics: m}
}

// RegisterRoutes 注册路由，订单操作全部要求鉴权
func (h *Handler) RegisterRoutes(authed *gin.RouterGroup) {
	authed.POST("/place-order", h.PlaceOrder)
	authed.GET("/get-orders", h.GetOrders)
	authed.GET("/order/:orderId", h.GetOrder)
	authed.POST("/cancel-order/:orderId", h.CancelOrder)
	authed.POST("/order/:orderId/status", h.UpdateStatus)
}

// PlaceOrderItemRequest 下单条目请求
type PlaceOrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity" binding:"required"`
	Price     string `json:"price" binding:"required"`
}

// PlaceOrderRequest 下单请求
type PlaceOrderRequest struct {
	Items           []PlaceOrderItemRequest `json:"items" binding:"required"`
	ShippingAddress string                  `json:"shipping_address"`
}

// PlaceOrder 下单
func (h *Handler) PlaceOrder(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, apperr.Auth("missing identity"))
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("%s", err.Error()))
		return
	}

	items := make([]application.PlaceOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			response.Error(c, apperr.Validation("invalid price: %s", item.Price))
			return
		}
		items = append(items, application.PlaceOrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     price,
		})
	}

	order, err := h.cmd.Place(c.Request.Context(), application.PlaceOrderCommand{
		UserID:          identity.UserID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.OrdersPlacedTotal.Inc()
	}
	response.SuccessWithStatus(c, http.StatusCreated, orderView(order))
}

// GetOrders 列出当前用户全部订单
func (h *Handler) GetOrders(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, apperr.Auth("missing identity"))
		return
	}

	orders, err := h.query.ListForUser(c.Request.Context(), identity.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	views := make([]gin.H, 0, len(orders))
	for _, order := range orders {
		views = append(views, orderView(order))
	}
	response.Success(c, views)
}

// GetOrder 获取订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, apperr.Auth("missing identity"))
		return
	}

	order, err := h.query.GetDetail(c.Request.Context(), identity.UserID, c.Param("orderId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, orderView(order))
}

// CancelOrder 取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, apperr.Auth("missing identity"))
		return
	}

	order, err := h.cmd.Cancel(c.Request.Context(), identity.UserID, c.Param("orderId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.metrics != nil {
		h.metrics.OrdersCancelledTotal.Inc()
	}
	response.Success(c, orderView(order))
}

// UpdateStatusRequest 状态变更请求
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateStatus 沿状态机推进订单状态
func (h *Handler) UpdateStatus(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, apperr.Auth("missing identity"))
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("%s", err.Error()))
		return
	}

	order, err := h.cmd.UpdateStatus(c.Request.Context(), application.UpdateStatusCommand{
		UserID:  identity.UserID,
		OrderID: c.Param("orderId"),
		Status:  domain.Status(req.Status),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, orderView(order))
}

func orderView(order *domain.Order) gin.H {
	items := make([]gin.H, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, gin.H{
			"product_id": item.ProductID,
			"name":       item.Name,
			"quantity":   item.Quantity,
			"price":      item.Price.String(),
			"subtotal":   item.Subtotal().String(),
		})
	}
	return gin.H{
		"order_id":         order.OrderID,
		"user_id":          order.UserID,
		"items":            items,
		"total":            order.Total.String(),
		"status":           string(order.Status),
		"shipping_address": order.ShippingAddress,
		"created_at":       order.CreatedAt,
		"updated_at":       order.UpdatedAt,
	}
}
