package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/linjx/gomall/internal/catalog/application"
	"github.com/linjx/gomall/internal/catalog/domain"
	"github.com/linjx/gomall/pkg/apperr"
	"github.com/linjx/gomall/pkg/middleware"
	"github.com/linjx/gomall/pkg/response"
)

// Handler 商品目录 HTTP 处理器
type Handler struct {
	cmd   *application.CatalogCommandService
	query *application.CatalogQueryService
}

// NewHandler 创建 HTTP 处理器实例
func NewHandler(cmd *application.CatalogCommandService, query *application.CatalogQueryService) *Handler {
	return &Handler{cmd: cmd, query: query}
}

// RegisterRoutes 注册路由，public 为免鉴权组，authed 为 Bearer 鉴权组
func (h *Handler) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/products", h.ListProducts)
	public.GET("/products/:id", h.GetProduct)
	public.GET("/category/:category/products", h.ListByCategory)
	public.GET("/search", h.Search)
	public.GET("/featured-products", h.Featured)
	public.GET("/new-arrivals", h.NewArrivals)

	authed.POST("/products", h.CreateProduct)
	authed.PUT("/products/:id", h.UpdateProduct)
	authed.DELETE("/products/:id", h.DeleteProduct)
	authed.POST("/products/:id/rate", h.RateProduct)
}

// ProductRequest 创建/更新商品请求
type ProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Price       string `json:"price" binding:"required"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
	Image       string `json:"image"`
	Featured    bool   `json:"featured"`
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("%s", err.Error()))
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		response.Error(c, apperr.Validation("invalid price: %s", req.Price))
		return
	}

	product, err := h.cmd.CreateProduct(c.Request.Context(), application.CreateProductCommand{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Stock:       req.Stock,
		Category:    req.Category,
		Image:       req.Image,
		Featured:    req.Featured,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessWithStatus(c, http.StatusCreated, productView(product))
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("%s", err.Error()))
		return
	}
	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		response.Error(c, apperr.Validation("invalid price: %s", req.Price))
		return
	}

	product, err := h.cmd.UpdateProduct(c.Request.Context(), application.UpdateProductCommand{
		ProductID:   c.Param("id"),
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Stock:       req.Stock,
		Category:    req.Category,
		Image:       req.Image,
		Featured:    req.Featured,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, productView(product))
}

// DeleteProduct 删除商品
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.cmd.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// RateRequest 商品评分请求
type RateRequest struct {
	Score int `json:"score" binding:"required"`
}

// RateProduct 商品评分
func (h *Handler) RateProduct(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error(c, apperr.Auth("missing identity"))
		return
	}

	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperr.Validation("%s", err.Error()))
		return
	}

	product, err := h.cmd.RateProduct(c.Request.Context(), application.RateProductCommand{
		ProductID: c.Param("id"),
		UserID:    identity.UserID,
		Score:     req.Score,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, productView(product))
}

// GetProduct 获取商品详情
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.query.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, productView(product))
}

// ListProducts 分页列出商品，支持 category/sort 过滤
func (h *Handler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.query.ListProducts(c.Request.Context(), application.ListProductsQuery{
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, pageView(result))
}

// ListByCategory 按分类列出商品
func (h *Handler) ListByCategory(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.query.ListProducts(c.Request.Context(), application.ListProductsQuery{
		Category: c.Param("category"),
		Sort:     c.Query("sort"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, pageView(result))
}

// Search 按名称搜索商品
func (h *Handler) Search(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	result, err := h.query.Search(c.Request.Context(), c.Query("q"), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, pageView(result))
}

// Featured 列出精选商品
func (h *Handler) Featured(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	products, err := h.query.Featured(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, productViews(products))
}

// NewArrivals 列出最新上架商品
func (h *Handler) NewArrivals(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	products, err := h.query.NewArrivals(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, productViews(products))
}

func productView(p *domain.Product) gin.H {
	return gin.H{
		"product_id":   p.ProductID,
		"name":         p.Name,
		"description":  p.Description,
		"price":        p.Price.String(),
		"stock":        p.Stock,
		"in_stock":     p.InStock(),
		"category":     p.Category,
		"image":        p.Image,
		"featured":     p.Featured,
		"rating_avg":   p.RatingAvg,
		"rating_count": p.RatingCount,
		"created_at":   p.CreatedAt,
	}
}

func productViews(products []*domain.Product) []gin.H {
	views := make([]gin.H, 0, len(products))
	for _, p := range products {
		views = append(views, productView(p))
	}
	return views
}

func pageView(page *application.ProductPage) gin.H {
	return gin.H{
		"products":   productViews(page.Products),
		"pagination": page.Pagination,
	}
}
