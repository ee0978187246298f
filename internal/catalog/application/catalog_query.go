package application

import (
	"context"
	"strings"

	"github.com/linjx/gomall/internal/catalog/domain"
	"github.com/linjx/gomall/pkg/apperr"
	"github.com/linjx/gomall/pkg/utils"
)

// ListProductsQuery 商品列表查询
type ListProductsQuery struct {
	Category string
	Sort     string
	Page     int
	PageSize int
}

// ProductCache 商品读缓存接口
type ProductCache interface {
	Get(ctx context.Context, productID string) (*domain.Product, bool)
	Set(ctx context.Context, product *domain.Product)
}

// ProductPage 商品分页结果
type ProductPage struct {
	Products   []*domain.Product
	Pagination *utils.Pagination
}

// CatalogQueryService 商品目录查询服务
type CatalogQueryService struct {
	repo  domain.ProductRepository
	cache ProductCache
}

// NewCatalogQueryService 创建商品目录查询服务实例
func NewCatalogQueryService(repo domain.ProductRepository, cache ProductCache) *CatalogQueryService {
	return &CatalogQueryService{repo: repo, cache: cache}
}

// GetProduct 获取单个商品详情，优先命中缓存
func (s *CatalogQueryService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	if s.cache != nil {
		if product, ok := s.cache.Get(ctx, productID); ok {
			return product, nil
		}
	}

	product, err := s.repo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("product not found")
	}

	if s.cache != nil {
		s.cache.Set(ctx, product)
	}
	return product, nil
}

// ListProducts 按可选分类分页列出商品
func (s *CatalogQueryService) ListProducts(ctx context.Context, q ListProductsQuery) (*ProductPage, error) {
	sort, err := normalizeSort(q.Sort)
	if err != nil {
		return nil, err
	}

	page := utils.NewPagination(q.Page, q.PageSize)
	products, total, err := s.repo.List(ctx, q.Category, sort, page.Offset(), page.Limit())
	if err != nil {
		return nil, err
	}
	page.SetTotal(total)
	return &ProductPage{Products: products, Pagination: page}, nil
}

// Search 按名称模糊搜索商品
func (s *CatalogQueryService) Search(ctx context.Context, query string, pageNum, pageSize int) (*ProductPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperr.Validation("search query is required")
	}

	page := utils.NewPagination(pageNum, pageSize)
	products, total, err := s.repo.Search(ctx, query, page.Offset(), page.Limit())
	if err != nil {
		return nil, err
	}
	page.SetTotal(total)
	return &ProductPage{Products: products, Pagination: page}, nil
}

// Featured 列出精选商品
func (s *CatalogQueryService) Featured(ctx context.Context, limit int) ([]*domain.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListFeatured(ctx, limit)
}

// NewArrivals 列出最新上架商品
func (s *CatalogQueryService) NewArrivals(ctx context.Context, limit int) ([]*domain.Product, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListNewest(ctx, limit)
}

func normalizeSort(sort string) (string, error) {
	switch sort {
	case "", "price_asc", "price_desc", "newest":
		return sort, nil
	default:
		return "", apperr.Validation("unsupported sort: %s", sort)
	}
}
