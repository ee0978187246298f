package application

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/linjx/gomall/internal/catalog/domain"
	"github.com/linjx/gomall/internal/sequence"
	"github.com/linjx/gomall/pkg/apperr"
)

// CreateProductCommand 创建商品命令
type CreateProductCommand struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	Image       string
	Featured    bool
}

// UpdateProductCommand 更新商品命令
type UpdateProductCommand struct {
	ProductID   string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	Image       string
	Featured    bool
}

// RateProductCommand 商品评分命令
type RateProductCommand struct {
	ProductID string
	UserID    string
	Score     int
}

// CatalogCommandService 商品目录命令服务
type CatalogCommandService struct {
	repo      domain.ProductRepository
	allocator sequence.Allocator
	cache     ProductCacheInvalidator
	publisher domain.EventPublisher
}

// ProductCacheInvalidator 商品缓存失效接口，写路径在变更后调用
type ProductCacheInvalidator interface {
	Invalidate(ctx context.Context, productID string)
}

// NewCatalogCommandService 创建商品目录命令服务实例
func NewCatalogCommandService(
	repo domain.ProductRepository,
	allocator sequence.Allocator,
	cache ProductCacheInvalidator,
	publisher domain.EventPublisher,
) *CatalogCommandService {
	return &CatalogCommandService{
		repo:      repo,
		allocator: allocator,
		cache:     cache,
		publisher: publisher,
	}
}

// CreateProduct 处理创建商品，分配业务编号
func (s *CatalogCommandService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return nil, apperr.Validation("product name is required")
	}
	if cmd.Price.IsNegative() {
		return nil, apperr.Validation("price must not be negative")
	}
	if cmd.Stock < 0 {
		return nil, apperr.Validation("stock must not be negative")
	}

	productID, err := s.allocator.Next(ctx, sequence.KindProduct)
	if err != nil {
		return nil, apperr.Internal("failed to allocate product identifier", err)
	}

	product := &domain.Product{
		ProductID:   productID,
		Name:        strings.TrimSpace(cmd.Name),
		Description: cmd.Description,
		Price:       cmd.Price,
		Stock:       cmd.Stock,
		Category:    cmd.Category,
		Image:       cmd.Image,
		Featured:    cmd.Featured,
	}
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.ProductCreatedEvent{
			ProductID: product.ProductID,
			Name:      product.Name,
			Price:     product.Price.String(),
			Stock:     product.Stock,
			Category:  product.Category,
			Timestamp: time.Now(),
		}
		_ = s.publisher.Publish(ctx, "product.created", product.ProductID, event)
	}

	return product, nil
}

// UpdateProduct 处理更新商品
func (s *CatalogCommandService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	if cmd.Price.IsNegative() {
		return nil, apperr.Validation("price must not be negative")
	}

	product, err := s.repo.GetByProductID(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("product not found")
	}

	product.Name = cmd.Name
	product.Description = cmd.Description
	product.Price = cmd.Price
	product.Stock = cmd.Stock
	product.Category = cmd.Category
	product.Image = cmd.Image
	product.Featured = cmd.Featured

	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, product.ProductID)
	}

	if s.publisher != nil {
		event := domain.ProductUpdatedEvent{
			ProductID: product.ProductID,
			Name:      product.Name,
			Price:     product.Price.String(),
			Stock:     product.Stock,
			Category:  product.Category,
			Timestamp: time.Now(),
		}
		_ = s.publisher.Publish(ctx, "product.updated", product.ProductID, event)
	}

	return product, nil
}

// DeleteProduct 处理删除商品
func (s *CatalogCommandService) DeleteProduct(ctx context.Context, productID string) error {
	product, err := s.repo.GetByProductID(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return apperr.NotFound("product not found")
	}

	if err := s.repo.Delete(ctx, productID); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, productID)
	}

	if s.publisher != nil {
		event := domain.ProductDeletedEvent{ProductID: productID, Timestamp: time.Now()}
		_ = s.publisher.Publish(ctx, "product.deleted", productID, event)
	}
	return nil
}

// RateProduct 处理商品评分：只维护运行均值，不保存单条评分。
// 任何已登录用户都可评分，无角色限制。
func (s *CatalogCommandService) RateProduct(ctx context.Context, cmd RateProductCommand) (*domain.Product, error) {
	if cmd.Score < 1 || cmd.Score > 5 {
		return nil, apperr.Validation("score must be between 1 and 5")
	}

	product, err := s.repo.GetByProductID(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("product not found")
	}

	product.ApplyRating(cmd.Score)
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, product.ProductID)
	}

	if s.publisher != nil {
		event := domain.ProductRatedEvent{
			ProductID:   product.ProductID,
			UserID:      cmd.UserID,
			Score:       cmd.Score,
			RatingAvg:   product.RatingAvg,
			RatingCount: product.RatingCount,
			Timestamp:   time.Now(),
		}
		_ = s.publisher.Publish(ctx, "product.rated", product.ProductID, event)
	}

	return product, nil
}
