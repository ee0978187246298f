// Package mysql 提供商品目录的 MySQL 持久化实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/linjx/gomall/internal/catalog/domain"
	"github.com/linjx/gomall/pkg/logger"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储实例
func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

// Save 保存商品
func (r *productRepository) Save(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		logger.Error(ctx, "failed to save product", "product_id", product.ProductID, "error", err)
		return fmt.Errorf("failed to save product: %w", err)
	}
	return nil
}

// GetByProductID 按业务编号获取商品
func (r *productRepository) GetByProductID(ctx context.Context, productID string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error(ctx, "failed to get product", "product_id", productID, "error", err)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// Delete 按业务编号删除商品
func (r *productRepository) Delete(ctx context.Context, productID string) error {
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).Delete(&domain.Product{}).Error; err != nil {
		logger.Error(ctx, "failed to delete product", "product_id", productID, "error", err)
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// List 按可选分类列出商品
func (r *productRepository) List(ctx context.Context, category, sort string, offset, limit int) ([]*domain.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Product{})
	if category != "" {
		query = query.Where("category = ?", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error(ctx, "failed to count products", "category", category, "error", err)
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	switch sort {
	case "price_asc":
		query = query.Order("price ASC")
	case "price_desc":
		query = query.Order("price DESC")
	case "newest":
		query = query.Order("created_at DESC")
	default:
		query = query.Order("id ASC")
	}

	var products []*domain.Product
	if err := query.Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		logger.Error(ctx, "failed to list products", "category", category, "error", err)
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// Search 按名称模糊搜索商品
func (r *productRepository) Search(ctx context.Context, q string, offset, limit int) ([]*domain.Product, int64, error) {
	pattern := "%" + q + "%"
	query := r.db.WithContext(ctx).Model(&domain.Product{}).Where("name LIKE ?", pattern)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error(ctx, "failed to count search results", "query", q, "error", err)
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	var products []*domain.Product
	if err := query.Order("id ASC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		logger.Error(ctx, "failed to search products", "query", q, "error", err)
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}
	return products, total, nil
}

// ListFeatured 列出精选商品
func (r *productRepository) ListFeatured(ctx context.Context, limit int) ([]*domain.Product, error) {
	var products []*domain.Product
	err := r.db.WithContext(ctx).
		Where("featured = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		logger.Error(ctx, "failed to list featured products", "error", err)
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	return products, nil
}

// ListNewest 列出最新上架商品
func (r *productRepository) ListNewest(ctx context.Context, limit int) ([]*domain.Product, error) {
	var products []*domain.Product
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	if err != nil {
		logger.Error(ctx, "failed to list newest products", "error", err)
		return nil, fmt.Errorf("failed to list newest products: %w", err)
	}
	return products, nil
}
