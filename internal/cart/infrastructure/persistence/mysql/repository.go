// Package mysql 提供购物车的 MySQL 持久化实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/linjx/gomall/internal/cart/domain"
	"github.com/linjx/gomall/pkg/logger"
)

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储实例
func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &cartRepository{db: db}
}

// Save 保存购物车。条目整体以内存切片为准：
// 先删后插，保证清空后的购物车持久化为空文档而非残留旧条目。
func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(cart).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&domain.CartItem{}).Error; err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return nil
		}
		for i := range cart.Items {
			cart.Items[i].ID = 0
			cart.Items[i].CartID = cart.ID
		}
		return tx.Create(&cart.Items).Error
	})
	if err != nil {
		logger.Error(ctx, "failed to save cart", "user_id", cart.UserID, "error", err)
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

// GetByUserID 按用户编号获取购物车及条目
func (r *cartRepository) GetByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.db.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error(ctx, "failed to get cart", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return &cart, nil
}
