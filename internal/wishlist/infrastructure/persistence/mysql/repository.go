// Package mysql 提供心愿单的 MySQL 持久化实现
package mysql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/linjx/gomall/internal/wishlist/domain"
	"github.com/linjx/gomall/pkg/logger"
)

type wishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository 创建心愿单仓储实例
func NewWishlistRepository(db *gorm.DB) domain.WishlistRepository {
	return &wishlistRepository{db: db}
}

// Save 保存心愿单，条目先删后插以内存切片为准
func (r *wishlistRepository) Save(ctx context.Context, wishlist *domain.Wishlist) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Entries").Save(wishlist).Error; err != nil {
			return err
		}
		if err := tx.Where("wishlist_id = ?", wishlist.ID).Delete(&domain.WishlistEntry{}).Error; err != nil {
			return err
		}
		if len(wishlist.Entries) == 0 {
			return nil
		}
		for i := range wishlist.Entries {
			wishlist.Entries[i].ID = 0
			wishlist.Entries[i].WishlistID = wishlist.ID
		}
		return tx.Create(&wishlist.Entries).Error
	})
	if err != nil {
		logger.Error(ctx, "failed to save wishlist", "user_id", wishlist.UserID, "error", err)
		return fmt.Errorf("failed to save wishlist: %w", err)
	}
	return nil
}

// GetByUserID 按用户编号获取心愿单及条目
func (r *wishlistRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wishlist, error) {
	var wishlist domain.Wishlist
	err := r.db.WithContext(ctx).Preload("Entries").Where("user_id = ?", userID).First(&wishlist).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error(ctx, "failed to get wishlist", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get wishlist: %w", err)
	}
	return &wishlist, nil
}
