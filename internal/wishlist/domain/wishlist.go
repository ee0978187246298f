// Package domain 包含心愿单的领域模型
package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Wishlist 心愿单聚合，每个用户至多一份
type Wishlist struct {
	gorm.Model
	UserID  string          `gorm:"column:user_id;type:varchar(16);uniqueIndex;not null"`
	Entries []WishlistEntry `gorm:"foreignKey:WishlistID"`
}

// TableName 指定表名
func (Wishlist) TableName() string { return "wishlists" }

// WishlistEntry 心愿单条目，同一商品不可重复收藏
type WishlistEntry struct {
	gorm.Model
	WishlistID uint      `gorm:"column:wishlist_id;index;not null"`
	ProductID  string    `gorm:"column:product_id;type:varchar(16);not null"`
	AddedAt    time.Time `gorm:"column:added_at;not null"`
}

// TableName 指定表名
func (WishlistEntry) TableName() string { return "wishlist_entries" }

// Contains 是否已收藏某商品
func (w *Wishlist) Contains(productID string) bool {
	for _, e := range w.Entries {
		if e.ProductID == productID {
			return true
		}
	}
	return false
}

// Add 收藏商品，已存在时返回 false
func (w *Wishlist) Add(productID string) bool {
	if w.Contains(productID) {
		return false
	}
	w.Entries = append(w.Entries, WishlistEntry{ProductID: productID, AddedAt: time.Now()})
	return true
}

// Remove 取消收藏，不存在时返回 false
func (w *Wishlist) Remove(productID string) bool {
	for i := range w.Entries {
		if w.Entries[i].ProductID == productID {
			w.Entries = append(w.Entries[:i], w.Entries[i+1:]...)
			return true
		}
	}
	return false
}

// Clear 清空全部条目
func (w *Wishlist) Clear() {
	w.Entries = w.Entries[:0]
}

// WishlistRepository 心愿单仓储接口
type WishlistRepository interface {
	// Save 保存心愿单及其条目
	Save(ctx context.Context, wishlist *Wishlist) error
	// GetByUserID 按用户编号获取心愿单，不存在时返回 (nil, nil)
	GetByUserID(ctx context.Context, userID string) (*Wishlist, error)
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}
