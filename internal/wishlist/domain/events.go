package domain

import "time"

// WishlistEntryAddedEvent 收藏商品事件
type WishlistEntryAddedEvent struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// WishlistEntryRemovedEvent 取消收藏事件
type WishlistEntryRemovedEvent struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// WishlistClearedEvent 清空心愿单事件
type WishlistClearedEvent struct {
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}
