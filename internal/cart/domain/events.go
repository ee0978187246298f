package domain

import "time"

// CartItemAddedEvent 购物车加入商品事件
type CartItemAddedEvent struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Price     string    `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}

// CartItemUpdatedEvent 购物车条目数量变更事件
type CartItemUpdatedEvent struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// CartItemRemovedEvent 购物车删除商品事件
type CartItemRemovedEvent struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CartClearedEvent 购物车清空事件
type CartClearedEvent struct {
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}
