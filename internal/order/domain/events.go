package domain

import "time"

// OrderCreatedEvent 订单创建事件
type OrderCreatedEvent struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	Total     string    `json:"total"`
	ItemCount int       `json:"item_count"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCancelledEvent 订单取消事件
type OrderCancelledEvent struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderStatusChangedEvent 订单状态变更事件
type OrderStatusChangedEvent struct {
	OrderID   string    `json:"order_id"`
	UserID    string    `json:"user_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Timestamp time.Time `json:"timestamp"`
}
