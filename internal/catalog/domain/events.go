package domain

import "time"

// ProductCreatedEvent 商品创建事件
type ProductCreatedEvent struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Stock     int       `json:"stock"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductUpdatedEvent 商品更新事件
type ProductUpdatedEvent struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Price     string    `json:"price"`
	Stock     int       `json:"stock"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductDeletedEvent 商品删除事件
type ProductDeletedEvent struct {
	ProductID string    `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductRatedEvent 商品评分事件
type ProductRatedEvent struct {
	ProductID   string    `json:"product_id"`
	UserID      string    `json:"user_id"`
	Score       int       `json:"score"`
	RatingAvg   float64   `json:"rating_avg"`
	RatingCount int       `json:"rating_count"`
	Timestamp   time.Time `json:"timestamp"`
}
