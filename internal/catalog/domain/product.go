// Package domain 包含商品目录的领域模型
package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product 商品实体。
// ProductID 是创建时一次性分配的业务编号（如 PRD-10001）。
// RatingAvg/RatingCount 维护运行均值，不保存单条评分。
type Product struct {
	gorm.Model
	ProductID   string          `gorm:"column:product_id;type:varchar(16);uniqueIndex;not null"`
	Name        string          `gorm:"column:name;type:varchar(255);not null"`
	Description string          `gorm:"column:description;type:text"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(20,8);not null"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	Category    string          `gorm:"column:category;type:varchar(100);index"`
	Image       string          `gorm:"column:image;type:varchar(500)"`
	Featured    bool            `gorm:"column:featured;not null;default:false;index"`
	RatingAvg   float64         `gorm:"column:rating_avg;not null;default:0"`
	RatingCount int             `gorm:"column:rating_count;not null;default:0"`
}

// TableName 指定表名
func (Product) TableName() string { return "products" }

// ApplyRating 将一次评分并入运行均值
func (p *Product) ApplyRating(score int) {
	total := p.RatingAvg*float64(p.RatingCount) + float64(score)
	p.RatingCount++
	p.RatingAvg = total / float64(p.RatingCount)
}

// InStock 商品是否有库存
func (p *Product) InStock() bool { return p.Stock > 0 }

// ProductRepository 商品仓储接口
type ProductRepository interface {
	// Save 保存商品
	Save(ctx context.Context, product *Product) error
	// GetByProductID 按业务编号获取商品，不存在时返回 (nil, nil)
	GetByProductID(ctx context.Context, productID string) (*Product, error)
	// Delete 按业务编号删除商品
	Delete(ctx context.Context, productID string) error
	// List 按可选分类列出商品，支持排序与分页
	List(ctx context.Context, category, sort string, offset, limit int) ([]*Product, int64, error)
	// Search 按名称模糊搜索商品
	Search(ctx context.Context, query string, offset, limit int) ([]*Product, int64, error)
	// ListFeatured 列出精选商品
	ListFeatured(ctx context.Context, limit int) ([]*Product, error)
	// ListNewest 列出最新上架商品
	ListNewest(ctx context.Context, limit int) ([]*Product, error)
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}
