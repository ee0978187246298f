// Package domain 包含购物车的领域模型
package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart 购物车聚合，每个用户至多一份。
// 清空后文档保留，Items 为空切片。
type Cart struct {
	gorm.Model
	UserID string     `gorm:"column:user_id;type:varchar(16);uniqueIndex;not null"`
	Items  []CartItem `gorm:"foreignKey:CartID"`
}

// TableName 指定表名
func (Cart) TableName() string { return "carts" }

// CartItem 购物车条目，按商品编号去重。
// Price 是条目首次加入时的快照价，后续合并不覆盖。
type CartItem struct {
	gorm.Model
	CartID    uint            `gorm:"column:cart_id;index;not null"`
	ProductID string          `gorm:"column:product_id;type:varchar(16);not null"`
	Name      string          `gorm:"column:name;type:varchar(255)"`
	Quantity  int             `gorm:"column:quantity;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:decimal(20,8)"`
}

// TableName 指定表名
func (CartItem) TableName() string { return "cart_items" }

// Total 计算购物车总价
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// AddItem 加入条目；同一商品合并数量，保留首次加入时的快照价。
func (c *Cart) AddItem(productID, name string, qty int, price decimal.Decimal) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += qty
			return
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Name: name, Quantity: qty, Price: price})
}

// SetQuantity 设置条目数量；qty 不大于 0 时删除条目。
// 条目不存在时返回 false。
func (c *Cart) SetQuantity(productID string, qty int) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			if qty <= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = qty
			}
			return true
		}
	}
	return false
}

// RemoveItem 删除条目，不存在时返回 false
func (c *Cart) RemoveItem(productID string) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear 清空全部条目，购物车本身保留
func (c *Cart) Clear() {
	c.Items = c.Items[:0]
}

// IsEmpty 购物车是否为空
func (c *Cart) IsEmpty() bool { return len(c.Items) == 0 }

// CartRepository 购物车仓储接口
type CartRepository interface {
	// Save 保存购物车及其条目；条目以保存时的切片为准
	Save(ctx context.Context, cart *Cart) error
	// GetByUserID 按用户编号获取购物车，不存在时返回 (nil, nil)
	GetByUserID(ctx context.Context, userID string) (*Cart, error)
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}
