// Package domain 包含订单的领域模型与状态机
package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Status 订单状态
type Status string

const (
	// StatusPending 已下单，待处理
	StatusPending Status = "pending"
	// StatusProcessing 处理中
	StatusProcessing Status = "processing"
	// StatusShipped 已发货
	StatusShipped Status = "shipped"
	// StatusDelivered 已送达，终态
	StatusDelivered Status = "delivered"
	// StatusCancelled 已取消，终态
	StatusCancelled Status = "cancelled"
)

// transitions 合法的状态迁移表
var transitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// IsValid 状态是否为已知取值
func (s Status) IsValid() bool {
	_, ok := transitions[s]
	return ok
}

// CanTransitionTo 当前状态能否迁移到目标状态
func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Order 订单聚合。下单后条目与单价冻结，只有状态可变。
type Order struct {
	ID              uint
	OrderID         string
	UserID          string
	Items           []OrderItem
	Total           decimal.Decimal
	Status          Status
	ShippingAddress string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem 订单条目，价格为下单时的冻结价
type OrderItem struct {
	ProductID string
	Name      string
	Quantity  int
	Price     decimal.Decimal
}

// Subtotal 条目小计
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ComputeTotal 按条目计算订单总价
func ComputeTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// CanBeCancelled 订单当前能否取消
func (o *Order) CanBeCancelled() bool {
	return o.Status.CanTransitionTo(StatusCancelled)
}

// Cancel 取消订单，非法状态返回 false
func (o *Order) Cancel() bool {
	if !o.CanBeCancelled() {
		return false
	}
	o.Status = StatusCancelled
	return true
}

// OrderRepository 订单仓储接口
type OrderRepository interface {
	// Save 保存订单及条目
	Save(ctx context.Context, order *Order) error
	// GetByUserAndID 按用户与订单编号获取订单，归属检查在查询谓词内完成；
	// 不存在或不属于该用户时返回 (nil, nil)
	GetByUserAndID(ctx context.Context, userID, orderID string) (*Order, error)
	// ListByUser 按用户列出订单，按创建时间倒序
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	// UpdateStatus 更新订单状态
	UpdateStatus(ctx context.Context, orderID string, status Status) error
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	Publish(ctx context.Context, topic, key string, event any) error
}
