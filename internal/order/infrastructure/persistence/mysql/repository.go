// Package mysql 提供订单仓储接口的 MySQL GORM 实现。
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/linjx/gomall/internal/order/domain"
	"github.com/linjx/gomall/pkg/logger"
)

// OrderModel 订单数据库模型，直接映射 orders 表。
// 金额以字符串存储，读取时再解析为 decimal。
type OrderModel struct {
	gorm.Model
	OrderID         string `gorm:"column:order_id;type:varchar(36);uniqueIndex;not null"`
	UserID          string `gorm:"column:user_id;type:varchar(16);index;not null"`
	Total           string `gorm:"column:total;type:decimal(20,8);not null"`
	Status          string `gorm:"column:status;type:varchar(20);index;not null"`
	ShippingAddress string `gorm:"column:shipping_address;type:varchar(500)"`
}

// TableName 指定表名
func (OrderModel) TableName() string { return "orders" }

// OrderItemModel 订单条目数据库模型
type OrderItemModel struct {
	gorm.Model
	OrderRef  string `gorm:"column:order_ref;type:varchar(36);index;not null"`
	ProductID string `gorm:"column:product_id;type:varchar(16);not null"`
	Name      string `gorm:"column:name;type:varchar(255)"`
	Quantity  int    `gorm:"column:quantity;not null"`
	Price     string `gorm:"column:price;type:decimal(20,8);not null"`
}

// TableName 指定表名
func (OrderItemModel) TableName() string { return "order_items" }

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓储实例
func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

// Save 保存订单与条目，同一事务内写入
func (r *orderRepository) Save(ctx context.Context, order *domain.Order) error {
	model := &OrderModel{
		OrderID:         order.OrderID,
		UserID:          order.UserID,
		Total:           order.Total.String(),
		Status:          string(order.Status),
		ShippingAddress: order.ShippingAddress,
	}
	model.ID = order.ID

	items := make([]OrderItemModel, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemModel{
			OrderRef:  order.OrderID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price.String(),
		})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		logger.Error(ctx, "failed to save order", "order_id", order.OrderID, "error", err)
		return fmt.Errorf("failed to save order: %w", err)
	}

	order.ID = model.ID
	order.CreatedAt = model.CreatedAt
	order.UpdatedAt = model.UpdatedAt
	return nil
}

// GetByUserAndID 按用户与订单编号获取订单，归属检查在查询谓词内完成
func (r *orderRepository) GetByUserAndID(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	var model OrderModel
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND user_id = ?", orderID, userID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logger.Error(ctx, "failed to get order", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	var itemModels []OrderItemModel
	if err := r.db.WithContext(ctx).Where("order_ref = ?", model.OrderID).Find(&itemModels).Error; err != nil {
		logger.Error(ctx, "failed to get order items", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("failed to get order items: %w", err)
	}

	return toDomain(&model, itemModels)
}

// ListByUser 按用户列出订单，按创建时间倒序
func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	var models []OrderModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		logger.Error(ctx, "failed to list orders", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if len(models) == 0 {
		return []*domain.Order{}, nil
	}

	orderIDs := make([]string, 0, len(models))
	for _, m := range models {
		orderIDs = append(orderIDs, m.OrderID)
	}

	var itemModels []OrderItemModel
	if err := r.db.WithContext(ctx).Where("order_ref IN ?", orderIDs).Find(&itemModels).Error; err != nil {
		logger.Error(ctx, "failed to list order items", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}

	itemsByOrder := make(map[string][]OrderItemModel, len(models))
	for _, item := range itemModels {
		itemsByOrder[item.OrderRef] = append(itemsByOrder[item.OrderRef], item)
	}

	orders := make([]*domain.Order, 0, len(models))
	for i := range models {
		order, err := toDomain(&models[i], itemsByOrder[models[i].OrderID])
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// UpdateStatus 更新订单状态
func (r *orderRepository) UpdateStatus(ctx context.Context, orderID string, status domain.Status) error {
	err := r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("order_id = ?", orderID).
		Update("status", string(status)).Error
	if err != nil {
		logger.Error(ctx, "failed to update order status", "order_id", orderID, "status", status, "error", err)
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

// toDomain 将数据库模型转换为领域对象
func toDomain(model *OrderModel, itemModels []OrderItemModel) (*domain.Order, error) {
	total, err := decimal.NewFromString(model.Total)
	if err != nil {
		return nil, fmt.Errorf("invalid order total %q: %w", model.Total, err)
	}

	items := make([]domain.OrderItem, 0, len(itemModels))
	for _, im := range itemModels {
		price, err := decimal.NewFromString(im.Price)
		if err != nil {
			return nil, fmt.Errorf("invalid item price %q: %w", im.Price, err)
		}
		items = append(items, domain.OrderItem{
			ProductID: im.ProductID,
			Name:      im.Name,
			Quantity:  im.Quantity,
			Price:     price,
		})
	}

	return &domain.Order{
		ID:              model.ID,
		OrderID:         model.OrderID,
		UserID:          model.UserID,
		Items:           items,
		Total:           total,
		Status:          domain.Status(model.Status),
		ShippingAddress: model.ShippingAddress,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}, nil
}
