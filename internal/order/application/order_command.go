// Package application 实现订单的应用服务
package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/linjx/gomall/internal/order/domain"
	"github.com/linjx/gomall/pkg/apperr"
	"github.com/linjx/gomall/pkg/logger"
)

// CartClearer 下单成功后清空购物车的接口，订单侧的消费方定义
type CartClearer interface {
	Clear(ctx context.Context, userID string) error
}

// PlaceOrderItem 下单条目，价格由客户端提交并原样冻结
type PlaceOrderItem struct {
	ProductID string
	Name      string
	Quantity  int
	Price     decimal.Decimal
}

// PlaceOrderCommand 下单命令
type PlaceOrderCommand struct {
	UserID          string
	Items           []PlaceOrderItem
	ShippingAddress string
}

// UpdateStatusCommand 状态变更命令
type UpdateStatusCommand struct {
	UserID  string
	OrderID string
	Status  domain.Status
}

// OrderCommandService 订单命令服务
type OrderCommandService struct {
	repo      domain.OrderRepository
	carts     CartClearer
	publisher domain.EventPublisher
}

// NewOrderCommandService 创建订单命令服务实例
func NewOrderCommandService(repo domain.OrderRepository, carts CartClearer, publisher domain.EventPublisher) *OrderCommandService {
	return &OrderCommandService{repo: repo, carts: carts, publisher: publisher}
}

// Place 下单：保存订单后清空购物车。
// 两步不在同一事务内，清空失败只记日志，订单仍视为成功。
func (s *OrderCommandService) Place(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	if len(cmd.Items) == 0 {
		return nil, apperr.Validation("order must contain at least one item")
	}

	items := make([]domain.OrderItem, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		if item.ProductID == "" {
			return nil, apperr.Validation("item product_id is required")
		}
		if item.Quantity < 1 {
			return nil, apperr.Validation("item quantity must be at least 1")
		}
		if item.Price.IsNegative() {
			return nil, apperr.Validation("item price must not be negative")
		}
		items = append(items, domain.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}

	order := &domain.Order{
		OrderID:         uuid.NewString(),
		UserID:          cmd.UserID,
		Items:           items,
		Total:           domain.ComputeTotal(items),
		Status:          domain.StatusPending,
		ShippingAddress: cmd.ShippingAddress,
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, err
	}

	if s.carts != nil {
		if err := s.carts.Clear(ctx, cmd.UserID); err != nil {
			logger.Warn(ctx, "failed to clear cart after order placement",
				"user_id", cmd.UserID, "order_id", order.OrderID, "error", err)
		}
	}

	if s.publisher != nil {
		event := domain.OrderCreatedEvent{
			OrderID:   order.OrderID,
			UserID:    order.UserID,
			Total:     order.Total.String(),
			ItemCount: len(order.Items),
			Timestamp: time.Now(),
		}
		_ = s.publisher.Publish(ctx, "order.created", order.OrderID, event)
	}

	return order, nil
}

// Cancel 取消订单。pending/processing 可取消，其余状态报 InvalidState。
// 已取消的订单再次取消同样报 InvalidState。
func (s *OrderCommandService) Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.repo.GetByUserAndID(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFound("order not found")
	}

	if !order.Cancel() {
		return nil, apperr.InvalidState("order in status %q cannot be cancelled", order.Status)
	}
	if err := s.repo.UpdateStatus(ctx, order.OrderID, domain.StatusCancelled); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.OrderCancelledEvent{OrderID: order.OrderID, UserID: userID, Timestamp: time.Now()}
		_ = s.publisher.Publish(ctx, "order.cancelled", order.OrderID, event)
	}

	return order, nil
}

// UpdateStatus 沿状态机推进订单状态
func (s *OrderCommandService) UpdateStatus(ctx context.Context, cmd UpdateStatusCommand) (*domain.Order, error) {
	if !cmd.Status.IsValid() {
		return nil, apperr.Validation("unknown status: %s", cmd.Status)
	}

	order, err := s.repo.GetByUserAndID(ctx, cmd.UserID, cmd.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFound("order not found")
	}

	if !order.Status.CanTransitionTo(cmd.Status) {
		return nil, apperr.InvalidState("cannot transition from %q to %q", order.Status, cmd.Status)
	}

	from := order.Status
	order.Status = cmd.Status
	if err := s.repo.UpdateStatus(ctx, order.OrderID, cmd.Status); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.OrderStatusChangedEvent{
			OrderID:   order.OrderID,
			UserID:    cmd.UserID,
			From:      string(from),
			To:        string(cmd.Status),
			Timestamp: time.Now(),
		}
		_ = s.publisher.Publish(ctx, "order.status_changed", order.OrderID, event)
	}

	return order, nil
}
