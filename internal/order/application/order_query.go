package application

import (
	"context"

	"github.com/linjx/gomall/internal/order/domain"
	"github.com/linjx/gomall/pkg/apperr"
)

// OrderQueryService 订单查询服务
type OrderQueryService struct {
	repo domain.OrderRepository
}

// NewOrderQueryService 创建订单查询服务实例
func NewOrderQueryService(repo domain.OrderRepository) *OrderQueryService {
	return &OrderQueryService{repo: repo}
}

// ListForUser 列出用户全部订单，按创建时间倒序
func (s *OrderQueryService) ListForUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetDetail 获取订单详情，归属检查在仓储查询谓词内完成。
// 他人的订单与不存在的订单同样报 NotFound，不泄露存在性。
func (s *OrderQueryService) GetDetail(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.repo.GetByUserAndID(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperr.NotFound("order not found")
	}
	return order, nil
}
