package application

import (
	"context"

	"github.com/linjx/gomall/internal/cart/domain"
)

// CartQueryService 购物车查询服务
type CartQueryService struct {
	repo domain.CartRepository
}

// NewCartQueryService 创建购物车查询服务实例
func NewCartQueryService(repo domain.CartRepository) *CartQueryService {
	return &CartQueryService{repo: repo}
}

// Get 获取用户购物车；尚无购物车时返回空购物车而非错误
func (s *CartQueryService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return &domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
	}
	return cart, nil
}
