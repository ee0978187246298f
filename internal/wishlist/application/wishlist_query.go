package application

import (
	"context"

	"github.com/linjx/gomall/internal/wishlist/domain"
)

// WishlistQueryService 心愿单查询服务
type WishlistQueryService struct {
	repo domain.WishlistRepository
}

// NewWishlistQueryService 创建心愿单查询服务实例
func NewWishlistQueryService(repo domain.WishlistRepository) *WishlistQueryService {
	return &WishlistQueryService{repo: repo}
}

// Get 获取用户心愿单；尚无心愿单时返回空心愿单而非错误
func (s *WishlistQueryService) Get(ctx context.Context, userID string) (*domain.Wishlist, error) {
	wishlist, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wishlist == nil {
		return &domain.Wishlist{UserID: userID, Entries: []domain.WishlistEntry{}}, nil
	}
	return wishlist, nil
}
