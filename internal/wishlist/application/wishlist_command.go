// Package application 实现心愿单的应用服务
package application

import (
	"context"
	"time"

	cartapp "github.com/linjx/gomall/internal/cart/application"
	"github.com/linjx/gomall/internal/wishlist/domain"
	"github.com/linjx/gomall/pkg/apperr"
)

// WishlistCommandService 心愿单命令服务
type WishlistCommandService struct {
	repo      domain.WishlistRepository
	catalog   cartapp.CatalogLookup
	publisher domain.EventPublisher
}

// NewWishlistCommandService 创建心愿单命令服务实例
func NewWishlistCommandService(
	repo domain.WishlistRepository,
	catalog cartapp.CatalogLookup,
	publisher domain.EventPublisher,
) *WishlistCommandService {
	return &WishlistCommandService{repo: repo, catalog: catalog, publisher: publisher}
}

// Add 收藏商品：重复收藏报冲突，心愿单不存在时隐式创建
func (s *WishlistCommandService) Add(ctx context.Context, userID, productID string) (*domain.Wishlist, error) {
	product, err := s.catalog.Lookup(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("product not found")
	}

	wishlist, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wishlist == nil {
		wishlist = &domain.Wishlist{UserID: userID}
	}

	if !wishlist.Add(productID) {
		return nil, apperr.Conflict("product already in wishlist")
	}
	if err := s.repo.Save(ctx, wishlist); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.WishlistEntryAddedEvent{UserID: userID, ProductID: productID, Timestamp: time.Now()}
		_ = s.publisher.Publish(ctx, "wishlist.entry_added", userID, event)
	}

	return wishlist, nil
}

// Remove 取消收藏，心愿单或条目不存在均报 NotFound
func (s *WishlistCommandService) Remove(ctx context.Context, userID, productID string) (*domain.Wishlist, error) {
	wishlist, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if wishlist == nil {
		return nil, apperr.NotFound("wishlist not found")
	}

	if !wishlist.Remove(productID) {
		return nil, apperr.NotFound("product not in wishlist")
	}
	if err := s.repo.Save(ctx, wishlist); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.WishlistEntryRemovedEvent{UserID: userID, ProductID: productID, Timestamp: time.Now()}
		_ = s.publisher.Publish(ctx, "wishlist.entry_removed", userID, event)
	}

	return wishlist, nil
}

// Clear 清空心愿单。与购物车不同，尚无心愿单时报 NotFound。
func (s *WishlistCommandService) Clear(ctx context.Context, userID string) error {
	wishlist, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if wishlist == nil {
		return apperr.NotFound("wishlist not found")
	}

	wishlist.Clear()
	if err := s.repo.Save(ctx, wishlist); err != nil {
		return err
	}

	if s.publisher != nil {
		event := domain.WishlistClearedEvent{UserID: userID, Timestamp: time.Now()}
		_ = s.publisher.Publish(ctx, "wishlist.cleared", userID, event)
	}
	return nil
}
