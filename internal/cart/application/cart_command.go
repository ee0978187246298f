// Package application 实现购物车的应用服务
package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/linjx/gomall/internal/cart/domain"
	"github.com/linjx/gomall/pkg/apperr"
)

// ProductInfo 商品快照，加购时从目录侧取价
type ProductInfo struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Stock     int
}

// CatalogLookup 目录查询接口，购物车侧的消费方定义
type CatalogLookup interface {
	// Lookup 按商品编号取快照，不存在时返回 (nil, nil)
	Lookup(ctx context.Context, productID string) (*ProductInfo, error)
}

// AddItemCommand 加购命令
type AddItemCommand struct {
	UserID    string
	ProductID string
	Quantity  int
}

// SetQuantityCommand 修改数量命令
type SetQuantityCommand struct {
	UserID    string
	ProductID string
	Quantity  int
}

// CartCommandService 购物车命令服务
type CartCommandService struct {
	repo      domain.CartRepository
	catalog   CatalogLookup
	publisher domain.EventPublisher
}

// NewCartCommandService 创建购物车命令服务实例
func NewCartCommandService(repo domain.CartRepository, catalog CatalogLookup, publisher domain.EventPublisher) *CartCommandService {
	return &CartCommandService{repo: repo, catalog: catalog, publisher: publisher}
}

// AddItem 加购：同一商品合并数量，价格取首次加入时的快照。
// 购物车不存在时隐式创建。
func (s *CartCommandService) AddItem(ctx context.Context, cmd AddItemCommand) (*domain.Cart, error) {
	if cmd.Quantity < 1 {
		return nil, apperr.Validation("quantity must be at least 1")
	}

	product, err := s.catalog.Lookup(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperr.NotFound("product not found")
	}

	cart, err := s.repo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		cart = &domain.Cart{UserID: cmd.UserID}
	}

	cart.AddItem(product.ProductID, product.Name, cmd.Quantity, product.Price)
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.CartItemAddedEvent{
			UserID:    cmd.UserID,
			ProductID: cmd.ProductID,
			Quantity:  cmd.Quantity,
			Price:     product.Price.String(),
			Timestamp: time.Now(),
		}
		_ = s.publisher.Publish(ctx, "cart.item_added", cmd.UserID, event)
	}

	return cart, nil
}

// SetItemQuantity 修改条目数量，数量不大于 0 时删除条目
func (s *CartCommandService) SetItemQuantity(ctx context.Context, cmd SetQuantityCommand) (*domain.Cart, error) {
	cart, err := s.repo.GetByUserID(ctx, cmd.UserID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperr.NotFound("cart not found")
	}

	if !cart.SetQuantity(cmd.ProductID, cmd.Quantity) {
		return nil, apperr.NotFound("item not in cart")
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.CartItemUpdatedEvent{
			UserID:    cmd.UserID,
			ProductID: cmd.ProductID,
			Quantity:  cmd.Quantity,
			Timestamp: time.Now(),
		}
		_ = s.publisher.Publish(ctx, "cart.item_updated", cmd.UserID, event)
	}
	return cart, nil
}

// RemoveItem 删除购物车条目
func (s *CartCommandService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, apperr.NotFound("cart not found")
	}

	if !cart.RemoveItem(productID) {
		return nil, apperr.NotFound("item not in cart")
	}
	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := domain.CartItemRemovedEvent{UserID: userID, ProductID: productID, Timestamp: time.Now()}
		_ = s.publisher.Publish(ctx, "cart.item_removed", userID, event)
	}

	return cart, nil
}

// Clear 清空购物车，幂等：购物车不存在时也视为成功。
// 清空后文档保留为空购物车，而不是删除。
func (s *CartCommandService) Clear(ctx context.Context, userID string) error {
	cart, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		return nil
	}

	cart.Clear()
	if err := s.repo.Save(ctx, cart); err != nil {
		return err
	}

	if s.publisher != nil {
		event := domain.CartClearedEvent{UserID: userID, Timestamp: time.Now()}
		_ = s.publisher.Publish(ctx, "cart.cleared", userID, event)
	}
	return nil
}
