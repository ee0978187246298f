package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linjx/gomall/internal/cart/domain"
	"github.com/linjx/gomall/pkg/apperr"
)

type fakeCartRepo struct {
	carts map[string]*domain.Cart
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: make(map[string]*domain.Cart)}
}

func (r *fakeCartRepo) Save(_ context.Context, cart *domain.Cart) error {
	cp := *cart
	cp.Items = append([]domain.CartItem(nil), cart.Items...)
	r.carts[cart.UserID] = &cp
	return nil
}

func (r *fakeCartRepo) GetByUserID(_ context.Context, userID string) (*domain.Cart, error) {
	cart, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	cp := *cart
	cp.Items = append([]domain.CartItem(nil), cart.Items...)
	return &cp, nil
}

type fakeCatalog struct {
	products map[string]ProductInfo
}

func (f *fakeCatalog) Lookup(_ context.Context, productID string) (*ProductInfo, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeCatalog) setPrice(productID string, price decimal.Decimal) {
	p := f.products[productID]
	p.Price = price
	f.products[productID] = p
}

func newTestCart() (*CartCommandService, *CartQueryService, *fakeCartRepo, *fakeCatalog) {
	repo := newFakeCartRepo()
	catalog := &fakeCatalog{products: map[string]ProductInfo{
		"PRD-10001": {ProductID: "PRD-10001", Name: "Laptop", Price: decimal.NewFromInt(999)},
		"PRD-10002": {ProductID: "PRD-10002", Name: "Mouse", Price: decimal.NewFromInt(25)},
	}}
	cmd := NewCartCommandService(repo, catalog, nil)
	query := NewCartQueryService(repo)
	return cmd, query, repo, catalog
}

func TestAddItemMergesQuantity(t *testing.T) {
	cmd, _, _, _ := newTestCart()
	ctx := context.Background()

	_, err := cmd.AddItem(ctx, AddItemCommand{UserID: "USR-10001", ProductID: "PRD-10001", Quantity: 2})
	require.NoError(t, err)

	cart, err := cmd.AddItem(ctx, AddItemCommand{UserID: "USR-10001", ProductID: "PRD-10001", Quantity: 3})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
}

func TestAddItemKeepsFirstPrice(t *testing.T) {
	cmd, _, _, catalog := newTestCart()
	ctx := context.Background()

	_, err := cmd.AddItem(ctx, AddItemCommand{UserID: "USR-10001", ProductID: "PRD-10001", Quantity: 1})
	require.NoError(t, err)

	// 商品涨价后再次加购，条目价格仍是首次加入时的快照
	catalog.setPrice("PRD-10001", decimal.NewFromInt(1299))
	cart, err := cmd.AddItem(ctx, AddItemCommand{UserID: "USR-10001", ProductID: "PRD-10001", Quantity: 1})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.True(t, cart.Items[0].Price.Equal(decimal.NewFromInt(999)),
		"expected snapshot price 999, got %s", cart.Items[0].Price)
}

func TestAddItemRejectsInvalidQuantity(t *testing.T) {
	cmd, _, _, _ := newTestCart()

	_, err := cmd.AddItem(context.Background(), AddItemCommand{UserID: "USR-10001", ProductID: "PRD-10001", Quantity: 0})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestAddItemUnknownProduct(t *testing.T) {
	cmd, _, _, _ := newTestCart()

	_, err := cmd.AddItem(context.Background(), AddItemCommand{UserID: "USR-10001", ProductID: "PRD-99999", Quantity: 1})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestSetQuantityZeroRemovesItem(t *testing.T) {
	cmd, _, _, _ := newTestCart()
	ctx := context.Background()

	_, err := cmd.AddItem(ctx, AddItemCommand{UserID: "USR-10001", ProductID: "PRD-10001", Quantity: 2})
	require.NoError(t, err)
	_, err = cmd.AddItem(ctx, AddItemCommand{UserID: "USR-10001", ProductID: "PRD-10002", Quantity: 1})
	require.NoError(t, err)

	cart, err := cmd.SetItemQuantity(ctx, SetQuantityCommand{UserID: "USR-10001", ProductID: "PRD-10001", Quantity: 0})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, "PRD-10002", cart.Items[0].ProductID)
}

func TestSetQuantityMissingItem(t *testing.T) {
	cmd, _, _, _ := newTestCart()
	ctx := context.Background()

	_, err := cmd.SetItemQuantity(ctx, SetQuantityCommand{UserID: "USR-10001", ProductID: "PRD-10001", Quantity: 2})
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "no cart yet")

	_, err = cmd.AddItem(ctx, AddItemCommand{UserID: "USR-10001", ProductID: "PRD-10002", Quantity: 1})
	require.NoError(t, err)

	_, err = cmd.SetItemQuantity(ctx, SetQuantityCommand{UserID: "USR-10001", ProductID: "PRD-10001", Quantity: 2})
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "item not in cart")
}

func TestRemoveItemMissing(t *testing.T) {
	cmd, _, _, _ := newTestCart()
	ctx := context.Background()

	_, err := cmd.AddItem(ctx, AddItemCommand{UserID: "USR-10001", ProductID: "PRD-10001", Quantity: 1})
	require.NoError(t, err)

	_, err = cmd.RemoveItem(ctx, "USR-10001", "PRD-99999")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestClearIsIdempotent(t *testing.T) {
	cmd, _, repo, _ := newTestCart()
	ctx := context.Background()

	// 尚无购物车时清空也成功
	require.NoError(t, cmd.Clear(ctx, "USR-10001"))

	_, err := cmd.AddItem(ctx, AddItemCommand{UserID: "USR-10001", ProductID: "PRD-10001", Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, cmd.Clear(ctx, "USR-10001"))
	require.NoError(t, cmd.Clear(ctx, "USR-10001"))

	// 清空后文档保留为空购物车
	cart, err := repo.GetByUserID(ctx, "USR-10001")
	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.Empty(t, cart.Items)
}

func TestGetSynthesizesEmptyCart(t *testing.T) {
	_, query, _, _ := newTestCart()

	cart, err := query.Get(context.Background(), "USR-10001")
	require.NoError(t, err)
	assert.Equal(t, "USR-10001", cart.UserID)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.Total().IsZero())
}

func TestCartTotal(t *testing.T) {
	cmd, query, _, _ := newTestCart()
	ctx := context.Background()

	_, err := cmd.AddItem(ctx, AddItemCommand{UserID: "USR-10001", ProductID: "PRD-10001", Quantity: 2})
	require.NoError(t, err)
	_, err = cmd.AddItem(ctx, AddItemCommand{UserID: "USR-10001", ProductID: "PRD-10002", Quantity: 3})
	require.NoError(t, err)

	cart, err := query.Get(ctx, "USR-10001")
	require.NoError(t, err)
	assert.True(t, cart.Total().Equal(decimal.NewFromInt(2*999+3*25)))
}
