package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartapp "github.com/linjx/gomall/internal/cart/application"
	"github.com/linjx/gomall/internal/wishlist/domain"
	"github.com/linjx/gomall/pkg/apperr"
)

type fakeWishlistRepo struct {
	wishlists map[string]*domain.Wishlist
}

func newFakeWishlistRepo() *fakeWishlistRepo {
	return &fakeWishlistRepo{wishlists: make(map[string]*domain.Wishlist)}
}

func (r *fakeWishlistRepo) Save(_ context.Context, w *domain.Wishlist) error {
	cp := *w
	cp.Entries = append([]domain.WishlistEntry(nil), w.Entries...)
	r.wishlists[w.UserID] = &cp
	return nil
}

func (r *fakeWishlistRepo) GetByUserID(_ context.Context, userID string) (*domain.Wishlist, error) {
	w, ok := r.wishlists[userID]
	if !ok {
		return nil, nil
	}
	cp := *w
	cp.Entries = append([]domain.WishlistEntry(nil), w.Entries...)
	return &cp, nil
}

type fakeCatalog struct {
	products map[string]cartapp.ProductInfo
}

func (f *fakeCatalog) Lookup(_ context.Context, productID string) (*cartapp.ProductInfo, error) {
	p, ok := f.products[productID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func newTestWishlist() (*WishlistCommandService, *WishlistQueryService) {
	repo := newFakeWishlistRepo()
	catalog := &fakeCatalog{products: map[string]cartapp.ProductInfo{
		"PRD-10001": {ProductID: "PRD-10001", Name: "Laptop", Price: decimal.NewFromInt(999)},
		"PRD-10002": {ProductID: "PRD-10002", Name: "Mouse", Price: decimal.NewFromInt(25)},
	}}
	cmd := NewWishlistCommandService(repo, catalog, nil)
	query := NewWishlistQueryService(repo)
	return cmd, query
}

func TestAddDuplicateIsConflict(t *testing.T) {
	cmd, _ := newTestWishlist()
	ctx := context.Background()

	wishlist, err := cmd.Add(ctx, "USR-10001", "PRD-10001")
	require.NoError(t, err)
	require.Len(t, wishlist.Entries, 1)

	_, err = cmd.Add(ctx, "USR-10001", "PRD-10001")
	assert.True(t, apperr.Is(err, apperr.KindConflict))
}

func TestAddUnknownProduct(t *testing.T) {
	cmd, _ := newTestWishlist()

	_, err := cmd.Add(context.Background(), "USR-10001", "PRD-99999")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRemoveMissingEntry(t *testing.T) {
	cmd, _ := newTestWishlist()
	ctx := context.Background()

	_, err := cmd.Remove(ctx, "USR-10001", "PRD-10001")
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "no wishlist yet")

	_, err = cmd.Add(ctx, "USR-10001", "PRD-10002")
	require.NoError(t, err)

	_, err = cmd.Remove(ctx, "USR-10001", "PRD-10001")
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "entry absent")
}

func TestClearRequiresExistingWishlist(t *testing.T) {
	cmd, query := newTestWishlist()
	ctx := context.Background()

	// 与购物车不同：尚无心愿单时清空报 NotFound
	err := cmd.Clear(ctx, "USR-10001")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = cmd.Add(ctx, "USR-10001", "PRD-10001")
	require.NoError(t, err)

	require.NoError(t, cmd.Clear(ctx, "USR-10001"))

	wishlist, err := query.Get(ctx, "USR-10001")
	require.NoError(t, err)
	assert.Empty(t, wishlist.Entries)

	// 清空后文档保留，再次清空仍成功
	require.NoError(t, cmd.Clear(ctx, "USR-10001"))
}

func TestGetSynthesizesEmptyWishlist(t *testing.T) {
	_, query := newTestWishlist()

	wishlist, err := query.Get(context.Background(), "USR-10001")
	require.NoError(t, err)
	assert.Equal(t, "USR-10001", wishlist.UserID)
	assert.Empty(t, wishlist.Entries)
}
