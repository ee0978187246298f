package application

import (
	"context"
	"sort"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linjx/gomall/internal/catalog/domain"
	"github.com/linjx/gomall/internal/sequence"
	"github.com/linjx/gomall/pkg/apperr"
)

type fakeProductRepo struct {
	products map[string]*domain.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*domain.Product)}
}

func (r *fakeProductRepo) Save(_ context.Context, p *domain.Product) error {
	cp := *p
	r.products[p.ProductID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByProductID(_ context.Context, productID string) (*domain.Product, error) {
	p, ok := r.products[productID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) Delete(_ context.Context, productID string) error {
	delete(r.products, productID)
	return nil
}

func (r *fakeProductRepo) List(_ context.Context, category, sortKey string, offset, limit int) ([]*domain.Product, int64, error) {
	var all []*domain.Product
	for _, p := range r.products {
		if category != "" && p.Category != category {
			continue
		}
		cp := *p
		all = append(all, &cp)
	}
	switch sortKey {
	case "price_asc":
		sort.Slice(all, func(i, j int) bool { return all[i].Price.LessThan(all[j].Price) })
	case "price_desc":
		sort.Slice(all, func(i, j int) bool { return all[j].Price.LessThan(all[i].Price) })
	default:
		sort.Slice(all, func(i, j int) bool { return all[i].ProductID < all[j].ProductID })
	}
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (r *fakeProductRepo) Search(_ context.Context, query string, offset, limit int) ([]*domain.Product, int64, error) {
	var all []*domain.Product
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(query)) {
			cp := *p
			all = append(all, &cp)
		}
	}
	return all, int64(len(all)), nil
}

func (r *fakeProductRepo) ListFeatured(_ context.Context, limit int) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.products {
		if p.Featured {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListNewest(_ context.Context, limit int) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, p := range r.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func newTestCatalog() (*CatalogCommandService, *CatalogQueryService, *fakeProductRepo) {
	repo := newFakeProductRepo()
	cmd := NewCatalogCommandService(repo, sequence.NewMemoryAllocator(), nil, nil)
	query := NewCatalogQueryService(repo, nil)
	return cmd, query, repo
}

func TestCreateProductAllocatesSequentialIDs(t *testing.T) {
	cmd, _, _ := newTestCatalog()
	ctx := context.Background()

	first, err := cmd.CreateProduct(ctx, CreateProductCommand{
		Name:  "Laptop",
		Price: decimal.NewFromInt(999),
		Stock: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, "PRD-10001", first.ProductID)

	second, err := cmd.CreateProduct(ctx, CreateProductCommand{
		Name:  "Mouse",
		Price: decimal.NewFromInt(25),
		Stock: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, "PRD-10002", second.ProductID)
}

func TestCreateProductValidation(t *testing.T) {
	cmd, _, _ := newTestCatalog()
	ctx := context.Background()

	_, err := cmd.CreateProduct(ctx, CreateProductCommand{Name: "  ", Price: decimal.NewFromInt(1)})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = cmd.CreateProduct(ctx, CreateProductCommand{Name: "Bad", Price: decimal.NewFromInt(-1)})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = cmd.CreateProduct(ctx, CreateProductCommand{Name: "Bad", Price: decimal.NewFromInt(1), Stock: -5})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestUpdateProductNotFound(t *testing.T) {
	cmd, _, _ := newTestCatalog()

	_, err := cmd.UpdateProduct(context.Background(), UpdateProductCommand{
		ProductID: "PRD-99999",
		Name:      "Ghost",
		Price:     decimal.NewFromInt(1),
	})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestDeleteProductNotFound(t *testing.T) {
	cmd, _, _ := newTestCatalog()

	err := cmd.DeleteProduct(context.Background(), "PRD-99999")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRateProductRunningAverage(t *testing.T) {
	cmd, _, _ := newTestCatalog()
	ctx := context.Background()

	product, err := cmd.CreateProduct(ctx, CreateProductCommand{
		Name:  "Keyboard",
		Price: decimal.NewFromInt(49),
		Stock: 5,
	})
	require.NoError(t, err)

	rated, err := cmd.RateProduct(ctx, RateProductCommand{ProductID: product.ProductID, UserID: "USR-10001", Score: 5})
	require.NoError(t, err)
	assert.InDelta(t, 5.0, rated.RatingAvg, 1e-9)
	assert.Equal(t, 1, rated.RatingCount)

	rated, err = cmd.RateProduct(ctx, RateProductCommand{ProductID: product.ProductID, UserID: "USR-10002", Score: 2})
	require.NoError(t, err)
	assert.InDelta(t, 3.5, rated.RatingAvg, 1e-9)
	assert.Equal(t, 2, rated.RatingCount)
}

func TestRateProductScoreBounds(t *testing.T) {
	cmd, _, _ := newTestCatalog()
	ctx := context.Background()

	product, err := cmd.CreateProduct(ctx, CreateProductCommand{
		Name:  "Monitor",
		Price: decimal.NewFromInt(199),
	})
	require.NoError(t, err)

	for _, score := range []int{0, 6, -1} {
		_, err := cmd.RateProduct(ctx, RateProductCommand{ProductID: product.ProductID, UserID: "USR-10001", Score: score})
		assert.True(t, apperr.Is(err, apperr.KindValidation), "score %d should be rejected", score)
	}
}

func TestGetProductNotFound(t *testing.T) {
	_, query, _ := newTestCatalog()

	_, err := query.GetProduct(context.Background(), "PRD-99999")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestListProductsSortWhitelist(t *testing.T) {
	cmd, query, _ := newTestCatalog()
	ctx := context.Background()

	for _, p := range []struct {
		name  string
		price int64
	}{{"A", 30}, {"B", 10}, {"C", 20}} {
		_, err := cmd.CreateProduct(ctx, CreateProductCommand{Name: p.name, Price: decimal.NewFromInt(p.price)})
		require.NoError(t, err)
	}

	result, err := query.ListProducts(ctx, ListProductsQuery{Sort: "price_asc", Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, result.Products, 3)
	assert.Equal(t, "B", result.Products[0].Name)
	assert.Equal(t, "A", result.Products[2].Name)
	assert.Equal(t, int64(3), result.Pagination.Total)

	_, err = query.ListProducts(ctx, ListProductsQuery{Sort: "alphabetical"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestSearchRequiresQuery(t *testing.T) {
	_, query, _ := newTestCatalog()

	_, err := query.Search(context.Background(), "   ", 1, 10)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
