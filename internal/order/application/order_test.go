package application

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linjx/gomall/internal/order/domain"
	"github.com/linjx/gomall/pkg/apperr"
)

type fakeOrderRepo struct {
	orders map[string]*domain.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*domain.Order)}
}

func (r *fakeOrderRepo) Save(_ context.Context, order *domain.Order) error {
	cp := *order
	cp.Items = append([]domain.OrderItem(nil), order.Items...)
	r.orders[order.OrderID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByUserAndID(_ context.Context, userID, orderID string) (*domain.Order, error) {
	order, ok := r.orders[orderID]
	if !ok || order.UserID != userID {
		return nil, nil
	}
	cp := *order
	cp.Items = append([]domain.OrderItem(nil), order.Items...)
	return &cp, nil
}

func (r *fakeOrderRepo) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	var out []*domain.Order
	for _, order := range r.orders {
		if order.UserID == userID {
			cp := *order
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, orderID string, status domain.Status) error {
	order, ok := r.orders[orderID]
	if !ok {
		return errors.New("order missing")
	}
	order.Status = status
	return nil
}

type fakeClearer struct {
	cleared []string
	err     error
}

func (f *fakeClearer) Clear(_ context.Context, userID string) error {
	if f.err != nil {
		return f.err
	}
	f.cleared = append(f.cleared, userID)
	return nil
}

func newTestOrder() (*OrderCommandService, *OrderQueryService, *fakeOrderRepo, *fakeClearer) {
	repo := newFakeOrderRepo()
	clearer := &fakeClearer{}
	cmd := NewOrderCommandService(repo, clearer, nil)
	query := NewOrderQueryService(repo)
	return cmd, query, repo, clearer
}

func TestPlaceOrderComputesTotal(t *testing.T) {
	cmd, _, _, _ := newTestOrder()

	order, err := cmd.Place(context.Background(), PlaceOrderCommand{
		UserID: "USR-10001",
		Items: []PlaceOrderItem{
			{ProductID: "PRD-10001", Name: "Pen", Quantity: 2, Price: decimal.NewFromInt(5)},
			{ProductID: "PRD-10002", Name: "Pad", Quantity: 3, Price: decimal.NewFromInt(5)},
		},
	})
	require.NoError(t, err)

	assert.True(t, order.Total.Equal(decimal.NewFromInt(25)), "expected total 25, got %s", order.Total)
	assert.Equal(t, domain.StatusPending, order.Status)
	assert.NotEmpty(t, order.OrderID)
}

func TestPlaceOrderValidation(t *testing.T) {
	cmd, _, _, _ := newTestOrder()
	ctx := context.Background()

	_, err := cmd.Place(ctx, PlaceOrderCommand{UserID: "USR-10001"})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "empty order")

	_, err = cmd.Place(ctx, PlaceOrderCommand{
		UserID: "USR-10001",
		Items:  []PlaceOrderItem{{ProductID: "PRD-10001", Quantity: 0, Price: decimal.NewFromInt(5)}},
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "zero quantity")

	_, err = cmd.Place(ctx, PlaceOrderCommand{
		UserID: "USR-10001",
		Items:  []PlaceOrderItem{{ProductID: "PRD-10001", Quantity: 1, Price: decimal.NewFromInt(-1)}},
	})
	assert.True(t, apperr.Is(err, apperr.KindValidation), "negative price")
}

func TestPlaceOrderClearsCart(t *testing.T) {
	cmd, _, _, clearer := newTestOrder()

	_, err := cmd.Place(context.Background(), PlaceOrderCommand{
		UserID: "USR-10001",
		Items:  []PlaceOrderItem{{ProductID: "PRD-10001", Quantity: 1, Price: decimal.NewFromInt(5)}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"USR-10001"}, clearer.cleared)
}

func TestPlaceOrderSucceedsWhenCartClearFails(t *testing.T) {
	cmd, _, repo, clearer := newTestOrder()
	clearer.err = errors.New("cart store down")

	order, err := cmd.Place(context.Background(), PlaceOrderCommand{
		UserID: "USR-10001",
		Items:  []PlaceOrderItem{{ProductID: "PRD-10001", Quantity: 1, Price: decimal.NewFromInt(5)}},
	})
	require.NoError(t, err, "order placement survives cart clear failure")
	assert.NotNil(t, repo.orders[order.OrderID])
}

func TestCancelPendingOrder(t *testing.T) {
	cmd, _, _, _ := newTestOrder()
	ctx := context.Background()

	order, err := cmd.Place(ctx, PlaceOrderCommand{
		UserID: "USR-10001",
		Items:  []PlaceOrderItem{{ProductID: "PRD-10001", Quantity: 1, Price: decimal.NewFromInt(5)}},
	})
	require.NoError(t, err)

	cancelled, err := cmd.Cancel(ctx, "USR-10001", order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	// 二次取消报状态非法
	_, err = cmd.Cancel(ctx, "USR-10001", order.OrderID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestCancelShippedOrderRejected(t *testing.T) {
	cmd, _, repo, _ := newTestOrder()
	ctx := context.Background()

	order, err := cmd.Place(ctx, PlaceOrderCommand{
		UserID: "USR-10001",
		Items:  []PlaceOrderItem{{ProductID: "PRD-10001", Quantity: 1, Price: decimal.NewFromInt(5)}},
	})
	require.NoError(t, err)
	repo.orders[order.OrderID].Status = domain.StatusShipped

	_, err = cmd.Cancel(ctx, "USR-10001", order.OrderID)
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))
}

func TestCancelOtherUsersOrderIsNotFound(t *testing.T) {
	cmd, _, _, _ := newTestOrder()
	ctx := context.Background()

	order, err := cmd.Place(ctx, PlaceOrderCommand{
		UserID: "USR-10001",
		Items:  []PlaceOrderItem{{ProductID: "PRD-10001", Quantity: 1, Price: decimal.NewFromInt(5)}},
	})
	require.NoError(t, err)

	_, err = cmd.Cancel(ctx, "USR-10002", order.OrderID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestGetDetailHidesOtherUsersOrders(t *testing.T) {
	cmd, query, _, _ := newTestOrder()
	ctx := context.Background()

	order, err := cmd.Place(ctx, PlaceOrderCommand{
		UserID: "USR-10001",
		Items:  []PlaceOrderItem{{ProductID: "PRD-10001", Quantity: 1, Price: decimal.NewFromInt(5)}},
	})
	require.NoError(t, err)

	_, err = query.GetDetail(ctx, "USR-10002", order.OrderID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	got, err := query.GetDetail(ctx, "USR-10001", order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderID, got.OrderID)
}

func TestUpdateStatusFollowsStateMachine(t *testing.T) {
	cmd, _, _, _ := newTestOrder()
	ctx := context.Background()

	order, err := cmd.Place(ctx, PlaceOrderCommand{
		UserID: "USR-10001",
		Items:  []PlaceOrderItem{{ProductID: "PRD-10001", Quantity: 1, Price: decimal.NewFromInt(5)}},
	})
	require.NoError(t, err)

	// pending 不能直接 delivered
	_, err = cmd.UpdateStatus(ctx, UpdateStatusCommand{UserID: "USR-10001", OrderID: order.OrderID, Status: domain.StatusDelivered})
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	for _, status := range []domain.Status{domain.StatusProcessing, domain.StatusShipped, domain.StatusDelivered} {
		updated, err := cmd.UpdateStatus(ctx, UpdateStatusCommand{UserID: "USR-10001", OrderID: order.OrderID, Status: status})
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	// delivered 为终态
	_, err = cmd.UpdateStatus(ctx, UpdateStatusCommand{UserID: "USR-10001", OrderID: order.OrderID, Status: domain.StatusCancelled})
	assert.True(t, apperr.Is(err, apperr.KindInvalidState))

	_, err = cmd.UpdateStatus(ctx, UpdateStatusCommand{UserID: "USR-10001", OrderID: order.OrderID, Status: "unknown"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
