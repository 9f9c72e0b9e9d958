package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"
	"github.com/dynamicsamic/testDbDesign/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	store      *memStore
	customerID int64
	laptop     int64
	mouse      int64
	cable      int64
	carts      *usecase.CartUsecase
	orders     *usecase.OrderUsecase
}

// laptop x2, mouse x3 は注文対象、cable x1 は対象外
func newOrderFixture(t *testing.T) orderFixture {
	t.Helper()
	store := newMemStore()
	f := orderFixture{
		store:      store,
		customerID: store.seedCustomer("alice"),
		laptop:     store.seedVersion(seedVersion{Name: "Laptop", SKU: "LP-1", Price: "1000.00", Discount: 10, Active: true, Stock: 10}),
		mouse:      store.seedVersion(seedVersion{Name: "Mouse", SKU: "MS-1", Price: "20.00", Active: true, Stock: 50}),
		cable:      store.seedVersion(seedVersion{Name: "Cable", SKU: "CB-1", Price: "5.00", Active: true, Stock: 7}),
		carts:      usecase.NewCartUsecase(store),
		orders:     usecase.NewOrderUsecase(store),
	}

	add := func(id int64, qty int64, marked bool) {
		_, err := f.carts.AddProductVersion(context.Background(), f.customerID, usecase.AddCartItemInput{ProductVersionID: id, Quantity: qty, MarkedForOrder: boolPtr(marked)})
		require.NoError(t, err)
	}
	add(f.laptop, 2, true)
	add(f.mouse, 3, true)
	add(f.cable, 1, false)
	return f
}

func TestOrder_CreateFromCart_MovesMarkedItems(t *testing.T) {
	f := newOrderFixture(t)

	out, err := f.orders.CreateFromCart(context.Background(), f.customerID)
	require.NoError(t, err)

	assert.Equal(t, string(model.OrderStatusPending), out.Status)
	assert.NotEmpty(t, out.Number)
	require.Len(t, out.Items, 2)
	// 900*2 + 20*3
	assert.True(t, out.DiscountedSum.Equal(decimal.RequireFromString("1860.00")), out.DiscountedSum.String())

	laptop := f.store.stock(f.laptop)
	assert.Equal(t, int64(8), laptop.CurrentAmount)
	assert.Equal(t, int64(2), laptop.ItemsSold)
	mouse := f.store.stock(f.mouse)
	assert.Equal(t, int64(47), mouse.CurrentAmount)
	assert.Equal(t, int64(3), mouse.ItemsSold)
	// 対象外は減らない
	assert.Equal(t, int64(7), f.store.stock(f.cable).CurrentAmount)

	cart := f.store.cart(f.customerID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, f.cable, cart.Items[0].ProductVersionID)
	assert.Equal(t, model.CartStatusInProgress, cart.Status)

	// SALE の履歴が明細ごとに残る
	var sales int
	for _, m := range f.store.st.movements {
		if m.Kind == model.StockMovementSale {
			sales++
			require.NotNil(t, m.OrderID)
			assert.Equal(t, out.ID, *m.OrderID)
		}
	}
	assert.Equal(t, 2, sales)
}

func TestOrder_CreateFromCart_AllMarked_EmptiesCart(t *testing.T) {
	store := newMemStore()
	customerID := store.seedCustomer("bob")
	pvID := store.seedVersion(seedVersion{Name: "Laptop", SKU: "LP-1", Price: "10.00", Active: true, Stock: 3})
	carts := usecase.NewCartUsecase(store)
	orders := usecase.NewOrderUsecase(store)

	_, err := carts.AddProductVersion(context.Background(), customerID, usecase.AddCartItemInput{ProductVersionID: pvID, Quantity: 3})
	require.NoError(t, err)

	_, err = orders.CreateFromCart(context.Background(), customerID)
	require.NoError(t, err)

	cart := store.cart(customerID)
	assert.Empty(t, cart.Items)
	assert.Equal(t, model.CartStatusEmpty, cart.Status)
	assert.Equal(t, int64(0), store.stock(pvID).CurrentAmount)
}

func TestOrder_CreateFromCart_NothingMarked(t *testing.T) {
	store := newMemStore()
	customerID := store.seedCustomer("bob")
	pvID := store.seedVersion(seedVersion{Name: "Laptop", SKU: "LP-1", Price: "10.00", Active: true, Stock: 3})
	carts := usecase.NewCartUsecase(store)
	orders := usecase.NewOrderUsecase(store)

	_, err := carts.AddProductVersion(context.Background(), customerID, usecase.AddCartItemInput{ProductVersionID: pvID, Quantity: 1, MarkedForOrder: boolPtr(false)})
	require.NoError(t, err)
	before := store.cart(customerID)

	_, err = orders.CreateFromCart(context.Background(), customerID)
	requireHTTPStatus(t, err, http.StatusNotFound)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	after := store.cart(customerID)
	assert.Equal(t, before.Items, after.Items)
	assert.Equal(t, before.Status, after.Status)
	assert.Empty(t, store.st.orders)
}

func TestOrder_CreateFromCart_EmptyCart(t *testing.T) {
	store := newMemStore()
	customerID := store.seedCustomer("bob")

	_, err := usecase.NewOrderUsecase(store).CreateFromCart(context.Background(), customerID)
	requireHTTPStatus(t, err, http.StatusNotFound)
}

func TestOrder_CreateFromCart_NotEnoughStock_RollsBack(t *testing.T) {
	f := newOrderFixture(t)

	// 別経路で mouse の在庫が減った
	s := f.store.st.stocks[f.mouse]
	s.CurrentAmount = 1
	f.store.st.stocks[f.mouse] = s

	_, err := f.orders.CreateFromCart(context.Background(), f.customerID)
	requireHTTPStatus(t, err, http.StatusBadRequest)
	assert.ErrorIs(t, err, model.ErrNotEnoughProductLeft)

	// laptop の減算も巻き戻っている
	assert.Equal(t, int64(10), f.store.stock(f.laptop).CurrentAmount)
	assert.Equal(t, int64(0), f.store.stock(f.laptop).ItemsSold)
	assert.Len(t, f.store.cart(f.customerID).Items, 3)
	assert.Empty(t, f.store.st.orders)
	assert.Empty(t, f.store.st.orderItems)
}

func TestOrder_SecondCheckout_AppendsToPendingOrder(t *testing.T) {
	f := newOrderFixture(t)

	first, err := f.orders.CreateFromCart(context.Background(), f.customerID)
	require.NoError(t, err)

	_, err = f.carts.UpdateItem(context.Background(), f.customerID, f.store.cart(f.customerID).Items[0].ID, usecase.UpdateCartItemInput{MarkedForOrder: boolPtr(true)})
	require.NoError(t, err)

	second, err := f.orders.CreateFromCart(context.Background(), f.customerID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.Items, 3)
	assert.True(t, second.DiscountedSum.Equal(decimal.RequireFromString("1865.00")), second.DiscountedSum.String())
	assert.Len(t, f.store.st.orders, 1)
}

func TestOrder_Cancel_RestoresStock(t *testing.T) {
	f := newOrderFixture(t)
	laptopBefore := f.store.stock(f.laptop)
	mouseBefore := f.store.stock(f.mouse)

	placed, err := f.orders.CreateFromCart(context.Background(), f.customerID)
	require.NoError(t, err)

	out, err := f.orders.Cancel(context.Background(), f.customerID, placed.ID)
	require.NoError(t, err)

	assert.Equal(t, string(model.OrderStatusCanceledByCustomer), out.Status)
	assert.Equal(t, laptopBefore.CurrentAmount, f.store.stock(f.laptop).CurrentAmount)
	assert.Equal(t, laptopBefore.ItemsSold, f.store.stock(f.laptop).ItemsSold)
	assert.Equal(t, mouseBefore.CurrentAmount, f.store.stock(f.mouse).CurrentAmount)
	assert.Equal(t, mouseBefore.ItemsSold, f.store.stock(f.mouse).ItemsSold)

	// 数量は残してフラグだけ立つ
	for _, it := range out.Items {
		assert.True(t, it.IsCanceled)
		assert.Positive(t, it.Quantity)
	}
	assert.True(t, out.DiscountedSum.IsZero())
}

func TestOrder_Cancel_IsIdempotent(t *testing.T) {
	f := newOrderFixture(t)
	before := f.store.stock(f.laptop)

	placed, err := f.orders.CreateFromCart(context.Background(), f.customerID)
	require.NoError(t, err)

	_, err = f.orders.Cancel(context.Background(), f.customerID, placed.ID)
	require.NoError(t, err)
	out, err := f.orders.Cancel(context.Background(), f.customerID, placed.ID)
	require.NoError(t, err)

	assert.Equal(t, string(model.OrderStatusCanceledByCustomer), out.Status)
	assert.Equal(t, before.CurrentAmount, f.store.stock(f.laptop).CurrentAmount)

	var restores int
	for _, m := range f.store.st.movements {
		if m.Kind == model.StockMovementCancelRestore && m.ProductVersionID == f.laptop {
			restores++
		}
	}
	assert.Equal(t, 1, restores)
}

func TestOrder_Cancel_OtherCustomersOrder(t *testing.T) {
	f := newOrderFixture(t)
	mallory := f.store.seedCustomer("mallory")

	placed, err := f.orders.CreateFromCart(context.Background(), f.customerID)
	require.NoError(t, err)

	_, err = f.orders.Cancel(context.Background(), mallory, placed.ID)
	requireHTTPStatus(t, err, http.StatusNotFound)
	assert.Equal(t, model.OrderStatusPending, f.store.st.orders[placed.ID].Status)
}

func TestOrder_Cancel_NotCancelableStatus(t *testing.T) {
	f := newOrderFixture(t)

	placed, err := f.orders.CreateFromCart(context.Background(), f.customerID)
	require.NoError(t, err)

	o := f.store.st.orders[placed.ID]
	o.Status = model.OrderStatusOnDelivery
	f.store.st.orders[placed.ID] = o
	stockBefore := f.store.stock(f.laptop)

	_, err = f.orders.Cancel(context.Background(), f.customerID, placed.ID)
	requireHTTPStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, stockBefore, f.store.stock(f.laptop))
	assert.Equal(t, model.OrderStatusOnDelivery, f.store.st.orders[placed.ID].Status)
}

func TestOrder_ListAndDetail(t *testing.T) {
	f := newOrderFixture(t)
	mallory := f.store.seedCustomer("mallory")

	placed, err := f.orders.CreateFromCart(context.Background(), f.customerID)
	require.NoError(t, err)

	list, err := f.orders.ListMyOrders(context.Background(), f.customerID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
	require.Len(t, list.Items, 1)
	assert.Len(t, list.Items[0].Items, 2)

	detail, err := f.orders.GetMyOrderDetail(context.Background(), f.customerID, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.Number, detail.Number)

	_, err = f.orders.GetMyOrderDetail(context.Background(), mallory, placed.ID)
	requireHTTPStatus(t, err, http.StatusNotFound)

	_, err = f.orders.ListMyOrders(context.Background(), f.customerID, 1, 1000)
	requireHTTPStatus(t, err, http.StatusBadRequest)
}
