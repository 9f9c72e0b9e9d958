package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	"github.com/dynamicsamic/testDbDesign/internal/logger"
	"github.com/dynamicsamic/testDbDesign/internal/metrics"
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderUsecase struct {
	tx repo.TransactionManager
	// 注文番号の採番（テストで差し替える）
	newNumber func() string
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx, newNumber: uuid.NewString}
}

type OrderItemOutput struct {
	ID               int64           `json:"id"`
	ProductVersionID int64           `json:"product_version_id"`
	Name             string          `json:"name"`
	SKU              string          `json:"sku"`
	RegularPrice     decimal.Decimal `json:"regular_price"`
	Price            decimal.Decimal `json:"price"`
	Quantity         int64           `json:"quantity"`
	LineSum          decimal.Decimal `json:"line_sum"`
	IsCanceled       bool            `json:"is_canceled"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	Number        string            `json:"number"`
	CustomerID    int64             `json:"customer_id"`
	Status        string            `json:"status"`
	DiscountedSum decimal.Decimal   `json:"discounted_sum"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []OrderItemOutput `json:"items"`
}

type OrderListOutput struct {
	Items []OrderOutput `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// CreateFromCart は注文対象の明細を PENDING 注文に移す。
// 在庫減算・明細作成・カート明細削除は1つのTx。
func (u *OrderUsecase) CreateFromCart(ctx context.Context, customerID int64) (OrderOutput, error) {
	if customerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out OrderOutput
	var sold int64
	var created bool

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//同じ顧客のチェックアウトを直列化
		cart, err := r.Carts().FindByCustomerIDForUpdate(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("cart not found")
		}
		if err != nil {
			return dbError(ctx, "find cart", err)
		}

		marked, err := r.CartItems().ListMarkedByCartID(ctx, cart.ID)
		if err != nil {
			return dbError(ctx, "list cart items", err)
		}
		if len(marked) == 0 {
			return notFound("no cart items marked for order")
		}

		//PENDING があれば使い回す
		order, found, err := r.Orders().FindPendingByCustomerID(ctx, customerID)
		if err != nil {
			return dbError(ctx, "find pending order", err)
		}
		if !found {
			order = model.Order{
				Number:        u.newNumber(),
				CustomerID:    customerID,
				Status:        model.OrderStatusPending,
				DiscountedSum: decimal.Zero,
			}
			if err := r.Orders().Create(ctx, &order); err != nil {
				return dbError(ctx, "create order", err)
			}
			created = true
		}

		//在庫を確定時に再チェックして減らす
		orderItems := make([]model.OrderItem, 0, len(marked))
		cartItemIDs := make([]int64, 0, len(marked))
		for _, ci := range marked {
			ok, err := r.Stocks().SellIfEnough(ctx, ci.ProductVersionID, ci.Quantity)
			if err != nil {
				return dbError(ctx, "sell stock", err)
			}
			if !ok {
				return WrapHTTPError(http.StatusBadRequest,
					fmt.Sprintf("not enough product left: %s", ci.SKUSnapshot),
					model.ErrNotEnoughProductLeft)
			}

			orderID := order.ID
			if err := r.Stocks().CreateMovement(ctx, model.StockMovement{
				ProductVersionID: ci.ProductVersionID,
				Kind:             model.StockMovementSale,
				Delta:            -ci.Quantity,
				OrderID:          &orderID,
			}); err != nil {
				return dbError(ctx, "create stock movement", err)
			}

			orderItems = append(orderItems, model.OrderItemFromCartItem(ci))
			cartItemIDs = append(cartItemIDs, ci.ID)
			sold += ci.Quantity
		}

		//注文明細一括作成
		if err := r.OrderItems().CreateBulk(ctx, order.ID, orderItems); err != nil {
			return dbError(ctx, "create order items", err)
		}

		//注文に移した明細だけ削除（対象外は残る）
		if err := r.CartItems().DeleteByIDs(ctx, cartItemIDs); err != nil {
			return dbError(ctx, "delete cart items", err)
		}

		//合計は明細から計算し直す
		all, err := r.OrderItems().ListByOrderID(ctx, order.ID)
		if err != nil {
			return dbError(ctx, "list order items", err)
		}
		order.DiscountedSum = model.OrderTotal(all)
		if err := r.Orders().UpdateTotal(ctx, order.ID, order.DiscountedSum); err != nil {
			return dbError(ctx, "update order total", err)
		}

		//空になったら EMPTY
		if err := syncCartStatus(ctx, r, cart); err != nil {
			return err
		}

		out = toOrderOutput(order, all)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	if created {
		metrics.OrdersCreated.Inc()
	}
	metrics.StockUnits.WithLabelValues(string(model.StockMovementSale)).Add(float64(sold))
	logger.Info(ctx, "order placed",
		zap.Int64("order_id", out.ID),
		zap.Int64("customer_id", customerID),
		zap.String("total", out.DiscountedSum.StringFixed(2)),
	)
	return out, nil
}

// 顧客によるキャンセル
func (u *OrderUsecase) Cancel(ctx context.Context, customerID int64, orderID int64) (OrderOutput, error) {
	if customerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput
	var res canceledOrder
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("not found")
		}
		if err != nil {
			return dbError(ctx, "find order", err)
		}
		//他人の注文は「存在しない扱い」にする
		if o.CustomerID != customerID {
			return notFound("not found")
		}

		res, err = cancelOrder(ctx, r, o, model.CancelByCustomer)
		if err != nil {
			return err
		}
		out = toOrderOutput(res.Order, res.Items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	res.record(ctx, model.CancelByCustomer)
	return out, nil
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, customerID int64, page int, limit int) (OrderListOutput, error) {
	if customerID <= 0 {
		return OrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	page, limit, err := normalizePage(page, limit)
	if err != nil {
		return OrderListOutput{}, err
	}

	var out OrderListOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListByCustomerID(ctx, customerID, page, limit)
		if err != nil {
			return dbError(ctx, "list orders", err)
		}

		outs := make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return dbError(ctx, "list order items", err)
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		out = OrderListOutput{Items: outs, Total: total, Page: page, Limit: limit}
		return nil
	})
	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, customerID int64, orderID int64) (OrderOutput, error) {
	if customerID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("not found")
		}
		if err != nil {
			return dbError(ctx, "find order", err)
		}
		if o.CustomerID != customerID {
			return notFound("not found")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return dbError(ctx, "list order items", err)
		}

		out = toOrderOutput(o, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// canceledOrder は cancelOrder の結果。Changed=false はキャンセル済みだった。
type canceledOrder struct {
	Order    model.Order
	Items    []model.OrderItem
	Changed  bool
	Restored int64
}

// コミット後に呼ぶ
func (c canceledOrder) record(ctx context.Context, initiator model.CancelInitiator) {
	if !c.Changed {
		return
	}
	metrics.OrdersCanceled.WithLabelValues(string(initiator)).Inc()
	metrics.StockUnits.WithLabelValues(string(model.StockMovementCancelRestore)).Add(float64(c.Restored))
	logger.Info(ctx, "order canceled",
		zap.Int64("order_id", c.Order.ID),
		zap.String("initiator", string(initiator)),
		zap.Int64("restored_units", c.Restored),
	)
}

// cancelOrder は行ロック済みの注文をキャンセルする。
// キャンセル済みなら何もしない（在庫は1回だけ戻る）。
func cancelOrder(ctx context.Context, r repo.TxRepos, o model.Order, initiator model.CancelInitiator) (canceledOrder, error) {
	items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
	if err != nil {
		return canceledOrder{}, dbError(ctx, "list order items", err)
	}

	if o.Status.IsCanceled() {
		return canceledOrder{Order: o, Items: items}, nil
	}
	if !o.Status.IsCancelable() {
		return canceledOrder{}, invalid(fmt.Sprintf("order in status %s cannot be canceled", o.Status))
	}

	next, err := initiator.CanceledStatus()
	if err != nil {
		return canceledOrder{}, domainError(ctx, "cancel initiator", err)
	}

	//在庫戻し
	ids := make([]int64, 0, len(items))
	var restored int64
	for i := range items {
		it := &items[i]
		if it.IsCanceled {
			continue
		}
		if err := r.Stocks().Restore(ctx, it.ProductVersionID, it.Quantity); err != nil {
			return canceledOrder{}, dbError(ctx, "restore stock", err)
		}
		orderID := o.ID
		if err := r.Stocks().CreateMovement(ctx, model.StockMovement{
			ProductVersionID: it.ProductVersionID,
			Kind:             model.StockMovementCancelRestore,
			Delta:            it.Quantity,
			OrderID:          &orderID,
		}); err != nil {
			return canceledOrder{}, dbError(ctx, "create stock movement", err)
		}
		it.IsCanceled = true
		ids = append(ids, it.ID)
		restored += it.Quantity
	}

	//数量は残したままフラグだけ立てる
	if err := r.OrderItems().MarkCanceled(ctx, ids); err != nil {
		return canceledOrder{}, dbError(ctx, "mark order items canceled", err)
	}
	if err := r.Orders().UpdateStatus(ctx, o.ID, next); err != nil {
		return canceledOrder{}, dbError(ctx, "update order status", err)
	}
	o.Status = next

	o.DiscountedSum = model.OrderTotal(items)
	if err := r.Orders().UpdateTotal(ctx, o.ID, o.DiscountedSum); err != nil {
		return canceledOrder{}, dbError(ctx, "update order total", err)
	}

	return canceledOrder{Order: o, Items: items, Changed: true, Restored: restored}, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ID:               it.ID,
			ProductVersionID: it.ProductVersionID,
			Name:             it.NameSnapshot,
			SKU:              it.SKUSnapshot,
			RegularPrice:     it.RegularPrice,
			Price:            it.Price,
			Quantity:         it.Quantity,
			LineSum:          it.LineSum,
			IsCanceled:       it.IsCanceled,
		})
	}

	return OrderOutput{
		ID:            o.ID,
		Number:        o.Number,
		CustomerID:    o.CustomerID,
		Status:        string(o.Status),
		DiscountedSum: o.DiscountedSum,
		CreatedAt:     o.CreatedAt,
		Items:         outItems,
	}
}
