package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase は /cart の業務ロジックです。
// 変更系はすべてTx内でカート行をロックしてから行います。
type CartUsecase struct {
	tx repo.TransactionManager
}

func NewCartUsecase(tx repo.TransactionManager) *CartUsecase {
	return &CartUsecase{tx: tx}
}

// price は追加時点のスナップショットを返します。
type CartItemOutput struct {
	ID               int64           `json:"id"`
	ProductVersionID int64           `json:"product_version_id"`
	Name             string          `json:"name"`
	SKU              string          `json:"sku"`
	RegularPrice     decimal.Decimal `json:"regular_price"`
	Discount         int             `json:"discount"`
	FinalPrice       decimal.Decimal `json:"final_price"`
	Quantity         int64           `json:"quantity"`
	MarkedForOrder   bool            `json:"marked_for_order"`
	LineSum          decimal.Decimal `json:"line_sum"`
}

type CartOutput struct {
	ID            int64            `json:"id"`
	Status        string           `json:"status"`
	Items         []CartItemOutput `json:"items"`
	InitialSum    decimal.Decimal  `json:"initial_sum"`
	DiscountedSum decimal.Decimal  `json:"discounted_sum"`
	TotalDiscount decimal.Decimal  `json:"total_discount"`
	MarkedSum     decimal.Decimal  `json:"marked_sum"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

type AddCartItemInput struct {
	ProductVersionID int64 `json:"product_version_id"`
	Quantity         int64 `json:"quantity"`
	// 省略時は true
	MarkedForOrder *bool `json:"marked_for_order"`
}

type UpdateCartItemInput struct {
	Quantity       *int64 `json:"quantity"`
	MarkedForOrder *bool  `json:"marked_for_order"`
}

func (u *CartUsecase) GetCart(ctx context.Context, customerID int64) (CartOutput, error) {
	if customerID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out CartOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindByCustomerID(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("cart not found")
		}
		if err != nil {
			return dbError(ctx, "find cart", err)
		}
		out = toCartOutput(cart)
		return nil
	})
	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

// AddProductVersion はカートに追加（同一商品は数量加算）。
func (u *CartUsecase) AddProductVersion(ctx context.Context, customerID int64, in AddCartItemInput) (CartItemOutput, error) {
	if customerID <= 0 {
		return CartItemOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductVersionID <= 0 {
		return CartItemOutput{}, invalid("invalid product_version_id")
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 1 {
		return CartItemOutput{}, invalid("invalid quantity")
	}
	marked := true
	if in.MarkedForOrder != nil {
		marked = *in.MarkedForOrder
	}

	var out CartItemOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//顧客のカート
		cart, err := r.Carts().FindByCustomerIDForUpdate(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("cart not found")
		}
		if err != nil {
			return dbError(ctx, "find cart", err)
		}

		//商品と在庫を1回で取得
		pv, err := r.Products().FindVersionWithStock(ctx, in.ProductVersionID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("product not found")
		}
		if err != nil {
			return dbError(ctx, "find product", err)
		}

		//非公開は追加できない
		if !pv.IsActive {
			return invalid("product is not active")
		}

		//在庫チェックは加算後の数量で行う
		existing, found, err := r.CartItems().FindByCartAndVersion(ctx, cart.ID, pv.ID)
		if err != nil {
			return dbError(ctx, "find cart item", err)
		}
		want := in.Quantity
		if found {
			want += existing.Quantity
		}
		if pv.Stock == nil || !pv.Stock.Available(want) {
			return invalid(fmt.Sprintf("only %d left in stock", availableOf(pv)))
		}

		//同一商品は数量加算、無ければスナップショットして作成
		saved, err := r.CartItems().Upsert(ctx, model.NewCartItem(cart.ID, pv, in.Quantity, marked))
		if err != nil {
			return dbError(ctx, "upsert cart item", err)
		}
		// 既存明細のフラグは明示されたときだけ変える
		if found && in.MarkedForOrder != nil && saved.MarkedForOrder != *in.MarkedForOrder {
			if err := r.CartItems().UpdateItem(ctx, saved.ID, saved.Quantity, *in.MarkedForOrder); err != nil {
				return dbError(ctx, "update cart item", err)
			}
			saved.MarkedForOrder = *in.MarkedForOrder
		}

		//最初の1件なら IN_PROGRESS へ
		if err := syncCartStatus(ctx, r, cart); err != nil {
			return err
		}

		out = toCartItemOutput(saved)
		return nil
	})
	if err != nil {
		return CartItemOutput{}, err
	}
	return out, nil
}

// 明細の数量・注文対象フラグを更新
func (u *CartUsecase) UpdateItem(ctx context.Context, customerID int64, cartItemID int64, in UpdateCartItemInput) (CartOutput, error) {
	if customerID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Quantity != nil && *in.Quantity < 1 {
		return CartOutput{}, invalid("invalid quantity")
	}

	var out CartOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindByCustomerIDForUpdate(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("cart not found")
		}
		if err != nil {
			return dbError(ctx, "find cart", err)
		}

		item, err := r.CartItems().FindByID(ctx, cartItemID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("cart item not found")
		}
		if err != nil {
			return dbError(ctx, "find cart item", err)
		}
		//他人の明細は存在しない扱い
		if item.CartID != cart.ID {
			return notFound("cart item not found")
		}

		qty := item.Quantity
		marked := item.MarkedForOrder
		if in.MarkedForOrder != nil {
			marked = *in.MarkedForOrder
		}
		if in.Quantity != nil && *in.Quantity != item.Quantity {
			qty = *in.Quantity
			// 増やすときだけ在庫を見る
			if qty > item.Quantity {
				pv, err := r.Products().FindVersionWithStock(ctx, item.ProductVersionID)
				if err != nil {
					return domainError(ctx, "find product", err)
				}
				if pv.Stock == nil || !pv.Stock.Available(qty) {
					return invalid(fmt.Sprintf("only %d left in stock", availableOf(pv)))
				}
			}
		}

		if err := r.CartItems().UpdateItem(ctx, item.ID, qty, marked); err != nil {
			return domainError(ctx, "update cart item", err)
		}
		if err := syncCartStatus(ctx, r, cart); err != nil {
			return err
		}

		out, err = reloadCart(ctx, r, customerID)
		return err
	})
	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

// 明細を削除。最後の1件なら EMPTY に戻る
func (u *CartUsecase) DeleteItem(ctx context.Context, customerID int64, cartItemID int64) (CartOutput, error) {
	if customerID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out CartOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindByCustomerIDForUpdate(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("cart not found")
		}
		if err != nil {
			return dbError(ctx, "find cart", err)
		}

		owned, err := r.CartItems().IsOwnedByCustomer(ctx, cartItemID, customerID)
		if err != nil {
			return dbError(ctx, "check cart item owner", err)
		}
		if !owned {
			return notFound("cart item not found")
		}

		if err := r.CartItems().DeleteByID(ctx, cartItemID); err != nil {
			return domainError(ctx, "delete cart item", err)
		}
		if err := syncCartStatus(ctx, r, cart); err != nil {
			return err
		}

		out, err = reloadCart(ctx, r, customerID)
		return err
	})
	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

// カートを空にする
func (u *CartUsecase) Clear(ctx context.Context, customerID int64) (CartOutput, error) {
	if customerID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out CartOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindByCustomerIDForUpdate(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("cart not found")
		}
		if err != nil {
			return dbError(ctx, "find cart", err)
		}

		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return dbError(ctx, "clear cart", err)
		}

		out, err = reloadCart(ctx, r, customerID)
		return err
	})
	if err != nil {
		return CartOutput{}, err
	}
	return out, nil
}

// syncCartStatus は明細数から状態を決め直し、updated_at を進める。
func syncCartStatus(ctx context.Context, r repo.TxRepos, cart model.Cart) error {
	n, err := r.CartItems().CountByCartID(ctx, cart.ID)
	if err != nil {
		return dbError(ctx, "count cart items", err)
	}

	status := model.StatusFor(n)
	if status != cart.Status {
		if err := r.Carts().UpdateStatus(ctx, cart.ID, status); err != nil {
			return dbError(ctx, "update cart status", err)
		}
		return nil
	}
	if err := r.Carts().Touch(ctx, cart.ID); err != nil {
		return dbError(ctx, "touch cart", err)
	}
	return nil
}

func reloadCart(ctx context.Context, r repo.TxRepos, customerID int64) (CartOutput, error) {
	cart, err := r.Carts().FindByCustomerID(ctx, customerID)
	if err != nil {
		return CartOutput{}, domainError(ctx, "find cart", err)
	}
	return toCartOutput(cart), nil
}

func availableOf(pv model.ProductVersion) int64 {
	if pv.Stock == nil {
		return 0
	}
	return pv.Stock.CurrentAmount
}

func toCartItemOutput(it model.CartItem) CartItemOutput {
	return CartItemOutput{
		ID:               it.ID,
		ProductVersionID: it.ProductVersionID,
		Name:             it.NameSnapshot,
		SKU:              it.SKUSnapshot,
		RegularPrice:     it.RegularPrice,
		Discount:         it.Discount,
		FinalPrice:       it.FinalPrice,
		Quantity:         it.Quantity,
		MarkedForOrder:   it.MarkedForOrder,
		LineSum:          it.LineSum(),
	}
}

func toCartOutput(c model.Cart) CartOutput {
	items := make([]CartItemOutput, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, toCartItemOutput(it))
	}
	return CartOutput{
		ID:            c.ID,
		Status:        string(c.Status),
		Items:         items,
		InitialSum:    c.InitialSum(),
		DiscountedSum: c.DiscountedSum(),
		TotalDiscount: c.TotalDiscount(),
		MarkedSum:     c.MarkedSum(),
		UpdatedAt:     c.UpdatedAt,
	}
}
