package repository

import (
	"context"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
)

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	ListMarkedByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	FindByCartAndVersion(ctx context.Context, cartID int64, versionID int64) (model.CartItem, bool, error)
	// 同一商品は数量を加算（(cart_id, product_version_id) で一意）
	Upsert(ctx context.Context, item model.CartItem) (model.CartItem, error)
	UpdateItem(ctx context.Context, cartItemID int64, qty int64, marked bool) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	DeleteByIDs(ctx context.Context, cartItemIDs []int64) error
	CountByCartID(ctx context.Context, cartID int64) (int64, error)
	FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error)
	IsOwnedByCustomer(ctx context.Context, cartItemID int64, customerID int64) (bool, error)
}
