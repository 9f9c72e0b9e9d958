package repository

import (
	"context"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
)

type CartRepository interface {
	Create(ctx context.Context, cart *model.Cart) error
	FindByCustomerID(ctx context.Context, customerID int64) (model.Cart, error)
	// チェックアウトの直列化用
	FindByCustomerIDForUpdate(ctx context.Context, customerID int64) (model.Cart, error)
	UpdateStatus(ctx context.Context, cartID int64, status model.CartStatus) error
	// updated_at だけ進める
	Touch(ctx context.Context, cartID int64) error
	// 明細を全削除して EMPTY に戻す
	Clear(ctx context.Context, cartID int64) error
}
