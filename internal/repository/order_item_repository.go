package repository

import (
	"context"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	MarkCanceled(ctx context.Context, orderItemIDs []int64) error
}
