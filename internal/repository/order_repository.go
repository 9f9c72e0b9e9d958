package repository

import (
	"context"
	"time"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"

	"github.com/shopspring/decimal"
)

type SellerOrderListFilter struct {
	Page       int
	Limit      int
	Status     string
	CustomerID *int64
	From       *time.Time
	To         *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	FindByIDForUpdate(ctx context.Context, orderID int64) (model.Order, error)
	// 顧客の PENDING 注文（あれば使い回す）
	FindPendingByCustomerID(ctx context.Context, customerID int64) (model.Order, bool, error)
	ListByCustomerID(ctx context.Context, customerID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order *model.Order) error
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
	UpdateTotal(ctx context.Context, orderID int64, total decimal.Decimal) error
	//販売者用の注文一覧
	ListSeller(ctx context.Context, f SellerOrderListFilter) ([]model.Order, int64, error)
}
