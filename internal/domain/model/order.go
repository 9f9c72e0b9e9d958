package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending            OrderStatus = "PENDING"
	OrderStatusPaid               OrderStatus = "PAID"
	OrderStatusProcessing         OrderStatus = "PROCESSING"
	OrderStatusDeliveryReady      OrderStatus = "DELIVERY_READY"
	OrderStatusOnDelivery         OrderStatus = "ON_DELIVERY"
	OrderStatusDelivered          OrderStatus = "DELIVERED"
	OrderStatusFinished           OrderStatus = "FINISHED"
	OrderStatusCanceledByCustomer OrderStatus = "CANCELED_BY_CUSTOMER"
	OrderStatusCanceledBySeller   OrderStatus = "CANCELED_BY_SELLER"
)

// 正常系の順番。前へしか進まない。
var orderHappyPath = []OrderStatus{
	OrderStatusPending,
	OrderStatusPaid,
	OrderStatusProcessing,
	OrderStatusDeliveryReady,
	OrderStatusOnDelivery,
	OrderStatusDelivered,
	OrderStatusFinished,
}

// ParseOrderStatus は未知の文字列を ErrValidation で弾く。
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if st == OrderStatusCanceledByCustomer || st == OrderStatusCanceledBySeller {
		return st, nil
	}
	for _, v := range orderHappyPath {
		if v == st {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown order status %q", ErrValidation, s)
}

func (s OrderStatus) IsCanceled() bool {
	return s == OrderStatusCanceledByCustomer || s == OrderStatusCanceledBySeller
}

// IsTerminal は以降の遷移が無い状態か。
func (s OrderStatus) IsTerminal() bool {
	return s.IsCanceled() || s == OrderStatusFinished
}

// IsCancelable はキャンセルできる状態か（PENDING/PAID/PROCESSING）。
func (s OrderStatus) IsCancelable() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusProcessing:
		return true
	}
	return false
}

// CanTransitionTo は s から next へ進めるか。
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if next.IsCanceled() {
		return s.IsCancelable()
	}
	for i := 0; i < len(orderHappyPath)-1; i++ {
		if orderHappyPath[i] == s {
			return orderHappyPath[i+1] == next
		}
	}
	return false
}

type CancelInitiator string

const (
	CancelByCustomer CancelInitiator = "customer"
	CancelBySeller   CancelInitiator = "seller"
)

// CanceledStatus はキャンセル主体ごとの終端状態。
func (i CancelInitiator) CanceledStatus() (OrderStatus, error) {
	switch i {
	case CancelByCustomer:
		return OrderStatusCanceledByCustomer, nil
	case CancelBySeller:
		return OrderStatusCanceledBySeller, nil
	}
	return "", fmt.Errorf("%w: unknown cancel initiator %q", ErrValidation, string(i))
}

type Order struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Number        string          `gorm:"type:varchar(36);not null;uniqueIndex" json:"number"`
	CustomerID    int64           `gorm:"not null;index" json:"customer_id"`
	Status        OrderStatus     `gorm:"type:varchar(30);not null;index" json:"status"`
	DiscountedSum decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0" json:"discounted_sum"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt     time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// OrderTotal はキャンセルされていない明細の合計。
func OrderTotal(items []OrderItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		if it.IsCanceled {
			continue
		}
		sum = sum.Add(it.LineSum)
	}
	return sum
}
