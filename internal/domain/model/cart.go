package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartStatus string

const (
	CartStatusEmpty      CartStatus = "EMPTY"
	CartStatusInProgress CartStatus = "IN_PROGRESS"
)

// 1顧客につき1つ。明細が0件のときだけ EMPTY。
type Cart struct {
	ID         int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID int64      `gorm:"not null;uniqueIndex" json:"customer_id"`
	Status     CartStatus `gorm:"type:varchar(20);not null;default:'EMPTY';index" json:"status"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// StatusFor は明細数から状態を決める。
func StatusFor(itemCount int64) CartStatus {
	if itemCount == 0 {
		return CartStatusEmpty
	}
	return CartStatusInProgress
}

// 合計はカート内の全明細が対象。
func (c *Cart) InitialSum() decimal.Decimal {
	sum := decimal.Zero
	for i := range c.Items {
		sum = sum.Add(c.Items[i].InitialLineSum())
	}
	return sum
}

func (c *Cart) DiscountedSum() decimal.Decimal {
	sum := decimal.Zero
	for i := range c.Items {
		sum = sum.Add(c.Items[i].LineSum())
	}
	return sum
}

// TotalSum は DiscountedSum の別名。
func (c *Cart) TotalSum() decimal.Decimal {
	return c.DiscountedSum()
}

func (c *Cart) TotalDiscount() decimal.Decimal {
	return c.InitialSum().Sub(c.DiscountedSum())
}

// MarkedSum は注文対象の明細だけの割引後合計。
func (c *Cart) MarkedSum() decimal.Decimal {
	sum := decimal.Zero
	for i := range c.Items {
		if c.Items[i].MarkedForOrder {
			sum = sum.Add(c.Items[i].LineSum())
		}
	}
	return sum
}

// MarkedItems は注文対象の明細を返す。
func (c *Cart) MarkedItems() []CartItem {
	out := make([]CartItem, 0, len(c.Items))
	for _, it := range c.Items {
		if it.MarkedForOrder {
			out = append(out, it)
		}
	}
	return out
}
