package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。カート明細の凍結コピー。
// キャンセル時は数量を残したまま IsCanceled を立てる。
type OrderItem struct {
	ID               int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID          int64           `gorm:"not null;index" json:"order_id"`
	ProductVersionID int64           `gorm:"not null;index" json:"product_version_id"`
	NameSnapshot     string          `gorm:"type:varchar(150);not null" json:"name"`
	SKUSnapshot      string          `gorm:"type:varchar(20);not null" json:"sku"`
	RegularPrice     decimal.Decimal `gorm:"type:numeric(9,2);not null" json:"regular_price"`
	Price            decimal.Decimal `gorm:"type:numeric(9,2);not null" json:"price"`
	Quantity         int64           `gorm:"not null" json:"quantity"`
	LineSum          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"line_sum"`
	IsCanceled       bool            `gorm:"not null;default:false" json:"is_canceled"`
	CreatedAt        time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}

// OrderItemFromCartItem はカート明細を注文明細に写す。
func OrderItemFromCartItem(ci CartItem) OrderItem {
	return OrderItem{
		ProductVersionID: ci.ProductVersionID,
		NameSnapshot:     ci.NameSnapshot,
		SKUSnapshot:      ci.SKUSnapshot,
		RegularPrice:     ci.RegularPrice,
		Price:            ci.FinalPrice,
		Quantity:         ci.Quantity,
		LineSum:          ci.LineSum(),
	}
}
