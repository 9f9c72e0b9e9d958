package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの明細
// 追加時点の名前・SKU・価格・割引率を必ず保存。
type CartItem struct {
	ID               int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID           int64           `gorm:"not null;uniqueIndex:ux_cart_items_cart_version" json:"cart_id"`
	ProductVersionID int64           `gorm:"not null;uniqueIndex:ux_cart_items_cart_version" json:"product_version_id"`
	NameSnapshot     string          `gorm:"type:varchar(150);not null" json:"name"`
	SKUSnapshot      string          `gorm:"type:varchar(20);not null" json:"sku"`
	RegularPrice     decimal.Decimal `gorm:"type:numeric(9,2);not null" json:"regular_price"`
	Discount         int             `gorm:"not null;default:0" json:"discount"`
	FinalPrice       decimal.Decimal `gorm:"type:numeric(9,2);not null" json:"final_price"`
	Quantity         int64           `gorm:"not null;check:quantity >= 1" json:"quantity"`
	MarkedForOrder   bool            `gorm:"not null" json:"marked_for_order"`
	CreatedAt        time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// NewCartItem は商品の現在値をスナップショットして明細を作る。
func NewCartItem(cartID int64, pv ProductVersion, qty int64, marked bool) CartItem {
	return CartItem{
		CartID:           cartID,
		ProductVersionID: pv.ID,
		NameSnapshot:     pv.Name,
		SKUSnapshot:      pv.SKU,
		RegularPrice:     pv.RegularPrice,
		Discount:         pv.Discount,
		FinalPrice:       pv.FinalPrice(),
		Quantity:         qty,
		MarkedForOrder:   marked,
	}
}

func (i *CartItem) InitialLineSum() decimal.Decimal {
	return i.RegularPrice.Mul(decimal.NewFromInt(i.Quantity))
}

func (i *CartItem) LineSum() decimal.Decimal {
	return i.FinalPrice.Mul(decimal.NewFromInt(i.Quantity))
}
