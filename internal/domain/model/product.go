package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// 割引率の上限（%）
const MaxDiscount = 99

var hundred = decimal.NewFromInt(100)

// 購入できる具体的な構成（SKU）
type ProductVersion struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID    int64           `gorm:"not null;index" json:"product_id"`
	Product      *Product        `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	SKU          string          `gorm:"type:varchar(20);not null" json:"sku"`
	Name         string          `gorm:"type:varchar(150);not null" json:"name"`
	RegularPrice decimal.Decimal `gorm:"type:numeric(9,2);not null" json:"regular_price"`
	Discount     int             `gorm:"not null;default:0;check:discount >= 0 AND discount <= 99" json:"discount"`
	IsActive     bool            `gorm:"not null;default:false" json:"is_active"`
	ViewCount    int64           `gorm:"not null;default:0" json:"view_count"`
	Stock        *Stock          `gorm:"foreignKey:ProductVersionID" json:"stock,omitempty"`
	FavoritedBy  []Customer      `gorm:"many2many:product_version_favorites;" json:"-"`
	CreatedAt    time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`

	// product_version_attributes から読む
	Attributes []ProductAttributeValue `gorm:"-" json:"attributes,omitempty"`
}

// Validate は割引率と価格を検証する。
func (p *ProductVersion) Validate() error {
	if p.Discount < 0 || p.Discount > MaxDiscount {
		return fmt.Errorf("%w: discount must be in [0, %d]", ErrValidation, MaxDiscount)
	}
	if p.RegularPrice.IsNegative() {
		return fmt.Errorf("%w: negative price", ErrValidation)
	}
	return nil
}

// FinalPrice は割引後の単価（小数2桁）
func (p *ProductVersion) FinalPrice() decimal.Decimal {
	return ApplyDiscount(p.RegularPrice, p.Discount)
}

func ApplyDiscount(price decimal.Decimal, discount int) decimal.Decimal {
	rate := decimal.NewFromInt(int64(100 - discount))
	return price.Mul(rate).Div(hundred).Round(2)
}
