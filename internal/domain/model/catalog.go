package model

import (
	"strings"
	"time"
	"unicode"
)

// 仕入先。名前と住所だけを持つ。
type Supplier struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`
	Address string `gorm:"type:varchar(200)" json:"address"`
}

type Brand struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`
	SupplierID *int64    `gorm:"index" json:"supplier_id"`
	Supplier   *Supplier `gorm:"constraint:OnDelete:SET NULL" json:"-"`
}

type ProductType struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`
}

type ProductCategory struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	Slug     string `gorm:"type:varchar(150);uniqueIndex;not null" json:"slug"`
	IsActive bool   `gorm:"not null;default:true" json:"is_active"`
}

// 商品（ノートPCの機種など）。実際に買う単位は ProductVersion。
type Product struct {
	ID          int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	WebID       string            `gorm:"type:varchar(50);uniqueIndex;not null" json:"web_id"`
	Slug        string            `gorm:"type:varchar(255);not null" json:"slug"`
	Name        string            `gorm:"type:varchar(150);not null" json:"name"`
	Description string            `gorm:"type:text" json:"description"`
	TypeID      int64             `gorm:"not null;index" json:"type_id"`
	Type        ProductType       `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	BrandID     int64             `gorm:"not null;index" json:"brand_id"`
	Brand       Brand             `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Categories  []ProductCategory `gorm:"many2many:product_category_links;" json:"categories,omitempty"`
	IsActive    bool              `gorm:"not null;default:false" json:"is_active"`
	CreatedAt   time.Time         `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time         `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 属性（色・メモリ容量など）
type ProductAttribute struct {
	ID     int64                   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name   string                  `gorm:"type:varchar(150);uniqueIndex;not null" json:"name"`
	Values []ProductAttributeValue `gorm:"foreignKey:AttributeID" json:"values,omitempty"`
}

// 属性の値。同じ属性の中で値は重複しない。
type ProductAttributeValue struct {
	ID          int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	AttributeID int64             `gorm:"not null;uniqueIndex:idx_attribute_value" json:"attribute_id"`
	Attribute   *ProductAttribute `gorm:"constraint:OnDelete:RESTRICT" json:"-"`
	Value       string            `gorm:"type:varchar(255);not null;uniqueIndex:idx_attribute_value" json:"value"`
}

// ProductVersion と属性値のリンク。同じ組は1行だけ。
type ProductVersionAttribute struct {
	ID               int64                  `gorm:"primaryKey;autoIncrement"`
	ProductVersionID int64                  `gorm:"not null;uniqueIndex:idx_version_attribute_value"`
	ProductVersion   *ProductVersion        `gorm:"constraint:OnDelete:CASCADE"`
	AttributeValueID int64                  `gorm:"not null;uniqueIndex:idx_version_attribute_value;index"`
	AttributeValue   *ProductAttributeValue `gorm:"constraint:OnDelete:RESTRICT"`
}

// Slugify は名前から slug を作る（英数字以外は "-"）
func Slugify(s string) string {
	out := make([]rune, 0, len(s))
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			out = append(out, r)
			dash = false
			continue
		}
		if !dash && len(out) > 0 {
			out = append(out, '-')
			dash = true
		}
	}
	return strings.TrimRight(string(out), "-")
}
