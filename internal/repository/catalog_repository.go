package repository

import (
	"context"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
)

// 販売者が管理するマスタ一式
type CatalogRefs struct {
	Suppliers  []model.Supplier         `json:"suppliers"`
	Brands     []model.Brand            `json:"brands"`
	Types      []model.ProductType      `json:"types"`
	Categories []model.ProductCategory  `json:"categories"`
	Attributes []model.ProductAttribute `json:"attributes"`
}

// 商品とマスタ（仕入先・ブランド・種別・カテゴリ・属性）の永続化。
// 名前の重複は ErrConflict。
type CatalogRepository interface {
	CreateSupplier(ctx context.Context, s *model.Supplier) error
	FindSupplierByID(ctx context.Context, supplierID int64) (model.Supplier, error)
	CreateBrand(ctx context.Context, b *model.Brand) error
	FindBrandByID(ctx context.Context, brandID int64) (model.Brand, error)
	CreateProductType(ctx context.Context, t *model.ProductType) error
	FindProductTypeByID(ctx context.Context, typeID int64) (model.ProductType, error)
	CreateCategory(ctx context.Context, c *model.ProductCategory) error
	// 見つかった分だけ返す
	FindCategoriesByIDs(ctx context.Context, ids []int64) ([]model.ProductCategory, error)

	CreateAttribute(ctx context.Context, a *model.ProductAttribute) error
	FindAttributeByID(ctx context.Context, attributeID int64) (model.ProductAttribute, error)
	CreateAttributeValue(ctx context.Context, v *model.ProductAttributeValue) error
	// 見つかった分だけ返す
	FindAttributeValuesByIDs(ctx context.Context, ids []int64) ([]model.ProductAttributeValue, error)

	ListRefs(ctx context.Context) (CatalogRefs, error)

	// Categories も保存する
	CreateProduct(ctx context.Context, p *model.Product) error
	// Categories は置き換え
	UpdateProduct(ctx context.Context, p model.Product) error
	// 商品と配下のバージョンを非公開にする
	DeactivateProduct(ctx context.Context, productID int64) error
}
