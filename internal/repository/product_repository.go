package repository

import (
	"context"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
)

// 一覧検索
type ProductListQuery struct {
	Page  int
	Limit int
	Q     string
	Sort  string
}

// 商品バージョンの永続化（保存・取得）を約束。
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.ProductVersion, int64, error)
	FindVersionByID(ctx context.Context, versionID int64) (model.ProductVersion, error)
	// 在庫と一緒に1回で取得する
	FindVersionWithStock(ctx context.Context, versionID int64) (model.ProductVersion, error)
	IncrementViewCount(ctx context.Context, versionID int64) error
	FindProductByID(ctx context.Context, productID int64) (model.Product, error)
	CreateVersion(ctx context.Context, pv *model.ProductVersion) error
	FindVersionForUpdate(ctx context.Context, versionID int64) (model.ProductVersion, error)
	// 名前・価格・割引率・公開フラグ
	UpdateVersion(ctx context.Context, pv model.ProductVersion) error
	// 既にリンク済みの値があれば ErrConflict
	LinkAttributeValues(ctx context.Context, versionID int64, valueIDs []int64) error
	ListVersionAttributes(ctx context.Context, versionID int64) ([]model.ProductAttributeValue, error)

	AddFavorite(ctx context.Context, customerID int64, versionID int64) error
	RemoveFavorite(ctx context.Context, customerID int64, versionID int64) error
	ListFavorites(ctx context.Context, customerID int64) ([]model.ProductVersion, error)
}
