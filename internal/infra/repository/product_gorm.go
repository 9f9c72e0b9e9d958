package repository

import (
	"context"
	"strings"
	"time"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// お気に入りの中間テーブル
type productVersionFavorite struct {
	CustomerID       int64 `gorm:"primaryKey"`
	ProductVersionID int64 `gorm:"primaryKey"`
}

func (productVersionFavorite) TableName() string { return "product_version_favorites" }

// 公開中のバージョンのみを、検索/ソート/ページング付きで返す。
func (r *ProductGormRepository) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.ProductVersion, int64, error) {
	var versions []model.ProductVersion
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.ProductVersion{})

	// 公開（is_active=true）のみ
	tx = tx.Where("is_active = ?", true)

	// q nameを対象
	if s := strings.TrimSpace(q.Q); s != "" {
		tx = tx.Where("name ILIKE ?", "%"+s+"%")
	}

	//total（件数）
	if err := tx.Count(&total).Error; err != nil {
		return []model.ProductVersion{}, 0, err
	}

	//sort
	switch q.Sort {
	case "price_asc":
		tx = tx.Order("regular_price asc").Order("id asc")
	case "price_desc":
		tx = tx.Order("regular_price desc").Order("id desc")
	case "popular":
		tx = tx.Order("view_count desc").Order("id desc")
	default:
		tx = tx.Order("created_at desc").Order("id desc")
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Offset(offset).Limit(q.Limit).Find(&versions).Error; err != nil {
		return []model.ProductVersion{}, 0, err
	}

	return versions, total, nil
}

func (r *ProductGormRepository) FindVersionByID(ctx context.Context, versionID int64) (model.ProductVersion, error) {
	var pv model.ProductVersion
	if err := r.db.WithContext(ctx).First(&pv, versionID).Error; err != nil {
		return model.ProductVersion{}, translate(err)
	}
	return pv, nil
}

// stocks を LEFT JOIN して1クエリで読む
func (r *ProductGormRepository) FindVersionWithStock(ctx context.Context, versionID int64) (model.ProductVersion, error) {
	var pv model.ProductVersion
	err := r.db.WithContext(ctx).
		Joins("Stock").
		Where("product_versions.id = ?", versionID).
		First(&pv).Error
	if err != nil {
		return model.ProductVersion{}, translate(err)
	}
	return pv, nil
}

// 閲覧数を加算。updated_at は変えない。
func (r *ProductGormRepository) IncrementViewCount(ctx context.Context, versionID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.ProductVersion{}).
		Where("id = ?", versionID).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) FindProductByID(ctx context.Context, productID int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Categories").
		First(&p, productID).Error
	if err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

// バージョンの作成。Stock が付いていれば一緒に作る。
func (r *ProductGormRepository) CreateVersion(ctx context.Context, pv *model.ProductVersion) error {
	return translate(r.db.WithContext(ctx).Omit("Product", "FavoritedBy").Create(pv).Error)
}

func (r *ProductGormRepository) FindVersionForUpdate(ctx context.Context, versionID int64) (model.ProductVersion, error) {
	var pv model.ProductVersion
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&pv, versionID).Error
	if err != nil {
		return model.ProductVersion{}, translate(err)
	}
	return pv, nil
}

func (r *ProductGormRepository) UpdateVersion(ctx context.Context, pv model.ProductVersion) error {
	res := r.db.WithContext(ctx).
		Model(&model.ProductVersion{}).
		Where("id = ?", pv.ID).
		Updates(map[string]interface{}{
			"name":          pv.Name,
			"regular_price": pv.RegularPrice,
			"discount":      pv.Discount,
			"is_active":     pv.IsActive,
			"updated_at":    time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// (product_version_id, attribute_value_id) の一意制約違反は ErrConflict
func (r *ProductGormRepository) LinkAttributeValues(ctx context.Context, versionID int64, valueIDs []int64) error {
	if len(valueIDs) == 0 {
		return nil
	}
	links := make([]model.ProductVersionAttribute, 0, len(valueIDs))
	for _, id := range valueIDs {
		links = append(links, model.ProductVersionAttribute{ProductVersionID: versionID, AttributeValueID: id})
	}
	return translate(r.db.WithContext(ctx).Omit("ProductVersion", "AttributeValue").Create(&links).Error)
}

func (r *ProductGormRepository) ListVersionAttributes(ctx context.Context, versionID int64) ([]model.ProductAttributeValue, error) {
	values := []model.ProductAttributeValue{}
	err := r.db.WithContext(ctx).
		Preload("Attribute").
		Joins("JOIN product_version_attributes l ON l.attribute_value_id = product_attribute_values.id").
		Where("l.product_version_id = ?", versionID).
		Order("product_attribute_values.attribute_id asc").
		Order("product_attribute_values.id asc").
		Find(&values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

// 二重登録は無視
func (r *ProductGormRepository) AddFavorite(ctx context.Context, customerID int64, versionID int64) error {
	fav := productVersionFavorite{CustomerID: customerID, ProductVersionID: versionID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&fav).Error
}

func (r *ProductGormRepository) RemoveFavorite(ctx context.Context, customerID int64, versionID int64) error {
	res := r.db.WithContext(ctx).
		Where("customer_id = ? AND product_version_id = ?", customerID, versionID).
		Delete(&productVersionFavorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *ProductGormRepository) ListFavorites(ctx context.Context, customerID int64) ([]model.ProductVersion, error) {
	var versions []model.ProductVersion
	err := r.db.WithContext(ctx).
		Joins("JOIN product_version_favorites f ON f.product_version_id = product_versions.id").
		Where("f.customer_id = ?", customerID).
		Order("product_versions.id asc").
		Find(&versions).Error
	if err != nil {
		return []model.ProductVersion{}, err
	}
	return versions, nil
}
