package repository

import (
	"context"
	"time"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"

	"gorm.io/gorm"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

// 商品とカテゴリの中間テーブル
type productCategoryLink struct {
	ProductID         int64 `gorm:"primaryKey"`
	ProductCategoryID int64 `gorm:"primaryKey"`
}

func (productCategoryLink) TableName() string { return "product_category_links" }

func (r *CatalogGormRepository) CreateSupplier(ctx context.Context, s *model.Supplier) error {
	return translate(r.db.WithContext(ctx).Create(s).Error)
}

func (r *CatalogGormRepository) FindSupplierByID(ctx context.Context, supplierID int64) (model.Supplier, error) {
	var s model.Supplier
	if err := r.db.WithContext(ctx).First(&s, supplierID).Error; err != nil {
		return model.Supplier{}, translate(err)
	}
	return s, nil
}

func (r *CatalogGormRepository) CreateBrand(ctx context.Context, b *model.Brand) error {
	return translate(r.db.WithContext(ctx).Omit("Supplier").Create(b).Error)
}

func (r *CatalogGormRepository) FindBrandByID(ctx context.Context, brandID int64) (model.Brand, error) {
	var b model.Brand
	if err := r.db.WithContext(ctx).First(&b, brandID).Error; err != nil {
		return model.Brand{}, translate(err)
	}
	return b, nil
}

func (r *CatalogGormRepository) CreateProductType(ctx context.Context, t *model.ProductType) error {
	return translate(r.db.WithContext(ctx).Create(t).Error)
}

func (r *CatalogGormRepository) FindProductTypeByID(ctx context.Context, typeID int64) (model.ProductType, error) {
	var t model.ProductType
	if err := r.db.WithContext(ctx).First(&t, typeID).Error; err != nil {
		return model.ProductType{}, translate(err)
	}
	return t, nil
}

func (r *CatalogGormRepository) CreateCategory(ctx context.Context, c *model.ProductCategory) error {
	return translate(r.db.WithContext(ctx).Create(c).Error)
}

func (r *CatalogGormRepository) FindCategoriesByIDs(ctx context.Context, ids []int64) ([]model.ProductCategory, error) {
	cats := []model.ProductCategory{}
	if len(ids) == 0 {
		return cats, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&cats).Error; err != nil {
		return nil, err
	}
	return cats, nil
}

func (r *CatalogGormRepository) CreateAttribute(ctx context.Context, a *model.ProductAttribute) error {
	return translate(r.db.WithContext(ctx).Omit("Values").Create(a).Error)
}

func (r *CatalogGormRepository) FindAttributeByID(ctx context.Context, attributeID int64) (model.ProductAttribute, error) {
	var a model.ProductAttribute
	if err := r.db.WithContext(ctx).First(&a, attributeID).Error; err != nil {
		return model.ProductAttribute{}, translate(err)
	}
	return a, nil
}

func (r *CatalogGormRepository) CreateAttributeValue(ctx context.Context, v *model.ProductAttributeValue) error {
	return translate(r.db.WithContext(ctx).Omit("Attribute").Create(v).Error)
}

func (r *CatalogGormRepository) FindAttributeValuesByIDs(ctx context.Context, ids []int64) ([]model.ProductAttributeValue, error) {
	values := []model.ProductAttributeValue{}
	if len(ids) == 0 {
		return values, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Attribute").
		Where("id IN ?", ids).
		Order("id asc").
		Find(&values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (r *CatalogGormRepository) ListRefs(ctx context.Context) (repo.CatalogRefs, error) {
	var refs repo.CatalogRefs
	db := r.db.WithContext(ctx)

	if err := db.Order("name asc").Find(&refs.Suppliers).Error; err != nil {
		return repo.CatalogRefs{}, err
	}
	if err := db.Order("name asc").Find(&refs.Brands).Error; err != nil {
		return repo.CatalogRefs{}, err
	}
	if err := db.Order("name asc").Find(&refs.Types).Error; err != nil {
		return repo.CatalogRefs{}, err
	}
	if err := db.Order("name asc").Find(&refs.Categories).Error; err != nil {
		return repo.CatalogRefs{}, err
	}
	if err := db.Preload("Values", func(q *gorm.DB) *gorm.DB {
		return q.Order("value asc")
	}).Order("name asc").Find(&refs.Attributes).Error; err != nil {
		return repo.CatalogRefs{}, err
	}
	return refs, nil
}

// カテゴリ自体は作らず、中間テーブルだけ書く
func (r *CatalogGormRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	return translate(r.db.WithContext(ctx).Omit("Type", "Brand", "Categories.*").Create(p).Error)
}

func (r *CatalogGormRepository) UpdateProduct(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":        p.Name,
			"slug":        p.Slug,
			"description": p.Description,
			"type_id":     p.TypeID,
			"brand_id":    p.BrandID,
			"is_active":   p.IsActive,
			"updated_at":  time.Now(),
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}

	//カテゴリは差し替え
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", p.ID).
		Delete(&productCategoryLink{}).Error; err != nil {
		return err
	}
	if len(p.Categories) == 0 {
		return nil
	}
	links := make([]productCategoryLink, 0, len(p.Categories))
	for _, c := range p.Categories {
		links = append(links, productCategoryLink{ProductID: p.ID, ProductCategoryID: c.ID})
	}
	return translate(r.db.WithContext(ctx).Create(&links).Error)
}

func (r *CatalogGormRepository) DeactivateProduct(ctx context.Context, productID int64) error {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productID).
		Updates(map[string]interface{}{"is_active": false, "updated_at": now})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return r.db.WithContext(ctx).
		Model(&model.ProductVersion{}).
		Where("product_id = ?", productID).
		Updates(map[string]interface{}{"is_active": false, "updated_at": now}).Error
}
