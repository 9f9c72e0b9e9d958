package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	"github.com/dynamicsamic/testDbDesign/internal/logger"
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 販売者の商品・マスタ管理
type SellerCatalogUsecase struct {
	tx repo.TransactionManager
}

func NewSellerCatalogUsecase(tx repo.TransactionManager) *SellerCatalogUsecase {
	return &SellerCatalogUsecase{tx: tx}
}

type SupplierInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

type BrandInput struct {
	Name       string `json:"name"`
	SupplierID *int64 `json:"supplier_id"`
}

// 種別・属性など名前だけのマスタ
type NameInput struct {
	Name string `json:"name"`
}

type CategoryInput struct {
	Name string `json:"name"`
	// 空なら名前から作る
	Slug     string `json:"slug"`
	IsActive *bool  `json:"is_active"`
}

type AttributeValueInput struct {
	Value string `json:"value"`
}

type ProductInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description string  `json:"description"`
	TypeID      int64   `json:"type_id"`
	BrandID     int64   `json:"brand_id"`
	CategoryIDs []int64 `json:"category_ids"`
	IsActive    bool    `json:"is_active"`
}

type ProductOutput struct {
	ID          int64     `json:"id"`
	WebID       string    `json:"web_id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	TypeID      int64     `json:"type_id"`
	BrandID     int64     `json:"brand_id"`
	CategoryIDs []int64   `json:"category_ids"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// 指定した項目だけ変える
type UpdateVersionInput struct {
	Name         *string          `json:"name"`
	RegularPrice *decimal.Decimal `json:"regular_price"`
	Discount     *int             `json:"discount"`
	IsActive     *bool            `json:"is_active"`
}

type LinkAttributesInput struct {
	ValueIDs []int64 `json:"value_ids"`
}

func requiredName(field string, v string, max int) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", invalid(field + " required")
	}
	if len(v) > max {
		return "", invalid(fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return v, nil
}

func (u *SellerCatalogUsecase) CreateSupplier(ctx context.Context, actorIdentityID int64, in SupplierInput) (model.Supplier, error) {
	if actorIdentityID <= 0 {
		return model.Supplier{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	name, err := requiredName("name", in.Name, 150)
	if err != nil {
		return model.Supplier{}, err
	}
	address := strings.TrimSpace(in.Address)
	if len(address) > 200 {
		return model.Supplier{}, invalid("address must be at most 200 characters")
	}

	s := model.Supplier{Name: name, Address: address}
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Catalog().CreateSupplier(ctx, &s); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return conflict("supplier already exists")
			}
			return dbError(ctx, "create supplier", err)
		}
		return nil
	})
	if err != nil {
		return model.Supplier{}, err
	}
	return s, nil
}

func (u *SellerCatalogUsecase) CreateBrand(ctx context.Context, actorIdentityID int64, in BrandInput) (model.Brand, error) {
	if actorIdentityID <= 0 {
		return model.Brand{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	name, err := requiredName("name", in.Name, 150)
	if err != nil {
		return model.Brand{}, err
	}

	b := model.Brand{Name: name, SupplierID: in.SupplierID}
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if in.SupplierID != nil {
			if _, err := r.Catalog().FindSupplierByID(ctx, *in.SupplierID); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return invalid("unknown supplier_id")
				}
				return dbError(ctx, "find supplier", err)
			}
		}
		if err := r.Catalog().CreateBrand(ctx, &b); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return conflict("brand already exists")
			}
			return dbError(ctx, "create brand", err)
		}
		return nil
	})
	if err != nil {
		return model.Brand{}, err
	}
	return b, nil
}

func (u *SellerCatalogUsecase) CreateProductType(ctx context.Context, actorIdentityID int64, in NameInput) (model.ProductType, error) {
	if actorIdentityID <= 0 {
		return model.ProductType{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	name, err := requiredName("name", in.Name, 150)
	if err != nil {
		return model.ProductType{}, err
	}

	t := model.ProductType{Name: name}
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Catalog().CreateProductType(ctx, &t); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return conflict("product type already exists")
			}
			return dbError(ctx, "create product type", err)
		}
		return nil
	})
	if err != nil {
		return model.ProductType{}, err
	}
	return t, nil
}

func (u *SellerCatalogUsecase) CreateCategory(ctx context.Context, actorIdentityID int64, in CategoryInput) (model.ProductCategory, error) {
	if actorIdentityID <= 0 {
		return model.ProductCategory{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	name, err := requiredName("name", in.Name, 100)
	if err != nil {
		return model.ProductCategory{}, err
	}
	slug := model.Slugify(in.Slug)
	if slug == "" {
		slug = model.Slugify(name)
	}
	if slug == "" || len(slug) > 150 {
		return model.ProductCategory{}, invalid("invalid slug")
	}

	c := model.ProductCategory{Name: name, Slug: slug, IsActive: true}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Catalog().CreateCategory(ctx, &c); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return conflict("category already exists")
			}
			return dbError(ctx, "create category", err)
		}
		return nil
	})
	if err != nil {
		return model.ProductCategory{}, err
	}
	return c, nil
}

func (u *SellerCatalogUsecase) CreateAttribute(ctx context.Context, actorIdentityID int64, in NameInput) (model.ProductAttribute, error) {
	if actorIdentityID <= 0 {
		return model.ProductAttribute{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	name, err := requiredName("name", in.Name, 150)
	if err != nil {
		return model.ProductAttribute{}, err
	}

	a := model.ProductAttribute{Name: name}
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Catalog().CreateAttribute(ctx, &a); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return conflict("attribute already exists")
			}
			return dbError(ctx, "create attribute", err)
		}
		return nil
	})
	if err != nil {
		return model.ProductAttribute{}, err
	}
	return a, nil
}

func (u *SellerCatalogUsecase) CreateAttributeValue(ctx context.Context, actorIdentityID int64, attributeID int64, in AttributeValueInput) (model.ProductAttributeValue, error) {
	if actorIdentityID <= 0 {
		return model.ProductAttributeValue{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if attributeID <= 0 {
		return model.ProductAttributeValue{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	value, err := requiredName("value", in.Value, 255)
	if err != nil {
		return model.ProductAttributeValue{}, err
	}

	v := model.ProductAttributeValue{AttributeID: attributeID, Value: value}
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Catalog().FindAttributeByID(ctx, attributeID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return notFound("attribute not found")
			}
			return dbError(ctx, "find attribute", err)
		}
		if err := r.Catalog().CreateAttributeValue(ctx, &v); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return conflict("attribute value already exists")
			}
			return dbError(ctx, "create attribute value", err)
		}
		return nil
	})
	if err != nil {
		return model.ProductAttributeValue{}, err
	}
	return v, nil
}

func (u *SellerCatalogUsecase) ListRefs(ctx context.Context) (repo.CatalogRefs, error) {
	var refs repo.CatalogRefs
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		refs, err = r.Catalog().ListRefs(ctx)
		if err != nil {
			return dbError(ctx, "list catalog refs", err)
		}
		return nil
	})
	if err != nil {
		return repo.CatalogRefs{}, err
	}
	return refs, nil
}

// normalizeProduct は入力を検証して Product にする（ID/WebID は呼び出し側）
func normalizeProduct(in ProductInput) (model.Product, error) {
	name, err := requiredName("name", in.Name, 150)
	if err != nil {
		return model.Product{}, err
	}
	slug := model.Slugify(in.Slug)
	if slug == "" {
		slug = model.Slugify(name)
	}
	if slug == "" || len(slug) > 255 {
		return model.Product{}, invalid("invalid slug")
	}
	if in.TypeID <= 0 {
		return model.Product{}, invalid("invalid type_id")
	}
	if in.BrandID <= 0 {
		return model.Product{}, invalid("invalid brand_id")
	}
	seen := make(map[int64]bool, len(in.CategoryIDs))
	for _, id := range in.CategoryIDs {
		if id <= 0 || seen[id] {
			return model.Product{}, invalid("invalid category_ids")
		}
		seen[id] = true
	}
	return model.Product{
		Name:        name,
		Slug:        slug,
		Description: strings.TrimSpace(in.Description),
		TypeID:      in.TypeID,
		BrandID:     in.BrandID,
		IsActive:    in.IsActive,
	}, nil
}

// 種別・ブランド・カテゴリが実在するか
func resolveProductRefs(ctx context.Context, r repo.TxRepos, p *model.Product, categoryIDs []int64) error {
	if _, err := r.Catalog().FindProductTypeByID(ctx, p.TypeID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return invalid("unknown type_id")
		}
		return dbError(ctx, "find product type", err)
	}
	if _, err := r.Catalog().FindBrandByID(ctx, p.BrandID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return invalid("unknown brand_id")
		}
		return dbError(ctx, "find brand", err)
	}
	cats, err := r.Catalog().FindCategoriesByIDs(ctx, categoryIDs)
	if err != nil {
		return dbError(ctx, "find categories", err)
	}
	if len(cats) != len(categoryIDs) {
		return invalid("unknown category_ids")
	}
	p.Categories = cats
	return nil
}

func (u *SellerCatalogUsecase) CreateProduct(ctx context.Context, actorIdentityID int64, in ProductInput) (ProductOutput, error) {
	if actorIdentityID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	p, err := normalizeProduct(in)
	if err != nil {
		return ProductOutput{}, err
	}
	p.WebID = uuid.NewString()

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := resolveProductRefs(ctx, r, &p, in.CategoryIDs); err != nil {
			return err
		}
		if err := r.Catalog().CreateProduct(ctx, &p); err != nil {
			return domainError(ctx, "create product", err)
		}
		return nil
	})
	if err != nil {
		return ProductOutput{}, err
	}

	logger.Info(ctx, "product created", zap.Int64("product_id", p.ID), zap.Int64("actor_identity_id", actorIdentityID))
	return toProductOutput(p), nil
}

func (u *SellerCatalogUsecase) UpdateProduct(ctx context.Context, actorIdentityID int64, productID int64, in ProductInput) (ProductOutput, error) {
	if actorIdentityID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	p, err := normalizeProduct(in)
	if err != nil {
		return ProductOutput{}, err
	}
	p.ID = productID

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindProductByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("product not found")
		}
		if err != nil {
			return dbError(ctx, "find product", err)
		}
		if err := resolveProductRefs(ctx, r, &p, in.CategoryIDs); err != nil {
			return err
		}
		if err := r.Catalog().UpdateProduct(ctx, p); err != nil {
			return domainError(ctx, "update product", err)
		}
		p.WebID = before.WebID
		p.CreatedAt = before.CreatedAt
		p.UpdatedAt = time.Now()

		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorIdentityID: actorIdentityID,
			Action:          model.AuditActionUpdateProduct,
			ResourceType:    model.AuditResourceProduct,
			ResourceID:      productID,
			BeforeJSON:      fmt.Sprintf(`{"name":%q,"is_active":%t}`, before.Name, before.IsActive),
			AfterJSON:       fmt.Sprintf(`{"name":%q,"is_active":%t}`, p.Name, p.IsActive),
			CreatedAt:       time.Now(),
		})
	})
	if err != nil {
		return ProductOutput{}, domainError(ctx, "update product", err)
	}
	return toProductOutput(p), nil
}

// 削除はせず、商品と全バージョンを非公開にする
func (u *SellerCatalogUsecase) DeactivateProduct(ctx context.Context, actorIdentityID int64, productID int64) error {
	if actorIdentityID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Products().FindProductByID(ctx, productID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("product not found")
		}
		if err != nil {
			return dbError(ctx, "find product", err)
		}
		if err := r.Catalog().DeactivateProduct(ctx, productID); err != nil {
			return domainError(ctx, "deactivate product", err)
		}
		return r.AuditLogs().Create(ctx, model.AuditLog{
			ActorIdentityID: actorIdentityID,
			Action:          model.AuditActionUpdateProduct,
			ResourceType:    model.AuditResourceProduct,
			ResourceID:      productID,
			BeforeJSON:      fmt.Sprintf(`{"is_active":%t}`, before.IsActive),
			AfterJSON:       `{"is_active":false}`,
			CreatedAt:       time.Now(),
		})
	})
	if err != nil {
		return domainError(ctx, "deactivate product", err)
	}
	return nil
}

func (u *SellerCatalogUsecase) UpdateVersion(ctx context.Context, actorIdentityID int64, versionID int64, in UpdateVersionInput) (ProductVersionOutput, error) {
	if actorIdentityID <= 0 {
		return ProductVersionOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if versionID <= 0 {
		return ProductVersionOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if in.Name == nil && in.RegularPrice == nil && in.Discount == nil && in.IsActive == nil {
		return ProductVersionOutput{}, invalid("nothing to update")
	}

	var out ProductVersionOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		pv, err := r.Products().FindVersionForUpdate(ctx, versionID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("product version not found")
		}
		if err != nil {
			return dbError(ctx, "find product version", err)
		}
		before := pv

		if in.Name != nil {
			name, err := requiredName("name", *in.Name, 150)
			if err != nil {
				return err
			}
			pv.Name = name
		}
		if in.RegularPrice != nil {
			pv.RegularPrice = in.RegularPrice.Round(2)
		}
		if in.Discount != nil {
			pv.Discount = *in.Discount
		}
		if in.IsActive != nil {
			pv.IsActive = *in.IsActive
		}
		if err := pv.Validate(); err != nil {
			return domainError(ctx, "validate product version", err)
		}

		if err := r.Products().UpdateVersion(ctx, pv); err != nil {
			return domainError(ctx, "update product version", err)
		}
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorIdentityID: actorIdentityID,
			Action:          model.AuditActionUpdateProductVersion,
			ResourceType:    model.AuditResourceProductVersion,
			ResourceID:      versionID,
			BeforeJSON:      versionAuditJSON(before),
			AfterJSON:       versionAuditJSON(pv),
			CreatedAt:       time.Now(),
		}); err != nil {
			return dbError(ctx, "create audit log", err)
		}

		attrs, err := r.Products().ListVersionAttributes(ctx, versionID)
		if err != nil {
			return dbError(ctx, "list attributes", err)
		}
		pv.Attributes = attrs
		out = toProductVersionOutput(pv)
		return nil
	})
	if err != nil {
		return ProductVersionOutput{}, err
	}
	return out, nil
}

func versionAuditJSON(pv model.ProductVersion) string {
	return fmt.Sprintf(`{"name":%q,"regular_price":%q,"discount":%d,"is_active":%t}`,
		pv.Name, pv.RegularPrice.StringFixed(2), pv.Discount, pv.IsActive)
}

// LinkAttributes は属性値をバージョンに付ける。付いている値を重ねると409。
func (u *SellerCatalogUsecase) LinkAttributes(ctx context.Context, actorIdentityID int64, versionID int64, in LinkAttributesInput) (ProductVersionOutput, error) {
	if actorIdentityID <= 0 {
		return ProductVersionOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if versionID <= 0 {
		return ProductVersionOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if len(in.ValueIDs) == 0 {
		return ProductVersionOutput{}, invalid("value_ids required")
	}

	var out ProductVersionOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		pv, err := r.Products().FindVersionForUpdate(ctx, versionID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("product version not found")
		}
		if err != nil {
			return dbError(ctx, "find product version", err)
		}
		if err := linkAttributeValues(ctx, r, versionID, in.ValueIDs); err != nil {
			return err
		}
		attrs, err := r.Products().ListVersionAttributes(ctx, versionID)
		if err != nil {
			return dbError(ctx, "list attributes", err)
		}
		pv.Attributes = attrs
		out = toProductVersionOutput(pv)
		return nil
	})
	if err != nil {
		return ProductVersionOutput{}, err
	}
	return out, nil
}

// 値の実在確認をしてからリンクする（バージョン作成でも使う）
func linkAttributeValues(ctx context.Context, r repo.TxRepos, versionID int64, valueIDs []int64) error {
	if len(valueIDs) == 0 {
		return nil
	}
	seen := make(map[int64]bool, len(valueIDs))
	for _, id := range valueIDs {
		if id <= 0 {
			return invalid("invalid value_ids")
		}
		if seen[id] {
			return invalid("duplicate value_ids")
		}
		seen[id] = true
	}

	values, err := r.Catalog().FindAttributeValuesByIDs(ctx, valueIDs)
	if err != nil {
		return dbError(ctx, "find attribute values", err)
	}
	if len(values) != len(valueIDs) {
		return invalid("unknown value_ids")
	}

	err = r.Products().LinkAttributeValues(ctx, versionID, valueIDs)
	if errors.Is(err, repo.ErrConflict) {
		return conflict("attribute value already linked")
	}
	if err != nil {
		return dbError(ctx, "link attribute values", err)
	}
	return nil
}

func toProductOutput(p model.Product) ProductOutput {
	return ProductOutput{
		ID:          p.ID,
		WebID:       p.WebID,
		Slug:        p.Slug,
		Name:        p.Name,
		Description: p.Description,
		TypeID:      p.TypeID,
		BrandID:     p.BrandID,
		CategoryIDs: categoryIDsOf(p.Categories),
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func categoryIDsOf(cats []model.ProductCategory) []int64 {
	ids := make([]int64, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}
	return ids
}
