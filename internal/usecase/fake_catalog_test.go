package usecase_test

import (
	"context"
	"sort"
	"time"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"
)

// ---- catalog（マスタと商品）

type memCatalog struct{ st *memState }

func (r memCatalog) CreateSupplier(ctx context.Context, s *model.Supplier) error {
	for _, v := range r.st.suppliers {
		if v.Name == s.Name {
			return repo.ErrConflict
		}
	}
	s.ID = r.st.nextID()
	r.st.suppliers[s.ID] = *s
	return nil
}

func (r memCatalog) FindSupplierByID(ctx context.Context, supplierID int64) (model.Supplier, error) {
	s, ok := r.st.suppliers[supplierID]
	if !ok {
		return model.Supplier{}, repo.ErrNotFound
	}
	return s, nil
}

func (r memCatalog) CreateBrand(ctx context.Context, b *model.Brand) error {
	for _, v := range r.st.brands {
		if v.Name == b.Name {
			return repo.ErrConflict
		}
	}
	b.ID = r.st.nextID()
	r.st.brands[b.ID] = *b
	return nil
}

func (r memCatalog) FindBrandByID(ctx context.Context, brandID int64) (model.Brand, error) {
	b, ok := r.st.brands[brandID]
	if !ok {
		return model.Brand{}, repo.ErrNotFound
	}
	return b, nil
}

func (r memCatalog) CreateProductType(ctx context.Context, t *model.ProductType) error {
	for _, v := range r.st.types {
		if v.Name == t.Name {
			return repo.ErrConflict
		}
	}
	t.ID = r.st.nextID()
	r.st.types[t.ID] = *t
	return nil
}

func (r memCatalog) FindProductTypeByID(ctx context.Context, typeID int64) (model.ProductType, error) {
	t, ok := r.st.types[typeID]
	if !ok {
		return model.ProductType{}, repo.ErrNotFound
	}
	return t, nil
}

func (r memCatalog) CreateCategory(ctx context.Context, c *model.ProductCategory) error {
	for _, v := range r.st.categories {
		if v.Name == c.Name || v.Slug == c.Slug {
			return repo.ErrConflict
		}
	}
	c.ID = r.st.nextID()
	r.st.categories[c.ID] = *c
	return nil
}

func (r memCatalog) FindCategoriesByIDs(ctx context.Context, ids []int64) ([]model.ProductCategory, error) {
	out := []model.ProductCategory{}
	for _, id := range ids {
		if c, ok := r.st.categories[id]; ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memCatalog) CreateAttribute(ctx context.Context, a *model.ProductAttribute) error {
	for _, v := range r.st.attributes {
		if v.Name == a.Name {
			return repo.ErrConflict
		}
	}
	a.ID = r.st.nextID()
	r.st.attributes[a.ID] = *a
	return nil
}

func (r memCatalog) FindAttributeByID(ctx context.Context, attributeID int64) (model.ProductAttribute, error) {
	a, ok := r.st.attributes[attributeID]
	if !ok {
		return model.ProductAttribute{}, repo.ErrNotFound
	}
	return a, nil
}

func (r memCatalog) CreateAttributeValue(ctx context.Context, v *model.ProductAttributeValue) error {
	for _, ex := range r.st.attrValues {
		if ex.AttributeID == v.AttributeID && ex.Value == v.Value {
			return repo.ErrConflict
		}
	}
	v.ID = r.st.nextID()
	r.st.attrValues[v.ID] = *v
	return nil
}

func (r memCatalog) FindAttributeValuesByIDs(ctx context.Context, ids []int64) ([]model.ProductAttributeValue, error) {
	out := []model.ProductAttributeValue{}
	for _, id := range ids {
		v, ok := r.st.attrValues[id]
		if !ok {
			continue
		}
		a := r.st.attributes[v.AttributeID]
		v.Attribute = &a
		out = append(out, v)
	}
	return out, nil
}

func (r memCatalog) ListRefs(ctx context.Context) (repo.CatalogRefs, error) {
	refs := repo.CatalogRefs{
		Suppliers:  []model.Supplier{},
		Brands:     []model.Brand{},
		Types:      []model.ProductType{},
		Categories: []model.ProductCategory{},
		Attributes: []model.ProductAttribute{},
	}
	for _, v := range r.st.suppliers {
		refs.Suppliers = append(refs.Suppliers, v)
	}
	for _, v := range r.st.brands {
		refs.Brands = append(refs.Brands, v)
	}
	for _, v := range r.st.types {
		refs.Types = append(refs.Types, v)
	}
	for _, v := range r.st.categories {
		refs.Categories = append(refs.Categories, v)
	}
	for _, a := range r.st.attributes {
		for _, v := range r.st.attrValues {
			if v.AttributeID == a.ID {
				a.Values = append(a.Values, v)
			}
		}
		sort.Slice(a.Values, func(i, j int) bool { return a.Values[i].Value < a.Values[j].Value })
		refs.Attributes = append(refs.Attributes, a)
	}
	sort.Slice(refs.Suppliers, func(i, j int) bool { return refs.Suppliers[i].Name < refs.Suppliers[j].Name })
	sort.Slice(refs.Brands, func(i, j int) bool { return refs.Brands[i].Name < refs.Brands[j].Name })
	sort.Slice(refs.Types, func(i, j int) bool { return refs.Types[i].Name < refs.Types[j].Name })
	sort.Slice(refs.Categories, func(i, j int) bool { return refs.Categories[i].Name < refs.Categories[j].Name })
	sort.Slice(refs.Attributes, func(i, j int) bool { return refs.Attributes[i].Name < refs.Attributes[j].Name })
	return refs, nil
}

func (r memCatalog) CreateProduct(ctx context.Context, p *model.Product) error {
	for _, v := range r.st.products {
		if v.WebID == p.WebID {
			return repo.ErrConflict
		}
	}
	p.ID = r.st.nextID()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.st.productCategories[p.ID] = categoryIDs(p.Categories)
	saved := *p
	saved.Categories = nil
	r.st.products[p.ID] = saved
	return nil
}

func (r memCatalog) UpdateProduct(ctx context.Context, p model.Product) error {
	ex, ok := r.st.products[p.ID]
	if !ok {
		return repo.ErrNotFound
	}
	ex.Name = p.Name
	ex.Slug = p.Slug
	ex.Description = p.Description
	ex.TypeID = p.TypeID
	ex.BrandID = p.BrandID
	ex.IsActive = p.IsActive
	ex.UpdatedAt = time.Now()
	r.st.products[p.ID] = ex
	r.st.productCategories[p.ID] = categoryIDs(p.Categories)
	return nil
}

func (r memCatalog) DeactivateProduct(ctx context.Context, productID int64) error {
	p, ok := r.st.products[productID]
	if !ok {
		return repo.ErrNotFound
	}
	p.IsActive = false
	r.st.products[productID] = p
	for id, v := range r.st.versions {
		if v.ProductID == productID {
			v.IsActive = false
			r.st.versions[id] = v
		}
	}
	return nil
}

func categoryIDs(cats []model.ProductCategory) []int64 {
	ids := make([]int64, 0, len(cats))
	for _, c := range cats {
		ids = append(ids, c.ID)
	}
	return ids
}
