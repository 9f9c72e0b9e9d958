package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	"github.com/dynamicsamic/testDbDesign/internal/logger"
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CatalogUsecase struct {
	tx       repo.TransactionManager
	products repo.ProductRepository
	maxAdd   int64
}

// DI
func NewCatalogUsecase(tx repo.TransactionManager, products repo.ProductRepository, maxAdd int64) *CatalogUsecase {
	if maxAdd <= 0 {
		maxAdd = model.MaxAmountAdded
	}
	return &CatalogUsecase{tx: tx, products: products, maxAdd: maxAdd}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	Page  int
	Limit int
	Q     string
	Sort  string
}

type ProductVersionOutput struct {
	ID           int64           `json:"id"`
	ProductID    int64           `json:"product_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	RegularPrice decimal.Decimal `json:"regular_price"`
	Discount     int             `json:"discount"`
	FinalPrice   decimal.Decimal `json:"final_price"`
	IsActive     bool            `json:"is_active"`
	ViewCount    int64           `json:"view_count"`
	// 在庫を読んだときだけ
	Available  *int64                 `json:"available,omitempty"`
	Unit       string                 `json:"unit,omitempty"`
	Attributes []AttributeValueOutput `json:"attributes,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

type AttributeValueOutput struct {
	ID          int64  `json:"id"`
	AttributeID int64  `json:"attribute_id"`
	Attribute   string `json:"attribute"`
	Value       string `json:"value"`
}

type ProductListOutput struct {
	Items []ProductVersionOutput `json:"items"`
	Total int64                  `json:"total"`
	Page  int                    `json:"page"`
	Limit int                    `json:"limit"`
}

// 販売者の商品バージョン登録
type CreateProductVersionInput struct {
	ProductID     int64           `json:"product_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	RegularPrice  decimal.Decimal `json:"regular_price"`
	Discount      int             `json:"discount"`
	IsActive      bool            `json:"is_active"`
	Unit          string          `json:"unit"`
	InitialAmount int64           `json:"initial_amount"`
	// 作成と同じTxでリンクする
	AttributeValueIDs []int64 `json:"attribute_value_ids"`
}

func (u *CatalogUsecase) ListProducts(ctx context.Context, in ListProductsInput) (ProductListOutput, error) {
	page, limit, err := normalizePage(in.Page, in.Limit)
	if err != nil {
		return ProductListOutput{}, err
	}
	if len(in.Q) > 100 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}
	switch in.Sort {
	case "", "new", "price_asc", "price_desc", "popular":
	default:
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid sort")
	}

	items, total, err := u.products.ListPublic(ctx, repo.ProductListQuery{
		Page:  page,
		Limit: limit,
		Q:     strings.TrimSpace(in.Q),
		Sort:  in.Sort,
	})
	if err != nil {
		return ProductListOutput{}, dbError(ctx, "list products", err)
	}

	outs := make([]ProductVersionOutput, 0, len(items))
	for _, pv := range items {
		outs = append(outs, toProductVersionOutput(pv))
	}
	return ProductListOutput{
		Items: outs,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// 詳細を返し、閲覧数を1つ進める
func (u *CatalogUsecase) GetProduct(ctx context.Context, versionID int64) (ProductVersionOutput, error) {
	if versionID <= 0 {
		return ProductVersionOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	pv, err := u.products.FindVersionWithStock(ctx, versionID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductVersionOutput{}, notFound("not found")
	}
	if err != nil {
		return ProductVersionOutput{}, dbError(ctx, "find product", err)
	}
	//非公開は存在しない扱い
	if !pv.IsActive {
		return ProductVersionOutput{}, notFound("not found")
	}

	if err := u.products.IncrementViewCount(ctx, versionID); err != nil {
		return ProductVersionOutput{}, dbError(ctx, "increment view count", err)
	}
	pv.ViewCount++

	attrs, err := u.products.ListVersionAttributes(ctx, versionID)
	if err != nil {
		return ProductVersionOutput{}, dbError(ctx, "list attributes", err)
	}
	pv.Attributes = attrs

	return toProductVersionOutput(pv), nil
}

func (u *CatalogUsecase) AddFavorite(ctx context.Context, customerID int64, versionID int64) error {
	if customerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if versionID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	pv, err := u.products.FindVersionByID(ctx, versionID)
	if errors.Is(err, repo.ErrNotFound) || (err == nil && !pv.IsActive) {
		return notFound("not found")
	}
	if err != nil {
		return dbError(ctx, "find product", err)
	}

	if err := u.products.AddFavorite(ctx, customerID, versionID); err != nil {
		return dbError(ctx, "add favorite", err)
	}
	return nil
}

func (u *CatalogUsecase) RemoveFavorite(ctx context.Context, customerID int64, versionID int64) error {
	if customerID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	err := u.products.RemoveFavorite(ctx, customerID, versionID)
	if errors.Is(err, repo.ErrNotFound) {
		return notFound("not found")
	}
	if err != nil {
		return dbError(ctx, "remove favorite", err)
	}
	return nil
}

func (u *CatalogUsecase) ListFavorites(ctx context.Context, customerID int64) ([]ProductVersionOutput, error) {
	if customerID <= 0 {
		return []ProductVersionOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	items, err := u.products.ListFavorites(ctx, customerID)
	if err != nil {
		return []ProductVersionOutput{}, dbError(ctx, "list favorites", err)
	}
	outs := make([]ProductVersionOutput, 0, len(items))
	for _, pv := range items {
		outs = append(outs, toProductVersionOutput(pv))
	}
	return outs, nil
}

// 商品バージョンと在庫行を同じTxで作る
func (u *CatalogUsecase) CreateProductVersion(ctx context.Context, actorIdentityID int64, in CreateProductVersionInput) (ProductVersionOutput, error) {
	if actorIdentityID <= 0 {
		return ProductVersionOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	in.SKU = strings.TrimSpace(in.SKU)
	in.Name = strings.TrimSpace(in.Name)
	if in.ProductID <= 0 {
		return ProductVersionOutput{}, invalid("invalid product_id")
	}
	if in.SKU == "" || len(in.SKU) > 20 {
		return ProductVersionOutput{}, invalid("invalid sku")
	}
	if in.Name == "" || len(in.Name) > 150 {
		return ProductVersionOutput{}, invalid("invalid name")
	}

	pv := model.ProductVersion{
		ProductID:    in.ProductID,
		SKU:          in.SKU,
		Name:         in.Name,
		RegularPrice: in.RegularPrice.Round(2),
		Discount:     in.Discount,
		IsActive:     in.IsActive,
	}
	if err := pv.Validate(); err != nil {
		return ProductVersionOutput{}, domainError(ctx, "validate product", err)
	}

	// 初期在庫も追加上限に従う
	stock := model.Stock{Unit: strings.TrimSpace(in.Unit)}
	if err := stock.AddLimited(in.InitialAmount, u.maxAdd); err != nil {
		return ProductVersionOutput{}, domainError(ctx, "initial stock", err)
	}
	stock.InitialAmount = in.InitialAmount
	pv.Stock = &stock

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindProductByID(ctx, in.ProductID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return notFound("product not found")
			}
			return dbError(ctx, "find product", err)
		}

		if err := r.Products().CreateVersion(ctx, &pv); err != nil {
			return dbError(ctx, "create product version", err)
		}

		if in.InitialAmount > 0 {
			actor := actorIdentityID
			if err := r.Stocks().CreateMovement(ctx, model.StockMovement{
				ProductVersionID: pv.ID,
				Kind:             model.StockMovementRestock,
				Delta:            in.InitialAmount,
				ActorIdentityID:  &actor,
				Reason:           "initial stock",
			}); err != nil {
				return dbError(ctx, "create stock movement", err)
			}
		}

		if len(in.AttributeValueIDs) > 0 {
			if err := linkAttributeValues(ctx, r, pv.ID, in.AttributeValueIDs); err != nil {
				return err
			}
			attrs, err := r.Products().ListVersionAttributes(ctx, pv.ID)
			if err != nil {
				return dbError(ctx, "list attributes", err)
			}
			pv.Attributes = attrs
		}
		return nil
	})
	if err != nil {
		return ProductVersionOutput{}, err
	}

	logger.Info(ctx, "product version created", zap.Int64("product_version_id", pv.ID), zap.String("sku", pv.SKU))
	return toProductVersionOutput(pv), nil
}

func toProductVersionOutput(pv model.ProductVersion) ProductVersionOutput {
	out := ProductVersionOutput{
		ID:           pv.ID,
		ProductID:    pv.ProductID,
		SKU:          pv.SKU,
		Name:         pv.Name,
		RegularPrice: pv.RegularPrice,
		Discount:     pv.Discount,
		FinalPrice:   pv.FinalPrice(),
		IsActive:     pv.IsActive,
		ViewCount:    pv.ViewCount,
		CreatedAt:    pv.CreatedAt,
	}
	if pv.Stock != nil {
		available := pv.Stock.CurrentAmount
		out.Available = &available
		out.Unit = pv.Stock.Unit
	}
	for _, v := range pv.Attributes {
		a := AttributeValueOutput{ID: v.ID, AttributeID: v.AttributeID, Value: v.Value}
		if v.Attribute != nil {
			a.Attribute = v.Attribute.Name
		}
		out.Attributes = append(out.Attributes, a)
	}
	return out
}
