package repository

import (
	"context"
	"errors"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

// カート明細を一覧取得
func (r *CartItemGormRepository) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}

	return items, nil
}

// 注文対象の明細だけ
func (r *CartItemGormRepository) ListMarkedByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem

	if err := r.db.WithContext(ctx).
		Where("cart_id = ? AND marked_for_order = ?", cartID, true).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}

	return items, nil
}

func (r *CartItemGormRepository) FindByCartAndVersion(ctx context.Context, cartID int64, versionID int64) (model.CartItem, bool, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_version_id = ?", cartID, versionID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, false, nil
	}
	if err != nil {
		return model.CartItem{}, false, err
	}
	return item, true, nil
}

// 同一商品は数量加算だけ。スナップショットと注文対象フラグは最初の追加時のまま。
func (r *CartItemGormRepository) Upsert(ctx context.Context, item model.CartItem) (model.CartItem, error) {
	if item.Quantity <= 0 {
		return model.CartItem{}, errors.New("invalid quantity")
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_version_id"}},
			DoUpdates: clause.Set{
				{Column: clause.Column{Name: "quantity"}, Value: gorm.Expr("cart_items.quantity + EXCLUDED.quantity")},
				{Column: clause.Column{Name: "updated_at"}, Value: gorm.Expr("EXCLUDED.updated_at")},
			},
		}).
		Create(&item).Error
	if err != nil {
		return model.CartItem{}, err
	}

	// 加算後の値を読み直す
	var saved model.CartItem
	if err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_version_id = ?", item.CartID, item.ProductVersionID).
		First(&saved).Error; err != nil {
		return model.CartItem{}, translate(err)
	}
	return saved, nil
}

// 明細の数量と注文対象フラグを更新
func (r *CartItemGormRepository) UpdateItem(ctx context.Context, cartItemID int64, qty int64, marked bool) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", cartItemID).
		Updates(map[string]interface{}{
			"quantity":         qty,
			"marked_for_order": marked,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *CartItemGormRepository) DeleteByID(ctx context.Context, cartItemID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.CartItem{}, cartItemID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 注文に移した明細をまとめて削除
func (r *CartItemGormRepository) DeleteByIDs(ctx context.Context, cartItemIDs []int64) error {
	if len(cartItemIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ?", cartItemIDs).
		Delete(&model.CartItem{}).Error
}

func (r *CartItemGormRepository) CountByCartID(ctx context.Context, cartID int64) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("cart_id = ?", cartID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *CartItemGormRepository) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	var item model.CartItem
	if err := r.db.WithContext(ctx).First(&item, cartItemID).Error; err != nil {
		return model.CartItem{}, translate(err)
	}
	return item, nil
}

// 明細がこの顧客のカートのものか
func (r *CartItemGormRepository) IsOwnedByCustomer(ctx context.Context, cartItemID int64, customerID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.customer_id = ?", cartItemID, customerID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
