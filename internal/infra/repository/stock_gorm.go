package repository

import (
	"context"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StockGormRepository struct {
	db *gorm.DB
}

func NewStockGormRepository(db *gorm.DB) *StockGormRepository {
	return &StockGormRepository{db: db}
}

func (r *StockGormRepository) Create(ctx context.Context, stock *model.Stock) error {
	return translate(r.db.WithContext(ctx).Create(stock).Error)
}

func (r *StockGormRepository) FindByProductVersionID(ctx context.Context, versionID int64) (model.Stock, error) {
	var s model.Stock
	err := r.db.WithContext(ctx).
		Where("product_version_id = ?", versionID).
		First(&s).Error
	if err != nil {
		return model.Stock{}, translate(err)
	}
	return s, nil
}

// SELECT ... FOR UPDATE
func (r *StockGormRepository) FindByProductVersionIDForUpdate(ctx context.Context, versionID int64) (model.Stock, error) {
	var s model.Stock
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_version_id = ?", versionID).
		First(&s).Error
	if err != nil {
		return model.Stock{}, translate(err)
	}
	return s, nil
}

// 数量系の列だけ保存
func (r *StockGormRepository) Save(ctx context.Context, stock model.Stock) error {
	res := r.db.WithContext(ctx).
		Model(&model.Stock{}).
		Where("id = ?", stock.ID).
		Updates(map[string]interface{}{
			"current_amount": stock.CurrentAmount,
			"items_sold":     stock.ItemsSold,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 在庫が足りるときだけ減らす
func (r *StockGormRepository) SellIfEnough(ctx context.Context, versionID int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Stock{}).
		Where("product_version_id = ? AND current_amount >= ?", versionID, qty).
		Updates(map[string]interface{}{
			"current_amount": gorm.Expr("current_amount - ?", qty),
			"items_sold":     gorm.Expr("items_sold + ?", qty),
		})

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	return true, nil
}

// 在庫戻し（キャンセル）
func (r *StockGormRepository) Restore(ctx context.Context, versionID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Stock{}).
		Where("product_version_id = ? AND items_sold >= ?", versionID, qty).
		Updates(map[string]interface{}{
			"current_amount": gorm.Expr("current_amount + ?", qty),
			"items_sold":     gorm.Expr("items_sold - ?", qty),
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 増減履歴作成
func (r *StockGormRepository) CreateMovement(ctx context.Context, movement model.StockMovement) error {
	if err := r.db.WithContext(ctx).Create(&movement).Error; err != nil {
		return err
	}
	return nil
}
