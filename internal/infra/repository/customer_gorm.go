package repository

import (
	"context"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"

	"gorm.io/gorm"
)

type CustomerGormRepository struct {
	db *gorm.DB
}

func NewCustomerGormRepository(db *gorm.DB) *CustomerGormRepository {
	return &CustomerGormRepository{db: db}
}

func (r *CustomerGormRepository) Create(ctx context.Context, customer *model.Customer) error {
	// Identity は別途作成済みなので関連は保存しない
	return translate(r.db.WithContext(ctx).Omit("Identity").Create(customer).Error)
}

// Identity を JOIN して1クエリで取得
func (r *CustomerGormRepository) FindByID(ctx context.Context, customerID int64) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Joins("Identity").
		Where("customers.id = ?", customerID).
		First(&c).Error
	if err != nil {
		return model.Customer{}, translate(err)
	}
	return c, nil
}

func (r *CustomerGormRepository) FindByIdentityID(ctx context.Context, identityID int64) (model.Customer, error) {
	var c model.Customer
	err := r.db.WithContext(ctx).
		Joins("Identity").
		Where("customers.identity_id = ?", identityID).
		First(&c).Error
	if err != nil {
		return model.Customer{}, translate(err)
	}
	return c, nil
}

func (r *CustomerGormRepository) Update(ctx context.Context, customer *model.Customer) error {
	res := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ?", customer.ID).
		Update("phone_number", customer.PhoneNumber)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CustomerGormRepository) UpdateStatus(ctx context.Context, customerID int64, status model.CustomerStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Customer{}).
		Where("id = ?", customerID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
