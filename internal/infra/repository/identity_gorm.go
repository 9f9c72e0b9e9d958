package repository

import (
	"context"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"

	"gorm.io/gorm"
)

type IdentityGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewIdentityGormRepository(db *gorm.DB) *IdentityGormRepository {
	return &IdentityGormRepository{db: db}
}

// Create はユーザーを新規作成
func (r *IdentityGormRepository) Create(ctx context.Context, identity *model.Identity) error {
	return translate(r.db.WithContext(ctx).Create(identity).Error)
}

func (r *IdentityGormRepository) FindByID(ctx context.Context, identityID int64) (*model.Identity, error) {
	var u model.Identity
	if err := r.db.WithContext(ctx).Where("id = ?", identityID).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// usernameでユーザーを1件取得
func (r *IdentityGormRepository) FindByUsername(ctx context.Context, username string) (*model.Identity, error) {
	var u model.Identity
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

// ユーザーを更新。username は変えない。
func (r *IdentityGormRepository) Update(ctx context.Context, identity *model.Identity) error {
	res := r.db.WithContext(ctx).
		Model(&model.Identity{}).
		Where("id = ?", identity.ID).
		Updates(map[string]interface{}{
			"email":         identity.Email,
			"first_name":    identity.FirstName,
			"last_name":     identity.LastName,
			"is_active":     identity.IsActive,
			"last_login_at": identity.LastLoginAt,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
