package repository

import (
	"context"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
)

// 認証ユーザー(Identity)の保存・取得を約束
type IdentityRepository interface {
	//新規作成。username/email が重複していたら ErrConflict
	Create(ctx context.Context, identity *model.Identity) error
	FindByID(ctx context.Context, identityID int64) (*model.Identity, error)
	FindByUsername(ctx context.Context, username string) (*model.Identity, error)
	// メール・氏名・最終ログインなどの更新
	Update(ctx context.Context, identity *model.Identity) error
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *model.Customer) error
	// Identity も一緒に読む
	FindByID(ctx context.Context, customerID int64) (model.Customer, error)
	FindByIdentityID(ctx context.Context, identityID int64) (model.Customer, error)
	Update(ctx context.Context, customer *model.Customer) error
	UpdateStatus(ctx context.Context, customerID int64, status model.CustomerStatus) error
}
