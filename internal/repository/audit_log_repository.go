package repository

import (
	"context"
	"time"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
)

// 販売者向け監査ログ一覧の条件。空文字/nil は絞り込みなし
type AuditLogListFilter struct {
	Page            int
	Limit           int
	ActorIdentityID *int64
	Action          model.AuditAction
	ResourceType    model.AuditResourceType
	ResourceID      *int64
	From            *time.Time
	To              *time.Time
}

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	// 新しい順。total は絞り込み後の件数
	List(ctx context.Context, f AuditLogListFilter) ([]model.AuditLog, int64, error)
}
