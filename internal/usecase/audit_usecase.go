package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"
)

// 販売者操作の監査ログ閲覧
type AuditUsecase struct {
	tx repo.TransactionManager
}

func NewAuditUsecase(tx repo.TransactionManager) *AuditUsecase {
	return &AuditUsecase{tx: tx}
}

type AuditListInput struct {
	Page            int
	Limit           int
	ActorIdentityID *int64
	Action          string
	ResourceType    string
	ResourceID      *int64
	From            *time.Time
	To              *time.Time
}

type AuditLogOutput struct {
	ID              int64     `json:"id"`
	ActorIdentityID int64     `json:"actor_identity_id"`
	Action          string    `json:"action"`
	ResourceType    string    `json:"resource_type"`
	ResourceID      int64     `json:"resource_id"`
	Before          string    `json:"before"`
	After           string    `json:"after"`
	CreatedAt       time.Time `json:"created_at"`
}

type AuditListOutput struct {
	Items []AuditLogOutput `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

func (u *AuditUsecase) List(ctx context.Context, in AuditListInput) (AuditListOutput, error) {
	page, limit, err := normalizePage(in.Page, in.Limit)
	if err != nil {
		return AuditListOutput{}, err
	}

	f := repo.AuditLogListFilter{
		Page:            page,
		Limit:           limit,
		ActorIdentityID: in.ActorIdentityID,
		ResourceID:      in.ResourceID,
		From:            in.From,
		To:              in.To,
	}

	if a := strings.TrimSpace(in.Action); a != "" {
		action := model.AuditAction(a)
		if !action.Valid() {
			return AuditListOutput{}, invalid("invalid action")
		}
		f.Action = action
	}
	if rt := strings.TrimSpace(in.ResourceType); rt != "" {
		resourceType := model.AuditResourceType(rt)
		if !resourceType.Valid() {
			return AuditListOutput{}, invalid("invalid resource_type")
		}
		f.ResourceType = resourceType
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return AuditListOutput{}, NewHTTPError(http.StatusBadRequest, "from must be <= to")
	}

	var out AuditListOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		logs, total, err := r.AuditLogs().List(ctx, f)
		if err != nil {
			return dbError(ctx, "list audit logs", err)
		}
		items := make([]AuditLogOutput, 0, len(logs))
		for _, l := range logs {
			items = append(items, AuditLogOutput{
				ID:              l.ID,
				ActorIdentityID: l.ActorIdentityID,
				Action:          string(l.Action),
				ResourceType:    string(l.ResourceType),
				ResourceID:      l.ResourceID,
				Before:          l.BeforeJSON,
				After:           l.AfterJSON,
				CreatedAt:       l.CreatedAt,
			})
		}
		out = AuditListOutput{Items: items, Total: total, Page: page, Limit: limit}
		return nil
	})
	if err != nil {
		return AuditListOutput{}, err
	}
	return out, nil
}
