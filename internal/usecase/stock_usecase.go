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
	"github.com/dynamicsamic/testDbDesign/internal/metrics"
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"

	"go.uber.org/zap"
)

type StockUsecase struct {
	tx     repo.TransactionManager
	maxAdd int64
}

func NewStockUsecase(tx repo.TransactionManager, maxAdd int64) *StockUsecase {
	if maxAdd <= 0 {
		maxAdd = model.MaxAmountAdded
	}
	return &StockUsecase{tx: tx, maxAdd: maxAdd}
}

type StockInput struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

type StockOutput struct {
	ProductVersionID int64     `json:"product_version_id"`
	Unit             string    `json:"unit"`
	InitialAmount    int64     `json:"initial_amount"`
	CurrentAmount    int64     `json:"current_amount"`
	ItemsSold        int64     `json:"items_sold"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// 入荷（加算）
func (u *StockUsecase) AddStock(ctx context.Context, actorIdentityID int64, versionID int64, in StockInput) (StockOutput, error) {
	return u.adjust(ctx, actorIdentityID, versionID, model.StockMovementRestock, in.Reason, func(s *model.Stock) error {
		return s.AddLimited(in.Amount, u.maxAdd)
	})
}

// 棚卸しで現在値を上書き
func (u *StockUsecase) SetStock(ctx context.Context, actorIdentityID int64, versionID int64, in StockInput) (StockOutput, error) {
	return u.adjust(ctx, actorIdentityID, versionID, model.StockMovementSet, in.Reason, func(s *model.Stock) error {
		return s.SetLimited(in.Amount, u.maxAdd)
	})
}

// 廃棄など、販売以外の減算
func (u *StockUsecase) WriteOff(ctx context.Context, actorIdentityID int64, versionID int64, in StockInput) (StockOutput, error) {
	return u.adjust(ctx, actorIdentityID, versionID, model.StockMovementWriteOff, in.Reason, func(s *model.Stock) error {
		return s.Deduct(in.Amount)
	})
}

func (u *StockUsecase) GetStock(ctx context.Context, versionID int64) (StockOutput, error) {
	if versionID <= 0 {
		return StockOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var out StockOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		s, err := r.Stocks().FindByProductVersionID(ctx, versionID)
		if err != nil {
			return domainError(ctx, "find stock", err)
		}
		out = toStockOutput(s)
		return nil
	})
	if err != nil {
		return StockOutput{}, err
	}
	return out, nil
}

// 行ロック → ドメインで検証 → 保存 → 履歴・監査ログ
func (u *StockUsecase) adjust(
	ctx context.Context,
	actorIdentityID int64,
	versionID int64,
	kind model.StockMovementKind,
	reason string,
	apply func(s *model.Stock) error,
) (StockOutput, error) {
	if actorIdentityID <= 0 {
		return StockOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if versionID <= 0 {
		return StockOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	reason = strings.TrimSpace(reason)
	if len(reason) > 255 {
		return StockOutput{}, invalid("reason too long")
	}

	var out StockOutput
	var delta int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		s, err := r.Stocks().FindByProductVersionIDForUpdate(ctx, versionID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("stock not found")
		}
		if err != nil {
			return dbError(ctx, "find stock", err)
		}

		before := s.CurrentAmount
		// 失敗時は値が変わらないので何も保存しない
		if err := apply(&s); err != nil {
			return domainError(ctx, "apply stock change", err)
		}
		delta = s.CurrentAmount - before

		if err := r.Stocks().Save(ctx, s); err != nil {
			return dbError(ctx, "save stock", err)
		}

		actor := actorIdentityID
		if err := r.Stocks().CreateMovement(ctx, model.StockMovement{
			ProductVersionID: versionID,
			Kind:             kind,
			Delta:            delta,
			ActorIdentityID:  &actor,
			Reason:           reason,
		}); err != nil {
			return dbError(ctx, "create stock movement", err)
		}

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorIdentityID: actorIdentityID,
			Action:          model.AuditActionUpdateStock,
			ResourceType:    model.AuditResourceProductVersion,
			ResourceID:      versionID,
			BeforeJSON:      fmt.Sprintf(`{"current_amount":%d}`, before),
			AfterJSON:       fmt.Sprintf(`{"current_amount":%d}`, s.CurrentAmount),
			CreatedAt:       time.Now(),
		}); err != nil {
			return dbError(ctx, "create audit log", err)
		}

		out = toStockOutput(s)
		return nil
	})
	if err != nil {
		return StockOutput{}, err
	}

	if delta > 0 {
		metrics.StockUnits.WithLabelValues(string(kind)).Add(float64(delta))
	} else if delta < 0 {
		metrics.StockUnits.WithLabelValues(string(kind)).Add(float64(-delta))
	}
	logger.Info(ctx, "stock adjusted",
		zap.Int64("product_version_id", versionID),
		zap.String("kind", string(kind)),
		zap.Int64("delta", delta),
	)
	return out, nil
}

func toStockOutput(s model.Stock) StockOutput {
	return StockOutput{
		ProductVersionID: s.ProductVersionID,
		Unit:             s.Unit,
		InitialAmount:    s.InitialAmount,
		CurrentAmount:    s.CurrentAmount,
		ItemsSold:        s.ItemsSold,
		UpdatedAt:        s.UpdatedAt,
	}
}
