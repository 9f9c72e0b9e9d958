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
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"

	"go.uber.org/zap"
)

type SellerOrderUsecase struct {
	tx repo.TransactionManager
}

func NewSellerOrderUsecase(tx repo.TransactionManager) *SellerOrderUsecase {
	return &SellerOrderUsecase{tx: tx}
}

type SellerUpdateOrderStatusInput struct {
	Status string `json:"status"`
}

// 注文一覧
func (u *SellerOrderUsecase) List(ctx context.Context, f repo.SellerOrderListFilter) (OrderListOutput, error) {
	page, limit, err := normalizePage(f.Page, f.Limit)
	if err != nil {
		return OrderListOutput{}, err
	}
	f.Page, f.Limit = page, limit

	f.Status = strings.TrimSpace(f.Status)
	if f.Status != "" {
		if _, err := model.ParseOrderStatus(f.Status); err != nil {
			return OrderListOutput{}, WrapHTTPError(http.StatusBadRequest, "invalid status", err)
		}
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return OrderListOutput{}, NewHTTPError(http.StatusBadRequest, "from must be <= to")
	}

	var out OrderListOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListSeller(ctx, f)
		if err != nil {
			return dbError(ctx, "list orders", err)
		}

		outs := make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return dbError(ctx, "list order items", err)
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		out = OrderListOutput{Items: outs, Total: total, Page: page, Limit: limit}
		return nil
	})

	if err != nil {
		return OrderListOutput{}, err
	}
	return out, nil
}

// ステータス更新（キャンセルなら在庫戻し）
func (u *SellerOrderUsecase) UpdateStatus(ctx context.Context, actorIdentityID int64, orderID int64, in SellerUpdateOrderStatusInput) (OrderOutput, error) {
	if actorIdentityID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	next, err := model.ParseOrderStatus(strings.TrimSpace(in.Status))
	if err != nil {
		return OrderOutput{}, WrapHTTPError(http.StatusBadRequest, "invalid status", err)
	}
	//販売者は顧客キャンセルを付けられない
	if next == model.OrderStatusCanceledByCustomer {
		return OrderOutput{}, invalid("seller cannot set CANCELED_BY_CUSTOMER")
	}

	var out OrderOutput
	var res canceledOrder

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 注文取得
		o, err := r.Orders().FindByIDForUpdate(ctx, orderID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("not found")
		}
		if err != nil {
			return dbError(ctx, "find order", err)
		}

		// すでに同じなら何もしない（200）
		if o.Status == next {
			items, err := r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return dbError(ctx, "list order items", err)
			}
			out = toOrderOutput(o, items)
			return nil
		}

		before := o.Status
		var items []model.OrderItem
		if next.IsCanceled() {
			// 可否判定と冪等性は cancelOrder に任せる
			res, err = cancelOrder(ctx, r, o, model.CancelBySeller)
			if err != nil {
				return err
			}
			o, items = res.Order, res.Items
			if !res.Changed {
				out = toOrderOutput(o, items)
				return nil
			}
		} else {
			if !before.CanTransitionTo(next) {
				return invalid(fmt.Sprintf("cannot change order from %s to %s", before, next))
			}
			if err := r.Orders().UpdateStatus(ctx, orderID, next); err != nil {
				return domainError(ctx, "update order status", err)
			}
			o.Status = next
			items, err = r.OrderItems().ListByOrderID(ctx, orderID)
			if err != nil {
				return dbError(ctx, "list order items", err)
			}
		}

		// 販売者の変更は同じTxで監査ログに残す
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorIdentityID: actorIdentityID,
			Action:          model.AuditActionUpdateOrderStatus,
			ResourceType:    model.AuditResourceOrder,
			ResourceID:      orderID,
			BeforeJSON:      fmt.Sprintf(`{"status":%q}`, before),
			AfterJSON:       fmt.Sprintf(`{"status":%q}`, next),
			CreatedAt:       time.Now(),
		}); err != nil {
			return dbError(ctx, "create audit log", err)
		}

		out = toOrderOutput(o, items)
		return nil
	})
	if err != nil {
		return OrderOutput{}, err
	}

	// ロールバックされた分は数えない
	res.record(ctx, model.CancelBySeller)
	logger.Info(ctx, "order status updated",
		zap.Int64("order_id", orderID),
		zap.String("status", out.Status),
		zap.Int64("actor_identity_id", actorIdentityID),
	)
	return out, nil
}

// 販売者によるキャンセル
func (u *SellerOrderUsecase) Cancel(ctx context.Context, actorIdentityID int64, orderID int64) (OrderOutput, error) {
	return u.UpdateStatus(ctx, actorIdentityID, orderID, SellerUpdateOrderStatusInput{
		Status: string(model.OrderStatusCanceledBySeller),
	})
}

// 期間パラメータ。handlerで time.Time にしてから filter に入れる
func ParseDateTimeRFC3339(s string) (*time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}
