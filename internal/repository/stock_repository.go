package repository

import (
	"context"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
)

type StockRepository interface {
	Create(ctx context.Context, stock *model.Stock) error
	FindByProductVersionID(ctx context.Context, versionID int64) (model.Stock, error)
	// 行ロック付きで取得（Tx内で使う）
	FindByProductVersionIDForUpdate(ctx context.Context, versionID int64) (model.Stock, error)
	// current_amount / items_sold を保存
	Save(ctx context.Context, stock model.Stock) error

	// 在庫が足りるときだけ減算し、販売数を加算
	SellIfEnough(ctx context.Context, versionID int64, qty int64) (bool, error)

	// 在庫戻し（キャンセル）。販売数も減らす
	Restore(ctx context.Context, versionID int64, qty int64) error

	// 増減履歴作成
	CreateMovement(ctx context.Context, movement model.StockMovement) error
}
