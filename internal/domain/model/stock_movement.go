package model

import "time"

type StockMovementKind string

const (
	StockMovementRestock       StockMovementKind = "RESTOCK"
	StockMovementSet           StockMovementKind = "SET"
	StockMovementWriteOff      StockMovementKind = "WRITE_OFF"
	StockMovementSale          StockMovementKind = "SALE"
	StockMovementCancelRestore StockMovementKind = "CANCEL_RESTORE"
)

// 在庫の増減履歴
type StockMovement struct {
	ID               int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductVersionID int64             `gorm:"not null;index" json:"product_version_id"`
	Kind             StockMovementKind `gorm:"type:varchar(20);not null;index" json:"kind"`
	Delta            int64             `gorm:"not null" json:"delta"`
	// 操作者（SALE/CANCEL_RESTORE では注文ID側で追える）
	ActorIdentityID *int64    `gorm:"index" json:"actor_identity_id"`
	OrderID         *int64    `gorm:"index" json:"order_id"`
	Reason          string    `gorm:"type:varchar(255)" json:"reason"`
	CreatedAt       time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
