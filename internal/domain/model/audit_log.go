package model

import "time"

type AuditAction string

const (
	AuditActionUpdateStock          AuditAction = "UPDATE_STOCK"
	AuditActionUpdateOrderStatus    AuditAction = "UPDATE_ORDER_STATUS"
	AuditActionUpdateCustomerStatus AuditAction = "UPDATE_CUSTOMER_STATUS"
	AuditActionUpdateProduct        AuditAction = "UPDATE_PRODUCT"
	AuditActionUpdateProductVersion AuditAction = "UPDATE_PRODUCT_VERSION"
)

func (a AuditAction) Valid() bool {
	switch a {
	case AuditActionUpdateStock, AuditActionUpdateOrderStatus, AuditActionUpdateCustomerStatus,
		AuditActionUpdateProduct, AuditActionUpdateProductVersion:
		return true
	}
	return false
}

type AuditResourceType string

const (
	AuditResourceProductVersion AuditResourceType = "product_version"
	AuditResourceOrder          AuditResourceType = "order"
	AuditResourceCustomer       AuditResourceType = "customer"
	AuditResourceProduct        AuditResourceType = "product"
)

func (t AuditResourceType) Valid() bool {
	switch t {
	case AuditResourceProductVersion, AuditResourceOrder, AuditResourceCustomer, AuditResourceProduct:
		return true
	}
	return false
}

// 販売者の操作履歴。在庫・注文ステータス・顧客ステータスの変更ごとに1行。
// Before/After は変更したフィールドだけを持つ JSON。
type AuditLog struct {
	ID              int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorIdentityID int64             `gorm:"not null;index" json:"actor_identity_id"`
	Action          AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType    AuditResourceType `gorm:"type:varchar(50);not null;index:idx_audit_resource" json:"resource_type"`
	ResourceID      int64             `gorm:"not null;index:idx_audit_resource" json:"resource_id"`
	BeforeJSON      string            `gorm:"type:text" json:"before_json"`
	AfterJSON       string            `gorm:"type:text" json:"after_json"`
	CreatedAt       time.Time         `gorm:"not null;index" json:"created_at"`
}
