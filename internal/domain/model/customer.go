package model

import (
	"fmt"
	"time"
)

type CustomerStatus string

const (
	CustomerStatusActive  CustomerStatus = "ACTIVE"
	CustomerStatusBlocked CustomerStatus = "BLOCKED"
)

// ParseCustomerStatus は文字列からステータスを作る。
func ParseCustomerStatus(s string) (CustomerStatus, error) {
	switch CustomerStatus(s) {
	case CustomerStatusActive, CustomerStatusBlocked:
		return CustomerStatus(s), nil
	}
	return "", fmt.Errorf("%w: unknown customer status %q", ErrValidation, s)
}

// 購入者。username/email/氏名は Identity が持ち、ここからは明示的に転送する。
type Customer struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	IdentityID  int64          `gorm:"not null;uniqueIndex" json:"identity_id"`
	Identity    Identity       `gorm:"foreignKey:IdentityID" json:"-"`
	Status      CustomerStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	PhoneNumber string         `gorm:"type:varchar(30)" json:"phone_number"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// NewCustomer は Identity を包んだ Customer を返す。
func NewCustomer(identity Identity, phone string) Customer {
	return Customer{
		IdentityID:  identity.ID,
		Identity:    identity,
		Status:      CustomerStatusActive,
		PhoneNumber: phone,
	}
}

// username は Customer 経由では変更できない。
func (c *Customer) Username() string { return c.Identity.Username }

func (c *Customer) Email() string { return c.Identity.Email }

func (c *Customer) SetEmail(email string) { c.Identity.Email = email }

func (c *Customer) FirstName() string { return c.Identity.FirstName }

func (c *Customer) SetFirstName(name string) { c.Identity.FirstName = name }

func (c *Customer) LastName() string { return c.Identity.LastName }

func (c *Customer) SetLastName(name string) { c.Identity.LastName = name }

// CheckPassword は照合を verifier に委ねる。
func (c *Customer) CheckPassword(v PasswordVerifier, plain string) bool {
	return v.Verify(plain, c.Identity.PasswordHash)
}

func (c *Customer) IsBlocked() bool {
	return c.Status == CustomerStatusBlocked
}
