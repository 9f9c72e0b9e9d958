package model

import (
	"fmt"
	"time"
)

// 1回の追加で許される量の上限（この値以上は ErrTooBigToAdd）
const MaxAmountAdded int64 = 10000

// 商品バージョンごとの在庫。ProductVersion と1対1。
type Stock struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductVersionID int64     `gorm:"not null;uniqueIndex" json:"product_version_id"`
	Unit             string    `gorm:"type:varchar(20);not null;default:'pcs'" json:"unit"`
	InitialAmount    int64     `gorm:"not null;default:0;check:initial_amount >= 0" json:"initial_amount"`
	CurrentAmount    int64     `gorm:"not null;default:0;check:current_amount >= 0" json:"current_amount"`
	ItemsSold        int64     `gorm:"not null;default:0;check:items_sold >= 0" json:"items_sold"`
	UpdatedAt        time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// Available は amount だけ確保できるか。
func (s *Stock) Available(amount int64) bool {
	return s.CurrentAmount >= amount
}

// Add は MaxAmountAdded を上限に在庫を増やす。
func (s *Stock) Add(amount int64) error {
	return s.AddLimited(amount, MaxAmountAdded)
}

// AddLimited は limit 以上の追加を拒否する。失敗時は値を変えない。
func (s *Stock) AddLimited(amount, limit int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative amount", ErrValidation)
	}
	if amount >= limit {
		return fmt.Errorf("%w: %d >= %d", ErrTooBigToAdd, amount, limit)
	}
	s.CurrentAmount += amount
	return nil
}

// Deduct は在庫だけを減らす（廃棄など）。
func (s *Stock) Deduct(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative amount", ErrValidation)
	}
	if amount > s.CurrentAmount {
		return fmt.Errorf("%w: want %d, have %d", ErrNotEnoughProductLeft, amount, s.CurrentAmount)
	}
	s.CurrentAmount -= amount
	return nil
}

// Sell は減算と販売数の加算を組で行う。
func (s *Stock) Sell(amount int64) error {
	if err := s.Deduct(amount); err != nil {
		return err
	}
	s.ItemsSold += amount
	return nil
}

// Restore はキャンセル分を戻す。Sell の逆。
func (s *Stock) Restore(amount int64) error {
	if amount < 0 {
		return fmt.Errorf("%w: negative amount", ErrValidation)
	}
	if amount > s.ItemsSold {
		return fmt.Errorf("%w: restore %d exceeds sold %d", ErrValidation, amount, s.ItemsSold)
	}
	s.CurrentAmount += amount
	s.ItemsSold -= amount
	return nil
}

// Set は現在値を上書きする。
func (s *Stock) Set(amount int64) error {
	return s.SetLimited(amount, MaxAmountAdded)
}

func (s *Stock) SetLimited(amount, limit int64) error {
	if amount < 0 || amount >= limit {
		return fmt.Errorf("%w: amount %d out of range", ErrValidation, amount)
	}
	s.CurrentAmount = amount
	return nil
}
