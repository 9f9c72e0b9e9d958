package repository

import "errors"

// 対象が存在しない（カート・注文・明細など）
var ErrNotFound = errors.New("not found")

// 一意制約に当たった
var ErrConflict = errors.New("conflict")
