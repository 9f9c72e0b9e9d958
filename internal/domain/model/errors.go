package model

import "errors"

var (
	// 入力値が不正（負の数量・非公開商品・未知のステータスなど）
	ErrValidation = errors.New("validation error")

	// 1回の追加量が上限を超えた
	ErrTooBigToAdd = errors.New("too big to add")

	// 在庫より多く減らそうとした
	ErrNotEnoughProductLeft = errors.New("not enough product left")
)
