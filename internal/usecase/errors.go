package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	"github.com/dynamicsamic/testDbDesign/internal/logger"
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"
)

// handlerでそのままステータスに変換する
type HTTPError struct {
	Status  int
	Message string
	// 元のエラー（errors.Is で辿れる）
	Err error
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func WrapHTTPError(status int, message string, err error) error {
	return &HTTPError{
		Status:  status,
		Message: message,
		Err:     err,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// dbError は想定外のDBエラーをログに出して500にする
func dbError(ctx context.Context, op string, err error) error {
	logger.Error(ctx, op+" failed", err)
	return WrapHTTPError(http.StatusInternalServerError, "db error", err)
}

// domainError はドメイン/リポジトリのエラーをHTTPErrorに寄せる
func domainError(ctx context.Context, op string, err error) error {
	if _, ok := AsHTTPError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, model.ErrTooBigToAdd):
		return WrapHTTPError(http.StatusBadRequest, "too big to add", err)
	case errors.Is(err, model.ErrNotEnoughProductLeft):
		return WrapHTTPError(http.StatusBadRequest, "not enough product left", err)
	case errors.Is(err, model.ErrValidation):
		return WrapHTTPError(http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, repo.ErrNotFound):
		return WrapHTTPError(http.StatusNotFound, "not found", err)
	case errors.Is(err, repo.ErrConflict):
		return WrapHTTPError(http.StatusConflict, "conflict", err)
	}
	return dbError(ctx, op, err)
}

func notFound(message string) error {
	return WrapHTTPError(http.StatusNotFound, message, repo.ErrNotFound)
}

func invalid(message string) error {
	return WrapHTTPError(http.StatusBadRequest, message, model.ErrValidation)
}

func conflict(message string) error {
	return WrapHTTPError(http.StatusConflict, message, repo.ErrConflict)
}
