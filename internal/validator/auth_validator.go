package validator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	"github.com/dynamicsamic/testDbDesign/internal/repository"
	"github.com/dynamicsamic/testDbDesign/internal/usecase"

	playground "github.com/go-playground/validator/v10"
)

// ログイン入力（構造体タグで検証するため）
type loginInput struct {
	Username string `validate:"required,max=150"`
	Password string `validate:"required"`
}

type authValidator struct {
	identities repository.IdentityRepository
	v          *playground.Validate
}

// Usecaseは interface を依存注入
func NewAuthValidator(identities repository.IdentityRepository) usecase.AuthValidator {
	return &authValidator{
		identities: identities,
		v:          playground.New(playground.WithRequiredStructEnabled()),
	}
}

// サインアップの入力を検証
func (a *authValidator) ValidateRegister(ctx context.Context, in usecase.RegisterInput) error {
	if err := a.v.StructCtx(ctx, in); err != nil {
		return toValidationError(err)
	}

	// username重複チェック（DBが必要）
	// email の重複は一意制約で 409 になる
	_, err := a.identities.FindByUsername(ctx, strings.TrimSpace(in.Username))
	if err == nil {
		return fmt.Errorf("%w: username already taken", repository.ErrConflict)
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// ログインの入力を検証
func (a *authValidator) ValidateLogin(ctx context.Context, username string, password string) error {
	if err := a.v.StructCtx(ctx, loginInput{Username: strings.TrimSpace(username), Password: password}); err != nil {
		return toValidationError(err)
	}
	return nil
}

// フィールドごとのメッセージを ErrValidation に包む
func toValidationError(err error) error {
	var ves playground.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	msgs := make([]string, 0, len(ves))
	for _, fe := range ves {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", model.ErrValidation, strings.Join(msgs, "; "))
}

func fieldMessage(fe playground.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "eqfield":
		return "passwords do not match"
	}
	return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
}
