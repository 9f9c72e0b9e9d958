package validator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"
	"github.com/dynamicsamic/testDbDesign/internal/usecase"
	"github.com/dynamicsamic/testDbDesign/internal/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type IdentityRepoMock struct{ mock.Mock }

func (m *IdentityRepoMock) Create(ctx context.Context, identity *model.Identity) error {
	panic("not used in validator tests")
}

func (m *IdentityRepoMock) FindByID(ctx context.Context, identityID int64) (*model.Identity, error) {
	panic("not used in validator tests")
}

func (m *IdentityRepoMock) FindByUsername(ctx context.Context, username string) (*model.Identity, error) {
	args := m.Called(ctx, username)
	identity, _ := args.Get(0).(*model.Identity)
	return identity, args.Error(1)
}

func (m *IdentityRepoMock) Update(ctx context.Context, identity *model.Identity) error {
	panic("not used in validator tests")
}

func validInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password1: "password123",
		Password2: "password123",
	}
}

func TestValidateRegister_OK(t *testing.T) {
	ids := new(IdentityRepoMock)
	ids.On("FindByUsername", mock.Anything, "alice").Return(nil, repo.ErrNotFound)

	err := validator.NewAuthValidator(ids).ValidateRegister(context.Background(), validInput())
	require.NoError(t, err)
	ids.AssertExpectations(t)
}

func TestValidateRegister_FieldErrors(t *testing.T) {
	cases := []struct {
		name   string
		modify func(in *usecase.RegisterInput)
		msg    string
	}{
		{"missing username", func(in *usecase.RegisterInput) { in.Username = "" }, "username is required"},
		{"bad email", func(in *usecase.RegisterInput) { in.Email = "not-an-email" }, "email must be a valid email"},
		{"short password", func(in *usecase.RegisterInput) { in.Password1, in.Password2 = "short", "short" }, "password1 must be at least 8 characters"},
		{"mismatch", func(in *usecase.RegisterInput) { in.Password2 = "password124" }, "passwords do not match"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ids := new(IdentityRepoMock)
			in := validInput()
			tc.modify(&in)

			err := validator.NewAuthValidator(ids).ValidateRegister(context.Background(), in)
			require.Error(t, err)
			assert.ErrorIs(t, err, model.ErrValidation)
			assert.Contains(t, err.Error(), tc.msg)
			ids.AssertNotCalled(t, "FindByUsername", mock.Anything, mock.Anything)
		})
	}
}

func TestValidateRegister_UsernameTaken(t *testing.T) {
	ids := new(IdentityRepoMock)
	ids.On("FindByUsername", mock.Anything, "alice").Return(&model.Identity{ID: 1, Username: "alice"}, nil)

	err := validator.NewAuthValidator(ids).ValidateRegister(context.Background(), validInput())
	assert.ErrorIs(t, err, repo.ErrConflict)
}

func TestValidateRegister_RepoError(t *testing.T) {
	ids := new(IdentityRepoMock)
	boom := errors.New("connection refused")
	ids.On("FindByUsername", mock.Anything, "alice").Return(nil, boom)

	err := validator.NewAuthValidator(ids).ValidateRegister(context.Background(), validInput())
	assert.ErrorIs(t, err, boom)
}

func TestValidateLogin(t *testing.T) {
	v := validator.NewAuthValidator(new(IdentityRepoMock))

	assert.NoError(t, v.ValidateLogin(context.Background(), "alice", "x"))

	err := v.ValidateLogin(context.Background(), "  ", "x")
	assert.ErrorIs(t, err, model.ErrValidation)
	assert.Contains(t, err.Error(), "username is required")

	err = v.ValidateLogin(context.Background(), "alice", "")
	assert.ErrorIs(t, err, model.ErrValidation)
}
