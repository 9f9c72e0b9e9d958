package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	"github.com/dynamicsamic/testDbDesign/internal/logger"
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"

	"go.uber.org/zap"
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, in RegisterInput) error
	ValidateLogin(ctx context.Context, username string, password string) error
}

// POST /signup の入力
type RegisterInput struct {
	Username    string `json:"username" validate:"required,max=150"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Password1   string `json:"password1" validate:"required,min=8"`
	Password2   string `json:"password2" validate:"required,eqfield=Password1"`
	FirstName   string `json:"first_name" validate:"max=150"`
	LastName    string `json:"last_name" validate:"max=150"`
	PhoneNumber string `json:"phone_number" validate:"max=30"`
}

type UpdateProfileInput struct {
	Email       *string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
}

type CustomerOutput struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PhoneNumber string    `json:"phone_number"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type CustomerUsecase struct {
	tx        repo.TransactionManager
	customers repo.CustomerRepository
	hasher    PasswordHasher
	validator AuthValidator
}

func NewCustomerUsecase(
	tx repo.TransactionManager,
	customers repo.CustomerRepository,
	hasher PasswordHasher,
	validator AuthValidator,
) *CustomerUsecase {
	return &CustomerUsecase{
		tx:        tx,
		customers: customers,
		hasher:    hasher,
		validator: validator,
	}
}

// Register は Identity・Customer・空のCart を1つのTxで作る。
func (u *CustomerUsecase) Register(ctx context.Context, in RegisterInput) (CustomerOutput, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, in); err != nil {
		return CustomerOutput{}, domainError(ctx, "validate register", err)
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := u.hasher.Hash(in.Password1)
	if err != nil {
		logger.Error(ctx, "hash password failed", err)
		return CustomerOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	var out CustomerOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		identity := &model.Identity{
			Username:     in.Username,
			Email:        in.Email,
			PasswordHash: pwHash,
			FirstName:    in.FirstName,
			LastName:     in.LastName,
			Role:         model.RoleCustomer,
			IsActive:     true,
		}
		if err := r.Identities().Create(ctx, identity); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return WrapHTTPError(http.StatusConflict, "username or email already taken", err)
			}
			return dbError(ctx, "create identity", err)
		}

		customer := model.NewCustomer(*identity, in.PhoneNumber)
		if err := r.Customers().Create(ctx, &customer); err != nil {
			return dbError(ctx, "create customer", err)
		}

		// 顧客には必ず空のカートが1つ
		cart := &model.Cart{CustomerID: customer.ID, Status: model.CartStatusEmpty}
		if err := r.Carts().Create(ctx, cart); err != nil {
			return dbError(ctx, "create cart", err)
		}

		out = toCustomerOutput(customer)
		return nil
	})
	if err != nil {
		return CustomerOutput{}, err
	}

	logger.Info(ctx, "customer registered", zap.Int64("customer_id", out.ID))
	return out, nil
}

func (u *CustomerUsecase) GetProfile(ctx context.Context, customerID int64) (CustomerOutput, error) {
	if customerID <= 0 {
		return CustomerOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	c, err := u.customers.FindByID(ctx, customerID)
	if errors.Is(err, repo.ErrNotFound) {
		return CustomerOutput{}, notFound("customer not found")
	}
	if err != nil {
		return CustomerOutput{}, dbError(ctx, "find customer", err)
	}
	return toCustomerOutput(c), nil
}

// メール・氏名・電話番号の更新。username は変えられない。
func (u *CustomerUsecase) UpdateProfile(ctx context.Context, customerID int64, in UpdateProfileInput) (CustomerOutput, error) {
	if customerID <= 0 {
		return CustomerOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Email != nil && strings.TrimSpace(*in.Email) == "" {
		return CustomerOutput{}, invalid("email must not be empty")
	}

	var out CustomerOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := r.Customers().FindByID(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("customer not found")
		}
		if err != nil {
			return dbError(ctx, "find customer", err)
		}

		if in.Email != nil {
			c.SetEmail(strings.TrimSpace(*in.Email))
		}
		if in.FirstName != nil {
			c.SetFirstName(*in.FirstName)
		}
		if in.LastName != nil {
			c.SetLastName(*in.LastName)
		}
		if in.PhoneNumber != nil {
			c.PhoneNumber = *in.PhoneNumber
		}

		if err := r.Identities().Update(ctx, &c.Identity); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return WrapHTTPError(http.StatusConflict, "email already taken", err)
			}
			return dbError(ctx, "update identity", err)
		}
		if err := r.Customers().Update(ctx, &c); err != nil {
			return dbError(ctx, "update customer", err)
		}

		out = toCustomerOutput(c)
		return nil
	})
	if err != nil {
		return CustomerOutput{}, err
	}
	return out, nil
}

// 販売者による顧客の停止/再開
func (u *CustomerUsecase) SetStatus(ctx context.Context, actorIdentityID int64, customerID int64, status string) (CustomerOutput, error) {
	if actorIdentityID <= 0 {
		return CustomerOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if customerID <= 0 {
		return CustomerOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	next, err := model.ParseCustomerStatus(strings.TrimSpace(status))
	if err != nil {
		return CustomerOutput{}, WrapHTTPError(http.StatusBadRequest, "invalid status", err)
	}

	var out CustomerOutput
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := r.Customers().FindByID(ctx, customerID)
		if errors.Is(err, repo.ErrNotFound) {
			return notFound("customer not found")
		}
		if err != nil {
			return dbError(ctx, "find customer", err)
		}

		before := c.Status
		if before != next {
			if err := r.Customers().UpdateStatus(ctx, customerID, next); err != nil {
				return dbError(ctx, "update customer status", err)
			}
			c.Status = next

			if err := r.AuditLogs().Create(ctx, model.AuditLog{
				ActorIdentityID: actorIdentityID,
				Action:          model.AuditActionUpdateCustomerStatus,
				ResourceType:    model.AuditResourceCustomer,
				ResourceID:      customerID,
				BeforeJSON:      fmt.Sprintf(`{"status":%q}`, before),
				AfterJSON:       fmt.Sprintf(`{"status":%q}`, next),
				CreatedAt:       time.Now(),
			}); err != nil {
				return dbError(ctx, "create audit log", err)
			}
		}

		out = toCustomerOutput(c)
		return nil
	})
	if err != nil {
		return CustomerOutput{}, err
	}
	return out, nil
}

func toCustomerOutput(c model.Customer) CustomerOutput {
	return CustomerOutput{
		ID:          c.ID,
		Username:    c.Username(),
		Email:       c.Email(),
		FirstName:   c.FirstName(),
		LastName:    c.LastName(),
		PhoneNumber: c.PhoneNumber,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
	}
}
