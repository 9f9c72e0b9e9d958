package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dynamicsamic/testDbDesign/internal/config"
	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	"github.com/dynamicsamic/testDbDesign/internal/logger"
	repo "github.com/dynamicsamic/testDbDesign/internal/repository"

	"github.com/golang-jwt/jwt/v4"
)

// accesstokenの既定の有効期限
const defaultAccessTokenTTL = 15 * time.Minute

type IdentityDTO struct {
	ID         int64  `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	CustomerID int64  `json:"customer_id,omitempty"`
}

type JwtAccessTokenDTO struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type AuthLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthLoginResponse struct {
	User  IdentityDTO       `json:"user"`
	Token JwtAccessTokenDTO `json:"token"`
}

type AuthUsecase struct {
	cfg        config.Config
	identities repo.IdentityRepository
	customers  repo.CustomerRepository
	verifier   model.PasswordVerifier
	validator  AuthValidator
	now        func() time.Time
}

func NewAuthUsecase(
	cfg config.Config,
	identities repo.IdentityRepository,
	customers repo.CustomerRepository,
	verifier model.PasswordVerifier,
	validator AuthValidator,
) *AuthUsecase {
	return &AuthUsecase{
		cfg:        cfg,
		identities: identities,
		customers:  customers,
		verifier:   verifier,
		validator:  validator,
		now:        time.Now,
	}
}

func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest) (*AuthLoginResponse, error) {
	req.Username = strings.TrimSpace(req.Username)

	// 1) 入力検証
	if err := u.validator.ValidateLogin(ctx, req.Username, req.Password); err != nil {
		return nil, domainError(ctx, "validate login", err)
	}

	//ユーザー取得
	identity, err := u.identities.FindByUsername(ctx, req.Username)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return nil, dbError(ctx, "find identity", err)
	}

	//パスワード照合（bcrypt）
	if !u.verifier.Verify(req.Password, identity.PasswordHash) {
		return nil, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	//停止ユーザーはログイン不可
	if !identity.IsActive {
		return nil, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	var customerID int64
	if identity.Role == model.RoleCustomer {
		c, err := u.customers.FindByIdentityID(ctx, identity.ID)
		if err != nil {
			return nil, domainError(ctx, "find customer", err)
		}
		if c.IsBlocked() {
			return nil, NewHTTPError(http.StatusForbidden, "customer blocked")
		}
		customerID = c.ID
	}

	//last_login更新（失敗してもログインは通す）
	now := u.now()
	identity.LastLoginAt = &now
	if err := u.identities.Update(ctx, identity); err != nil {
		logger.Warn(ctx, "update last_login_at failed")
	}

	accessToken, expiresIn, err := u.issueAccessToken(identity, customerID, now)
	if err != nil {
		logger.Error(ctx, "sign access token failed", err)
		return nil, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return &AuthLoginResponse{
		User: IdentityDTO{
			ID:         identity.ID,
			Username:   identity.Username,
			Email:      identity.Email,
			Role:       string(identity.Role),
			CustomerID: customerID,
		},
		Token: JwtAccessTokenDTO{
			AccessToken: accessToken,
			ExpiresIn:   expiresIn,
		},
	}, nil
}

// jwt発行
func (u *AuthUsecase) issueAccessToken(identity *model.Identity, customerID int64, now time.Time) (string, int, error) {
	ttl := u.cfg.AccessTokenTTL
	if ttl <= 0 {
		ttl = defaultAccessTokenTTL
	}
	exp := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub":  identity.ID,
		"role": string(identity.Role),
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}
	if customerID > 0 {
		claims["cid"] = customerID
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := t.SignedString([]byte(u.cfg.SecretKey))
	if err != nil {
		return "", 0, err
	}

	return signed, int(ttl.Seconds()), nil
}
