package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dynamicsamic/testDbDesign/internal/config"
	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	"github.com/dynamicsamic/testDbDesign/internal/middleware"
	"github.com/dynamicsamic/testDbDesign/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

type CustomerRepoMock struct{ mock.Mock }

func (m *CustomerRepoMock) Create(ctx context.Context, customer *model.Customer) error {
	panic("not used in middleware tests")
}

func (m *CustomerRepoMock) FindByID(ctx context.Context, customerID int64) (model.Customer, error) {
	args := m.Called(ctx, customerID)
	c, _ := args.Get(0).(model.Customer)
	return c, args.Error(1)
}

func (m *CustomerRepoMock) FindByIdentityID(ctx context.Context, identityID int64) (model.Customer, error) {
	panic("not used in middleware tests")
}

func (m *CustomerRepoMock) Update(ctx context.Context, customer *model.Customer) error {
	panic("not used in middleware tests")
}

func (m *CustomerRepoMock) UpdateStatus(ctx context.Context, customerID int64, status model.CustomerStatus) error {
	panic("not used in middleware tests")
}

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	if _, ok := claims["exp"]; !ok {
		claims["exp"] = time.Now().Add(time.Minute).Unix()
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

// AuthJWT の後ろに mws を並べ、context の中身を返すハンドラを置く
func newServer(mws ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	chain := append([]echo.MiddlewareFunc{middleware.AuthJWT(config.Config{SecretKey: secret})}, mws...)
	e.GET("/me", func(c echo.Context) error {
		cid, _ := c.Get(middleware.CtxCustomerIDKey).(int64)
		return c.JSON(http.StatusOK, map[string]interface{}{
			"identity_id": c.Get(middleware.CtxIdentityIDKey),
			"role":        c.Get(middleware.CtxRoleKey),
			"customer_id": cid,
		})
	}, chain...)
	return e
}

func do(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthJWT(t *testing.T) {
	e := newServer()

	rec := do(e, sign(t, jwt.MapClaims{"sub": 5, "role": "CUSTOMER", "cid": 11}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"identity_id":5,"role":"CUSTOMER","customer_id":11}`, rec.Body.String())

	cases := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-token"},
		{"expired", sign(t, jwt.MapClaims{"sub": 5, "role": "CUSTOMER", "exp": time.Now().Add(-time.Minute).Unix()})},
		{"no role", sign(t, jwt.MapClaims{"sub": 5})},
		{"bad sub", sign(t, jwt.MapClaims{"sub": true, "role": "SELLER"})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, do(e, tc.token).Code)
		})
	}

	wrongKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": 5, "role": "SELLER"}).SignedString([]byte("other"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, do(e, wrongKey).Code)
}

func TestSellerRoleGuard(t *testing.T) {
	e := newServer(middleware.SellerRoleGuard())

	assert.Equal(t, http.StatusOK, do(e, sign(t, jwt.MapClaims{"sub": 1, "role": "SELLER"})).Code)
	assert.Equal(t, http.StatusForbidden, do(e, sign(t, jwt.MapClaims{"sub": 5, "role": "CUSTOMER", "cid": 11})).Code)
}

func TestCustomerGuard(t *testing.T) {
	active := model.Customer{ID: 11, IdentityID: 5, Status: model.CustomerStatusActive, Identity: model.Identity{ID: 5, IsActive: true}}
	blocked := active
	blocked.Status = model.CustomerStatusBlocked

	cases := []struct {
		name     string
		claims   jwt.MapClaims
		customer model.Customer
		err      error
		want     int
	}{
		{"active", jwt.MapClaims{"sub": 5, "role": "CUSTOMER", "cid": 11}, active, nil, http.StatusOK},
		{"blocked", jwt.MapClaims{"sub": 5, "role": "CUSTOMER", "cid": 11}, blocked, nil, http.StatusForbidden},
		{"deleted", jwt.MapClaims{"sub": 5, "role": "CUSTOMER", "cid": 11}, model.Customer{}, repository.ErrNotFound, http.StatusUnauthorized},
		{"foreign identity", jwt.MapClaims{"sub": 6, "role": "CUSTOMER", "cid": 11}, active, nil, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := new(CustomerRepoMock)
			repo.On("FindByID", mock.Anything, int64(11)).Return(tc.customer, tc.err)

			rec := do(newServer(middleware.CustomerGuard(repo)), sign(t, tc.claims))
			assert.Equal(t, tc.want, rec.Code)
		})
	}

	t.Run("seller token", func(t *testing.T) {
		repo := new(CustomerRepoMock)
		rec := do(newServer(middleware.CustomerGuard(repo)), sign(t, jwt.MapClaims{"sub": 1, "role": "SELLER"}))
		assert.Equal(t, http.StatusForbidden, rec.Code)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})
}

func TestRequestLogger_SetsRequestID(t *testing.T) {
	e := echo.New()
	e.Use(middleware.RequestLogger(), middleware.Metrics())
	e.GET("/ping", func(c echo.Context) error { return c.String(http.StatusOK, "pong") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(middleware.HeaderRequestID, "abc-123")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(middleware.HeaderRequestID))
}
