package handler

import (
	"net/http"
	"strconv"

	"github.com/dynamicsamic/testDbDesign/internal/config"
	"github.com/dynamicsamic/testDbDesign/internal/middleware"
	"github.com/dynamicsamic/testDbDesign/internal/repository"
	"github.com/dynamicsamic/testDbDesign/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// 顧客向けルートの共通ミドルウェア（JWT必須 + 顧客のみ + 停止チェック）
func customerOnly(cfg config.Config, customers repository.CustomerRepository) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.AuthJWT(cfg),
		middleware.CustomerGuard(customers),
	}
}

// /seller 配下は全部「JWT必須 + SELLER限定」
func sellerOnly(cfg config.Config) []echo.MiddlewareFunc {
	return []echo.MiddlewareFunc{
		middleware.AuthJWT(cfg),
		middleware.SellerRoleGuard(),
	}
}

func getCustomerID(c echo.Context) (int64, bool) {
	id, ok := c.Get(middleware.CtxCustomerIDKey).(int64)
	return id, ok && id > 0
}

func getIdentityID(c echo.Context) (int64, bool) {
	id, ok := c.Get(middleware.CtxIdentityIDKey).(int64)
	return id, ok && id > 0
}

func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// 未指定なら 0（usecase側で既定値にする）
func queryInt(c echo.Context, name string) (int, bool) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, true
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}
