package middleware

import (
	"errors"
	"net/http"

	"github.com/dynamicsamic/testDbDesign/internal/domain/model"
	"github.com/dynamicsamic/testDbDesign/internal/logger"
	"github.com/dynamicsamic/testDbDesign/internal/repository"

	"github.com/labstack/echo/v4"
)

// 顧客トークンかを確認し、DBの最新状態で停止中の顧客を弾く。
func CustomerGuard(customers repository.CustomerRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRoleKey).(string)
			if role != string(model.RoleCustomer) {
				return c.JSON(http.StatusForbidden, errorJSON("customer only"))
			}

			//AuthJWTが入れたcustomer_idを取得する
			customerID, ok := c.Get(CtxCustomerIDKey).(int64)
			if !ok || customerID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			identityID, _ := c.Get(CtxIdentityIDKey).(int64)

			ctx := c.Request().Context()
			customer, err := customers.FindByID(ctx, customerID)
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}
			if err != nil {
				logger.Error(ctx, "customer guard lookup failed", err)
				return c.JSON(http.StatusInternalServerError, errorJSON("internal error"))
			}

			// トークンの sub と食い違うなら無効
			if customer.IdentityID != identityID {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//停止中はトークンが有効でも 403
			if customer.IsBlocked() || !customer.Identity.IsActive {
				return c.JSON(http.StatusForbidden, errorJSON("customer blocked"))
			}

			return next(c)
		}
	}
}
