package server

import (
	"github.com/dynamicsamic/testDbDesign/internal/config"
	"github.com/dynamicsamic/testDbDesign/internal/handler"
	"github.com/dynamicsamic/testDbDesign/internal/repository"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Auth          *handler.AuthHandler
	Product       *handler.ProductHandler
	Customer      *handler.CustomerHandler
	Cart          *handler.CartHandler
	Order         *handler.OrderHandler
	SellerOrder   *handler.SellerOrderHandler
	SellerProduct *handler.SellerProductHandler
	SellerAudit   *handler.SellerAuditHandler
	SellerCatalog *handler.SellerCatalogHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, customers repository.CustomerRepository, h Handlers) {
	//公開
	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e, cfg, customers)

	//顧客
	h.Customer.RegisterRoutes(e, cfg, customers)
	h.Cart.RegisterRoutes(e, cfg, customers)
	h.Order.RegisterRoutes(e, cfg, customers)

	//販売者
	h.SellerOrder.RegisterRoutes(e, cfg)
	h.SellerProduct.RegisterRoutes(e, cfg)
	h.SellerAudit.RegisterRoutes(e, cfg)
	h.SellerCatalog.RegisterRoutes(e, cfg)
}
