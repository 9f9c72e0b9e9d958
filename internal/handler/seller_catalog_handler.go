package handler

import (
	"net/http"

	"github.com/dynamicsamic/testDbDesign/internal/config"
	"github.com/dynamicsamic/testDbDesign/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 販売者向けの商品・マスタ管理
type SellerCatalogHandler struct {
	catalog *usecase.SellerCatalogUsecase
}

func NewSellerCatalogHandler(catalog *usecase.SellerCatalogUsecase) *SellerCatalogHandler {
	return &SellerCatalogHandler{catalog: catalog}
}

func (h *SellerCatalogHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	seller := e.Group("/seller", sellerOnly(cfg)...)

	seller.GET("/catalog", h.listRefs)
	seller.POST("/suppliers", h.createSupplier)
	seller.POST("/brands", h.createBrand)
	seller.POST("/product-types", h.createProductType)
	seller.POST("/categories", h.createCategory)
	seller.POST("/attributes", h.createAttribute)
	seller.POST("/attributes/:id/values", h.createAttributeValue)

	seller.POST("/products", h.createProduct)
	seller.PUT("/products/:id", h.updateProduct)
	seller.DELETE("/products/:id", h.deactivateProduct)
	seller.PATCH("/versions/:id", h.updateVersion)
	seller.POST("/versions/:id/attributes", h.linkAttributes)
}

func (h *SellerCatalogHandler) listRefs(c echo.Context) error {
	out, err := h.catalog.ListRefs(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// bindCreate はボディを読んで fn の結果を201で返す
func bindCreate[In any](c echo.Context, fn func(actorID int64, in In) (any, error)) error {
	sellerID, ok := getIdentityID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	var req In
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	out, err := fn(sellerID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *SellerCatalogHandler) createSupplier(c echo.Context) error {
	ctx := c.Request().Context()
	return bindCreate(c, func(actorID int64, in usecase.SupplierInput) (any, error) {
		return h.catalog.CreateSupplier(ctx, actorID, in)
	})
}

func (h *SellerCatalogHandler) createBrand(c echo.Context) error {
	ctx := c.Request().Context()
	return bindCreate(c, func(actorID int64, in usecase.BrandInput) (any, error) {
		return h.catalog.CreateBrand(ctx, actorID, in)
	})
}

func (h *SellerCatalogHandler) createProductType(c echo.Context) error {
	ctx := c.Request().Context()
	return bindCreate(c, func(actorID int64, in usecase.NameInput) (any, error) {
		return h.catalog.CreateProductType(ctx, actorID, in)
	})
}

func (h *SellerCatalogHandler) createCategory(c echo.Context) error {
	ctx := c.Request().Context()
	return bindCreate(c, func(actorID int64, in usecase.CategoryInput) (any, error) {
		return h.catalog.CreateCategory(ctx, actorID, in)
	})
}

func (h *SellerCatalogHandler) createAttribute(c echo.Context) error {
	ctx := c.Request().Context()
	return bindCreate(c, func(actorID int64, in usecase.NameInput) (any, error) {
		return h.catalog.CreateAttribute(ctx, actorID, in)
	})
}

func (h *SellerCatalogHandler) createAttributeValue(c echo.Context) error {
	attributeID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	ctx := c.Request().Context()
	return bindCreate(c, func(actorID int64, in usecase.AttributeValueInput) (any, error) {
		return h.catalog.CreateAttributeValue(ctx, actorID, attributeID, in)
	})
}

func (h *SellerCatalogHandler) createProduct(c echo.Context) error {
	ctx := c.Request().Context()
	return bindCreate(c, func(actorID int64, in usecase.ProductInput) (any, error) {
		return h.catalog.CreateProduct(ctx, actorID, in)
	})
}

func (h *SellerCatalogHandler) updateProduct(c echo.Context) error {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	sellerID, ok := getIdentityID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.ProductInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.catalog.UpdateProduct(c.Request().Context(), sellerID, productID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SellerCatalogHandler) deactivateProduct(c echo.Context) error {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	sellerID, ok := getIdentityID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.catalog.DeactivateProduct(c.Request().Context(), sellerID, productID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *SellerCatalogHandler) updateVersion(c echo.Context) error {
	versionID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	sellerID, ok := getIdentityID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.UpdateVersionInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.catalog.UpdateVersion(c.Request().Context(), sellerID, versionID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SellerCatalogHandler) linkAttributes(c echo.Context) error {
	versionID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	sellerID, ok := getIdentityID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.LinkAttributesInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.catalog.LinkAttributes(c.Request().Context(), sellerID, versionID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
