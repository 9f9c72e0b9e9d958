package handler

import (
	"context"
	"net/http"

	"github.com/dynamicsamic/testDbDesign/internal/config"
	"github.com/dynamicsamic/testDbDesign/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 販売者向けの商品登録と在庫操作
type SellerProductHandler struct {
	catalog *usecase.CatalogUsecase
	stock   *usecase.StockUsecase
}

func NewSellerProductHandler(catalog *usecase.CatalogUsecase, stock *usecase.StockUsecase) *SellerProductHandler {
	return &SellerProductHandler{catalog: catalog, stock: stock}
}

func (h *SellerProductHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	seller := e.Group("/seller", sellerOnly(cfg)...)

	seller.POST("/products/:id/versions", h.createVersion)
	seller.GET("/stock/:versionID", h.getStock)
	seller.PUT("/stock/:versionID", h.setStock)
	seller.POST("/stock/:versionID/add", h.addStock)
	seller.POST("/stock/:versionID/write-off", h.writeOff)
}

func (h *SellerProductHandler) createVersion(c echo.Context) error {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	sellerID, ok := getIdentityID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.CreateProductVersionInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	req.ProductID = productID

	out, err := h.catalog.CreateProductVersion(c.Request().Context(), sellerID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *SellerProductHandler) getStock(c echo.Context) error {
	versionID, ok := parseIDParam(c, "versionID")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.stock.GetStock(c.Request().Context(), versionID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SellerProductHandler) addStock(c echo.Context) error {
	return h.adjust(c, h.stock.AddStock)
}

func (h *SellerProductHandler) setStock(c echo.Context) error {
	return h.adjust(c, h.stock.SetStock)
}

func (h *SellerProductHandler) writeOff(c echo.Context) error {
	return h.adjust(c, h.stock.WriteOff)
}

type stockFunc func(ctx context.Context, actorIdentityID int64, versionID int64, in usecase.StockInput) (usecase.StockOutput, error)

func (h *SellerProductHandler) adjust(c echo.Context, fn stockFunc) error {
	versionID, ok := parseIDParam(c, "versionID")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}
	sellerID, ok := getIdentityID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req usecase.StockInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := fn(c.Request().Context(), sellerID, versionID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
