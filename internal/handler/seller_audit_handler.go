package handler

import (
	"net/http"
	"strconv"

	"github.com/dynamicsamic/testDbDesign/internal/config"
	"github.com/dynamicsamic/testDbDesign/internal/usecase"

	"github.com/labstack/echo/v4"
)

type SellerAuditHandler struct {
	uc *usecase.AuditUsecase
}

func NewSellerAuditHandler(uc *usecase.AuditUsecase) *SellerAuditHandler {
	return &SellerAuditHandler{uc: uc}
}

func (h *SellerAuditHandler) RegisterRoutes(e *echo.Echo, cfg config.Config) {
	seller := e.Group("/seller", sellerOnly(cfg)...)
	seller.GET("/audit-logs", h.list)
}

func (h *SellerAuditHandler) list(c echo.Context) error {
	page, ok := queryInt(c, "page")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}
	limit, ok := queryInt(c, "limit")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}

	in := usecase.AuditListInput{
		Page:         page,
		Limit:        limit,
		Action:       c.QueryParam("action"),
		ResourceType: c.QueryParam("resource_type"),
	}
	for name, dst := range map[string]**int64{"actor_id": &in.ActorIdentityID, "resource_id": &in.ResourceID} {
		v := c.QueryParam(name)
		if v == "" {
			continue
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid " + name})
		}
		*dst = &id
	}
	if v := c.QueryParam("from"); v != "" {
		tm, ok := usecase.ParseDateTimeRFC3339(v)
		if !ok {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from"})
		}
		in.From = tm
	}
	if v := c.QueryParam("to"); v != "" {
		tm, ok := usecase.ParseDateTimeRFC3339(v)
		if !ok {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid to"})
		}
		in.To = tm
	}

	out, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
