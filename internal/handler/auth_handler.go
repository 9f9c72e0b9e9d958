package handler

import (
	"net/http"

	"github.com/dynamicsamic/testDbDesign/internal/usecase"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	customers *usecase.CustomerUsecase // 会員登録
	auth      *usecase.AuthUsecase     // ログイン
}

// DIコンストラクタ
func NewAuthHandler(customers *usecase.CustomerUsecase, auth *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{customers: customers, auth: auth}
}

// /signup のリクエストボディ。
type signupRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password1   string `json:"password1"`
	Password2   string `json:"password2"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

func (h *AuthHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/signup", h.signup)
	e.POST("/auth/login", h.login)
}

// signupはPOST /signupのハンドラ
func (h *AuthHandler) signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.customers.Register(c.Request().Context(), usecase.RegisterInput{
		Username:    req.Username,
		Email:       req.Email,
		Password1:   req.Password1,
		Password2:   req.Password2,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}

// loginはPOST /auth/login のハンドラ。
func (h *AuthHandler) login(c echo.Context) error {
	var req usecase.AuthLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.auth.Login(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}

	//JSONレスポンス（user + token）
	return c.JSON(http.StatusOK, out)
}
