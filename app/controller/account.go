package controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/pinpoint-app/ms-go-accounts/app/dto"
	dtohttp "github.com/pinpoint-app/ms-go-accounts/app/dto/http"
	"github.com/pinpoint-app/ms-go-accounts/app/entity"
	"github.com/pinpoint-app/ms-go-accounts/app/service"

	"github.com/labstack/echo/v4"
)

type accountService interface {
	Register(ctx context.Context, email, password string) (*dto.RegisterResult, error)
	Login(ctx context.Context, email, password string) (*dto.LoginResult, error)
	VerifyEmail(ctx context.Context, token string) error
	ForgotPassword(ctx context.Context, email string) (*dto.ForgotPasswordResult, error)
	ResetPassword(ctx context.Context, token, newPassword string) error
	GetAccount(ctx context.Context, accountID string) (*entity.Account, error)
}

type AccountController struct {
	accounts accountService
}

func NewAccountController(accounts accountService) *AccountController {
	return &AccountController{accounts: accounts}
}

func (c *AccountController) Register(ctx echo.Context) error {
	var req dtohttp.RegisterRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dtohttp.MessageResponse{Message: "invalid request body"})
	}

	if req.Email == "" || req.Password == "" {
		return ctx.JSON(http.StatusBadRequest, dtohttp.MessageResponse{Message: "email and password are required"})
	}

	if _, err := c.accounts.Register(ctx.Request().Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, service.ErrAccountExists) {
			return ctx.JSON(http.StatusBadRequest, dtohttp.MessageResponse{Message: "User already exists"})
		}
		if errors.Is(err, service.ErrWeakPassword) {
			return ctx.JSON(http.StatusBadRequest, dtohttp.MessageResponse{Message: err.Error()})
		}
		return ctx.JSON(http.StatusInternalServerError, dtohttp.MessageResponse{Message: "Internal server error"})
	}

	return ctx.JSON(http.StatusCreated, dtohttp.MessageResponse{Message: "User registered successfully"})
}

func (c *AccountController) Login(ctx echo.Context) error {
	var req dtohttp.LoginRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dtohttp.MessageResponse{Message: "invalid request body"})
	}

	if req.Email == "" || req.Password == "" {
		return ctx.JSON(http.StatusBadRequest, dtohttp.MessageResponse{Message: "email and password are required"})
	}

	result, err := c.accounts.Login(ctx.Request().Context(), req.Email, req.Password)
	if err != nil {
		// Missing account and wrong password share one message so callers
		// cannot probe which addresses are registered.
		if errors.Is(err, service.ErrInvalidCredentials) {
			return ctx.JSON(http.StatusBadRequest, dtohttp.MessageResponse{Message: "Invalid credentials"})
		}
		return ctx.JSON(http.StatusInternalServerError, dtohttp.MessageResponse{Message: "Internal server error"})
	}

	return ctx.JSON(http.StatusOK, dtohttp.LoginResponse{Token: result.Token})
}

func (c *AccountController) VerifyEmail(ctx echo.Context) error {
	token := ctx.Param("token")
	if token == "" {
		return ctx.JSON(http.StatusBadRequest, dtohttp.MessageResponse{Message: "token is required"})
	}

	if err := c.accounts.VerifyEmail(ctx.Request().Context(), token); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return ctx.JSON(http.StatusBadRequest, dtohttp.MessageResponse{Message: "Invalid or expired token"})
		}
		return ctx.JSON(http.StatusInternalServerError, dtohttp.MessageResponse{Message: "Internal server error"})
	}

	return ctx.JSON(http.StatusOK, dtohttp.MessageResponse{Message: "Email verified successfully"})
}

func (c *AccountController) ForgotPassword(ctx echo.Context) error {
	var req dtohttp.ForgotPasswordRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dtohttp.MessageResponse{Message: "invalid request body"})
	}

	if req.Email == "" {
		return ctx.JSON(http.StatusBadRequest, dtohttp.MessageResponse{Message: "email is required"})
	}

	if _, err := c.accounts.ForgotPassword(ctx.Request().Context(), req.Email); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return ctx.JSON(http.StatusBadRequest, dtohttp.MessageResponse{Message: "User not found"})
		}
		if errors.Is(err, service.ErrMailDelivery) {
			return ctx.JSON(http.StatusInternalServerError, dtohttp.MessageResponse{Message: "Failed to send email for password reset"})
		}
		return ctx.JSON(http.StatusInternalServerError, dtohttp.MessageResponse{Message: "Internal server error"})
	}

	return ctx.JSON(http.StatusOK, dtohttp.MessageResponse{Message: "Email sent for password reset"})
}

func (c *AccountController) ResetPassword(ctx echo.Context) error {
	token := ctx.Param("token")
	if token == "" {
		return ctx.JSON(http.StatusBadRequest, dtohttp.MessageResponse{Message: "token is required"})
	}

	var req dtohttp.ResetPasswordRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, dtohttp.MessageResponse{Message: "invalid request body"})
	}

	if req.NewPassword == "" {
		return ctx.JSON(http.StatusBadRequest, dtohttp.MessageResponse{Message: "newPassword is required"})
	}

	if err := c.accounts.ResetPassword(ctx.Request().Context(), token, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return ctx.JSON(http.StatusBadRequest, dtohttp.MessageResponse{Message: "Invalid token"})
		}
		if errors.Is(err, service.ErrWeakPassword) {
			return ctx.JSON(http.StatusBadRequest, dtohttp.MessageResponse{Message: err.Error()})
		}
		return ctx.JSON(http.StatusInternalServerError, dtohttp.MessageResponse{Message: "Internal server error"})
	}

	return ctx.JSON(http.StatusOK, dtohttp.MessageResponse{Message: "Password reset successfully"})
}

func (c *AccountController) Me(ctx echo.Context) error {
	accountID, ok := ctx.Get("account_id").(string)
	if !ok || accountID == "" {
		return ctx.JSON(http.StatusUnauthorized, dtohttp.MessageResponse{Message: "unauthorized"})
	}

	account, err := c.accounts.GetAccount(ctx.Request().Context(), accountID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return ctx.JSON(http.StatusNotFound, dtohttp.MessageResponse{Message: "User not found"})
		}
		return ctx.JSON(http.StatusInternalServerError, dtohttp.MessageResponse{Message: "Internal server error"})
	}

	return ctx.JSON(http.StatusOK, dtohttp.MeResponse{
		AccountID:  account.ID.Hex(),
		Email:      account.Email,
		Username:   account.Username,
		FirstName:  account.FirstName,
		LastName:   account.LastName,
		State:      account.State,
		City:       account.City,
		IsVerified: account.IsVerified,
	})
}
