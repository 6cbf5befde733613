package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"staff-portal/internal/dto"
	"staff-portal/internal/services"
	apperrors "staff-portal/pkg/errors"
	"staff-portal/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	userService services.UserServiceInterface
	logger      *zap.Logger
}

func NewAuthController(authService services.AuthServiceInterface, userService services.UserServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{authService: authService, userService: userService, logger: logger}
}

func (c *AuthController) Login(ctx echo.Context) error {
	var d dto.LoginDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверные данные", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	tokens, err := c.authService.Login(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, tokens, "Вход выполнен", http.StatusOK)
}

func (c *AuthController) RefreshToken(ctx echo.Context) error {
	var d dto.RefreshTokenDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверные данные", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	tokens, err := c.authService.Refresh(ctx.Request().Context(), d.RefreshToken)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, tokens, "Токены обновлены", http.StatusOK)
}

func (c *AuthController) Me(ctx echo.Context) error {
	profile, err := c.userService.GetMe(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, profile, "Профиль получен", http.StatusOK)
}
