package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"staff-portal/internal/dto"
	"staff-portal/internal/services"
	apperrors "staff-portal/pkg/errors"
	"staff-portal/pkg/utils"
)

type UserController struct {
	service services.UserServiceInterface
	logger  *zap.Logger
}

func NewUserController(service services.UserServiceInterface, logger *zap.Logger) *UserController {
	return &UserController{service: service, logger: logger}
}

func (c *UserController) GetUsers(ctx echo.Context) error {
	search := ctx.QueryParam("search")
	format := strings.ToLower(ctx.QueryParam("format"))

	users, total, err := c.service.ListUsers(ctx.Request().Context(), search)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if format == "xlsx" {
		return c.respondWithXLSX(ctx, users)
	}
	return utils.SuccessResponse(ctx, users, "Список сотрудников получен", http.StatusOK, total)
}

func (c *UserController) FindUser(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		c.logger.Error("FindUser: неверный формат ID", zap.String("id", ctx.Param("id")), zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат ID", err, nil), c.logger)
	}

	user, err := c.service.GetUser(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, user, "Сотрудник найден", http.StatusOK)
}

func (c *UserController) GetMe(ctx echo.Context) error {
	user, err := c.service.GetMe(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, user, "Профиль получен", http.StatusOK)
}

func (c *UserController) UpdateMe(ctx echo.Context) error {
	var d dto.UpdateMeDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверные данные", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	user, err := c.service.UpdateMe(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, user, "Профиль обновлен", http.StatusOK)
}

func (c *UserController) UpdateUser(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		c.logger.Error("UpdateUser: неверный формат ID", zap.String("id", ctx.Param("id")), zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат ID", err, nil), c.logger)
	}

	var d dto.AdminUpdateUserDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверные данные", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	user, err := c.service.UpdateUser(ctx.Request().Context(), id, d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, user, "Сотрудник обновлен", http.StatusOK)
}

func (c *UserController) CreateUser(ctx echo.Context) error {
	var d dto.CreateUserDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверные данные", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	user, err := c.service.CreateUser(ctx.Request().Context(), d)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, user, "Сотрудник создан", http.StatusCreated)
}

func (c *UserController) DeleteUser(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		c.logger.Error("DeleteUser: неверный формат ID", zap.String("id", ctx.Param("id")), zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат ID", err, nil), c.logger)
	}

	if err := c.service.DeleteUser(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, struct{}{}, "Сотрудник удален", http.StatusOK)
}

var rosterHeaders = []string{
	"ФИО", "Email", "Телефон", "Город", "Должность", "Грейд", "Команда", "Руководитель", "Дата найма", "Стаж (дни)", "Статус",
}

func rosterRow(user dto.UserDTO) []interface{} {
	boss := ""
	if user.Boss != nil {
		boss = user.Boss.FullName
	}
	phone, city := "", ""
	if user.Phone != nil {
		phone = *user.Phone
	}
	if user.City != nil {
		city = *user.City
	}

	return []interface{}{
		user.FullName, user.Email, phone, city, user.Position, user.Grade,
		strings.Join(user.Team, " / "), boss, user.HireDate, user.ExperienceDays, user.Status,
	}
}

func (c *UserController) respondWithXLSX(ctx echo.Context, users []dto.UserDTO) error {
	f := excelize.NewFile()
	sheet := "Сотрудники"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &rosterHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "K1", style)

	for i, user := range users {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := rosterRow(user)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "A", "B", 30)
	f.SetColWidth(sheet, "E", "G", 25)
	f.SetColWidth(sheet, "H", "H", 30)

	fileName := fmt.Sprintf("staff_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
