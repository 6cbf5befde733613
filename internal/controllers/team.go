package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"staff-portal/internal/dto"
	"staff-portal/internal/services"
	apperrors "staff-portal/pkg/errors"
	"staff-portal/pkg/utils"
)

type TeamController struct {
	service services.TeamServiceInterface
	logger  *zap.Logger
}

func NewTeamController(service services.TeamServiceInterface, logger *zap.Logger) *TeamController {
	return &TeamController{service: service, logger: logger}
}

// GetTeams отдает плоский список, а при ?view=tree — дерево целиком.
func (c *TeamController) GetTeams(ctx echo.Context) error {
	if strings.ToLower(ctx.QueryParam("view")) == "tree" {
		tree, err := c.service.GetTeamTree(ctx.Request().Context())
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return utils.SuccessResponse(ctx, tree, "Дерево команд получено", http.StatusOK)
	}

	teams, err := c.service.GetTeams(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, teams, "Список команд получен", http.StatusOK, uint64(len(teams)))
}

func (c *TeamController) MoveTeam(ctx echo.Context) error {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		c.logger.Error("MoveTeam: неверный формат ID", zap.String("id", ctx.Param("id")), zap.Error(err))
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат ID", err, nil), c.logger)
	}

	var d dto.MoveTeamDTO
	if err := ctx.Bind(&d); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewHttpError(http.StatusBadRequest, "Неверные данные", err, nil), c.logger)
	}
	if err := ctx.Validate(&d); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	team, err := c.service.MoveTeam(ctx.Request().Context(), id, d.ParentID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, team, "Команда перемещена", http.StatusOK)
}
