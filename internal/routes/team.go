package routes

import (
	"github.com/labstack/echo/v4"

	"staff-portal/internal/controllers"
	"staff-portal/pkg/middleware"
)

func runTeamRouter(secureGroup *echo.Group, teamCtrl *controllers.TeamController, authMW *middleware.AuthMiddleware) {
	secureGroup.GET("/teams", teamCtrl.GetTeams)
	secureGroup.PATCH("/team/:id/move", teamCtrl.MoveTeam, authMW.AdminOnly)
}
