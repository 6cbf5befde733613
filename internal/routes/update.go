package routes

import (
	"github.com/labstack/echo/v4"

	"staff-portal/internal/controllers"
	"staff-portal/pkg/middleware"
)

func runUpdateRouter(secureGroup *echo.Group, updateCtrl *controllers.UpdateController, authMW *middleware.AuthMiddleware) {
	secureGroup.POST("/update/", updateCtrl.RunADImport, authMW.AdminOnly)
}
