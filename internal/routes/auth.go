package routes

import (
	"github.com/labstack/echo/v4"

	"staff-portal/internal/controllers"
)

func runAuthRouter(api *echo.Group, secureGroup *echo.Group, authCtrl *controllers.AuthController) {
	api.POST("/login", authCtrl.Login)
	api.POST("/refresh-token", authCtrl.RefreshToken)
	secureGroup.GET("/me", authCtrl.Me)
}
