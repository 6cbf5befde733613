package routes

import (
	"github.com/labstack/echo/v4"

	"staff-portal/internal/controllers"
	"staff-portal/pkg/middleware"
)

func runUserRouter(secureGroup *echo.Group, userCtrl *controllers.UserController, authMW *middleware.AuthMiddleware) {
	secureGroup.GET("/users", userCtrl.GetUsers)
	secureGroup.GET("/user/:id", userCtrl.FindUser)
	secureGroup.GET("/user/me", userCtrl.GetMe)
	secureGroup.PATCH("/user/me", userCtrl.UpdateMe)

	secureGroup.POST("/user", userCtrl.CreateUser, authMW.AdminOnly)
	secureGroup.PATCH("/user/:id", userCtrl.UpdateUser, authMW.AdminOnly)
	secureGroup.DELETE("/user/:id", userCtrl.DeleteUser, authMW.AdminOnly)
}
