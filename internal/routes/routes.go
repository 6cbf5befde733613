package routes

import (
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"staff-portal/internal/controllers"
	"staff-portal/internal/repositories"
	"staff-portal/internal/services"
	"staff-portal/pkg/config"
	"staff-portal/pkg/middleware"
	"staff-portal/pkg/service"
)

func InitRouter(e *echo.Echo, dbConn *pgxpool.Pool, redisClient *redis.Client, jwtSvc service.JWTService, logger *zap.Logger, cfg *config.Config) {
	logger.Info("InitRouter: Начало создания маршрутов")

	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)

	// --- РЕПОЗИТОРИИ ---
	userRepo := repositories.NewUserRepository(dbConn, logger)
	employeeRepo := repositories.NewEmployeeRepository(dbConn, logger)
	teamRepo := repositories.NewTeamRepository(dbConn)
	positionRepo := repositories.NewPositionRepository(dbConn)
	statusRepo := repositories.NewStatusHistoryRepository(dbConn)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- СЕРВИСЫ ---
	directoryClient := services.NewLDAPDirectoryClient(&cfg.LDAP, logger)
	teamService := services.NewTeamService(teamRepo, cacheRepo, cfg.Cache.TeamSnapshotTTL, logger)
	userService := services.NewUserService(employeeRepo, teamRepo, positionRepo, userRepo, statusRepo, teamService, logger)
	authService := services.NewAuthService(userRepo, jwtSvc, logger)
	importService := services.NewADImportService(directoryClient, employeeRepo, teamRepo, positionRepo, cacheRepo, &cfg.LDAP, logger)

	// --- КОНТРОЛЛЕРЫ ---
	authController := controllers.NewAuthController(authService, userService, logger)
	userController := controllers.NewUserController(userService, logger)
	teamController := controllers.NewTeamController(teamService, logger)
	updateController := controllers.NewUpdateController(importService, logger)

	api.GET("/ping", func(ctx echo.Context) error {
		return ctx.JSON(http.StatusOK, map[string]string{"message": "pong"})
	})

	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, secureGroup, authController)
	runUserRouter(secureGroup, userController, authMW)
	runTeamRouter(secureGroup, teamController, authMW)
	runUpdateRouter(secureGroup, updateController, authMW)

	logger.Info("InitRouter: Создание маршрутов завершено")
}
