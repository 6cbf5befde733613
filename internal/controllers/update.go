package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"staff-portal/internal/services"
	"staff-portal/pkg/utils"
)

type UpdateController struct {
	importService services.ADImportServiceInterface
	logger        *zap.Logger
}

func NewUpdateController(importService services.ADImportServiceInterface, logger *zap.Logger) *UpdateController {
	return &UpdateController{importService: importService, logger: logger}
}

// RunADImport запускает синхронизацию с Active Directory. Вызов
// блокирующий: ответ придет только после завершения обхода каталога.
func (c *UpdateController) RunADImport(ctx echo.Context) error {
	result, err := c.importService.ImportFromAD(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Импорт из Active Directory завершен", http.StatusOK)
}
