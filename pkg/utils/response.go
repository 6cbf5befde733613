package utils

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	apperrors "staff-portal/pkg/errors"
)

type HttpResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
	Total   *uint64     `json:"total,omitempty"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HttpResponse{
		Status:  true,
		Body:    body,
		Message: message,
	}
	if len(total) > 0 {
		response.Total = &total[0]
	}
	return ctx.JSON(code, response)
}

// ErrorResponse единообразно превращает ошибку в JSON-ответ и пишет её в лог.
func ErrorResponse(ctx echo.Context, err error, logger *zap.Logger) error {
	code := http.StatusInternalServerError
	message := "Внутренняя ошибка сервера"

	var httpErr *apperrors.HttpError
	var inputErr *apperrors.InvalidInputError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		message = httpErr.Message
		if httpErr.Err != nil {
			logger.Error("HTTP ошибка",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Any("context", httpErr.Context),
				zap.Error(httpErr.Err),
			)
		}
	case errors.As(err, &inputErr):
		code = http.StatusUnprocessableEntity
		message = inputErr.Message
	case errors.As(err, &validationErrs):
		code = http.StatusBadRequest
		message = "Ошибка валидации: " + validationErrs.Error()
	default:
		matched := false
		for sentinel, statusCode := range apperrors.ErrorList {
			if errors.Is(err, sentinel) {
				code = statusCode
				message = sentinel.Error()
				matched = true
				break
			}
		}
		if !matched {
			logger.Error("Необработанная ошибка", zap.Error(err))
		}
	}

	response := &HttpResponse{
		Status:  false,
		Body:    struct{}{},
		Message: message,
	}
	return ctx.JSON(code, response)
}
