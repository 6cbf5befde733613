package errors

import (
	"fmt"
	"net/http"
)

var (
	// JWT и токены
	ErrInvalidSigningMethod = fmt.Errorf("неверный метод подписи токена")
	ErrInvalidToken         = fmt.Errorf("недопустимый токен")
	ErrTokenExpired         = fmt.Errorf("срок действия токена истёк")
	ErrTokenIsNotRefresh    = fmt.Errorf("токен не является refresh-токеном")
	ErrTokenIsNotAccess     = fmt.Errorf("токен не является access-токеном")

	// Авторизация
	ErrEmptyAuthHeader    = fmt.Errorf("заголовок авторизации отсутствует")
	ErrInvalidAuthHeader  = fmt.Errorf("неверный формат заголовка авторизации")
	ErrInvalidCredentials = fmt.Errorf("неверные учётные данные")
	ErrUnauthorized       = fmt.Errorf("неавторизован")
	ErrForbidden          = fmt.Errorf("доступ запрещён")

	// Импорт из Active Directory
	ErrLDAPNotConfigured = fmt.Errorf("учётные данные Active Directory не настроены")
	ErrNoAnchorTeam      = fmt.Errorf("в системе нет ни одной команды для привязки импортируемых сотрудников")

	// Общие
	ErrNotFound     = fmt.Errorf("запись не найдена")
	ErrBadRequest   = fmt.Errorf("неверный запрос")
	ErrUserNotFound = fmt.Errorf("пользователь не найден")
	ErrEmailTaken   = fmt.Errorf("пользователь с таким email уже существует")
)

// ErrorList сопоставляет сентинельные ошибки HTTP-статусам для ErrorResponse.
var ErrorList = map[error]int{
	ErrInvalidSigningMethod: http.StatusUnauthorized,
	ErrInvalidToken:         http.StatusUnauthorized,
	ErrTokenExpired:         http.StatusUnauthorized,
	ErrTokenIsNotRefresh:    http.StatusUnauthorized,
	ErrTokenIsNotAccess:     http.StatusUnauthorized,
	ErrEmptyAuthHeader:      http.StatusUnauthorized,
	ErrInvalidAuthHeader:    http.StatusUnauthorized,
	ErrInvalidCredentials:   http.StatusUnauthorized,
	ErrUnauthorized:         http.StatusUnauthorized,
	ErrForbidden:            http.StatusForbidden,
	ErrLDAPNotConfigured:    http.StatusServiceUnavailable,
	ErrNoAnchorTeam:         http.StatusConflict,
	ErrNotFound:             http.StatusNotFound,
	ErrBadRequest:           http.StatusBadRequest,
	ErrUserNotFound:         http.StatusNotFound,
	ErrEmailTaken:           http.StatusConflict,
}

// HttpError несёт HTTP-код, сообщение для пользователя и внутреннюю ошибку для логов.
type HttpError struct {
	Code    int
	Message string
	Err     error
	Context map[string]interface{}
}

func (e *HttpError) Error() string { return e.Message }

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error, context map[string]interface{}) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err, Context: context}
}

var ErrInternalServer = NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", nil, nil)

// Кастомные типы ошибок
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}
