package entities

import (
	"time"

	"github.com/google/uuid"
)

// User — учётная запись для входа. Связь с карточкой сотрудника — по email.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}
