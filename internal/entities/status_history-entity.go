package entities

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive    = "active"
	StatusVacation  = "vacation"
	StatusSickLeave = "sickLeave"
)

// StatusHistory — запись истории статусов сотрудника. Текущий статус —
// запись с EndedAt == nil, иначе самая поздняя по StartedAt.
type StatusHistory struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
	Status     string
	StartedAt  time.Time
	EndedAt    *time.Time
}
