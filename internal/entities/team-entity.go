package entities

import (
	"time"

	"github.com/google/uuid"
)

// Team — узел организационного дерева. ParentID == nil означает корень.
// Ацикличность parent-графа хранилищем не гарантируется, обходы обязаны
// защищаться от циклов (см. pkg/utils/org.go).
type Team struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	ParentID         *uuid.UUID `json:"parent_id"`
	LeaderEmployeeID uuid.UUID  `json:"leader_employee_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
