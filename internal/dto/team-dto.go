package dto

import "github.com/google/uuid"

type TeamDTO struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	ParentID         *uuid.UUID `json:"parent_id,omitempty"`
	LeaderEmployeeID uuid.UUID  `json:"leader_employee_id"`
}

type TeamTreeDTO struct {
	TeamDTO
	Children []*TeamTreeDTO `json:"children"`
}

type MoveTeamDTO struct {
	ParentID *uuid.UUID `json:"parent_id"`
}
