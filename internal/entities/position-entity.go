package entities

import "github.com/google/uuid"

type Position struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}
