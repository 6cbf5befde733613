package dto

import (
	"github.com/aarondl/null/v8"
	"github.com/google/uuid"
)

type BossDTO struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	Email    string    `json:"email"`
}

// UserDTO — плоский профиль сотрудника для витрины: путь по командам,
// начальник, грейд и стаж уже разрешены.
type UserDTO struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	MiddleName     string    `json:"middle_name,omitempty"`
	LastName       string    `json:"last_name,omitempty"`
	FullName       string    `json:"full_name"`
	ShortName      string    `json:"short_name"`
	Email          string    `json:"email"`
	Phone          *string   `json:"phone,omitempty"`
	City           *string   `json:"city,omitempty"`
	Mattermost     *string   `json:"mattermost,omitempty"`
	Tg             *string   `json:"tg,omitempty"`
	AboutMe        *string   `json:"about_me,omitempty"`
	BirthDate      string    `json:"birth_date"`
	HireDate       string    `json:"hire_date"`
	ExperienceDays int       `json:"experience_days"`
	Status         string    `json:"status"`
	Position       string    `json:"position"`
	Grade          string    `json:"grade,omitempty"`
	Team           []string  `json:"team"`
	Boss           *BossDTO  `json:"boss,omitempty"`
	IsAdmin        bool      `json:"is_admin"`
}

type CreateUserDTO struct {
	Email      string  `json:"email" validate:"required,email"`
	Password   string  `json:"password" validate:"required,min=6"`
	Role       string  `json:"role" validate:"required,oneof=admin user"`
	FirstName  string  `json:"first_name" validate:"required"`
	MiddleName string  `json:"middle_name"`
	LastName   string  `json:"last_name" validate:"required"`
	BirthDate  string  `json:"birth_date" validate:"required"`
	HireDate   string  `json:"hire_date" validate:"required"`
	City       *string `json:"city"`
	Phone      *string `json:"phone"`
	Position   string  `json:"position" validate:"required"`
	Team       string  `json:"team" validate:"required"`
}

// UpdateMeDTO — поля, которые сотрудник может менять у себя сам.
type UpdateMeDTO struct {
	City       null.String `json:"city"`
	Phone      null.String `json:"phone"`
	Mattermost null.String `json:"mattermost"`
	Tg         null.String `json:"tg"`
	AboutMe    null.String `json:"about_me"`
	Status     *string     `json:"status" validate:"omitempty,oneof=active vacation sickLeave"`
}

// AdminUpdateUserDTO — административное обновление. Team — имена команд в
// иерархическом порядке сверху вниз; последняя может отсутствовать и будет
// создана.
type AdminUpdateUserDTO struct {
	Email      null.String `json:"email" validate:"omitempty"`
	FirstName  null.String `json:"first_name"`
	MiddleName null.String `json:"middle_name"`
	LastName   null.String `json:"last_name"`
	City       null.String `json:"city"`
	Phone      null.String `json:"phone"`
	Mattermost null.String `json:"mattermost"`
	Tg         null.String `json:"tg"`
	AboutMe    null.String `json:"about_me"`
	Position   *string     `json:"position"`
	Team       []string    `json:"team"`
	Status     *string     `json:"status" validate:"omitempty,oneof=active vacation sickLeave"`
}
