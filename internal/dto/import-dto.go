package dto

import "time"

type ImportResultDTO struct {
	Imported int `json:"imported"`
}

// CandidateEmployee — нормализованная, но ещё не сохранённая запись каталога.
// ManagerObjectID нужен только для выбора лидеров команд и после импорта
// нигде не хранится.
type CandidateEmployee struct {
	ObjectID        string
	Email           string
	FirstName       string
	MiddleName      string
	LastName        string
	BirthDate       time.Time
	HireDate        time.Time
	City            *string
	Phone           *string
	LegalEntity     *string
	Department      *string
	Position        string
	ManagerObjectID *string
}
