package entities

import (
	"time"

	"github.com/google/uuid"
)

// Employee — карточка сотрудника. ObjectID — ключ принципала во внешнем
// каталоге (Active Directory); nil для сотрудников, заведённых вручную.
type Employee struct {
	ID          uuid.UUID
	FirstName   string
	MiddleName  string
	LastName    string
	BirthDate   time.Time
	HireDate    time.Time
	City        *string
	Email       string
	Phone       *string
	Mattermost  *string
	Tg          *string
	AboutMe     *string
	LegalEntity *string
	Department  *string
	TeamID      uuid.UUID
	PositionID  uuid.UUID
	ObjectID    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
