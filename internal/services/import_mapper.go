package services

import (
	"strings"
	"time"

	"staff-portal/internal/dto"
	"staff-portal/internal/entities"
)

// Маппер записей каталога: одна сырая запись -> кандидат на сотрудника.
// Чистые функции без побочных эффектов; generic-карта атрибутов дальше
// кандидата не протекает.

const defaultPositionTitle = "Сотрудник"
const defaultFirstName = "Employee"

var directoryDateLayouts = []string{
	"20060102150405.0Z",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// buildManagerLookup строится одним проходом по всем записям до фильтрации:
// DN руководителя (в нижнем регистре) -> его objectGUID. Так ссылка на
// руководителя разрешается даже для записей, замапленных позже.
func buildManagerLookup(records []entities.DirectoryRecord) map[string]string {
	lookup := make(map[string]string, len(records))
	for _, record := range records {
		dn := strings.ToLower(record.DN)
		objectID := firstAttr(record.Attributes, "objectGUID")
		if dn != "" && objectID != "" {
			lookup[dn] = objectID
		}
	}
	return lookup
}

// mapRecord нормализует запись каталога. Возвращает nil для сервисных
// учётных записей и записей без стабильного идентификатора или почты —
// такие нельзя ни дедуплицировать, ни связать с человеком.
func mapRecord(record entities.DirectoryRecord, managerLookup map[string]string, serviceMarker string) *dto.CandidateEmployee {
	if isServiceAccount(record, serviceMarker) {
		return nil
	}

	attributes := record.Attributes

	objectID := firstAttr(attributes, "objectGUID")
	email := firstAttr(attributes, "mail")
	if email == "" {
		email = firstAttr(attributes, "userPrincipalName")
	}
	if objectID == "" || email == "" {
		return nil
	}

	displayName := firstAttr(attributes, "displayName")
	if displayName == "" {
		displayName = firstAttr(attributes, "name")
	}
	nameParts := strings.Fields(displayName)

	firstName := firstAttr(attributes, "givenName")
	if firstName == "" && len(nameParts) > 0 {
		firstName = nameParts[0]
	}
	if firstName == "" {
		firstName = defaultFirstName
	}

	lastName := firstAttr(attributes, "sn")
	if lastName == "" && len(nameParts) > 1 {
		lastName = nameParts[len(nameParts)-1]
	}

	middleName := firstAttr(attributes, "middleName")
	if middleName == "" && len(nameParts) > 2 {
		middleName = strings.Join(nameParts[1:len(nameParts)-1], " ")
	}

	// Каталог часто не заполняет даты; отсутствие даты не валит запись.
	birthDate := parseDirectoryDate(firstAttr(attributes, "birthDate"))
	if birthDate.IsZero() {
		birthDate = today()
	}
	hireDate := parseDirectoryDate(firstAttr(attributes, "whenCreated"))
	if hireDate.IsZero() {
		hireDate = today()
	}

	position := firstAttr(attributes, "title")
	if position == "" {
		position = defaultPositionTitle
	}

	var managerObjectID *string
	if managerDN := firstAttr(attributes, "manager"); managerDN != "" {
		if id, ok := managerLookup[strings.ToLower(managerDN)]; ok {
			managerObjectID = &id
		}
	}

	return &dto.CandidateEmployee{
		ObjectID:        objectID,
		Email:           email,
		FirstName:       firstName,
		MiddleName:      middleName,
		LastName:        lastName,
		BirthDate:       birthDate,
		HireDate:        hireDate,
		City:            normalizeCity(firstAttr(attributes, "l")),
		Phone:           optionalAttr(attributes, "telephoneNumber"),
		LegalEntity:     optionalAttr(attributes, "company"),
		Department:      optionalAttr(attributes, "department"),
		Position:        position,
		ManagerObjectID: managerObjectID,
	}
}

func isServiceAccount(record entities.DirectoryRecord, serviceMarker string) bool {
	if serviceMarker == "" {
		return false
	}
	marker := strings.ToLower(serviceMarker)
	if strings.Contains(strings.ToLower(record.DN), marker) {
		return true
	}
	return strings.Contains(strings.ToLower(firstAttr(record.Attributes, "distinguishedName")), marker)
}

// firstAttr сворачивает многозначный атрибут к первому значению.
func firstAttr(attributes map[string][]string, key string) string {
	values := attributes[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func optionalAttr(attributes map[string][]string, key string) *string {
	value := firstAttr(attributes, key)
	if value == "" {
		return nil
	}
	return &value
}

func normalizeCity(value string) *string {
	city := strings.TrimSpace(value)
	if city == "" {
		return nil
	}
	return &city
}

func parseDirectoryDate(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range directoryDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Truncate(24 * time.Hour)
		}
	}
	return time.Time{}
}

func today() time.Time {
	year, month, day := time.Now().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
