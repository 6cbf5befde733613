package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"staff-portal/internal/dto"
	"staff-portal/internal/entities"
	"staff-portal/pkg/contextkeys"
	apperrors "staff-portal/pkg/errors"
)

func authedContext(ctx context.Context, userID uuid.UUID, isAdmin bool) context.Context {
	ctx = context.WithValue(ctx, contextkeys.UserIDKey, userID)
	return context.WithValue(ctx, contextkeys.IsAdminKey, isAdmin)
}

// Тестовые двойники репозиториев: хранят всё в памяти и повторяют
// поведение SQL-реализаций (нечувствительность к регистру имён команд,
// ErrNotFound вместо пустого результата и т.д.).

type fakeDirectory struct {
	records []entities.DirectoryRecord
	err     error
}

func (d *fakeDirectory) FetchAll(ctx context.Context) ([]entities.DirectoryRecord, error) {
	if d.err != nil {
		return nil, d.err
	}
	return d.records, nil
}

type fakeTeamRepo struct {
	teams           []entities.Team
	findByNameCalls int
}

func (r *fakeTeamRepo) GetAll(ctx context.Context) ([]entities.Team, error) {
	result := make([]entities.Team, len(r.teams))
	copy(result, r.teams)
	return result, nil
}

func (r *fakeTeamRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Team, error) {
	for i := range r.teams {
		if r.teams[i].ID == id {
			team := r.teams[i]
			return &team, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeTeamRepo) FindByNameAndParent(ctx context.Context, name string, parentID *uuid.UUID) (*entities.Team, error) {
	r.findByNameCalls++
	normalized := strings.ToLower(strings.Join(strings.Fields(name), " "))
	var found *entities.Team
	for i := range r.teams {
		if strings.ToLower(strings.Join(strings.Fields(r.teams[i].Name), " ")) != normalized {
			continue
		}
		team := r.teams[i]
		if sameParent(team.ParentID, parentID) {
			return &team, nil
		}
		if found == nil {
			found = &team
		}
	}
	if found == nil {
		return nil, apperrors.ErrNotFound
	}
	return found, nil
}

func (r *fakeTeamRepo) FindByParentID(ctx context.Context, parentID uuid.UUID) ([]entities.Team, error) {
	result := make([]entities.Team, 0)
	for _, team := range r.teams {
		if team.ParentID != nil && *team.ParentID == parentID {
			result = append(result, team)
		}
	}
	return result, nil
}

func (r *fakeTeamRepo) Create(ctx context.Context, name string, leaderEmployeeID uuid.UUID, parentID *uuid.UUID) (*entities.Team, error) {
	team := entities.Team{
		ID:               uuid.New(),
		Name:             name,
		ParentID:         parentID,
		LeaderEmployeeID: leaderEmployeeID,
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}
	r.teams = append(r.teams, team)
	return &team, nil
}

func (r *fakeTeamRepo) UpdateParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) (*entities.Team, error) {
	for i := range r.teams {
		if r.teams[i].ID == id {
			r.teams[i].ParentID = parentID
			team := r.teams[i]
			return &team, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeTeamRepo) UpdateLeader(ctx context.Context, id uuid.UUID, leaderEmployeeID uuid.UUID) (*entities.Team, error) {
	for i := range r.teams {
		if r.teams[i].ID == id {
			r.teams[i].LeaderEmployeeID = leaderEmployeeID
			team := r.teams[i]
			return &team, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func sameParent(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

type fakeEmployeeRepo struct {
	employees []entities.Employee
}

func (r *fakeEmployeeRepo) GetEmployees(ctx context.Context, search string) ([]entities.Employee, uint64, error) {
	result := make([]entities.Employee, 0)
	needle := strings.ToLower(search)
	for _, e := range r.employees {
		if search == "" ||
			strings.Contains(strings.ToLower(e.FirstName), needle) ||
			strings.Contains(strings.ToLower(e.LastName), needle) ||
			strings.Contains(strings.ToLower(e.Email), needle) {
			result = append(result, e)
		}
	}
	return result, uint64(len(result)), nil
}

func (r *fakeEmployeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Employee, error) {
	for i := range r.employees {
		if r.employees[i].ID == id {
			e := r.employees[i]
			return &e, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeEmployeeRepo) FindByEmail(ctx context.Context, email string) (*entities.Employee, error) {
	for i := range r.employees {
		if strings.EqualFold(r.employees[i].Email, email) {
			e := r.employees[i]
			return &e, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeEmployeeRepo) GetByTeamID(ctx context.Context, teamID uuid.UUID) ([]entities.Employee, error) {
	result := make([]entities.Employee, 0)
	for _, e := range r.employees {
		if e.TeamID == teamID {
			result = append(result, e)
		}
	}
	return result, nil
}

func (r *fakeEmployeeRepo) GetObjectIDs(ctx context.Context) (map[string]struct{}, error) {
	objectIDs := make(map[string]struct{})
	for _, e := range r.employees {
		if e.ObjectID != nil {
			objectIDs[*e.ObjectID] = struct{}{}
		}
	}
	return objectIDs, nil
}

func (r *fakeEmployeeRepo) Create(ctx context.Context, employee entities.Employee) (*entities.Employee, error) {
	for _, e := range r.employees {
		if strings.EqualFold(e.Email, employee.Email) {
			return nil, apperrors.ErrEmailTaken
		}
	}
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}
	r.employees = append(r.employees, employee)
	created := employee
	return &created, nil
}

func (r *fakeEmployeeRepo) UpdateProfile(ctx context.Context, id uuid.UUID, upd dto.UpdateMeDTO) (*entities.Employee, error) {
	for i := range r.employees {
		if r.employees[i].ID != id {
			continue
		}
		if upd.City.Valid {
			city := upd.City.String
			r.employees[i].City = &city
		}
		if upd.Phone.Valid {
			phone := upd.Phone.String
			r.employees[i].Phone = &phone
		}
		if upd.Mattermost.Valid {
			mm := upd.Mattermost.String
			r.employees[i].Mattermost = &mm
		}
		if upd.Tg.Valid {
			tg := upd.Tg.String
			r.employees[i].Tg = &tg
		}
		if upd.AboutMe.Valid {
			about := upd.AboutMe.String
			r.employees[i].AboutMe = &about
		}
		e := r.employees[i]
		return &e, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeEmployeeRepo) UpdatePartial(ctx context.Context, id uuid.UUID, upd dto.AdminUpdateUserDTO, teamID, positionID *uuid.UUID) (*entities.Employee, error) {
	for i := range r.employees {
		if r.employees[i].ID != id {
			continue
		}
		if upd.Email.Valid {
			r.employees[i].Email = upd.Email.String
		}
		if upd.FirstName.Valid {
			r.employees[i].FirstName = upd.FirstName.String
		}
		if upd.LastName.Valid {
			r.employees[i].LastName = upd.LastName.String
		}
		if teamID != nil {
			r.employees[i].TeamID = *teamID
		}
		if positionID != nil {
			r.employees[i].PositionID = *positionID
		}
		e := r.employees[i]
		return &e, nil
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeEmployeeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i := range r.employees {
		if r.employees[i].ID == id {
			r.employees = append(r.employees[:i], r.employees[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type fakePositionRepo struct {
	positions []entities.Position
}

func (r *fakePositionRepo) GetAll(ctx context.Context) ([]entities.Position, error) {
	result := make([]entities.Position, len(r.positions))
	copy(result, r.positions)
	return result, nil
}

func (r *fakePositionRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Position, error) {
	for i := range r.positions {
		if r.positions[i].ID == id {
			p := r.positions[i]
			return &p, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakePositionRepo) GetOrCreate(ctx context.Context, title string) (*entities.Position, error) {
	for i := range r.positions {
		if r.positions[i].Title == title {
			p := r.positions[i]
			return &p, nil
		}
	}
	position := entities.Position{ID: uuid.New(), Title: title}
	r.positions = append(r.positions, position)
	return &position, nil
}

type fakeStatusRepo struct {
	history map[uuid.UUID][]entities.StatusHistory
}

func newFakeStatusRepo() *fakeStatusRepo {
	return &fakeStatusRepo{history: make(map[uuid.UUID][]entities.StatusHistory)}
}

func (r *fakeStatusRepo) GetByEmployeeID(ctx context.Context, employeeID uuid.UUID) ([]entities.StatusHistory, error) {
	return r.history[employeeID], nil
}

func (r *fakeStatusRepo) GetByEmployeeIDs(ctx context.Context, employeeIDs []uuid.UUID) (map[uuid.UUID][]entities.StatusHistory, error) {
	result := make(map[uuid.UUID][]entities.StatusHistory)
	for _, id := range employeeIDs {
		if entries, ok := r.history[id]; ok {
			result[id] = entries
		}
	}
	return result, nil
}

func (r *fakeStatusRepo) SetStatus(ctx context.Context, employeeID uuid.UUID, status string) error {
	now := time.Now()
	entries := r.history[employeeID]
	for i := range entries {
		if entries[i].EndedAt == nil {
			ended := now
			entries[i].EndedAt = &ended
		}
	}
	r.history[employeeID] = append(entries, entities.StatusHistory{
		ID:         uuid.New(),
		EmployeeID: employeeID,
		Status:     status,
		StartedAt:  now,
	})
	return nil
}

type fakeUserRepo struct {
	users []entities.User
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	for i := range r.users {
		if strings.EqualFold(r.users[i].Email, email) {
			u := r.users[i]
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *fakeUserRepo) GetAdminEmails(ctx context.Context) (map[string]struct{}, error) {
	emails := make(map[string]struct{})
	for _, u := range r.users {
		if u.IsAdmin {
			emails[strings.ToLower(u.Email)] = struct{}{}
		}
	}
	return emails, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, user entities.User) (*entities.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, apperrors.ErrEmailTaken
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users = append(r.users, user)
	created := user
	return &created, nil
}

func (r *fakeUserRepo) UpdateEmailByEmail(ctx context.Context, oldEmail, newEmail string) error {
	for i := range r.users {
		if strings.EqualFold(r.users[i].Email, oldEmail) {
			r.users[i].Email = newEmail
			return nil
		}
	}
	return apperrors.ErrUserNotFound
}

func (r *fakeUserRepo) DeleteByEmail(ctx context.Context, email string) error {
	for i := range r.users {
		if strings.EqualFold(r.users[i].Email, email) {
			r.users = append(r.users[:i], r.users[i+1:]...)
			return nil
		}
	}
	return nil
}

type fakeCacheRepo struct {
	values map[string]string
	dels   int
}

func newFakeCacheRepo() *fakeCacheRepo {
	return &fakeCacheRepo{values: make(map[string]string)}
}

func (r *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	switch v := value.(type) {
	case string:
		r.values[key] = v
	case []byte:
		r.values[key] = string(v)
	}
	return nil
}

func (r *fakeCacheRepo) Get(ctx context.Context, key string) (string, error) {
	value, ok := r.values[key]
	if !ok {
		return "", apperrors.ErrNotFound
	}
	return value, nil
}

func (r *fakeCacheRepo) Del(ctx context.Context, key ...string) error {
	for _, k := range key {
		delete(r.values, k)
	}
	r.dels++
	return nil
}
