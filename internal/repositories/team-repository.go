package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staff-portal/internal/entities"
	apperrors "staff-portal/pkg/errors"
)

const teamTable = "teams"
const teamFields = "id, name, parent_id, leader_employee_id, created_at, updated_at"

type TeamRepositoryInterface interface {
	GetAll(ctx context.Context) ([]entities.Team, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Team, error)
	FindByNameAndParent(ctx context.Context, name string, parentID *uuid.UUID) (*entities.Team, error)
	FindByParentID(ctx context.Context, parentID uuid.UUID) ([]entities.Team, error)
	Create(ctx context.Context, name string, leaderEmployeeID uuid.UUID, parentID *uuid.UUID) (*entities.Team, error)
	UpdateParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) (*entities.Team, error)
	UpdateLeader(ctx context.Context, id uuid.UUID, leaderEmployeeID uuid.UUID) (*entities.Team, error)
}

type TeamRepository struct {
	storage *pgxpool.Pool
}

func NewTeamRepository(storage *pgxpool.Pool) TeamRepositoryInterface {
	return &TeamRepository{storage: storage}
}

func scanTeam(row pgx.Row) (*entities.Team, error) {
	var t entities.Team
	err := row.Scan(&t.ID, &t.Name, &t.ParentID, &t.LeaderEmployeeID, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования team: %w", err)
	}
	return &t, nil
}

func (r *TeamRepository) GetAll(ctx context.Context) ([]entities.Team, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at, id", teamFields, teamTable)
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]entities.Team, 0)
	for rows.Next() {
		var t entities.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.ParentID, &t.LeaderEmployeeID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *TeamRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Team, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", teamFields, teamTable)
	return scanTeam(r.storage.QueryRow(ctx, query, id))
}

// FindByNameAndParent ищет команду по имени без учёта регистра и лишних
// пробелов. Если команд с таким именем несколько, предпочитается та, что
// уже висит под ожидаемым родителем.
func (r *TeamRepository) FindByNameAndParent(ctx context.Context, name string, parentID *uuid.UUID) (*entities.Team, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s
		WHERE lower(btrim(regexp_replace(name, '\s+', ' ', 'g'))) = lower($1)
		ORDER BY (parent_id IS NOT DISTINCT FROM $2) DESC, created_at
		LIMIT 1`, teamFields, teamTable)
	return scanTeam(r.storage.QueryRow(ctx, query, name, parentID))
}

func (r *TeamRepository) FindByParentID(ctx context.Context, parentID uuid.UUID) ([]entities.Team, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE parent_id = $1 ORDER BY created_at, id", teamFields, teamTable)
	rows, err := r.storage.Query(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teams := make([]entities.Team, 0)
	for rows.Next() {
		var t entities.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.ParentID, &t.LeaderEmployeeID, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *TeamRepository) Create(ctx context.Context, name string, leaderEmployeeID uuid.UUID, parentID *uuid.UUID) (*entities.Team, error) {
	query := fmt.Sprintf(`INSERT INTO %s (id, name, parent_id, leader_employee_id)
		VALUES ($1, $2, $3, $4) RETURNING %s`, teamTable, teamFields)
	return scanTeam(r.storage.QueryRow(ctx, query, uuid.New(), name, parentID, leaderEmployeeID))
}

func (r *TeamRepository) UpdateParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) (*entities.Team, error) {
	query := fmt.Sprintf(`UPDATE %s SET parent_id = $2, updated_at = NOW()
		WHERE id = $1 RETURNING %s`, teamTable, teamFields)
	return scanTeam(r.storage.QueryRow(ctx, query, id, parentID))
}

func (r *TeamRepository) UpdateLeader(ctx context.Context, id uuid.UUID, leaderEmployeeID uuid.UUID) (*entities.Team, error) {
	query := fmt.Sprintf(`UPDATE %s SET leader_employee_id = $2, updated_at = NOW()
		WHERE id = $1 RETURNING %s`, teamTable, teamFields)
	return scanTeam(r.storage.QueryRow(ctx, query, id, leaderEmployeeID))
}
