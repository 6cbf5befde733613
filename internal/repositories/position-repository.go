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

const positionTable = "positions"
const positionFields = "id, title"

type PositionRepositoryInterface interface {
	GetAll(ctx context.Context) ([]entities.Position, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Position, error)
	GetOrCreate(ctx context.Context, title string) (*entities.Position, error)
}

type PositionRepository struct {
	storage *pgxpool.Pool
}

func NewPositionRepository(storage *pgxpool.Pool) PositionRepositoryInterface {
	return &PositionRepository{storage: storage}
}

func (r *PositionRepository) GetAll(ctx context.Context) ([]entities.Position, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY title", positionFields, positionTable)
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	positions := make([]entities.Position, 0)
	for rows.Next() {
		var p entities.Position
		if err := rows.Scan(&p.ID, &p.Title); err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

func (r *PositionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Position, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", positionFields, positionTable)
	var p entities.Position
	err := r.storage.QueryRow(ctx, query, id).Scan(&p.ID, &p.Title)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetOrCreate возвращает должность по названию, создавая при отсутствии.
// ON CONFLICT DO UPDATE нужен, чтобы RETURNING сработал и для существующей строки.
func (r *PositionRepository) GetOrCreate(ctx context.Context, title string) (*entities.Position, error) {
	query := fmt.Sprintf(`INSERT INTO %s (id, title) VALUES ($1, $2)
		ON CONFLICT (title) DO UPDATE SET title = EXCLUDED.title
		RETURNING %s`, positionTable, positionFields)

	var p entities.Position
	if err := r.storage.QueryRow(ctx, query, uuid.New(), title).Scan(&p.ID, &p.Title); err != nil {
		return nil, err
	}
	return &p, nil
}
