package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"staff-portal/internal/entities"
)

const statusHistoryTable = "status_history"
const statusHistoryFields = "id, employee_id, status, started_at, ended_at"

type StatusHistoryRepositoryInterface interface {
	GetByEmployeeID(ctx context.Context, employeeID uuid.UUID) ([]entities.StatusHistory, error)
	GetByEmployeeIDs(ctx context.Context, employeeIDs []uuid.UUID) (map[uuid.UUID][]entities.StatusHistory, error)
	SetStatus(ctx context.Context, employeeID uuid.UUID, status string) error
}

type StatusHistoryRepository struct {
	storage *pgxpool.Pool
}

func NewStatusHistoryRepository(storage *pgxpool.Pool) StatusHistoryRepositoryInterface {
	return &StatusHistoryRepository{storage: storage}
}

func (r *StatusHistoryRepository) GetByEmployeeID(ctx context.Context, employeeID uuid.UUID) ([]entities.StatusHistory, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE employee_id = $1 ORDER BY started_at", statusHistoryFields, statusHistoryTable)
	rows, err := r.storage.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]entities.StatusHistory, 0)
	for rows.Next() {
		var h entities.StatusHistory
		if err := rows.Scan(&h.ID, &h.EmployeeID, &h.Status, &h.StartedAt, &h.EndedAt); err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

// GetByEmployeeIDs выбирает историю статусов пачкой, чтобы список сотрудников
// не порождал запрос на каждого.
func (r *StatusHistoryRepository) GetByEmployeeIDs(ctx context.Context, employeeIDs []uuid.UUID) (map[uuid.UUID][]entities.StatusHistory, error) {
	result := make(map[uuid.UUID][]entities.StatusHistory, len(employeeIDs))
	if len(employeeIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE employee_id = ANY($1) ORDER BY started_at", statusHistoryFields, statusHistoryTable)
	rows, err := r.storage.Query(ctx, query, employeeIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var h entities.StatusHistory
		if err := rows.Scan(&h.ID, &h.EmployeeID, &h.Status, &h.StartedAt, &h.EndedAt); err != nil {
			return nil, err
		}
		result[h.EmployeeID] = append(result[h.EmployeeID], h)
	}
	return result, rows.Err()
}

// SetStatus закрывает открытую запись и открывает новую одной транзакцией.
func (r *StatusHistoryRepository) SetStatus(ctx context.Context, employeeID uuid.UUID, status string) error {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	closeQuery := fmt.Sprintf("UPDATE %s SET ended_at = NOW() WHERE employee_id = $1 AND ended_at IS NULL", statusHistoryTable)
	if _, err := tx.Exec(ctx, closeQuery, employeeID); err != nil {
		return err
	}

	insertQuery := fmt.Sprintf("INSERT INTO %s (id, employee_id, status, started_at) VALUES ($1, $2, $3, NOW())", statusHistoryTable)
	if _, err := tx.Exec(ctx, insertQuery, uuid.New(), employeeID, status); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
