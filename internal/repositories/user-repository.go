package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"staff-portal/internal/entities"
	apperrors "staff-portal/pkg/errors"
)

const userTable = "users"
const userFields = "id, email, password_hash, is_admin, created_at"

type UserRepositoryInterface interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	FindByEmail(ctx context.Context, email string) (*entities.User, error)
	GetAdminEmails(ctx context.Context) (map[string]struct{}, error)
	Create(ctx context.Context, user entities.User) (*entities.User, error)
	UpdateEmailByEmail(ctx context.Context, oldEmail, newEmail string) error
	DeleteByEmail(ctx context.Context, email string) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", userFields, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE lower(email) = lower($1)", userFields, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

// GetAdminEmails возвращает email всех администраторов одним запросом —
// для проставления признака is_admin в списке профилей.
func (r *UserRepository) GetAdminEmails(ctx context.Context) (map[string]struct{}, error) {
	query := fmt.Sprintf("SELECT lower(email) FROM %s WHERE is_admin", userTable)
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	emails := make(map[string]struct{})
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		emails[email] = struct{}{}
	}
	return emails, rows.Err()
}

func (r *UserRepository) Create(ctx context.Context, user entities.User) (*entities.User, error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	query := fmt.Sprintf(`INSERT INTO %s (id, email, password_hash, is_admin)
		VALUES ($1, $2, $3, $4) RETURNING %s`, userTable, userFields)

	created, err := scanUser(r.storage.QueryRow(ctx, query, user.ID, user.Email, user.PasswordHash, user.IsAdmin))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

func (r *UserRepository) UpdateEmailByEmail(ctx context.Context, oldEmail, newEmail string) error {
	query := fmt.Sprintf("UPDATE %s SET email = $2 WHERE lower(email) = lower($1)", userTable)
	result, err := r.storage.Exec(ctx, query, oldEmail, newEmail)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrEmailTaken
		}
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) DeleteByEmail(ctx context.Context, email string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE lower(email) = lower($1)", userTable)
	_, err := r.storage.Exec(ctx, query, email)
	return err
}
