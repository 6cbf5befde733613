package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"staff-portal/internal/dto"
	"staff-portal/internal/entities"
	apperrors "staff-portal/pkg/errors"
)

const employeeTable = "employees"
const employeeFields = `id, first_name, middle_name, last_name, birth_date, hire_date, city, email, phone,
	mattermost, tg, about_me, legal_entity, department, team_id, position_id, object_id, created_at, updated_at`

type dbEmployee struct {
	ID          uuid.UUID
	FirstName   string
	MiddleName  sql.NullString
	LastName    sql.NullString
	BirthDate   time.Time
	HireDate    time.Time
	City        sql.NullString
	Email       string
	Phone       sql.NullString
	Mattermost  sql.NullString
	Tg          sql.NullString
	AboutMe     sql.NullString
	LegalEntity sql.NullString
	Department  sql.NullString
	TeamID      uuid.UUID
	PositionID  uuid.UUID
	ObjectID    sql.NullString
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func nullToPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func (db *dbEmployee) toEntity() entities.Employee {
	return entities.Employee{
		ID:          db.ID,
		FirstName:   db.FirstName,
		MiddleName:  db.MiddleName.String,
		LastName:    db.LastName.String,
		BirthDate:   db.BirthDate,
		HireDate:    db.HireDate,
		City:        nullToPtr(db.City),
		Email:       db.Email,
		Phone:       nullToPtr(db.Phone),
		Mattermost:  nullToPtr(db.Mattermost),
		Tg:          nullToPtr(db.Tg),
		AboutMe:     nullToPtr(db.AboutMe),
		LegalEntity: nullToPtr(db.LegalEntity),
		Department:  nullToPtr(db.Department),
		TeamID:      db.TeamID,
		PositionID:  db.PositionID,
		ObjectID:    nullToPtr(db.ObjectID),
		CreatedAt:   db.CreatedAt,
		UpdatedAt:   db.UpdatedAt,
	}
}

func (db *dbEmployee) scanFields() []interface{} {
	return []interface{}{
		&db.ID, &db.FirstName, &db.MiddleName, &db.LastName, &db.BirthDate, &db.HireDate,
		&db.City, &db.Email, &db.Phone, &db.Mattermost, &db.Tg, &db.AboutMe,
		&db.LegalEntity, &db.Department, &db.TeamID, &db.PositionID, &db.ObjectID,
		&db.CreatedAt, &db.UpdatedAt,
	}
}

type EmployeeRepositoryInterface interface {
	GetEmployees(ctx context.Context, search string) ([]entities.Employee, uint64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Employee, error)
	FindByEmail(ctx context.Context, email string) (*entities.Employee, error)
	GetByTeamID(ctx context.Context, teamID uuid.UUID) ([]entities.Employee, error)
	GetObjectIDs(ctx context.Context) (map[string]struct{}, error)
	Create(ctx context.Context, employee entities.Employee) (*entities.Employee, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, upd dto.UpdateMeDTO) (*entities.Employee, error)
	UpdatePartial(ctx context.Context, id uuid.UUID, upd dto.AdminUpdateUserDTO, teamID, positionID *uuid.UUID) (*entities.Employee, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type EmployeeRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEmployeeRepository(storage *pgxpool.Pool, logger *zap.Logger) EmployeeRepositoryInterface {
	return &EmployeeRepository{storage: storage, logger: logger}
}

func (r *EmployeeRepository) scanEmployee(row pgx.Row) (*entities.Employee, error) {
	var dbRow dbEmployee
	err := row.Scan(dbRow.scanFields()...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования employee: %w", err)
	}
	entity := dbRow.toEntity()
	return &entity, nil
}

func (r *EmployeeRepository) GetEmployees(ctx context.Context, search string) ([]entities.Employee, uint64, error) {
	builder := sq.Select(employeeFields).
		From(employeeTable).
		OrderBy("lower(last_name), lower(first_name), id").
		PlaceholderFormat(sq.Dollar)

	countBuilder := sq.Select("COUNT(*)").From(employeeTable).PlaceholderFormat(sq.Dollar)

	if search != "" {
		pattern := "%" + search + "%"
		condition := sq.Or{
			sq.ILike{"last_name": pattern},
			sq.ILike{"first_name": pattern},
			sq.ILike{"middle_name": pattern},
			sq.ILike{"email": pattern},
		}
		builder = builder.Where(condition)
		countBuilder = countBuilder.Where(condition)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	employees := make([]entities.Employee, 0)
	for rows.Next() {
		var dbRow dbEmployee
		if err := rows.Scan(dbRow.scanFields()...); err != nil {
			return nil, 0, err
		}
		employees = append(employees, dbRow.toEntity())
	}
	return employees, total, rows.Err()
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", employeeFields, employeeTable)
	return r.scanEmployee(r.storage.QueryRow(ctx, query, id))
}

func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*entities.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE lower(email) = lower($1)", employeeFields, employeeTable)
	return r.scanEmployee(r.storage.QueryRow(ctx, query, email))
}

func (r *EmployeeRepository) GetByTeamID(ctx context.Context, teamID uuid.UUID) ([]entities.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE team_id = $1 ORDER BY lower(last_name), id", employeeFields, employeeTable)
	rows, err := r.storage.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]entities.Employee, 0)
	for rows.Next() {
		var dbRow dbEmployee
		if err := rows.Scan(dbRow.scanFields()...); err != nil {
			return nil, err
		}
		employees = append(employees, dbRow.toEntity())
	}
	return employees, rows.Err()
}

// GetObjectIDs возвращает внешние идентификаторы всех уже импортированных
// сотрудников — по ним отсекаются повторные импорты.
func (r *EmployeeRepository) GetObjectIDs(ctx context.Context) (map[string]struct{}, error) {
	query := fmt.Sprintf("SELECT object_id FROM %s WHERE object_id IS NOT NULL", employeeTable)
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	objectIDs := make(map[string]struct{})
	for rows.Next() {
		var objectID string
		if err := rows.Scan(&objectID); err != nil {
			return nil, err
		}
		objectIDs[objectID] = struct{}{}
	}
	return objectIDs, rows.Err()
}

func (r *EmployeeRepository) Create(ctx context.Context, employee entities.Employee) (*entities.Employee, error) {
	if employee.ID == uuid.Nil {
		employee.ID = uuid.New()
	}
	query := fmt.Sprintf(`INSERT INTO %s
		(id, first_name, middle_name, last_name, birth_date, hire_date, city, email, phone,
		 mattermost, tg, about_me, legal_entity, department, team_id, position_id, object_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING %s`, employeeTable, employeeFields)

	created, err := r.scanEmployee(r.storage.QueryRow(ctx, query,
		employee.ID, employee.FirstName, employee.MiddleName, employee.LastName,
		employee.BirthDate, employee.HireDate, employee.City, employee.Email, employee.Phone,
		employee.Mattermost, employee.Tg, employee.AboutMe, employee.LegalEntity,
		employee.Department, employee.TeamID, employee.PositionID, employee.ObjectID,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, err
	}
	return created, nil
}

func (r *EmployeeRepository) UpdateProfile(ctx context.Context, id uuid.UUID, upd dto.UpdateMeDTO) (*entities.Employee, error) {
	var setClauses []string
	args := pgx.NamedArgs{"id": id}

	if upd.City.Valid {
		setClauses = append(setClauses, "city = @city")
		args["city"] = upd.City.String
	}
	if upd.Phone.Valid {
		setClauses = append(setClauses, "phone = @phone")
		args["phone"] = upd.Phone.String
	}
	if upd.Mattermost.Valid {
		setClauses = append(setClauses, "mattermost = @mattermost")
		args["mattermost"] = upd.Mattermost.String
	}
	if upd.Tg.Valid {
		setClauses = append(setClauses, "tg = @tg")
		args["tg"] = upd.Tg.String
	}
	if upd.AboutMe.Valid {
		setClauses = append(setClauses, "about_me = @about_me")
		args["about_me"] = upd.AboutMe.String
	}

	return r.applyUpdate(ctx, id, setClauses, args)
}

func (r *EmployeeRepository) UpdatePartial(ctx context.Context, id uuid.UUID, upd dto.AdminUpdateUserDTO, teamID, positionID *uuid.UUID) (*entities.Employee, error) {
	var setClauses []string
	args := pgx.NamedArgs{"id": id}

	if upd.Email.Valid {
		setClauses = append(setClauses, "email = @email")
		args["email"] = upd.Email.String
	}
	if upd.FirstName.Valid {
		setClauses = append(setClauses, "first_name = @first_name")
		args["first_name"] = upd.FirstName.String
	}
	if upd.MiddleName.Valid {
		setClauses = append(setClauses, "middle_name = @middle_name")
		args["middle_name"] = upd.MiddleName.String
	}
	if upd.LastName.Valid {
		setClauses = append(setClauses, "last_name = @last_name")
		args["last_name"] = upd.LastName.String
	}
	if upd.City.Valid {
		setClauses = append(setClauses, "city = @city")
		args["city"] = upd.City.String
	}
	if upd.Phone.Valid {
		setClauses = append(setClauses, "phone = @phone")
		args["phone"] = upd.Phone.String
	}
	if upd.Mattermost.Valid {
		setClauses = append(setClauses, "mattermost = @mattermost")
		args["mattermost"] = upd.Mattermost.String
	}
	if upd.Tg.Valid {
		setClauses = append(setClauses, "tg = @tg")
		args["tg"] = upd.Tg.String
	}
	if upd.AboutMe.Valid {
		setClauses = append(setClauses, "about_me = @about_me")
		args["about_me"] = upd.AboutMe.String
	}
	if teamID != nil {
		setClauses = append(setClauses, "team_id = @team_id")
		args["team_id"] = *teamID
	}
	if positionID != nil {
		setClauses = append(setClauses, "position_id = @position_id")
		args["position_id"] = *positionID
	}

	return r.applyUpdate(ctx, id, setClauses, args)
}

func (r *EmployeeRepository) applyUpdate(ctx context.Context, id uuid.UUID, setClauses []string, args pgx.NamedArgs) (*entities.Employee, error) {
	if len(setClauses) == 0 {
		return r.FindByID(ctx, id)
	}

	query := fmt.Sprintf("UPDATE %s SET updated_at = NOW()", employeeTable)
	for _, clause := range setClauses {
		query += ", " + clause
	}
	query += fmt.Sprintf(" WHERE id = @id RETURNING %s", employeeFields)

	updated, err := r.scanEmployee(r.storage.QueryRow(ctx, query, args))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, err
	}
	return updated, nil
}

func (r *EmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", employeeTable)
	result, err := r.storage.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
