package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"staff-portal/pkg/utils"
)

func seedAdminUser(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание пользователя 'Admin'...")

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@staff-portal.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin"
		log.Println("    - ⚠️  ADMIN_PASSWORD не задан, используется пароль по умолчанию.")
	}

	var userID uuid.UUID
	err := db.QueryRow(ctx, "SELECT id FROM users WHERE lower(email) = lower($1)", email).Scan(&userID)
	if err == nil {
		log.Println("    - Пользователь Admin уже существует. Пропускаем.")
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ошибка при проверке существования пользователя: %w", err)
	}

	var teamID uuid.UUID
	if err := db.QueryRow(ctx, "SELECT id FROM teams WHERE parent_id IS NULL ORDER BY created_at LIMIT 1").Scan(&teamID); err != nil {
		return fmt.Errorf("не найдена корневая команда, сначала запустите -base: %w", err)
	}

	var positionID uuid.UUID
	if err := db.QueryRow(ctx, "SELECT id FROM positions WHERE title = 'Сотрудник' LIMIT 1").Scan(&positionID); err != nil {
		return fmt.Errorf("не найдена базовая должность, сначала запустите -base: %w", err)
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	today := time.Now().Format("2006-01-02")
	employeeID := uuid.New()
	_, err = db.Exec(ctx, `INSERT INTO employees
		(id, first_name, last_name, birth_date, hire_date, email, team_id, position_id)
		VALUES ($1, 'Admin', 'Portal', $2, $3, $4, $5, $6)`,
		employeeID, today, today, email, teamID, positionID)
	if err != nil {
		return fmt.Errorf("не удалось создать карточку администратора: %w", err)
	}

	_, err = db.Exec(ctx, `INSERT INTO users (id, email, password_hash, is_admin)
		VALUES ($1, $2, $3, TRUE)`, uuid.New(), email, hashedPassword)
	if err != nil {
		return fmt.Errorf("не удалось создать учетную запись администратора: %w", err)
	}

	log.Println("    - Администратор создан:", email)
	return nil
}
