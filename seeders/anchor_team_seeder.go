package seeders

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func seedAnchorTeam(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание якорной команды 'Компания'...")

	var teamID uuid.UUID
	err := db.QueryRow(ctx, "SELECT id FROM teams WHERE parent_id IS NULL ORDER BY created_at LIMIT 1").Scan(&teamID)
	if err == nil {
		log.Println("    - Корневая команда уже существует. Пропускаем.")
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("ошибка при проверке корневой команды: %w", err)
	}

	_, err = db.Exec(ctx, "INSERT INTO teams (id, name) VALUES ($1, 'Компания')", uuid.New())
	if err != nil {
		return fmt.Errorf("не удалось вставить якорную команду: %w", err)
	}
	return nil
}

func seedDefaultPosition(ctx context.Context, db *pgxpool.Pool) error {
	log.Println("  - Создание базовой должности 'Сотрудник'...")

	_, err := db.Exec(ctx, "INSERT INTO positions (title) VALUES ('Сотрудник') ON CONFLICT (title) DO NOTHING")
	if err != nil {
		return fmt.Errorf("не удалось вставить базовую должность: %w", err)
	}
	return nil
}
