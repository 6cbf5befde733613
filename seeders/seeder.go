package seeders

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SeedBase создает якорную корневую команду и базовую должность — без них
// импорт из каталога и заведение сотрудников невозможны.
func SeedBase(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск наполнения базовых данных...")

	if err := seedAnchorTeam(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка создания якорной команды: %v", err)
	}
	if err := seedDefaultPosition(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка создания базовой должности: %v", err)
	}
	log.Println("✅ Наполнение базовых данных завершено!")
}

// SeedAdmin создает администратора портала.
func SeedAdmin(db *pgxpool.Pool) {
	ctx := context.Background()
	log.Println("▶️  Запуск создания администратора...")

	if err := seedAdminUser(ctx, db); err != nil {
		log.Fatalf("❌ Ошибка создания администратора: %v", err)
	}
	log.Println("✅ Создание администратора завершено!")
}
