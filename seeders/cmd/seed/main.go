package main

import (
	"flag"
	"log"

	"staff-portal/pkg/config"
	"staff-portal/pkg/database/postgresql"
	"staff-portal/seeders"
)

func main() {
	log.Println("======================================================")
	log.Println("       🌱 СИСТЕМА СИДЕРОВ (Наполнение БД)           ")
	log.Println("======================================================")

	runBase := flag.Bool("base", false, "Создать якорную команду и базовую должность")
	runAdmin := flag.Bool("admin", false, "Создать администратора портала")
	runAll := flag.Bool("all", false, "Запустить все сидеры (эквивалентно -base -admin)")

	flag.Parse()

	if !*runBase && !*runAdmin && !*runAll {
		log.Println("❌ Не выбран ни один сидер для запуска.")
		log.Println("")
		log.Println("Доступные флаги:")
		flag.PrintDefaults()
		log.Println("")
		log.Println("Примеры использования:")
		log.Println("  go run ./seeders/cmd/seed/main.go -base")
		log.Println("  go run ./seeders/cmd/seed/main.go -all")
		log.Println("======================================================")
		return
	}

	cfg := config.New()
	log.Println("📦 Используется DSN:", cfg.Postgres.DSN)
	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	log.Println("======================================================")

	if *runAll || *runBase {
		seeders.SeedBase(dbPool)
		log.Println("======================================================")
	}

	if *runAll || *runAdmin {
		// Администратор живет в якорной команде, поэтому идет после -base.
		seeders.SeedAdmin(dbPool)
		log.Println("======================================================")
	}

	log.Println("✅ Все указанные операции сидирования успешно завершены.")
	log.Println("======================================================")
}
