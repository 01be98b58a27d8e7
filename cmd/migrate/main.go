package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/joho/godotenv"
)

// Применяет миграции из каталога migrations к базе из переменных окружения
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Файл .env не найден, используются переменные окружения")
	}

	host := os.Getenv("DB_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}

	databaseURL := fmt.Sprintf("pgx5://%s:%s@%s:%s/%s",
		os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), host, port, os.Getenv("DB_NAME"))

	m, err := migrate.New("file://migrations", databaseURL)
	if err != nil {
		log.Fatalf("Ошибка инициализации миграций: %v", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("Миграции не требуются, схема актуальна")
			return
		}
		log.Fatalf("Ошибка применения миграций: %v", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		log.Fatalf("Ошибка получения версии схемы: %v", err)
	}
	log.Printf("Миграции применены, версия схемы: %d (dirty: %v)", version, dirty)
}
