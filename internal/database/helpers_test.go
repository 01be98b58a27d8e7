package database_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/fintrackapp/fintrack/internal/database"
	"github.com/fintrackapp/fintrack/models"
)

func connectTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if err := godotenv.Load("../../.env"); err != nil {
		t.Logf("файл .env не найден: %v", err)
	}
	pool, err := database.ConnectPool()
	if err != nil {
		t.Fatalf("ошибка подключения к БД: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func createTestUser(t *testing.T, pool *pgxpool.Pool) *models.User {
	t.Helper()
	user := &models.User{
		Name:     "Test User",
		Email:    fmt.Sprintf("test.user.%d@example.com", time.Now().UnixNano()),
		Password: "secret123",
	}
	if err := database.RegisterUser(pool, user); err != nil {
		t.Fatalf("ошибка создания пользователя: %v", err)
	}
	return user
}

func createTestGoal(t *testing.T, pool *pgxpool.Pool, userID int, target int64) *models.Goal {
	t.Helper()
	goal := &models.Goal{
		UserID:       userID,
		Title:        "Тестовая цель",
		TargetAmount: decimal.NewFromInt(target),
		Deadline:     time.Now().AddDate(0, 6, 0),
	}
	if err := database.CreateGoal(pool, goal); err != nil {
		t.Fatalf("ошибка создания цели: %v", err)
	}
	return goal
}

func contribute(t *testing.T, pool *pgxpool.Pool, userID, goalID int, amount int64) *models.Transaction {
	t.Helper()
	transaction := &models.Transaction{
		UserID:      userID,
		Type:        models.TransactionContribution,
		Amount:      decimal.NewFromInt(amount),
		GoalID:      &goalID,
		Description: "Взнос на цель",
		Date:        time.Now(),
	}
	if err := database.CreateTransaction(pool, transaction); err != nil {
		t.Fatalf("ошибка создания транзакции: %v", err)
	}
	return transaction
}
