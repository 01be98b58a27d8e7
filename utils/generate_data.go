package utils

import (
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/fintrackapp/fintrack/internal/database"
	"github.com/fintrackapp/fintrack/models"
)

// GenerateTestUsers создает тестовых пользователей
func GenerateTestUsers(pool *pgxpool.Pool, numUsers int) []int {
	ids := make([]int, 0, numUsers)
	for i := 0; i < numUsers; i++ {
		user := &models.User{
			Name:     gofakeit.Name(),
			Email:    gofakeit.Email(),
			Password: gofakeit.Password(true, true, true, false, false, 8), // Генерация случайного пароля
		}
		if err := database.RegisterUser(pool, user); err != nil {
			log.Fatalf("ошибка при добавлении пользователя: %v", err)
		}
		ids = append(ids, user.ID)
	}
	return ids
}

// GenerateTestGoals создает тестовые цели для переданных пользователей
func GenerateTestGoals(pool *pgxpool.Pool, userIDs []int, numGoals int) []int {
	ids := make([]int, 0, numGoals)
	for i := 0; i < numGoals; i++ {
		goal := &models.Goal{
			UserID:       userIDs[rand.Intn(len(userIDs))],
			Title:        gofakeit.BuzzWord(),
			TargetAmount: decimal.NewFromFloat(gofakeit.Price(100, 10000)),
			Deadline:     time.Now().AddDate(0, rand.Intn(12)+1, 0),
			Description:  gofakeit.Sentence(6),
		}
		if err := database.CreateGoal(pool, goal); err != nil {
			log.Fatalf("ошибка при добавлении цели: %v", err)
		}
		ids = append(ids, goal.ID)
	}
	return ids
}

// GenerateTestTransactions создает тестовые транзакции. Часть транзакций
// привязывается к целям пользователя, накопления пересчитываются как при
// обычном создании.
func GenerateTestTransactions(pool *pgxpool.Pool, userIDs []int, numTransactions int) {
	for i := 0; i < numTransactions; i++ {
		userID := userIDs[rand.Intn(len(userIDs))]
		transaction := &models.Transaction{
			UserID:      userID,
			Type:        randomTransactionType(),
			Amount:      decimal.NewFromFloat(gofakeit.Price(1, 1000)), // Генерация случайной суммы
			Description: gofakeit.Sentence(4),
			Date:        gofakeit.DateRange(time.Now().AddDate(0, -6, 0), time.Now()),
		}

		if transaction.Type == models.TransactionContribution || transaction.Type == models.TransactionWithdrawal {
			goals, err := database.GetAllGoals(pool, userID, models.GoalActive)
			if err != nil {
				log.Fatalf("ошибка при получении целей: %v", err)
			}
			if len(goals) == 0 {
				transaction.Type = models.TransactionExpense
			} else {
				goalID := goals[rand.Intn(len(goals))].ID
				transaction.GoalID = &goalID
			}
		}

		if err := database.CreateTransaction(pool, transaction); err != nil {
			log.Fatalf("ошибка при добавлении транзакции: %v", err)
		}
	}
}

func randomTransactionType() string {
	switch rand.Intn(4) {
	case 0:
		return models.TransactionIncome
	case 1:
		return models.TransactionExpense
	case 2:
		return models.TransactionContribution
	default:
		return models.TransactionWithdrawal
	}
}
