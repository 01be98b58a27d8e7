package database_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fintrackapp/fintrack/internal/database"
	"github.com/fintrackapp/fintrack/models"
)

func TestCreateAndGetGoal(t *testing.T) {
	pool := connectTestDB(t)
	user := createTestUser(t, pool)

	goal := createTestGoal(t, pool, user.ID, 1000)
	if goal.Status != models.GoalActive {
		t.Errorf("новая цель должна быть active, получили %s", goal.Status)
	}

	fetched, err := database.GetGoalByID(pool, goal.ID, user.ID)
	if err != nil {
		t.Fatalf("ошибка получения цели: %v", err)
	}
	if fetched.Title != goal.Title || !fetched.TargetAmount.Equal(goal.TargetAmount) {
		t.Errorf("данные цели не совпадают: получили %+v, хотели %+v", fetched, goal)
	}

	// Чужая цель недоступна
	stranger := createTestUser(t, pool)
	if _, err := database.GetGoalByID(pool, goal.ID, stranger.ID); err == nil {
		t.Errorf("чужая цель не должна быть доступна")
	}
}

func TestUpdateCompletedGoalRejected(t *testing.T) {
	pool := connectTestDB(t)
	user := createTestUser(t, pool)
	goal := createTestGoal(t, pool, user.ID, 50)

	contribute(t, pool, user.ID, goal.ID, 50)

	// Обновление без смены статуса отклоняется
	title := "Новое название"
	if _, err := database.UpdateGoal(pool, goal.ID, user.ID, &models.GoalUpdate{Title: &title}); !errors.Is(err, database.ErrGoalCompleted) {
		t.Errorf("ожидали ErrGoalCompleted, получили %v", err)
	}

	// Перевод в abandoned разрешен
	status := models.GoalAbandoned
	updated, err := database.UpdateGoal(pool, goal.ID, user.ID, &models.GoalUpdate{Status: &status})
	if err != nil {
		t.Fatalf("перевод завершенной цели в abandoned должен быть разрешен: %v", err)
	}
	if updated.Status != models.GoalAbandoned {
		t.Errorf("статус: получили %s, хотели abandoned", updated.Status)
	}
}

func TestUpdateGoalCurrentAmountRecomputesStatus(t *testing.T) {
	pool := connectTestDB(t)
	user := createTestUser(t, pool)
	goal := createTestGoal(t, pool, user.ID, 100)

	current := decimal.NewFromInt(100)
	updated, err := database.UpdateGoal(pool, goal.ID, user.ID, &models.GoalUpdate{CurrentAmount: &current})
	if err != nil {
		t.Fatalf("ошибка обновления цели: %v", err)
	}
	if updated.Status != models.GoalCompleted {
		t.Errorf("статус при накоплениях равных цели: получили %s, хотели completed", updated.Status)
	}
}

func TestDeleteGoalRefundsAndRetypes(t *testing.T) {
	pool := connectTestDB(t)
	user := createTestUser(t, pool)
	goal := createTestGoal(t, pool, user.ID, 100)

	linked := contribute(t, pool, user.ID, goal.ID, 30)

	if err := database.DeleteGoal(pool, goal.ID, user.ID); err != nil {
		t.Fatalf("ошибка удаления цели: %v", err)
	}

	// Цели больше нет
	if _, err := database.GetGoalByID(pool, goal.ID, user.ID); err == nil {
		t.Errorf("цель все еще существует после удаления")
	}

	// Взнос отвязан и превращен в расход
	retyped, err := database.GetTransactionByID(pool, linked.ID, user.ID)
	if err != nil {
		t.Fatalf("ошибка получения транзакции: %v", err)
	}
	if retyped.GoalID != nil {
		t.Errorf("транзакция осталась привязанной к удаленной цели")
	}
	if retyped.Type != models.TransactionExpense {
		t.Errorf("тип после удаления цели: получили %s, хотели expense", retyped.Type)
	}

	// Накопления вернулись в бюджет транзакцией-возвратом
	transactions, err := database.GetTransactionsByUserID(pool, user.ID, database.TransactionFilter{Type: models.TransactionIncome})
	if err != nil {
		t.Fatalf("ошибка получения транзакций: %v", err)
	}
	found := false
	for _, transaction := range transactions {
		if strings.Contains(transaction.Description, goal.Title) && transaction.Amount.Equal(decimal.NewFromInt(30)) {
			found = true
		}
	}
	if !found {
		t.Errorf("транзакция-возврат на 30 не найдена")
	}
}

func TestDeleteCompletedGoalWithoutRefund(t *testing.T) {
	pool := connectTestDB(t)
	user := createTestUser(t, pool)
	goal := createTestGoal(t, pool, user.ID, 40)

	contribute(t, pool, user.ID, goal.ID, 40)

	if err := database.DeleteGoal(pool, goal.ID, user.ID); err != nil {
		t.Fatalf("ошибка удаления цели: %v", err)
	}

	transactions, err := database.GetTransactionsByUserID(pool, user.ID, database.TransactionFilter{Type: models.TransactionIncome})
	if err != nil {
		t.Fatalf("ошибка получения транзакций: %v", err)
	}
	for _, transaction := range transactions {
		if strings.Contains(transaction.Description, goal.Title) {
			t.Errorf("для завершенной цели не должно быть транзакции-возврата")
		}
	}
}

func TestGoalInvariantAfterMixedOperations(t *testing.T) {
	pool := connectTestDB(t)
	user := createTestUser(t, pool)
	goal := createTestGoal(t, pool, user.ID, 1000)

	first := contribute(t, pool, user.ID, goal.ID, 200)
	contribute(t, pool, user.ID, goal.ID, 300)
	withdrawal := &models.Transaction{
		UserID:      user.ID,
		Type:        models.TransactionWithdrawal,
		Amount:      decimal.NewFromInt(50),
		GoalID:      &goal.ID,
		Description: "Снятие с цели",
		Date:        time.Now(),
	}
	if err := database.CreateTransaction(pool, withdrawal); err != nil {
		t.Fatalf("ошибка создания снятия: %v", err)
	}

	// 200 + 300 - 50 = 450, затем удаление первого взноса: 250
	if err := database.DeleteTransaction(pool, first.ID, user.ID); err != nil {
		t.Fatalf("ошибка удаления транзакции: %v", err)
	}

	// Сумма вкладов живых транзакций должна совпадать с накоплениями
	remaining, err := database.GetTransactionsByUserID(pool, user.ID, database.TransactionFilter{})
	if err != nil {
		t.Fatalf("ошибка получения транзакций: %v", err)
	}
	expected := decimal.Zero
	for _, transaction := range remaining {
		if transaction.GoalID != nil && *transaction.GoalID == goal.ID {
			expected = expected.Add(models.GoalEffect(transaction.Type, transaction.Amount))
		}
	}

	current, err := database.GetGoalByID(pool, goal.ID, user.ID)
	if err != nil {
		t.Fatalf("ошибка получения цели: %v", err)
	}
	if !current.CurrentAmount.Equal(expected) {
		t.Errorf("инвариант нарушен: накопления %s, сумма вкладов %s", current.CurrentAmount, expected)
	}
	if !current.CurrentAmount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("накопления: получили %s, хотели 250", current.CurrentAmount)
	}
}

func TestGetGoalStats(t *testing.T) {
	pool := connectTestDB(t)
	user := createTestUser(t, pool)

	active := createTestGoal(t, pool, user.ID, 100)
	completed := createTestGoal(t, pool, user.ID, 50)
	contribute(t, pool, user.ID, active.ID, 10)
	contribute(t, pool, user.ID, completed.ID, 50)

	stats, err := database.GetGoalStats(pool, user.ID)
	if err != nil {
		t.Fatalf("ошибка получения статистики целей: %v", err)
	}

	byStatus := map[string]database.GoalStat{}
	for _, s := range stats {
		byStatus[s.Status] = s
	}

	if s, ok := byStatus[models.GoalActive]; !ok || s.Count != 1 || !s.TotalCurrent.Equal(decimal.NewFromInt(10)) {
		t.Errorf("статистика active неверна: %+v", s)
	}
	if s, ok := byStatus[models.GoalCompleted]; !ok || s.Count != 1 || !s.TotalCurrent.Equal(decimal.NewFromInt(50)) {
		t.Errorf("статистика completed неверна: %+v", s)
	}
}
