package models_test

import (
	"encoding/json"
	"testing"

	"github.com/fintrackapp/fintrack/models"
	"github.com/shopspring/decimal"
)

func TestGoalEffectSigns(t *testing.T) {
	amount := decimal.NewFromInt(25)

	cases := []struct {
		txType string
		want   decimal.Decimal
	}{
		{models.TransactionIncome, amount},
		{models.TransactionContribution, amount},
		{models.TransactionExpense, amount.Neg()},
		{models.TransactionWithdrawal, amount.Neg()},
		{"unknown", decimal.Zero},
	}

	for _, tc := range cases {
		got := models.GoalEffect(tc.txType, amount)
		if !got.Equal(tc.want) {
			t.Errorf("вклад типа %s: получили %s, хотели %s", tc.txType, got, tc.want)
		}
	}
}

func TestNullableIntUnmarshal(t *testing.T) {
	var update models.TransactionUpdate

	// Поле отсутствует
	if err := json.Unmarshal([]byte(`{"amount": "10"}`), &update); err != nil {
		t.Fatalf("ошибка разбора JSON: %v", err)
	}
	if update.GoalID.Set {
		t.Errorf("goal_id отсутствует в запросе, но помечен как переданный")
	}

	// Поле равно null
	update = models.TransactionUpdate{}
	if err := json.Unmarshal([]byte(`{"goal_id": null}`), &update); err != nil {
		t.Fatalf("ошибка разбора JSON: %v", err)
	}
	if !update.GoalID.Set || update.GoalID.Valid {
		t.Errorf("goal_id=null должен быть передан и пуст: %+v", update.GoalID)
	}

	// Поле содержит значение
	update = models.TransactionUpdate{}
	if err := json.Unmarshal([]byte(`{"goal_id": 7}`), &update); err != nil {
		t.Fatalf("ошибка разбора JSON: %v", err)
	}
	if !update.GoalID.Set || !update.GoalID.Valid || update.GoalID.Value != 7 {
		t.Errorf("goal_id=7 разобран неверно: %+v", update.GoalID)
	}
}

func TestTransactionUpdateApply(t *testing.T) {
	goalID := 3
	transaction := models.Transaction{
		Type:        models.TransactionContribution,
		Amount:      decimal.NewFromInt(100),
		Description: "Взнос на отпуск",
		GoalID:      &goalID,
	}

	newAmount := decimal.NewFromInt(40)
	update := models.TransactionUpdate{Amount: &newAmount}
	update.Apply(&transaction)

	if !transaction.Amount.Equal(newAmount) {
		t.Errorf("сумма не обновилась: получили %s", transaction.Amount)
	}
	if transaction.GoalID == nil || *transaction.GoalID != goalID {
		t.Errorf("привязка к цели не должна была измениться: %+v", transaction.GoalID)
	}
	if transaction.Type != models.TransactionContribution {
		t.Errorf("тип не должен был измениться: %s", transaction.Type)
	}

	// Отвязка от цели явным null
	update = models.TransactionUpdate{}
	if err := json.Unmarshal([]byte(`{"goal_id": null, "type": "expense"}`), &update); err != nil {
		t.Fatalf("ошибка разбора JSON: %v", err)
	}
	update.Apply(&transaction)

	if transaction.GoalID != nil {
		t.Errorf("goal_id=null должен отвязывать транзакцию от цели")
	}
	if transaction.Type != models.TransactionExpense {
		t.Errorf("тип после обновления: получили %s, хотели expense", transaction.Type)
	}
}
