package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Типы транзакций
const (
	TransactionIncome       = "income"
	TransactionExpense      = "expense"
	TransactionContribution = "goal_contribution"
	TransactionWithdrawal   = "goal_withdrawal"
)

type Transaction struct {
	ID          int             `json:"id" db:"id"`
	UserID      int             `json:"user_id" db:"user_id"`
	Type        string          `json:"type" db:"type"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	GoalID      *int            `json:"goal_id,omitempty" db:"goal_id"` // Привязка к цели
	Description string          `json:"description" db:"description"`
	Date        time.Time       `json:"date" db:"date"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// ValidTransactionType проверяет, что тип транзакции из списка допустимых
func ValidTransactionType(t string) bool {
	switch t {
	case TransactionIncome, TransactionExpense, TransactionContribution, TransactionWithdrawal:
		return true
	}
	return false
}

// GoalEffect возвращает знаковый вклад транзакции в накопления цели:
// income и goal_contribution увеличивают current_amount, expense и
// goal_withdrawal уменьшают.
func GoalEffect(txType string, amount decimal.Decimal) decimal.Decimal {
	switch txType {
	case TransactionIncome, TransactionContribution:
		return amount
	case TransactionExpense, TransactionWithdrawal:
		return amount.Neg()
	}
	return decimal.Zero
}

// NullableInt различает три состояния поля в JSON-запросе:
// поле отсутствует, поле равно null, поле содержит значение.
type NullableInt struct {
	Set   bool
	Valid bool
	Value int
}

func (n *NullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Valid = false
		return nil
	}
	if err := json.Unmarshal(data, &n.Value); err != nil {
		return fmt.Errorf("некорректное значение идентификатора: %w", err)
	}
	n.Valid = true
	return nil
}

// TransactionUpdate перечисляет изменяемые поля транзакции.
// Поля-указатели со значением nil не трогаются при обновлении.
type TransactionUpdate struct {
	Type        *string          `json:"type"`
	Amount      *decimal.Decimal `json:"amount"`
	Description *string          `json:"description"`
	Date        *time.Time       `json:"date"`
	GoalID      NullableInt      `json:"goal_id"`
}

// Apply накладывает команду обновления на существующую транзакцию
func (u *TransactionUpdate) Apply(t *Transaction) {
	if u.Type != nil {
		t.Type = *u.Type
	}
	if u.Amount != nil {
		t.Amount = *u.Amount
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Date != nil {
		t.Date = *u.Date
	}
	if u.GoalID.Set {
		if u.GoalID.Valid {
			id := u.GoalID.Value
			t.GoalID = &id
		} else {
			t.GoalID = nil
		}
	}
}
