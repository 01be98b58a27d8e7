package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы цели
const (
	GoalActive    = "active"
	GoalCompleted = "completed"
	GoalAbandoned = "abandoned"
)

type Goal struct {
	ID            int             `json:"id" db:"id"`
	UserID        int             `json:"user_id" db:"user_id"`
	Title         string          `json:"title" db:"title"`
	TargetAmount  decimal.Decimal `json:"target_amount" db:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount" db:"current_amount"`
	Deadline      time.Time       `json:"deadline" db:"deadline"`
	Description   string          `json:"description" db:"description"`
	Status        string          `json:"status" db:"status"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

func (g *Goal) RemainingAmount() decimal.Decimal {
	return g.TargetAmount.Sub(g.CurrentAmount)
}

// ApplyEffect добавляет знаковый вклад транзакции к накоплениям цели
// и пересчитывает статус. Статус abandoned не меняется автоматически.
func (g *Goal) ApplyEffect(txType string, amount decimal.Decimal) {
	g.CurrentAmount = g.CurrentAmount.Add(GoalEffect(txType, amount))
	g.RecomputeStatus()
}

// ReverseEffect откатывает ранее учтенный вклад транзакции. При откате
// статус только понижается: completed -> active при падении ниже цели.
func (g *Goal) ReverseEffect(txType string, amount decimal.Decimal) {
	g.CurrentAmount = g.CurrentAmount.Sub(GoalEffect(txType, amount))
	if g.Status == GoalCompleted && g.CurrentAmount.LessThan(g.TargetAmount) {
		g.Status = GoalActive
	}
}

// RecomputeStatus выставляет completed при достижении цели и возвращает
// active, если накопления упали ниже цели после completed
func (g *Goal) RecomputeStatus() {
	if g.Status == GoalAbandoned {
		return
	}
	if g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		g.Status = GoalCompleted
	} else if g.Status == GoalCompleted {
		g.Status = GoalActive
	}
}

// GoalUpdate перечисляет изменяемые поля цели
type GoalUpdate struct {
	Title         *string          `json:"title"`
	TargetAmount  *decimal.Decimal `json:"target_amount"`
	CurrentAmount *decimal.Decimal `json:"current_amount"`
	Deadline      *time.Time       `json:"deadline"`
	Description   *string          `json:"description"`
	Status        *string          `json:"status"`
}

// Apply накладывает команду обновления на существующую цель
func (u *GoalUpdate) Apply(g *Goal) {
	if u.Title != nil {
		g.Title = *u.Title
	}
	if u.TargetAmount != nil {
		g.TargetAmount = *u.TargetAmount
	}
	if u.CurrentAmount != nil {
		g.CurrentAmount = *u.CurrentAmount
	}
	if u.Deadline != nil {
		g.Deadline = *u.Deadline
	}
	if u.Description != nil {
		g.Description = *u.Description
	}
	if u.Status != nil {
		g.Status = *u.Status
	}
}
