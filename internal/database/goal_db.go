package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fintrackapp/fintrack/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CreateGoal добавляет новую цель в базу данных
func CreateGoal(pool *pgxpool.Pool, goal *models.Goal) error {
	if goal.Status == "" {
		goal.Status = models.GoalActive
	}
	query := `
		INSERT INTO goals (user_id, title, target_amount, current_amount, deadline, description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`
	err := pool.QueryRow(context.Background(), query,
		goal.UserID,
		goal.Title,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.Deadline,
		goal.Description,
		goal.Status).Scan(&goal.ID, &goal.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении цели: %v", err)
	}
	return nil
}

// GetGoalByID извлекает цель пользователя по ID
func GetGoalByID(pool *pgxpool.Pool, goalID, userID int) (*models.Goal, error) {
	query := `
		SELECT id, user_id, title, target_amount, current_amount, deadline, description, status, created_at
		FROM goals
		WHERE id = $1 AND user_id = $2`

	goal := &models.Goal{}
	err := pool.QueryRow(context.Background(), query, goalID, userID).Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Title,
		&goal.TargetAmount,
		&goal.CurrentAmount,
		&goal.Deadline,
		&goal.Description,
		&goal.Status,
		&goal.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("цель с ID %d не найдена: %w", goalID, err)
		}
		return nil, fmt.Errorf("ошибка при получении цели: %v", err)
	}
	return goal, nil
}

// GetAllGoals извлекает цели пользователя, при необходимости по статусу
func GetAllGoals(pool *pgxpool.Pool, userID int, status string) ([]models.Goal, error) {
	query := `
		SELECT id, user_id, title, target_amount, current_amount, deadline, description, status, created_at
		FROM goals
		WHERE user_id = $1`
	args := []interface{}{userID}

	if status != "" {
		args = append(args, status)
		query += " AND status = $2"
	}
	query += " ORDER BY created_at DESC"

	rows, err := pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении целей: %v", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		var goal models.Goal
		if err := rows.Scan(&goal.ID, &goal.UserID, &goal.Title, &goal.TargetAmount, &goal.CurrentAmount,
			&goal.Deadline, &goal.Description, &goal.Status, &goal.CreatedAt); err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}

	return goals, nil
}

// UpdateGoal применяет команду обновления к цели. Завершенную цель можно
// менять только запросом, который уводит статус из completed.
func UpdateGoal(pool *pgxpool.Pool, goalID, userID int, update *models.GoalUpdate) (*models.Goal, error) {
	goal, err := GetGoalByID(pool, goalID, userID)
	if err != nil {
		return nil, err
	}

	if goal.Status == models.GoalCompleted && (update.Status == nil || *update.Status == models.GoalCompleted) {
		return nil, ErrGoalCompleted
	}

	update.Apply(goal)
	if update.CurrentAmount != nil {
		goal.RecomputeStatus()
	}

	query := `
		UPDATE goals
		SET title = $1, target_amount = $2, current_amount = $3, deadline = $4, description = $5, status = $6
		WHERE id = $7 AND user_id = $8`
	_, err = pool.Exec(context.Background(), query,
		goal.Title,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.Deadline,
		goal.Description,
		goal.Status,
		goal.ID,
		userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления цели: %v", err)
	}
	return goal, nil
}

// DeleteGoal удаляет цель. Для незавершенной цели накопления возвращаются
// в общий бюджет транзакцией-возвратом, затем все транзакции цели
// отвязываются и меняют тип: goal_contribution -> expense,
// goal_withdrawal -> income. Отката при частичном сбое нет, ошибка
// возвращается как есть.
func DeleteGoal(pool *pgxpool.Pool, goalID, userID int) error {
	goal, err := GetGoalByID(pool, goalID, userID)
	if err != nil {
		return err
	}

	if goal.Status != models.GoalCompleted {
		refund := &models.Transaction{
			UserID:      userID,
			Type:        models.TransactionIncome,
			Amount:      goal.CurrentAmount,
			Description: fmt.Sprintf("Возврат средств из удаленной цели: %s", goal.Title),
			Date:        time.Now(),
		}
		if err := CreateTransaction(pool, refund); err != nil {
			return fmt.Errorf("ошибка создания транзакции-возврата: %v", err)
		}
	}

	query := `
		UPDATE transactions
		SET goal_id = NULL,
		    type = CASE type
		        WHEN 'goal_contribution' THEN 'expense'
		        WHEN 'goal_withdrawal' THEN 'income'
		        ELSE type
		    END
		WHERE goal_id = $1 AND user_id = $2`
	if _, err := pool.Exec(context.Background(), query, goalID, userID); err != nil {
		return fmt.Errorf("ошибка отвязки транзакций от цели: %v", err)
	}

	result, err := pool.Exec(context.Background(), `DELETE FROM goals WHERE id = $1 AND user_id = $2`, goalID, userID)
	if err != nil {
		return fmt.Errorf("ошибка удаления цели: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("цель с ID %d не найдена", goalID)
	}
	return nil
}

// GoalStat агрегирует цели пользователя по статусу
type GoalStat struct {
	Status       string          `json:"status"`
	Count        int             `json:"count"`
	TotalTarget  decimal.Decimal `json:"total_target"`
	TotalCurrent decimal.Decimal `json:"total_current"`
}

// GetGoalStats возвращает количество целей и суммы по статусам
func GetGoalStats(pool *pgxpool.Pool, userID int) ([]GoalStat, error) {
	query := `
		SELECT status, COUNT(*), COALESCE(SUM(target_amount), 0), COALESCE(SUM(current_amount), 0)
		FROM goals
		WHERE user_id = $1
		GROUP BY status
		ORDER BY status`
	rows, err := pool.Query(context.Background(), query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статистики целей: %v", err)
	}
	defer rows.Close()

	var stats []GoalStat
	for rows.Next() {
		var s GoalStat
		if err := rows.Scan(&s.Status, &s.Count, &s.TotalTarget, &s.TotalCurrent); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, nil
}

// CountOverdueGoals считает активные цели с истекшим сроком
func CountOverdueGoals(pool *pgxpool.Pool) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM goals WHERE status = 'active' AND deadline < CURRENT_DATE`
	if err := pool.QueryRow(context.Background(), query).Scan(&count); err != nil {
		return 0, fmt.Errorf("ошибка подсчета просроченных целей: %v", err)
	}
	return count, nil
}
