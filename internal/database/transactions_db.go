package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fintrackapp/fintrack/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// applyGoalDelta атомарно прибавляет знаковый вклад к накоплениям цели и
// пересчитывает статус: completed при достижении цели, откат к active при
// падении ниже. Статус abandoned не трогаем. Инкремент выполняется прямо в
// SQL, чтобы параллельные запросы не теряли обновления друг друга.
// Несуществующая или чужая цель молча пропускается.
func applyGoalDelta(pool *pgxpool.Pool, goalID, userID int, delta decimal.Decimal) error {
	query := `
		UPDATE goals
		SET current_amount = current_amount + $1,
		    status = CASE
		        WHEN status = 'abandoned' THEN status
		        WHEN current_amount + $1 >= target_amount THEN 'completed'
		        WHEN status = 'completed' THEN 'active'
		        ELSE status
		    END
		WHERE id = $2 AND user_id = $3`
	result, err := pool.Exec(context.Background(), query, delta, goalID, userID)
	if err != nil {
		return fmt.Errorf("ошибка обновления накоплений цели: %v", err)
	}
	if result.RowsAffected() == 0 {
		log.Printf("цель %d не найдена или не принадлежит пользователю %d, накопления не обновлены", goalID, userID)
	}
	return nil
}

// revertGoalDelta откатывает ранее учтенный вклад. При откате статус только
// понижается: completed -> active при падении ниже цели.
func revertGoalDelta(pool *pgxpool.Pool, goalID, userID int, delta decimal.Decimal) error {
	query := `
		UPDATE goals
		SET current_amount = current_amount - $1,
		    status = CASE
		        WHEN status = 'completed' AND current_amount - $1 < target_amount THEN 'active'
		        ELSE status
		    END
		WHERE id = $2 AND user_id = $3`
	result, err := pool.Exec(context.Background(), query, delta, goalID, userID)
	if err != nil {
		return fmt.Errorf("ошибка отката накоплений цели: %v", err)
	}
	if result.RowsAffected() == 0 {
		log.Printf("цель %d не найдена или не принадлежит пользователю %d, откат не выполнен", goalID, userID)
	}
	return nil
}

// CreateTransaction добавляет транзакцию и, если указана цель, учитывает
// ее вклад в накоплениях этой цели
func CreateTransaction(pool *pgxpool.Pool, transaction *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, type, amount, goal_id, description, transaction_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := pool.QueryRow(context.Background(), query,
		transaction.UserID,
		transaction.Type,
		transaction.Amount,
		transaction.GoalID,
		transaction.Description,
		transaction.Date).Scan(&transaction.ID, &transaction.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении транзакции: %v", err)
	}

	if transaction.GoalID != nil {
		effect := models.GoalEffect(transaction.Type, transaction.Amount)
		if err := applyGoalDelta(pool, *transaction.GoalID, transaction.UserID, effect); err != nil {
			return err
		}
	}
	return nil
}

// GetTransactionByID извлекает транзакцию пользователя по ID
func GetTransactionByID(pool *pgxpool.Pool, transactionID, userID int) (*models.Transaction, error) {
	query := `
		SELECT id, user_id, type, amount, goal_id, description, transaction_date, created_at
		FROM transactions
		WHERE id = $1 AND user_id = $2`

	transaction := &models.Transaction{}
	err := pool.QueryRow(context.Background(), query, transactionID, userID).Scan(
		&transaction.ID,
		&transaction.UserID,
		&transaction.Type,
		&transaction.Amount,
		&transaction.GoalID,
		&transaction.Description,
		&transaction.Date,
		&transaction.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("транзакция с ID %d не найдена: %w", transactionID, err)
		}
		return nil, fmt.Errorf("ошибка при получении транзакции: %v", err)
	}

	return transaction, nil
}

// TransactionFilter описывает параметры выборки транзакций
type TransactionFilter struct {
	Type      string
	StartDate *time.Time
	EndDate   *time.Time
	Sort      string
}

// GetTransactionsByUserID извлекает транзакции пользователя с фильтрами
// по типу и периоду и сортировкой по дате или сумме
func GetTransactionsByUserID(pool *pgxpool.Pool, userID int, filter TransactionFilter) ([]models.Transaction, error) {
	query := `
		SELECT id, user_id, type, amount, goal_id, description, transaction_date, created_at
		FROM transactions
		WHERE user_id = $1`
	args := []interface{}{userID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND transaction_date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND transaction_date <= $%d", len(args))
	}

	// Сортировка только по известным столбцам
	switch filter.Sort {
	case "date":
		query += " ORDER BY transaction_date ASC"
	case "amount":
		query += " ORDER BY amount ASC"
	case "-amount":
		query += " ORDER BY amount DESC"
	default:
		query += " ORDER BY transaction_date DESC"
	}

	rows, err := pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении транзакций: %v", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.GoalID, &t.Description, &t.Date, &t.CreatedAt); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}

	return transactions, nil
}

// UpdateTransaction применяет команду обновления к транзакции и согласует
// накопления затронутых целей. Возможны четыре случая: отвязка от цели,
// привязка к цели, изменение в рамках одной цели и перенос на другую цель.
func UpdateTransaction(pool *pgxpool.Pool, transactionID, userID int, update *models.TransactionUpdate) (*models.Transaction, error) {
	old, err := GetTransactionByID(pool, transactionID, userID)
	if err != nil {
		return nil, err
	}

	oldType := old.Type
	oldAmount := old.Amount
	oldGoalID := old.GoalID

	updated := *old
	update.Apply(&updated)

	query := `
		UPDATE transactions
		SET type = $1, amount = $2, goal_id = $3, description = $4, transaction_date = $5
		WHERE id = $6 AND user_id = $7`
	_, err = pool.Exec(context.Background(), query,
		updated.Type,
		updated.Amount,
		updated.GoalID,
		updated.Description,
		updated.Date,
		updated.ID,
		userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка обновления транзакции: %v", err)
	}

	oldEffect := models.GoalEffect(oldType, oldAmount)
	newEffect := models.GoalEffect(updated.Type, updated.Amount)

	switch {
	case oldGoalID != nil && updated.GoalID == nil:
		// Транзакцию отвязали от цели, откатываем старый вклад
		if err := revertGoalDelta(pool, *oldGoalID, userID, oldEffect); err != nil {
			return nil, err
		}
	case oldGoalID == nil && updated.GoalID != nil:
		// Транзакцию привязали к цели, учитываем новый вклад
		if err := applyGoalDelta(pool, *updated.GoalID, userID, newEffect); err != nil {
			return nil, err
		}
	case oldGoalID != nil && updated.GoalID != nil && *oldGoalID == *updated.GoalID:
		// Та же цель: откат старого и учет нового вклада одним инкрементом
		if err := applyGoalDelta(pool, *updated.GoalID, userID, newEffect.Sub(oldEffect)); err != nil {
			return nil, err
		}
	case oldGoalID != nil && updated.GoalID != nil:
		// Перенос на другую цель
		if err := revertGoalDelta(pool, *oldGoalID, userID, oldEffect); err != nil {
			return nil, err
		}
		if err := applyGoalDelta(pool, *updated.GoalID, userID, newEffect); err != nil {
			return nil, err
		}
	}

	return &updated, nil
}

// DeleteTransaction удаляет транзакцию и откатывает ее вклад в цель
func DeleteTransaction(pool *pgxpool.Pool, transactionID, userID int) error {
	query := `
		DELETE FROM transactions
		WHERE id = $1 AND user_id = $2
		RETURNING type, amount, goal_id`

	var txType string
	var amount decimal.Decimal
	var goalID *int
	err := pool.QueryRow(context.Background(), query, transactionID, userID).Scan(&txType, &amount, &goalID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("транзакция с ID %d не найдена: %w", transactionID, err)
		}
		return fmt.Errorf("ошибка удаления транзакции: %v", err)
	}

	if goalID != nil {
		if err := revertGoalDelta(pool, *goalID, userID, models.GoalEffect(txType, amount)); err != nil {
			return err
		}
	}
	return nil
}

// TransactionStat агрегирует транзакции по типу
type TransactionStat struct {
	Type  string          `json:"type"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// GetTransactionStats возвращает суммы и количество транзакций по типам
// по всем пользователям (доступно только администратору)
func GetTransactionStats(pool *pgxpool.Pool) ([]TransactionStat, error) {
	query := `
		SELECT type, COALESCE(SUM(amount), 0), COUNT(*)
		FROM transactions
		GROUP BY type
		ORDER BY type`
	rows, err := pool.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения статистики транзакций: %v", err)
	}
	defer rows.Close()

	var stats []TransactionStat
	for rows.Next() {
		var s TransactionStat
		if err := rows.Scan(&s.Type, &s.Total, &s.Count); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, nil
}
