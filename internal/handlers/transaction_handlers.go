package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/fintrackapp/fintrack/internal/database"
	"github.com/fintrackapp/fintrack/models"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CreateTransactionHandler создает транзакцию текущего пользователя.
// Привязанная цель пересчитывается внутри database.CreateTransaction.
func CreateTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var transaction models.Transaction
		if err := c.ShouldBindJSON(&transaction); err != nil {
			log.Printf("Ошибка привязки JSON: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод", "details": err.Error()})
			return
		}

		transaction.UserID = CurrentUser(c).ID

		if !models.ValidTransactionType(transaction.Type) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неизвестный тип транзакции"})
			return
		}
		if transaction.Amount.LessThan(decimal.Zero) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Сумма не может быть отрицательной"})
			return
		}
		if transaction.Description == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Не указано описание транзакции"})
			return
		}
		if transaction.Date.IsZero() {
			transaction.Date = time.Now()
		}

		if err := database.CreateTransaction(pool, &transaction); err != nil {
			log.Printf("Ошибка при создании транзакции: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка создания транзакции"})
			return
		}
		c.JSON(http.StatusCreated, transaction)
	}
}

// GetTransactionsHandler возвращает транзакции пользователя с фильтрами
// type, startDate, endDate и сортировкой sort
func GetTransactionsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := database.TransactionFilter{
			Type: c.Query("type"),
			Sort: c.Query("sort"),
		}

		if v := c.Query("startDate"); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректная дата начала периода"})
				return
			}
			filter.StartDate = &t
		}
		if v := c.Query("endDate"); v != "" {
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректная дата конца периода"})
				return
			}
			filter.EndDate = &t
		}

		transactions, err := database.GetTransactionsByUserID(pool, CurrentUser(c).ID, filter)
		if err != nil {
			log.Printf("Ошибка получения транзакций: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения транзакций"})
			return
		}
		c.JSON(http.StatusOK, transactions)
	}
}

// UpdateTransactionHandler обновляет транзакцию, согласуя накопления целей
func UpdateTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор транзакции"})
			return
		}

		var update models.TransactionUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод"})
			return
		}

		if update.Type != nil && !models.ValidTransactionType(*update.Type) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Неизвестный тип транзакции"})
			return
		}
		if update.Amount != nil && update.Amount.LessThan(decimal.Zero) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Сумма не может быть отрицательной"})
			return
		}

		transaction, err := database.UpdateTransaction(pool, id, CurrentUser(c).ID, &update)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Транзакция не найдена"})
				return
			}
			log.Printf("Ошибка обновления транзакции: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка обновления транзакции"})
			return
		}
		c.JSON(http.StatusOK, transaction)
	}
}

// DeleteTransactionHandler удаляет транзакцию и откатывает вклад в цель
func DeleteTransactionHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор транзакции"})
			return
		}

		if err := database.DeleteTransaction(pool, id, CurrentUser(c).ID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Транзакция не найдена"})
				return
			}
			log.Printf("Ошибка удаления транзакции: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка удаления транзакции"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Транзакция успешно удалена"})
	}
}

// TransactionStatsHandler возвращает статистику транзакций по типам,
// доступна только администратору
func TransactionStatsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := database.GetTransactionStats(pool)
		if err != nil {
			log.Printf("Ошибка получения статистики транзакций: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения статистики"})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// TransactionSummaryHandler возвращает сводку по бюджету пользователя:
// общий баланс, доходы и расходы, расходы по месяцам
func TransactionSummaryHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUser(c).ID

		balance, err := database.GetTotalBalance(pool, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		summary, err := database.GetIncomeExpenseSummary(pool, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		monthly, err := database.GetMonthlyExpenses(pool, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"total_balance":    balance,
			"total_income":     summary["total_income"],
			"total_expense":    summary["total_expense"],
			"monthly_expenses": monthly,
		})
	}
}
