package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/fintrackapp/fintrack/internal/database"
	"github.com/fintrackapp/fintrack/models"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CreateGoalHandler создает новую цель
func CreateGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var goal models.Goal
		if err := c.ShouldBindJSON(&goal); err != nil {
			log.Printf("Ошибка привязки JSON: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}

		goal.UserID = CurrentUser(c).ID

		if goal.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Не указано название цели"})
			return
		}
		if goal.TargetAmount.LessThan(decimal.Zero) || goal.CurrentAmount.LessThan(decimal.Zero) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Сумма не может быть отрицательной"})
			return
		}
		if goal.Deadline.IsZero() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Не указан срок цели"})
			return
		}

		if err := database.CreateGoal(pool, &goal); err != nil {
			log.Printf("Ошибка при создании цели: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при создании цели"})
			return
		}
		c.JSON(http.StatusCreated, goal)
	}
}

// GetGoalHandler извлекает цель по ID
func GetGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор цели"})
			return
		}

		goal, err := database.GetGoalByID(pool, id, CurrentUser(c).ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Цель не найдена"})
				return
			}
			log.Printf("Ошибка получения цели: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении цели"})
			return
		}
		c.JSON(http.StatusOK, goal)
	}
}

// GetAllGoalsHandler извлекает цели пользователя, опционально по статусу
func GetAllGoalsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		goals, err := database.GetAllGoals(pool, CurrentUser(c).ID, c.Query("status"))
		if err != nil {
			log.Printf("Ошибка получения целей: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при получении списка целей"})
			return
		}
		c.JSON(http.StatusOK, goals)
	}
}

// UpdateGoalHandler обновляет цель. Завершенную цель можно менять только
// запросом, уводящим статус из completed.
func UpdateGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор цели"})
			return
		}

		var update models.GoalUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}

		if update.TargetAmount != nil && update.TargetAmount.LessThan(decimal.Zero) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Сумма не может быть отрицательной"})
			return
		}
		if update.Status != nil {
			switch *update.Status {
			case models.GoalActive, models.GoalCompleted, models.GoalAbandoned:
			default:
				c.JSON(http.StatusBadRequest, gin.H{"error": "Неизвестный статус цели"})
				return
			}
		}

		goal, err := database.UpdateGoal(pool, id, CurrentUser(c).ID, &update)
		if err != nil {
			switch {
			case errors.Is(err, pgx.ErrNoRows):
				c.JSON(http.StatusNotFound, gin.H{"error": "Цель не найдена"})
			case errors.Is(err, database.ErrGoalCompleted):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Нельзя изменить завершенную цель"})
			default:
				log.Printf("Ошибка обновления цели: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при обновлении цели"})
			}
			return
		}
		c.JSON(http.StatusOK, goal)
	}
}

// DeleteGoalHandler удаляет цель: незавершенная цель возвращает накопления
// в общий бюджет, все транзакции цели отвязываются и меняют тип
func DeleteGoalHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный идентификатор цели"})
			return
		}

		if err := database.DeleteGoal(pool, id, CurrentUser(c).ID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Цель не найдена"})
				return
			}
			log.Printf("Ошибка удаления цели: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка при удалении цели"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Цель успешно удалена"})
	}
}

// GoalStatsHandler возвращает статистику целей пользователя по статусам
func GoalStatsHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := database.GetGoalStats(pool, CurrentUser(c).ID)
		if err != nil {
			log.Printf("Ошибка получения статистики целей: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения статистики"})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
