package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/fintrackapp/fintrack/internal/database"
	"github.com/fintrackapp/fintrack/internal/handlers"
)

// ScheduleSessionCleanup раз в сутки удаляет просроченные токены
func ScheduleSessionCleanup(pool *pgxpool.Pool) {
	c := cron.New()
	_, err := c.AddFunc("@daily", func() {
		deleted, err := database.DeleteExpiredSessions(pool)
		if err != nil {
			log.Printf("Ошибка удаления просроченных сессий: %v", err)
			return
		}
		log.Printf("Удалено просроченных сессий: %d", deleted)
	})
	if err != nil {
		log.Fatalf("Ошибка настройки CRON-задачи для очистки сессий: %v", err)
	}
	c.Start()
}

// ScheduleOverdueGoalsReport раз в сутки пишет в лог число просроченных целей
func ScheduleOverdueGoalsReport(pool *pgxpool.Pool) {
	c := cron.New()
	_, err := c.AddFunc("@daily", func() {
		count, err := database.CountOverdueGoals(pool)
		if err != nil {
			log.Printf("Ошибка подсчета просроченных целей: %v", err)
			return
		}
		if count > 0 {
			log.Printf("Активных целей с истекшим сроком: %d", count)
		}
	})
	if err != nil {
		log.Fatalf("Ошибка настройки CRON-задачи для просроченных целей: %v", err)
	}
	c.Start()
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "http://localhost:3000" || origin == "http://localhost:3001" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}

		c.Next()
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Файл .env не найден, используются переменные окружения")
	}

	pool, err := database.ConnectPool()
	if err != nil {
		log.Fatalf("Ошибка подключения к БД: %v", err)
	}
	defer pool.Close()

	r := gin.Default()
	r.Use(CORSMiddleware())

	ScheduleSessionCleanup(pool)
	ScheduleOverdueGoalsReport(pool)

	api := r.Group("/api")

	api.POST("/auth/register", handlers.RegisterHandler(pool))
	api.POST("/auth/login", handlers.LoginHandler(pool))

	auth := api.Group("")
	auth.Use(handlers.AuthMiddleware(pool))

	auth.GET("/users/profile", handlers.ProfileHandler(pool))
	auth.PUT("/users/profile", handlers.UpdateProfileHandler(pool))
	auth.PUT("/users/change-password", handlers.ChangePasswordHandler(pool))

	auth.POST("/transactions", handlers.CreateTransactionHandler(pool))
	auth.GET("/transactions", handlers.GetTransactionsHandler(pool))
	auth.GET("/transactions/summary", handlers.TransactionSummaryHandler(pool))
	auth.GET("/transactions/stats", handlers.AdminOnly(), handlers.TransactionStatsHandler(pool))
	auth.PUT("/transactions/:id", handlers.UpdateTransactionHandler(pool))
	auth.DELETE("/transactions/:id", handlers.DeleteTransactionHandler(pool))

	auth.POST("/goals", handlers.CreateGoalHandler(pool))
	auth.GET("/goals", handlers.GetAllGoalsHandler(pool))
	auth.GET("/goals/stats", handlers.GoalStatsHandler(pool))
	auth.GET("/goals/:id", handlers.GetGoalHandler(pool))
	auth.PUT("/goals/:id", handlers.UpdateGoalHandler(pool))
	auth.DELETE("/goals/:id", handlers.DeleteGoalHandler(pool))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Ошибка при запуске сервера: %v", err)
	}
}
