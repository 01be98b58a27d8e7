package handlers

import (
	"log"
	"net/http"

	"github.com/fintrackapp/fintrack/internal/database"
	"github.com/fintrackapp/fintrack/models"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RegisterHandler регистрирует пользователя и сразу выдает токен
func RegisterHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user models.User
		if err := c.ShouldBindJSON(&user); err != nil {
			log.Printf("Ошибка привязки JSON: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный формат данных. Проверьте введённые значения."})
			return
		}

		if user.Name == "" || user.Email == "" || user.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Все поля обязательны для заполнения"})
			return
		}

		if err := database.RegisterUser(pool, &user); err != nil {
			log.Printf("Ошибка при регистрации пользователя: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка регистрации пользователя"})
			return
		}

		session, err := database.CreateSession(pool, user.ID)
		if err != nil {
			log.Printf("Ошибка создания сессии: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка создания сессии"})
			return
		}

		user.Password = ""
		c.JSON(http.StatusCreated, gin.H{"token": session.Token, "user": user})
	}
}

// LoginHandler проверяет учетные данные и выдает токен
func LoginHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var credentials struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&credentials); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ошибка ввода данных"})
			return
		}

		user, err := database.AuthenticateUser(pool, credentials.Email, credentials.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный email или пароль"})
			return
		}

		session, err := database.CreateSession(pool, user.ID)
		if err != nil {
			log.Printf("Ошибка создания сессии: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка создания сессии"})
			return
		}

		user.Password = ""
		c.JSON(http.StatusOK, gin.H{"token": session.Token, "user": user})
	}
}
