package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/fintrackapp/fintrack/internal/database"
	"github.com/fintrackapp/fintrack/models"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

const currentUserKey = "currentUser"

// AuthMiddleware проверяет Bearer-токен и кладет пользователя в контекст
func AuthMiddleware(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Нет токена авторизации"})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		user, err := database.GetUserByToken(pool, token)
		if err != nil {
			log.Printf("Ошибка проверки токена: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Недействительный токен"})
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// AdminOnly пропускает только администраторов
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Недостаточно прав для выполнения действия"})
			return
		}
		c.Next()
	}
}

// CurrentUser возвращает пользователя, положенного AuthMiddleware
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(currentUserKey).(*models.User)
}
