package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"

	"github.com/fintrackapp/fintrack/internal/database"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

func validateEmail(email string) error {
	emailRegex := `^[^\s@]+@[^\s@]+\.[^\s@]+$`
	if !regexp.MustCompile(emailRegex).MatchString(email) {
		return fmt.Errorf("некорректный формат email")
	}
	return nil
}

// ProfileHandler возвращает профиль текущего пользователя
func ProfileHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := database.GetUserByID(pool, CurrentUser(c).ID)
		if err != nil {
			log.Printf("Ошибка получения профиля: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка получения данных пользователя"})
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// UpdateProfileHandler обновляет имя и email текущего пользователя
func UpdateProfileHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}

		if payload.Name == "" || payload.Email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Все поля обязательны для заполнения"})
			return
		}
		if err := validateEmail(payload.Email); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user := *CurrentUser(c)
		user.Name = payload.Name
		user.Email = payload.Email

		if err := database.UpdateUserProfile(pool, &user); err != nil {
			if errors.Is(err, database.ErrEmailTaken) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Email уже используется"})
				return
			}
			log.Printf("Ошибка обновления профиля: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить пользователя"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

// ChangePasswordHandler меняет пароль текущего пользователя
func ChangePasswordHandler(pool *pgxpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload struct {
			CurrentPassword string `json:"current_password"`
			NewPassword     string `json:"new_password"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Некорректный ввод данных"})
			return
		}

		if payload.CurrentPassword == "" || payload.NewPassword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Все поля обязательны для заполнения"})
			return
		}

		err := database.ChangeUserPassword(pool, CurrentUser(c).ID, payload.CurrentPassword, payload.NewPassword)
		if err != nil {
			if errors.Is(err, database.ErrWrongPassword) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Текущий пароль неверен"})
				return
			}
			log.Printf("Ошибка смены пароля: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Не удалось обновить пароль"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Пароль успешно обновлен"})
	}
}
