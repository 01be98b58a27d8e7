package database

import (
	"context"
	"errors"
	"fmt"
	"github.com/fintrackapp/fintrack/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// RegisterUser регистрирует нового пользователя
func RegisterUser(pool *pgxpool.Pool, user *models.User) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %v", err)
	}

	query := `
		INSERT INTO users (name, email, password) VALUES ($1, $2, $3) RETURNING id, created_at`
	err = pool.QueryRow(context.Background(), query, user.Name, user.Email, hashedPassword).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении пользователя: %v", err)
	}
	return nil
}

// AuthenticateUser проверяет email и пароль пользователя
func AuthenticateUser(pool *pgxpool.Pool, email, password string) (*models.User, error) {
	var user models.User
	query := `SELECT id, name, email, password, is_admin, created_at FROM users WHERE email = $1`
	err := pool.QueryRow(context.Background(), query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.Password, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("пользователь не найден: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidPassword
	}

	return &user, nil
}

// GetUserByID извлекает пользователя по ID
func GetUserByID(pool *pgxpool.Pool, userID int) (*models.User, error) {
	var user models.User
	query := `SELECT id, name, email, is_admin, created_at FROM users WHERE id = $1`
	err := pool.QueryRow(context.Background(), query, userID).Scan(
		&user.ID, &user.Name, &user.Email, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("пользователь с ID %d не найден: %w", userID, err)
		}
		return nil, fmt.Errorf("ошибка получения пользователя: %v", err)
	}
	return &user, nil
}

// UpdateUserProfile обновляет имя и email пользователя.
// Email должен оставаться уникальным среди остальных пользователей.
func UpdateUserProfile(pool *pgxpool.Pool, user *models.User) error {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id <> $2)`
	if err := pool.QueryRow(context.Background(), query, user.Email, user.ID).Scan(&exists); err != nil {
		return fmt.Errorf("ошибка проверки email: %v", err)
	}
	if exists {
		return ErrEmailTaken
	}

	query = `UPDATE users SET name = $1, email = $2 WHERE id = $3`
	result, err := pool.Exec(context.Background(), query, user.Name, user.Email, user.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления пользователя: %v", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("пользователь с ID %d не найден", user.ID)
	}
	return nil
}

// ChangeUserPassword меняет пароль после проверки текущего
func ChangeUserPassword(pool *pgxpool.Pool, userID int, currentPassword, newPassword string) error {
	var storedHash string
	query := `SELECT password FROM users WHERE id = $1`
	if err := pool.QueryRow(context.Background(), query, userID).Scan(&storedHash); err != nil {
		return fmt.Errorf("пользователь не найден: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(currentPassword)); err != nil {
		return ErrWrongPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("ошибка хеширования пароля: %v", err)
	}

	_, err = pool.Exec(context.Background(), `UPDATE users SET password = $1 WHERE id = $2`, hashedPassword, userID)
	if err != nil {
		return fmt.Errorf("ошибка обновления пароля: %v", err)
	}
	return nil
}
