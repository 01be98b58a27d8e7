package database

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/fintrackapp/fintrack/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Срок жизни токена авторизации
const sessionTTL = 30 * 24 * time.Hour

// CreateSession выдает пользователю новый токен авторизации
func CreateSession(pool *pgxpool.Pool, userID int) (*models.Session, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("ошибка генерации токена: %v", err)
	}

	session := &models.Session{
		UserID:    userID,
		Token:     hex.EncodeToString(raw),
		ExpiresAt: time.Now().Add(sessionTTL),
	}

	query := `
		INSERT INTO sessions (user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`
	err := pool.QueryRow(context.Background(), query, session.UserID, session.Token, session.ExpiresAt).
		Scan(&session.ID, &session.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения сессии: %v", err)
	}
	return session, nil
}

// GetUserByToken находит пользователя по действующему токену
func GetUserByToken(pool *pgxpool.Pool, token string) (*models.User, error) {
	query := `
		SELECT u.id, u.name, u.email, u.is_admin, u.created_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > NOW()`

	var user models.User
	err := pool.QueryRow(context.Background(), query, token).Scan(
		&user.ID, &user.Name, &user.Email, &user.IsAdmin, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("токен недействителен: %w", err)
		}
		return nil, fmt.Errorf("ошибка проверки токена: %v", err)
	}
	return &user, nil
}

// DeleteExpiredSessions удаляет просроченные токены
func DeleteExpiredSessions(pool *pgxpool.Pool) (int64, error) {
	result, err := pool.Exec(context.Background(), `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("ошибка удаления просроченных сессий: %v", err)
	}
	return result.RowsAffected(), nil
}
