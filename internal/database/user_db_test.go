package database_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fintrackapp/fintrack/internal/database"
)

func TestRegisterAndAuthenticateUser(t *testing.T) {
	pool := connectTestDB(t)
	user := createTestUser(t, pool)

	if user.ID == 0 {
		t.Fatalf("пользователь не получил ID при регистрации")
	}

	authenticated, err := database.AuthenticateUser(pool, user.Email, "secret123")
	if err != nil {
		t.Fatalf("ошибка авторизации: %v", err)
	}
	if authenticated.ID != user.ID {
		t.Errorf("авторизован другой пользователь: получили %d, хотели %d", authenticated.ID, user.ID)
	}

	if _, err := database.AuthenticateUser(pool, user.Email, "wrong"); !errors.Is(err, database.ErrInvalidPassword) {
		t.Errorf("неверный пароль должен возвращать ErrInvalidPassword, получили %v", err)
	}
}

func TestUpdateUserProfileEmailTaken(t *testing.T) {
	pool := connectTestDB(t)
	first := createTestUser(t, pool)
	second := createTestUser(t, pool)

	second.Email = first.Email
	if err := database.UpdateUserProfile(pool, second); !errors.Is(err, database.ErrEmailTaken) {
		t.Errorf("занятый email должен возвращать ErrEmailTaken, получили %v", err)
	}

	second.Email = fmt.Sprintf("new.email.%d@example.com", time.Now().UnixNano())
	second.Name = "Updated Name"
	if err := database.UpdateUserProfile(pool, second); err != nil {
		t.Fatalf("ошибка обновления профиля: %v", err)
	}

	updated, err := database.GetUserByID(pool, second.ID)
	if err != nil {
		t.Fatalf("ошибка получения пользователя: %v", err)
	}
	if updated.Name != "Updated Name" || updated.Email != second.Email {
		t.Errorf("профиль не обновился: %+v", updated)
	}
}

func TestChangeUserPassword(t *testing.T) {
	pool := connectTestDB(t)
	user := createTestUser(t, pool)

	if err := database.ChangeUserPassword(pool, user.ID, "wrong", "newpass123"); !errors.Is(err, database.ErrWrongPassword) {
		t.Errorf("неверный текущий пароль должен возвращать ErrWrongPassword, получили %v", err)
	}

	if err := database.ChangeUserPassword(pool, user.ID, "secret123", "newpass123"); err != nil {
		t.Fatalf("ошибка смены пароля: %v", err)
	}

	if _, err := database.AuthenticateUser(pool, user.Email, "newpass123"); err != nil {
		t.Errorf("авторизация с новым паролем не удалась: %v", err)
	}
}

func TestSessions(t *testing.T) {
	pool := connectTestDB(t)
	user := createTestUser(t, pool)

	session, err := database.CreateSession(pool, user.ID)
	if err != nil {
		t.Fatalf("ошибка создания сессии: %v", err)
	}
	if session.Token == "" {
		t.Fatalf("сессия без токена")
	}

	found, err := database.GetUserByToken(pool, session.Token)
	if err != nil {
		t.Fatalf("ошибка поиска пользователя по токену: %v", err)
	}
	if found.ID != user.ID {
		t.Errorf("по токену найден другой пользователь: получили %d, хотели %d", found.ID, user.ID)
	}

	if _, err := database.GetUserByToken(pool, "bad-token"); err == nil {
		t.Errorf("недействительный токен должен возвращать ошибку")
	}
}
