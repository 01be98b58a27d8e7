package database

import "errors"

// Ошибки, по которым обработчики выбирают код HTTP-ответа
var (
	ErrEmailTaken      = errors.New("email уже используется")
	ErrWrongPassword   = errors.New("текущий пароль неверен")
	ErrGoalCompleted   = errors.New("нельзя изменить завершенную цель")
	ErrInvalidPassword = errors.New("неверный пароль")
)
