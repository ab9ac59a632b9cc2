package models

import "time"

// User представляет пользователя в системе
type User struct {
	CreatedAt    time.Time  `json:"created_at"`    // время создания
	LastLogin    *time.Time `json:"last_login"`    // время последнего входа
	ID           string     `json:"id"`            // UUID пользователя
	Email        string     `json:"email"`         // уникальный email
	PasswordHash string     `json:"password_hash"` // bcrypt хеш пароля
}
