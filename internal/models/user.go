package models

import (
	"time"

	"github.com/google/uuid"
)

// User - учётная запись. PasswordHash - bcrypt.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RefreshToken - серверная запись refresh-токена; хранится только хэш секрета.
type RefreshToken struct {
	TokenHash string
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
	Revoked   bool
}

// TokenPair - пара токенов, выдаваемая при входе/регистрации/обновлении.
type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time
}

// Principal - аутентифицированный пользователь запроса.
type Principal struct {
	UserID uuid.UUID
	Email  string
}
