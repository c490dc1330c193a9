package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/models"
)

const userColumns = `id, email, password_hash, created_at, updated_at`

// SaveUser создает нового пользователя в БД.
// Ошибки: storage.ErrAlreadyExists при повторе email (CITEXT) или id.
func (s *Storage) SaveUser(ctx context.Context, user *models.User) error {
	const op = "storage/postgres/users/SaveUser"

	query := `
        INSERT INTO users (id, email, password_hash, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
    `

	_, err := s.querier(ctx).Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	return nil
}

// UserByEmail находит пользователя по email (без учёта регистра).
func (s *Storage) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage/postgres/users/UserByEmail"

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	var user models.User
	err := s.querier(ctx).QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return &user, nil
}

// UserByID находит пользователя по ID.
func (s *Storage) UserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	const op = "storage/postgres/users/UserByID"

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user models.User
	err := s.querier(ctx).QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return &user, nil
}
