package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/storage"
)

// profileColumns - единый список колонок profiles для SELECT/RETURNING.
const profileColumns = `user_id, username, name, bio, gender, role, avatar_key, avatar_url, created_at, updated_at`

// scanProfile сканирует строку профиля (SMALLINT -> models.Gender, TEXT -> models.Role).
func scanProfile(row pgx.Row) (*models.Profile, error) {
	var profile models.Profile
	var gender int16
	var role string

	if err := row.Scan(
		&profile.UserID,
		&profile.Username,
		&profile.Name,
		&profile.Bio,
		&gender,
		&role,
		&profile.AvatarKey,
		&profile.AvatarURL,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	); err != nil {
		return nil, err
	}

	profile.Gender = models.Gender(gender)
	profile.Role = models.Role(role)

	return &profile, nil
}

// CreateProfile вставляет новую запись профиля.
// Ошибки: storage.ErrAlreadyExists при конфликте user_id/username.
func (s *Storage) CreateProfile(ctx context.Context, profile *models.Profile) error {
	const op = "storage/postgres/profiles/CreateProfile"

	role := profile.Role
	if role == "" {
		role = models.RoleUser
	}

	query := `
	INSERT INTO profiles (user_id, username, name, bio, gender, role, avatar_key, avatar_url, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := s.querier(ctx).Exec(ctx, query,
		profile.UserID,
		profile.Username,
		profile.Name,
		profile.Bio,
		int16(profile.Gender),
		string(role),
		profile.AvatarKey,
		profile.AvatarURL,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	profile.Role = role

	return nil
}

// ProfileByID возвращает профиль по user_id.
func (s *Storage) ProfileByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	const op = "storage/postgres/profiles/ProfileByID"

	q := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	result, err := scanProfile(s.querier(ctx).QueryRow(ctx, q, userID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return result, nil
}

// ProfileByUsername возвращает профиль по username (без учёта регистра).
func (s *Storage) ProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	const op = "storage/postgres/profiles/ProfileByUsername"

	q := `SELECT ` + profileColumns + ` FROM profiles WHERE username = $1`

	result, err := scanProfile(s.querier(ctx).QueryRow(ctx, q, username))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return result, nil
}

// UpdateProfile выполняет частичный апдейт: обновляет только поля,
// заданные непустыми pointer-полями, и всегда сдвигает updated_at.
// Ошибки: storage.ErrNotFound при отсутствии записи, storage.ErrAlreadyExists
// при занятом username.
func (s *Storage) UpdateProfile(ctx context.Context, userID uuid.UUID, upd storage.ProfileUpdate, at time.Time) (*models.Profile, error) {
	const op = "storage/postgres/profiles/UpdateProfile"

	b := psql.Update("profiles").Set("updated_at", at)

	if upd.Username != nil {
		b = b.Set("username", *upd.Username)
	}
	if upd.Name != nil {
		b = b.Set("name", *upd.Name)
	}
	if upd.Bio != nil {
		b = b.Set("bio", *upd.Bio)
	}
	if upd.Gender != nil {
		b = b.Set("gender", int16(*upd.Gender))
	}
	if upd.AvatarKey != nil {
		b = b.Set("avatar_key", *upd.AvatarKey)
	}
	if upd.AvatarURL != nil {
		b = b.Set("avatar_url", *upd.AvatarURL)
	}

	query, args, err := b.Where(sq.Eq{"user_id": userID}).Suffix("RETURNING " + profileColumns).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := scanProfile(s.querier(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return result, nil
}
