package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/storage"
	"github.com/pribylovaa/go-forum/pkg/log"
)

const (
	maxNameLen = 100
	maxBioLen  = 1000
)

// UpdateProfileInput - частичное обновление профиля владельцем; nil означает "не менять".
type UpdateProfileInput struct {
	Username *string
	Name     *string
	Bio      *string
	Gender   *models.Gender
}

// ProfileByID возвращает профиль по ID пользователя.
func (s *Service) ProfileByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	const op = "service/profiles/ProfileByID"

	lg := log.From(ctx).With("op", op, "user_id", userID.String())

	if userID == uuid.Nil {
		lg.Warn("invalid argument: empty user_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	p, err := s.storage.ProfileByID(ctx, userID)
	if err != nil {
		return nil, fromStorage(lg, op, err)
	}

	return p, nil
}

// ProfileByUsername возвращает профиль по имени пользователя (без учёта регистра).
func (s *Service) ProfileByUsername(ctx context.Context, username string) (*models.Profile, error) {
	const op = "service/profiles/ProfileByUsername"

	username = strings.TrimSpace(username)
	lg := log.From(ctx).With("op", op, "username", username)

	if !usernameRe.MatchString(username) {
		lg.Warn("invalid argument: username")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	p, err := s.storage.ProfileByUsername(ctx, username)
	if err != nil {
		return nil, fromStorage(lg, op, err)
	}

	return p, nil
}

// UpdateProfile меняет поля профиля владельца. Пустое обновление возвращает профиль как есть.
//
// Ошибки: ErrInvalidArgument, ErrUsernameTaken, ErrNotFound, ErrInternal.
func (s *Service) UpdateProfile(ctx context.Context, owner uuid.UUID, in UpdateProfileInput) (*models.Profile, error) {
	const op = "service/profiles/UpdateProfile"

	lg := log.From(ctx).With("op", op, "user_id", owner.String())

	if owner == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	var upd storage.ProfileUpdate

	if in.Username != nil {
		v := strings.TrimSpace(*in.Username)
		if !usernameRe.MatchString(v) {
			lg.Warn("invalid argument: username")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}
		upd.Username = &v
	}

	if in.Name != nil {
		v := strings.TrimSpace(*in.Name)
		if utf8.RuneCountInString(v) > maxNameLen {
			lg.Warn("invalid argument: name too long")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}
		upd.Name = &v
	}

	if in.Bio != nil {
		v := strings.TrimSpace(*in.Bio)
		if utf8.RuneCountInString(v) > maxBioLen {
			lg.Warn("invalid argument: bio too long")
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}
		upd.Bio = &v
	}

	if in.Gender != nil {
		if *in.Gender < models.GenderUnspecified || *in.Gender > models.GenderOther {
			lg.Warn("invalid argument: gender out of range", "gender", *in.Gender)
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}
		upd.Gender = in.Gender
	}

	if upd.IsEmpty() {
		return s.ProfileByID(ctx, owner)
	}

	var texts []string
	for _, v := range []*string{upd.Username, upd.Name, upd.Bio} {
		if v != nil {
			texts = append(texts, *v)
		}
	}
	if err := s.checkContent(op, texts...); err != nil {
		lg.Warn("content_rejected")
		return nil, err
	}

	p, err := s.storage.UpdateProfile(ctx, owner, upd, s.now())
	if err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			lg.Warn("username_taken")
			return nil, fmt.Errorf("%s: %w", op, ErrUsernameTaken)
		}

		return nil, fromStorage(lg, op, err)
	}

	return p, nil
}

// AvatarUploadURL выдаёт presigned PUT для загрузки аватара.
func (s *Service) AvatarUploadURL(ctx context.Context, owner uuid.UUID, contentType string, contentLength int64) (*storage.UploadInfo, error) {
	const op = "service/profiles/AvatarUploadURL"

	lg := log.From(ctx).With("op", op, "user_id", owner.String())

	if owner == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if s.avatars == nil {
		lg.Warn("avatars_disabled")
		return nil, fmt.Errorf("%s: %w", op, ErrUnavailable)
	}

	if strings.TrimSpace(contentType) == "" || contentLength <= 0 {
		lg.Warn("invalid argument for presign", "content_type", contentType, "content_length", contentLength)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	info, err := s.avatars.AvatarUploadURL(ctx, owner, contentType, contentLength)
	if err != nil {
		return nil, fromStorage(lg, op, err)
	}

	return info, nil
}

// ConfirmAvatar проверяет загруженный объект и сохраняет ключ и URL аватара в профиле.
func (s *Service) ConfirmAvatar(ctx context.Context, owner uuid.UUID, avatarKey string) (*models.Profile, error) {
	const op = "service/profiles/ConfirmAvatar"

	avatarKey = strings.TrimSpace(avatarKey)
	lg := log.From(ctx).With("op", op, "user_id", owner.String(), "avatar_key", avatarKey)

	if owner == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if s.avatars == nil {
		lg.Warn("avatars_disabled")
		return nil, fmt.Errorf("%s: %w", op, ErrUnavailable)
	}

	if avatarKey == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	publicURL, err := s.avatars.CheckAvatarUpload(ctx, owner, avatarKey)
	if err != nil {
		return nil, fromStorage(lg, op, err)
	}

	p, err := s.storage.UpdateProfile(ctx, owner, storage.ProfileUpdate{
		AvatarKey: &avatarKey,
		AvatarURL: &publicURL,
	}, s.now())
	if err != nil {
		return nil, fromStorage(lg, op, err)
	}

	lg.Info("avatar_confirmed")

	return p, nil
}
