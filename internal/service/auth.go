package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/session"
	"github.com/pribylovaa/go-forum/internal/storage"
	"github.com/pribylovaa/go-forum/pkg/log"
	"github.com/pribylovaa/go-forum/pkg/redact"
	"golang.org/x/crypto/bcrypt"
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,32}$`)

// SignUpInput - регистрация по e-mail и паролю.
type SignUpInput struct {
	Email    string
	Password string
	Username string
}

// SignUp регистрирует пользователя, создаёт ему профиль и выпускает пару токенов.
//
// Ошибки: ErrInvalidEmail, ErrEmptyPassword, ErrWeakPassword, ErrInvalidArgument
// (имя пользователя), ErrEmailTaken, ErrUsernameTaken, ErrInternal.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*models.TokenPair, uuid.UUID, error) {
	const op = "service/auth/SignUp"

	lg := log.From(ctx).With("op", op, "email", redact.Email(in.Email))

	email, err := validateEmail(in.Email)
	if err != nil {
		lg.Warn("invalid_email")
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := validatePassword(in.Password); err != nil {
		lg.Warn("weak_password")
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	username := strings.TrimSpace(in.Username)
	if !usernameRe.MatchString(username) {
		lg.Warn("invalid_username")
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		lg.Error("password_hash_failed", "err", err)
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInternal)
	}

	now := s.now()
	user := &models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	profile := &models.Profile{
		UserID:    user.ID,
		Username:  username,
		Role:      models.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.storage.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.storage.SaveUser(ctx, user); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}

		if err := s.storage.CreateProfile(ctx, profile); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return ErrUsernameTaken
			}
			return err
		}

		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrUsernameTaken):
			lg.Warn("signup_conflict", "err", err)
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
		default:
			return nil, uuid.Nil, fromStorage(lg, op, err)
		}
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("user_signed_up", "user_id", user.ID.String())
	s.notifySession(ctx, session.SignedUp, user.ID)

	return pair, user.ID, nil
}

// SignIn выполняет вход по e-mail и паролю.
func (s *Service) SignIn(ctx context.Context, email, password string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service/auth/SignIn"

	lg := log.From(ctx).With("op", op, "email", redact.Email(email))

	normEmail, err := validateEmail(email)
	if err != nil || password == "" {
		lg.Warn("invalid_credentials")
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	user, err := s.storage.UserByEmail(ctx, normEmail)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("invalid_credentials")
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}

		return nil, uuid.Nil, fromStorage(lg, op, err)
	}

	if !checkPassword(user.PasswordHash, password) {
		lg.Warn("invalid_credentials", "user_id", user.ID.String())
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	s.notifySession(ctx, session.SignedIn, user.ID)

	return pair, user.ID, nil
}

// Refresh ротирует пару токенов: старый refresh-токен отзывается атомарно,
// повторное предъявление отозванного токена даёт ErrTokenRevoked.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, uuid.UUID, error) {
	const op = "service/auth/Refresh"

	lg := log.From(ctx).With("op", op, "token", redact.Token())

	if strings.TrimSpace(refreshToken) == "" {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	hash := hashToken(refreshToken)

	userID, err := s.lookupRefreshToken(ctx, hash)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.storage.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("refresh_user_missing", "user_id", userID.String())
			return nil, uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return nil, uuid.Nil, fromStorage(lg, op, err)
	}

	if err := s.revokeRefreshToken(ctx, hash); err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	pair, err := s.issueTokenPair(ctx, user)
	if err != nil {
		return nil, uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	s.notifySession(ctx, session.TokenRefreshed, user.ID)

	return pair, user.ID, nil
}

// SignOut отзывает refresh-токен.
func (s *Service) SignOut(ctx context.Context, refreshToken string) error {
	const op = "service/auth/SignOut"

	if strings.TrimSpace(refreshToken) == "" {
		return fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	hash := hashToken(refreshToken)

	userID, err := s.lookupRefreshToken(ctx, hash)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.revokeRefreshToken(ctx, hash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.notifySession(ctx, session.SignedOut, userID)

	return nil
}

// ValidateAccess проверяет access-токен и возвращает пользователя запроса.
func (s *Service) ValidateAccess(ctx context.Context, accessToken string) (models.Principal, error) {
	const op = "service/auth/ValidateAccess"

	p, err := s.parseAccessToken(strings.TrimSpace(accessToken))
	if err != nil {
		log.From(ctx).Debug("access_token_rejected", "op", op, "err", err)
		return models.Principal{}, fmt.Errorf("%s: %w", op, err)
	}

	return p, nil
}

// CleanupExpiredTokens удаляет просроченные refresh-токены.
func (s *Service) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	const op = "service/auth/CleanupExpiredTokens"

	lg := log.From(ctx).With("op", op)

	n, err := s.storage.DeleteExpiredTokens(ctx, s.now())
	if err != nil {
		return 0, fromStorage(lg, op, err)
	}

	if n > 0 {
		lg.Info("expired_tokens_deleted", "count", n)
	}

	return n, nil
}

// RunJanitor периодически чистит просроченные refresh-токены до отмены ctx.
// Нулевой период отключает очистку.
func (s *Service) RunJanitor(ctx context.Context) {
	period := s.cfg.Auth.JanitorPeriod
	if period <= 0 {
		return
	}

	t := time.NewTicker(period)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			_, _ = s.CleanupExpiredTokens(ctx)
		}
	}
}

// hashPassword хэширует пароль с помощью bcrypt.
func hashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// checkPassword сравнивает пароль с хэшем.
func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// validateEmail проверяет формат e-mail и приводит его к нижнему регистру.
func validateEmail(raw string) (string, error) {
	email := strings.TrimSpace(raw)
	if email == "" {
		return "", ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}

	return strings.ToLower(email), nil
}

// validatePassword: длина >= 8, хотя бы одна строчная, заглавная буква, цифра и спецсимвол.
// bcrypt учитывает только первые 72 байта, более длинные пароли отклоняются.
func validatePassword(pw string) error {
	if pw == "" {
		return ErrEmptyPassword
	}

	if len([]rune(pw)) < 8 || len(pw) > 72 {
		return ErrWeakPassword
	}

	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if !(hasLower && hasUpper && hasDigit && hasSpecial) {
		return ErrWeakPassword
	}

	return nil
}
