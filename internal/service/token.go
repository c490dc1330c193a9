package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/cache"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/storage"
	"github.com/pribylovaa/go-forum/pkg/log"
)

const jwtLeeway = 5 * time.Second

type accessClaims struct {
	UserID string `json:"uid"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// hashToken - sha256 от секрета refresh-токена в base64url; в БД хранится только он.
func hashToken(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// generateAccessToken подписывает access-токен HS256.
func (s *Service) generateAccessToken(ctx context.Context, userID uuid.UUID, email string, now time.Time) (string, error) {
	const op = "service/token/generateAccessToken"

	claims := accessClaims{
		UserID: userID.String(),
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.Auth.AccessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.cfg.Auth.Issuer,
			Subject:   userID.String(),
			Audience:  jwt.ClaimStrings(s.cfg.Auth.Audience),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Auth.JWTSecret))
	if err != nil {
		log.From(ctx).Error("access_token_sign_failed", "op", op, "err", err)
		return "", fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return signed, nil
}

// parseAccessToken проверяет подпись, issuer, audience и срок действия.
func (s *Service) parseAccessToken(tokenStr string) (models.Principal, error) {
	const op = "service/token/parseAccessToken"

	token, err := jwt.ParseWithClaims(tokenStr, &accessClaims{},
		func(t *jwt.Token) (any, error) {
			return []byte(s.cfg.Auth.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(jwtLeeway),
		jwt.WithIssuer(s.cfg.Auth.Issuer),
		jwt.WithAudience(s.cfg.Auth.Audience...),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return models.Principal{}, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return models.Principal{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return models.Principal{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	uid, err := uuid.Parse(claims.UserID)
	if err != nil || uid == uuid.Nil {
		return models.Principal{}, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return models.Principal{UserID: uid, Email: claims.Email}, nil
}

// generateRefreshToken создаёт и сохраняет новый refresh-токен, возвращая его секрет.
func (s *Service) generateRefreshToken(ctx context.Context, userID uuid.UUID, now time.Time) (string, error) {
	const (
		op          = "service/token/generateRefreshToken"
		maxAttempts = 5
	)

	lg := log.From(ctx).With("op", op)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			lg.Error("refresh_rand_failed", "err", err)
			return "", fmt.Errorf("%s: %w", op, ErrInternal)
		}
		plain := base64.RawURLEncoding.EncodeToString(b)

		token := &models.RefreshToken{
			TokenHash: hashToken(plain),
			UserID:    userID,
			CreatedAt: now,
			ExpiresAt: now.Add(s.cfg.Auth.RefreshTokenTTL),
		}

		if err := s.storage.SaveRefreshToken(ctx, token); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				// Коллизия хэша - пробуем ещё раз.
				continue
			}

			return "", fromStorage(lg, op, err)
		}

		entry := &cache.RefreshEntry{UserID: userID, ExpiresAt: token.ExpiresAt}
		if err := s.rcache.Set(ctx, token.TokenHash, entry, token.ExpiresAt.Sub(now)); err != nil {
			lg.Warn("refresh_cache_set_failed", "err", err)
		}

		return plain, nil
	}

	lg.Error("refresh_collision_exceeded")

	return "", fmt.Errorf("%s: %w", op, ErrRefreshTokenCollision)
}

// lookupRefreshToken находит запись refresh-токена по хэшу: сначала в кэше,
// затем в БД (с заполнением кэша) и проверяет её состояние.
func (s *Service) lookupRefreshToken(ctx context.Context, hash string) (uuid.UUID, error) {
	const op = "service/token/lookupRefreshToken"

	lg := log.From(ctx).With("op", op)
	now := s.now()

	entry, ok, err := s.rcache.Get(ctx, hash)
	if err != nil {
		lg.Warn("refresh_cache_get_failed", "err", err)
		ok = false
	}

	if !ok {
		token, err := s.storage.RefreshTokenByHash(ctx, hash)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				lg.Warn("refresh_lookup_not_found")
				return uuid.Nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
			}

			return uuid.Nil, fromStorage(lg, op, err)
		}

		entry = &cache.RefreshEntry{
			UserID:    token.UserID,
			Revoked:   token.Revoked,
			ExpiresAt: token.ExpiresAt,
		}

		if err := s.rcache.Set(ctx, hash, entry, token.ExpiresAt.Sub(now)); err != nil {
			lg.Warn("refresh_cache_set_failed", "err", err)
		}
	}

	if entry.Revoked {
		lg.Warn("refresh_revoked", "user_id", entry.UserID.String())
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	if now.After(entry.ExpiresAt) {
		lg.Warn("refresh_expired", "user_id", entry.UserID.String())
		return uuid.Nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
	}

	return entry.UserID, nil
}

// revokeRefreshToken атомарно отзывает активный токен. Повторный отзыв - ErrTokenRevoked.
func (s *Service) revokeRefreshToken(ctx context.Context, hash string) error {
	const op = "service/token/revokeRefreshToken"

	lg := log.From(ctx).With("op", op)

	revoked, err := s.storage.RevokeRefreshTokenIfActive(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("%s: %w", op, ErrInvalidToken)
		}

		return fromStorage(lg, op, err)
	}

	if !revoked {
		lg.Warn("refresh_reuse_detected")
		return fmt.Errorf("%s: %w", op, ErrTokenRevoked)
	}

	if err := s.rcache.MarkRevoked(ctx, hash); err != nil {
		lg.Warn("refresh_cache_mark_revoked_failed", "err", err)
	}

	return nil
}

// issueTokenPair выпускает пару access+refresh для пользователя.
func (s *Service) issueTokenPair(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	const op = "service/token/issueTokenPair"

	now := s.now()

	access, err := s.generateAccessToken(ctx, user.ID, user.Email, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refresh, err := s.generateRefreshToken(ctx, user.ID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		AccessToken:     access,
		RefreshToken:    refresh,
		AccessExpiresAt: now.Add(s.cfg.Auth.AccessTokenTTL),
	}, nil
}
