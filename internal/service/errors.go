package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pribylovaa/go-forum/internal/storage"
)

// Ошибки сервисного слоя. Транспорт сопоставляет их со статусами HTTP
// (см. internal/http/apierrors).
var (
	// ErrInvalidArgument - неверные входные параметры. HTTP 400.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidEmail - e-mail имеет некорректный формат. HTTP 400.
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrWeakPassword - пароль не удовлетворяет политике сложности. HTTP 400.
	ErrWeakPassword = errors.New("password is too weak")
	// ErrEmptyPassword - пароль пустой. HTTP 400.
	ErrEmptyPassword = errors.New("password is empty")
	// ErrContentRejected - текст не прошёл фильтр модерации. HTTP 400.
	ErrContentRejected = errors.New("content rejected")
	// ErrMaxDepthExceeded - превышена глубина вложенности ответов. HTTP 400.
	ErrMaxDepthExceeded = errors.New("max depth exceeded")
	// ErrParentNotFound - родительский комментарий отсутствует или из другой темы. HTTP 400.
	ErrParentNotFound = errors.New("parent not found")
	// ErrNotFound - сущность отсутствует. HTTP 404.
	ErrNotFound = errors.New("not found")
	// ErrConflict - конфликт уникальности. HTTP 409.
	ErrConflict = errors.New("conflict")
	// ErrEmailTaken - e-mail уже занят. HTTP 409.
	ErrEmailTaken = errors.New("email already taken")
	// ErrUsernameTaken - имя пользователя уже занято. HTTP 409.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrUnauthenticated - операция требует входа. HTTP 401.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials - пара логин/пароль неверна. HTTP 401.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken - токен некорректен или неизвестен. HTTP 401.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired - срок действия токена истёк. HTTP 401.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenRevoked - токен отозван. HTTP 401.
	ErrTokenRevoked = errors.New("token revoked")
	// ErrForbidden - у пользователя нет прав на операцию. HTTP 403.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable - зависимость не сконфигурирована или недоступна. HTTP 503.
	ErrUnavailable = errors.New("unavailable")
	// ErrRefreshTokenCollision - исчерпаны попытки сгенерировать уникальный refresh-токен. HTTP 500.
	ErrRefreshTokenCollision = errors.New("refresh token collision")
	// ErrInternal - внутренняя ошибка (хранилище, сеть). HTTP 500.
	ErrInternal = errors.New("internal")
)

// Class - класс ошибки с точки зрения пользователя.
type Class int8

const (
	// ClassValidation - пользователь может исправить запрос.
	ClassValidation Class = iota + 1
	// ClassAuth - нужен (повторный) вход или нет прав.
	ClassAuth
	// ClassTransient - временный сбой, запрос можно повторить.
	ClassTransient
)

func (c Class) String() string {
	switch c {
	case ClassValidation:
		return "validation"
	case ClassAuth:
		return "auth"
	case ClassTransient:
		return "transient"
	default:
		return "unknown"
	}
}

var (
	validationErrors = []error{
		ErrInvalidArgument, ErrInvalidEmail, ErrWeakPassword, ErrEmptyPassword,
		ErrContentRejected, ErrMaxDepthExceeded, ErrParentNotFound,
		ErrNotFound, ErrConflict, ErrEmailTaken, ErrUsernameTaken,
	}
	authErrors = []error{
		ErrUnauthenticated, ErrInvalidCredentials, ErrInvalidToken,
		ErrTokenExpired, ErrTokenRevoked, ErrForbidden,
	}
)

// Classify относит ошибку к одному из трёх классов.
// Неизвестные ошибки, отмена и дедлайн контекста считаются временными.
func Classify(err error) Class {
	for _, target := range authErrors {
		if errors.Is(err, target) {
			return ClassAuth
		}
	}

	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return ClassValidation
		}
	}

	return ClassTransient
}

// fromStorage сопоставляет ошибку хранилища с ошибкой сервиса.
// Отмена контекста пробрасывается как есть, всё непредвиденное становится ErrInternal.
func fromStorage(lg *slog.Logger, op string, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		lg.Warn("not_found")
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, storage.ErrAlreadyExists):
		lg.Warn("conflict")
		return fmt.Errorf("%s: %w", op, ErrConflict)
	case errors.Is(err, storage.ErrInvalidArgument):
		lg.Warn("invalid_argument", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		lg.Warn("request_aborted", "err", err)
		return fmt.Errorf("%s: %w", op, err)
	default:
		lg.Error("storage_error", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}
}
