// apierrors стандартизирует ответы об ошибках HTTP-слоя.
// На вход принимает ошибку сервисного слоя, на выход даёт:
//   - корректный HTTP-статус;
//   - стабильный машиночитаемый code и краткое безопасное message без утечки деталей.
//
// Источник истинности по классам ошибок: service.Classify.
package apierrors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/go-forum/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// ErrRateLimited - превышен лимит запросов (выставляется middleware).
var ErrRateLimited = errors.New("rate limit exceeded")

// APIError - единый формат для фронта.
// Code - короткий стабильный код для машиночитаемой обработки на FE.
// Message - безопасное человекочитаемое описание.
// RequestID - прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse - корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

type mapping struct {
	target error
	status int
	code   string
	msg    string
}

// table проверяется по порядку: более частные ошибки раньше общих.
var table = []mapping{
	// validation
	{service.ErrInvalidEmail, http.StatusBadRequest, "invalid_email", "invalid email"},
	{service.ErrEmptyPassword, http.StatusBadRequest, "empty_password", "password is required"},
	{service.ErrWeakPassword, http.StatusBadRequest, "weak_password", "password is too weak"},
	{service.ErrContentRejected, http.StatusBadRequest, "content_rejected", "content rejected by moderation"},
	{service.ErrMaxDepthExceeded, http.StatusBadRequest, "max_depth_exceeded", "reply nesting is too deep"},
	{service.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument", "invalid argument"},
	{service.ErrParentNotFound, http.StatusNotFound, "parent_not_found", "parent comment not found"},
	{service.ErrNotFound, http.StatusNotFound, "not_found", "not found"},
	{service.ErrEmailTaken, http.StatusConflict, "email_taken", "email already registered"},
	{service.ErrUsernameTaken, http.StatusConflict, "username_taken", "username already taken"},
	{service.ErrConflict, http.StatusConflict, "already_exists", "already exists"},

	// auth
	{service.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials", "invalid email or password"},
	{service.ErrTokenExpired, http.StatusUnauthorized, "token_expired", "token expired"},
	{service.ErrTokenRevoked, http.StatusUnauthorized, "token_revoked", "token revoked"},
	{service.ErrInvalidToken, http.StatusUnauthorized, "invalid_token", "invalid token"},
	{service.ErrUnauthenticated, http.StatusUnauthorized, "unauthenticated", "unauthenticated"},
	{service.ErrForbidden, http.StatusForbidden, "permission_denied", "permission denied"},

	// transient
	{ErrRateLimited, http.StatusTooManyRequests, "resource_exhausted", "too many requests"},
	{context.Canceled, StatusClientClosedRequest, "canceled", "canceled"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"},
	{service.ErrUnavailable, http.StatusServiceUnavailable, "unavailable", "service unavailable"},
}

// ToHTTP конвертирует ошибку сервиса в HTTP-статус и унифицированный ответ для фронта.
//
// Поведение:
//   - err == nil - это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг.
//   - известный sentinel - статус и code из таблицы;
//   - прочее - по классу service.Classify: validation -> 400, auth -> 401,
//     transient -> 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return internal()
	}

	for _, m := range table {
		if errors.Is(err, m.target) {
			return m.status, ErrorResponse{Error: APIError{Code: m.code, Message: m.msg}}
		}
	}

	switch service.Classify(err) {
	case service.ClassValidation:
		return http.StatusBadRequest, ErrorResponse{Error: APIError{Code: "invalid_argument", Message: "invalid argument"}}
	case service.ClassAuth:
		return http.StatusUnauthorized, ErrorResponse{Error: APIError{Code: "unauthenticated", Message: "unauthenticated"}}
	default:
		return internal()
	}
}

func internal() (int, ErrorResponse) {
	return http.StatusInternalServerError, ErrorResponse{
		Error: APIError{
			Code:    "internal",
			Message: "internal error",
		},
	}
}

// WriteError - хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
