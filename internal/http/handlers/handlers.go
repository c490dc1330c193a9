package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/http/middleware"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/service"
	"github.com/pribylovaa/go-forum/internal/session"
	"github.com/pribylovaa/go-forum/internal/storage"
	"github.com/pribylovaa/go-forum/internal/tree"
	"github.com/pribylovaa/go-forum/internal/votes"
)

// Forum - операции сервисного слоя, доступные HTTP-транспорту.
type Forum interface {
	SignUp(ctx context.Context, in service.SignUpInput) (*models.TokenPair, uuid.UUID, error)
	SignIn(ctx context.Context, email, password string) (*models.TokenPair, uuid.UUID, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, uuid.UUID, error)
	SignOut(ctx context.Context, refreshToken string) error
	ValidateAccess(ctx context.Context, accessToken string) (models.Principal, error)
	Sessions() *session.Broker

	ListCategories(ctx context.Context, query string) ([]models.Category, error)
	CategoryByID(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, actor uuid.UUID, in service.CreateCategoryInput) (*models.Category, error)

	CreateThread(ctx context.Context, in service.CreateThreadInput) (*models.Thread, error)
	UpdateThread(ctx context.Context, actor, id uuid.UUID, in service.UpdateThreadInput) (*models.Thread, error)
	DeleteThread(ctx context.Context, actor, id uuid.UUID) error
	PinThread(ctx context.Context, actor, id uuid.UUID, pinned bool) error
	ListThreads(ctx context.Context, f models.ThreadFilter) (*models.ThreadPage, error)
	UserThreads(ctx context.Context, userID uuid.UUID, page, limit int) (*models.ThreadPage, error)
	ThreadView(ctx context.Context, viewer, id uuid.UUID) (*service.ThreadView, error)

	CreateComment(ctx context.Context, in service.CreateCommentInput) (*models.Comment, error)
	UpdateComment(ctx context.Context, actor uuid.UUID, id, content string) (*models.Comment, error)
	DeleteComment(ctx context.Context, actor uuid.UUID, id string) error
	MarkAnswer(ctx context.Context, actor uuid.UUID, commentID string, isAnswer bool) error
	CommentTree(ctx context.Context, threadID uuid.UUID) (tree.Forest[models.Comment], error)
	CommentCount(ctx context.Context, threadID uuid.UUID) (int64, error)

	CastVote(ctx context.Context, userID uuid.UUID, entityType models.EntityType, entityID string, dir votes.Direction) (*service.VoteResult, error)
	VoteCount(ctx context.Context, entityType models.EntityType, entityID string) (votes.Tally, error)
	UserVote(ctx context.Context, userID uuid.UUID, entityType models.EntityType, entityID string) (votes.Direction, error)

	ProfileByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	ProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, owner uuid.UUID, in service.UpdateProfileInput) (*models.Profile, error)
	AvatarUploadURL(ctx context.Context, owner uuid.UUID, contentType string, contentLength int64) (*storage.UploadInfo, error)
	ConfirmAvatar(ctx context.Context, owner uuid.UUID, avatarKey string) (*models.Profile, error)

	Page(ctx context.Context, slug string) (*models.StaticPage, error)
}

// Handlers агрегирует зависимости HTTP-обработчиков.
type Handlers struct {
	svc Forum
	// heartbeat - период комментариев-пингов в SSE-стриме.
	heartbeat time.Duration
}

func New(svc Forum, heartbeat time.Duration) *Handlers {
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	return &Handlers{svc: svc, heartbeat: heartbeat}
}

// writeJSON - единый ответ JSON с нужным Content-Type.
// Ошибки выводим через apierrors.WriteError.
func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

// decodeStrict - строгий JSON-декодер: запрещаем неизвестные поля.
func decodeStrict(r *http.Request, value any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(value); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidArgument, err)
	}
	return nil
}

// requireUser возвращает пользователя запроса или ErrUnauthenticated.
func requireUser(r *http.Request) (uuid.UUID, error) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok || p.UserID == uuid.Nil {
		return uuid.Nil, service.ErrUnauthenticated
	}
	return p.UserID, nil
}

// viewerID - пользователь запроса или uuid.Nil для анонима.
func viewerID(r *http.Request) uuid.UUID {
	p, _ := middleware.PrincipalFrom(r.Context())
	return p.UserID
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s: %w", name, service.ErrInvalidArgument)
	}
	return id, nil
}

// intQuery разбирает целочисленный query-параметр; пустое значение даёт def.
func intQuery(r *http.Request, name string, def int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, service.ErrInvalidArgument)
	}
	return n, nil
}

func boolQuery(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, service.ErrInvalidArgument)
	}
	return b, nil
}
