package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/models"
)

// CommentsStorage - контракт хранилища комментариев.
type CommentsStorage interface {
	// CreateComment сохраняет комментарий и проставляет ему ID.
	CreateComment(ctx context.Context, comment *models.Comment) error
	CommentByID(ctx context.Context, id string) (*models.Comment, error)
	// CommentsByThread возвращает плоский список комментариев темы по created_at asc,
	// включая мягко удалённые.
	CommentsByThread(ctx context.Context, threadID uuid.UUID) ([]models.Comment, error)
	UpdateCommentContent(ctx context.Context, id, content string, at time.Time) (*models.Comment, error)
	// SoftDeleteComment помечает комментарий удалённым и очищает текст.
	// Возвращает false, если он уже был удалён.
	SoftDeleteComment(ctx context.Context, id string, at time.Time) (bool, error)
	// SetAnswer отмечает комментарий принятым ответом, снимая отметку с остальных
	// комментариев темы; isAnswer=false снимает отметку с комментария.
	SetAnswer(ctx context.Context, threadID uuid.UUID, commentID string, isAnswer bool) error
	// CountComments - количество неудалённых комментариев темы.
	CountComments(ctx context.Context, threadID uuid.UUID) (int64, error)
	// DeleteThreadComments удаляет все комментарии темы и возвращает их ID.
	DeleteThreadComments(ctx context.Context, threadID uuid.UUID) ([]string, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
