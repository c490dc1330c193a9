package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/events"
	"github.com/pribylovaa/go-forum/internal/metrics"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/storage"
	"github.com/pribylovaa/go-forum/internal/tree"
	"github.com/pribylovaa/go-forum/pkg/log"
)

// CreateCommentInput - корневой комментарий (ParentID пуст) или ответ.
type CreateCommentInput struct {
	AuthorID uuid.UUID
	ThreadID uuid.UUID
	ParentID string
	Content  string
}

// CommentKey - ключ комментария для сборки дерева.
func CommentKey(c models.Comment) (string, string) {
	return c.ID, c.ParentID
}

// CreateComment создаёт комментарий в существующей теме.
//
// Ошибки:
//   - ErrNotFound - тема отсутствует;
//   - ErrParentNotFound - родитель отсутствует, удалён или из другой темы;
//   - ErrMaxDepthExceeded - ответ глубже limits.max_depth;
//   - ErrContentRejected - текст не прошёл модерацию.
func (s *Service) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	const op = "service/comments/CreateComment"

	in.ParentID = strings.TrimSpace(in.ParentID)
	lg := log.From(ctx).With(
		"op", op,
		"author_id", in.AuthorID.String(),
		"thread_id", in.ThreadID.String(),
		"parent_id", in.ParentID,
	)

	if in.AuthorID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	if in.ThreadID == uuid.Nil {
		lg.Warn("invalid_argument: empty thread_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	content, err := s.validateCommentContent(in.Content)
	if err != nil {
		lg.Warn("invalid_content")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.checkContent(op, content); err != nil {
		lg.Warn("content_rejected")
		return nil, err
	}

	thread, err := s.storage.ThreadByID(ctx, in.ThreadID)
	if err != nil {
		return nil, fromStorage(lg, op, err)
	}

	c := &models.Comment{
		ThreadID: in.ThreadID,
		AuthorID: in.AuthorID,
		Content:  content,
	}
	notify := thread.AuthorID

	if in.ParentID != "" {
		parent, err := s.comments.CommentByID(ctx, in.ParentID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				lg.Warn("parent_not_found")
				return nil, fmt.Errorf("%s: %w", op, ErrParentNotFound)
			}

			return nil, fromStorage(lg, op, err)
		}

		if parent.ThreadID != in.ThreadID || parent.IsDeleted {
			lg.Warn("parent_not_in_thread")
			return nil, fmt.Errorf("%s: %w", op, ErrParentNotFound)
		}

		if parent.Level+1 > s.cfg.Limits.MaxDepth {
			lg.Warn("max_depth_exceeded", "level", parent.Level+1)
			return nil, fmt.Errorf("%s: %w", op, ErrMaxDepthExceeded)
		}

		c.ParentID = parent.ID
		c.Level = parent.Level + 1
		notify = parent.AuthorID
	}

	now := s.now()
	c.CreatedAt, c.UpdatedAt = now, now

	if err := s.comments.CreateComment(ctx, c); err != nil {
		return nil, fromStorage(lg, op, err)
	}

	if err := s.storage.AdjustCommentCount(ctx, in.ThreadID, +1); err != nil {
		lg.Error("comment_count_adjust_failed", "err", err)
	}

	metrics.CommentsCreated.Inc()

	s.publish(ctx, events.Event{
		Type:        events.CommentCreated,
		ActorID:     in.AuthorID,
		RecipientID: recipient(in.AuthorID, notify),
		EntityType:  string(models.EntityComment),
		EntityID:    c.ID,
		ThreadID:    in.ThreadID.String(),
		Data:        map[string]any{"parent_id": c.ParentID},
	})

	return c, nil
}

// UpdateComment меняет текст комментария. Разрешено только автору.
func (s *Service) UpdateComment(ctx context.Context, actor uuid.UUID, id, content string) (*models.Comment, error) {
	const op = "service/comments/UpdateComment"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "actor", actor.String(), "comment_id", id)

	if actor == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	if id == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	content, err := s.validateCommentContent(content)
	if err != nil {
		lg.Warn("invalid_content")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c, err := s.comments.CommentByID(ctx, id)
	if err != nil {
		return nil, fromStorage(lg, op, err)
	}

	if c.IsDeleted {
		lg.Warn("comment_deleted")
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	if c.AuthorID != actor {
		lg.Warn("forbidden")
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	if err := s.checkContent(op, content); err != nil {
		lg.Warn("content_rejected")
		return nil, err
	}

	updated, err := s.comments.UpdateCommentContent(ctx, id, content, s.now())
	if err != nil {
		return nil, fromStorage(lg, op, err)
	}

	return updated, nil
}

// DeleteComment мягко удаляет комментарий: текст очищается, узел остаётся в дереве.
// Разрешено автору и администратору. Повторное удаление - не ошибка.
func (s *Service) DeleteComment(ctx context.Context, actor uuid.UUID, id string) error {
	const op = "service/comments/DeleteComment"

	id = strings.TrimSpace(id)
	lg := log.From(ctx).With("op", op, "actor", actor.String(), "comment_id", id)

	if actor == uuid.Nil {
		return fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	if id == "" {
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	c, err := s.comments.CommentByID(ctx, id)
	if err != nil {
		return fromStorage(lg, op, err)
	}

	ok, err := s.canModify(ctx, actor, c.AuthorID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		lg.Warn("forbidden")
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	deleted, err := s.comments.SoftDeleteComment(ctx, id, s.now())
	if err != nil {
		return fromStorage(lg, op, err)
	}
	if !deleted {
		return nil
	}

	if err := s.storage.AdjustCommentCount(ctx, c.ThreadID, -1); err != nil {
		lg.Error("comment_count_adjust_failed", "err", err)
	}

	s.publish(ctx, events.Event{
		Type:        events.CommentDeleted,
		ActorID:     actor,
		RecipientID: recipient(actor, c.AuthorID),
		EntityType:  string(models.EntityComment),
		EntityID:    id,
		ThreadID:    c.ThreadID.String(),
	})

	return nil
}

// MarkAnswer отмечает комментарий принятым ответом (или снимает отметку).
// Разрешено только автору темы; в теме не больше одного принятого ответа.
func (s *Service) MarkAnswer(ctx context.Context, actor uuid.UUID, commentID string, isAnswer bool) error {
	const op = "service/comments/MarkAnswer"

	commentID = strings.TrimSpace(commentID)
	lg := log.From(ctx).With("op", op, "actor", actor.String(), "comment_id", commentID)

	if actor == uuid.Nil {
		return fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	if commentID == "" {
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	c, err := s.comments.CommentByID(ctx, commentID)
	if err != nil {
		return fromStorage(lg, op, err)
	}

	thread, err := s.storage.ThreadByID(ctx, c.ThreadID)
	if err != nil {
		return fromStorage(lg, op, err)
	}

	if thread.AuthorID != actor {
		lg.Warn("forbidden")
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	if c.IsDeleted {
		if !isAnswer {
			// Удаление уже сняло отметку ответа.
			return nil
		}
		lg.Warn("comment_deleted")
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if err := s.comments.SetAnswer(ctx, c.ThreadID, commentID, isAnswer); err != nil {
		return fromStorage(lg, op, err)
	}

	if isAnswer {
		s.publish(ctx, events.Event{
			Type:        events.AnswerMarked,
			ActorID:     actor,
			RecipientID: recipient(actor, c.AuthorID),
			EntityType:  string(models.EntityComment),
			EntityID:    commentID,
			ThreadID:    c.ThreadID.String(),
		})
	}

	return nil
}

// CommentTree возвращает комментарии темы в виде леса с агрегатами голосов.
func (s *Service) CommentTree(ctx context.Context, threadID uuid.UUID) (tree.Forest[models.Comment], error) {
	const op = "service/comments/CommentTree"

	lg := log.From(ctx).With("op", op, "thread_id", threadID.String())

	if threadID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if _, err := s.storage.ThreadByID(ctx, threadID); err != nil {
		return nil, fromStorage(lg, op, err)
	}

	forest, err := s.commentForest(ctx, threadID)
	if err != nil {
		return nil, fromStorage(lg, op, err)
	}

	return forest, nil
}

// CommentCount - количество неудалённых комментариев темы.
func (s *Service) CommentCount(ctx context.Context, threadID uuid.UUID) (int64, error) {
	const op = "service/comments/CommentCount"

	lg := log.From(ctx).With("op", op, "thread_id", threadID.String())

	if threadID == uuid.Nil {
		return 0, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	n, err := s.comments.CountComments(ctx, threadID)
	if err != nil {
		return 0, fromStorage(lg, op, err)
	}

	return n, nil
}

// commentForest читает плоский список комментариев, проставляет агрегаты голосов
// и собирает лес. Ошибки возвращаются без маппинга.
func (s *Service) commentForest(ctx context.Context, threadID uuid.UUID) (tree.Forest[models.Comment], error) {
	list, err := s.comments.CommentsByThread(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if len(list) > 0 {
		ids := make([]string, len(list))
		for i := range list {
			ids[i] = list[i].ID
		}

		tallies, err := s.storage.VoteCounts(ctx, models.EntityComment, ids)
		if err != nil {
			return nil, err
		}

		for i := range list {
			t := tallies[list[i].ID]
			list[i].Upvotes, list[i].Downvotes = t.Up, t.Down
		}
	}

	return tree.Build(ctx, list, CommentKey), nil
}

func (s *Service) validateCommentContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" || utf8.RuneCountInString(content) > s.cfg.Limits.CommentMax {
		return "", ErrInvalidArgument
	}

	return content, nil
}
