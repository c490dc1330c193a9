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
	"github.com/pribylovaa/go-forum/pkg/log"
)

const maxTagLen = 32

// CreateThreadInput - новая тема.
type CreateThreadInput struct {
	AuthorID   uuid.UUID
	Title      string
	Content    string
	CategoryID string
	Tags       []string
}

// UpdateThreadInput - частичное изменение темы; nil означает "не менять".
type UpdateThreadInput struct {
	Title      *string
	Content    *string
	CategoryID *string
	Tags       *[]string
}

// CreateThread создаёт тему в существующем разделе.
//
// Валидация: длина заголовка в пределах limits.title_min..title_max символов,
// непустой текст не длиннее limits.thread_max_body, не более limits.max_tags тегов;
// заголовок и текст проходят фильтр модерации.
func (s *Service) CreateThread(ctx context.Context, in CreateThreadInput) (*models.Thread, error) {
	const op = "service/threads/CreateThread"

	lg := log.From(ctx).With("op", op, "author_id", in.AuthorID.String(), "category_id", in.CategoryID)

	if in.AuthorID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	title, err := s.validateTitle(in.Title)
	if err != nil {
		lg.Warn("invalid_title")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	content, err := s.validateThreadContent(in.Content)
	if err != nil {
		lg.Warn("invalid_content")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tags, err := s.normalizeTags(in.Tags)
	if err != nil {
		lg.Warn("invalid_tags")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.checkContent(op, title, content); err != nil {
		lg.Warn("content_rejected")
		return nil, err
	}

	categoryID, err := s.existingCategory(ctx, op, in.CategoryID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	t := &models.Thread{
		ID:         uuid.New(),
		Title:      title,
		Content:    content,
		AuthorID:   in.AuthorID,
		CategoryID: categoryID,
		Tags:       tags,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.storage.CreateThread(ctx, t); err != nil {
		return nil, fromStorage(lg, op, err)
	}

	metrics.ThreadsCreated.Inc()
	lg.Info("thread_created", "thread_id", t.ID.String())

	s.publish(ctx, events.Event{
		Type:       events.ThreadCreated,
		ActorID:    in.AuthorID,
		EntityType: string(models.EntityThread),
		EntityID:   t.ID.String(),
		ThreadID:   t.ID.String(),
		Data:       map[string]any{"category_id": categoryID, "title": title},
	})

	return t, nil
}

// ThreadByID возвращает тему с агрегатом голосов.
func (s *Service) ThreadByID(ctx context.Context, id uuid.UUID) (*models.Thread, error) {
	const op = "service/threads/ThreadByID"

	lg := log.From(ctx).With("op", op, "thread_id", id.String())

	if id == uuid.Nil {
		lg.Warn("invalid_argument: empty thread_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	t, err := s.storage.ThreadByID(ctx, id)
	if err != nil {
		return nil, fromStorage(lg, op, err)
	}

	return t, nil
}

// UpdateThread изменяет тему. Разрешено автору и администратору.
func (s *Service) UpdateThread(ctx context.Context, actor, id uuid.UUID, in UpdateThreadInput) (*models.Thread, error) {
	const op = "service/threads/UpdateThread"

	lg := log.From(ctx).With("op", op, "actor", actor.String(), "thread_id", id.String())

	t, err := s.authorizeThread(ctx, op, actor, id)
	if err != nil {
		return nil, err
	}

	var upd storage.ThreadUpdate

	if in.Title != nil {
		title, err := s.validateTitle(*in.Title)
		if err != nil {
			lg.Warn("invalid_title")
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		upd.Title = &title
	}

	if in.Content != nil {
		content, err := s.validateThreadContent(*in.Content)
		if err != nil {
			lg.Warn("invalid_content")
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		upd.Content = &content
	}

	if in.Tags != nil {
		tags, err := s.normalizeTags(*in.Tags)
		if err != nil {
			lg.Warn("invalid_tags")
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		upd.Tags = &tags
	}

	if in.CategoryID != nil {
		categoryID, err := s.existingCategory(ctx, op, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		upd.CategoryID = &categoryID
	}

	if upd.Title == nil && upd.Content == nil && upd.Tags == nil && upd.CategoryID == nil {
		return t, nil
	}

	var texts []string
	if upd.Title != nil {
		texts = append(texts, *upd.Title)
	}
	if upd.Content != nil {
		texts = append(texts, *upd.Content)
	}
	if err := s.checkContent(op, texts...); err != nil {
		lg.Warn("content_rejected")
		return nil, err
	}

	updated, err := s.storage.UpdateThread(ctx, id, upd, s.now())
	if err != nil {
		return nil, fromStorage(lg, op, err)
	}

	s.publish(ctx, events.Event{
		Type:        events.ThreadUpdated,
		ActorID:     actor,
		RecipientID: recipient(actor, t.AuthorID),
		EntityType:  string(models.EntityThread),
		EntityID:    id.String(),
		ThreadID:    id.String(),
	})

	return updated, nil
}

// DeleteThread удаляет тему вместе с комментариями и голосами. Разрешено автору и администратору.
func (s *Service) DeleteThread(ctx context.Context, actor, id uuid.UUID) error {
	const op = "service/threads/DeleteThread"

	lg := log.From(ctx).With("op", op, "actor", actor.String(), "thread_id", id.String())

	t, err := s.authorizeThread(ctx, op, actor, id)
	if err != nil {
		return err
	}

	comments, err := s.comments.CommentsByThread(ctx, id)
	if err != nil {
		return fromStorage(lg, op, err)
	}

	commentIDs := make([]string, 0, len(comments))
	for _, c := range comments {
		commentIDs = append(commentIDs, c.ID)
	}

	err = s.storage.RunInTx(ctx, func(ctx context.Context) error {
		if len(commentIDs) > 0 {
			if err := s.storage.DeleteEntityVotes(ctx, models.EntityComment, commentIDs); err != nil {
				return err
			}
		}

		return s.storage.DeleteThread(ctx, id)
	})
	if err != nil {
		return fromStorage(lg, op, err)
	}

	// Тема уже удалена: оставшиеся комментарии недостижимы, поэтому ошибка только логируется.
	if _, err := s.comments.DeleteThreadComments(ctx, id); err != nil {
		lg.Error("thread_comments_delete_failed", "err", err)
	}

	s.invalidateVotes(ctx, models.EntityThread, id.String())
	for _, cid := range commentIDs {
		s.invalidateVotes(ctx, models.EntityComment, cid)
	}

	lg.Info("thread_deleted", "comments", len(commentIDs))

	s.publish(ctx, events.Event{
		Type:        events.ThreadDeleted,
		ActorID:     actor,
		RecipientID: recipient(actor, t.AuthorID),
		EntityType:  string(models.EntityThread),
		EntityID:    id.String(),
		ThreadID:    id.String(),
	})

	return nil
}

// PinThread закрепляет или открепляет тему. Только для администраторов.
func (s *Service) PinThread(ctx context.Context, actor, id uuid.UUID, pinned bool) error {
	const op = "service/threads/PinThread"

	lg := log.From(ctx).With("op", op, "actor", actor.String(), "thread_id", id.String())

	if actor == uuid.Nil {
		return fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	if id == uuid.Nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	admin, err := s.isAdmin(ctx, actor)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !admin {
		lg.Warn("forbidden")
		return fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	if err := s.storage.SetPinned(ctx, id, pinned); err != nil {
		return fromStorage(lg, op, err)
	}

	s.publish(ctx, events.Event{
		Type:       events.ThreadPinned,
		ActorID:    actor,
		EntityType: string(models.EntityThread),
		EntityID:   id.String(),
		ThreadID:   id.String(),
		Data:       map[string]any{"pinned": pinned},
	})

	return nil
}

// ListThreads возвращает страницу тем по фильтру.
func (s *Service) ListThreads(ctx context.Context, f models.ThreadFilter) (*models.ThreadPage, error) {
	const op = "service/threads/ListThreads"

	lg := log.From(ctx).With("op", op)

	if f.Sort == "" {
		f.Sort = models.SortRecent
	}
	if !f.Sort.Valid() {
		lg.Warn("invalid_sort", "sort", f.Sort)
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	page, limit, err := s.pageLimit(f.Page, f.Limit)
	if err != nil {
		lg.Warn("invalid_page", "page", f.Page, "limit", f.Limit)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	f.Page, f.Limit = page, limit

	f.CategoryID = strings.ToLower(strings.TrimSpace(f.CategoryID))
	f.Tag = strings.ToLower(strings.TrimSpace(f.Tag))
	f.Query = strings.TrimSpace(f.Query)

	items, total, err := s.storage.ListThreads(ctx, f)
	if err != nil {
		return nil, fromStorage(lg, op, err)
	}

	if items == nil {
		items = []models.Thread{}
	}

	return &models.ThreadPage{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}, nil
}

// UserThreads - темы пользователя, новые сначала.
func (s *Service) UserThreads(ctx context.Context, userID uuid.UUID, page, limit int) (*models.ThreadPage, error) {
	const op = "service/threads/UserThreads"

	if userID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	res, err := s.ListThreads(ctx, models.ThreadFilter{
		AuthorID: userID,
		Sort:     models.SortRecent,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return res, nil
}

// authorizeThread загружает тему и проверяет, что actor - автор или администратор.
func (s *Service) authorizeThread(ctx context.Context, op string, actor, id uuid.UUID) (*models.Thread, error) {
	lg := log.From(ctx).With("op", op, "actor", actor.String(), "thread_id", id.String())

	if actor == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}
	if id == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	t, err := s.storage.ThreadByID(ctx, id)
	if err != nil {
		return nil, fromStorage(lg, op, err)
	}

	ok, err := s.canModify(ctx, actor, t.AuthorID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		lg.Warn("forbidden")
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	return t, nil
}

// existingCategory нормализует slug и проверяет, что раздел существует.
func (s *Service) existingCategory(ctx context.Context, op, raw string) (string, error) {
	id := strings.ToLower(strings.TrimSpace(raw))
	lg := log.From(ctx).With("op", op, "category_id", id)

	if !categorySlugRe.MatchString(id) {
		lg.Warn("invalid_category_id")
		return "", fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	if _, err := s.storage.CategoryByID(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			lg.Warn("unknown_category")
			return "", fmt.Errorf("%s: unknown category: %w", op, ErrInvalidArgument)
		}

		return "", fromStorage(lg, op, err)
	}

	return id, nil
}

func (s *Service) validateTitle(raw string) (string, error) {
	title := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(title)
	if n < s.cfg.Limits.TitleMin || n > s.cfg.Limits.TitleMax {
		return "", ErrInvalidArgument
	}

	return title, nil
}

func (s *Service) validateThreadContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" || utf8.RuneCountInString(content) > s.cfg.Limits.ThreadMaxBody {
		return "", ErrInvalidArgument
	}

	return content, nil
}

// normalizeTags приводит теги к нижнему регистру, убирает пустые и повторы
// с сохранением порядка.
func (s *Service) normalizeTags(raw []string) ([]string, error) {
	tags := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))

	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if utf8.RuneCountInString(t) > maxTagLen || strings.ContainsAny(t, ", \t\n") {
			return nil, ErrInvalidArgument
		}
		if _, dup := seen[t]; dup {
			continue
		}

		seen[t] = struct{}{}
		tags = append(tags, t)
	}

	if len(tags) > s.cfg.Limits.MaxTags {
		return nil, ErrInvalidArgument
	}

	return tags, nil
}

// recipient - кого уведомлять: автора сущности, если действует не он сам.
func recipient(actor, author uuid.UUID) uuid.UUID {
	if actor == author {
		return uuid.Nil
	}

	return author
}
