package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/storage"
)

// threadColumns - колонки темы и агрегата голосов в порядке scanThread.
var threadColumns = []string{
	"t.id", "t.title", "t.content", "t.author_id", "t.category_id", "t.is_pinned",
	"t.tags", "t.comment_count", "t.created_at", "t.updated_at", "v.up", "v.down",
}

// threadVotes - агрегат голосов за тему; LATERAL всегда возвращает одну строку.
const threadVotes = `LATERAL (
	SELECT COUNT(*) FILTER (WHERE direction = 'up') AS up,
	       COUNT(*) FILTER (WHERE direction = 'down') AS down
	FROM votes
	WHERE entity_type = 'thread' AND entity_id = t.id::text
) v ON TRUE`

func threadSelect() sq.SelectBuilder {
	return psql.Select(threadColumns...).From("threads t").LeftJoin(threadVotes)
}

func scanThread(row interface{ Scan(dest ...any) error }) (*models.Thread, error) {
	var t models.Thread
	if err := row.Scan(
		&t.ID,
		&t.Title,
		&t.Content,
		&t.AuthorID,
		&t.CategoryID,
		&t.IsPinned,
		&t.Tags,
		&t.CommentCount,
		&t.CreatedAt,
		&t.UpdatedAt,
		&t.Upvotes,
		&t.Downvotes,
	); err != nil {
		return nil, err
	}

	if t.Tags == nil {
		t.Tags = []string{}
	}

	return &t, nil
}

// CreateThread сохраняет тему. Ошибки: storage.ErrNotFound, если раздел
// или автор не существуют (FK), storage.ErrAlreadyExists при повторе id.
func (s *Storage) CreateThread(ctx context.Context, thread *models.Thread) error {
	const op = "storage/postgres/threads/CreateThread"

	tags := thread.Tags
	if tags == nil {
		tags = []string{}
	}

	query, args, err := psql.Insert("threads").
		Columns("id", "title", "content", "author_id", "category_id", "is_pinned", "tags", "comment_count", "created_at", "updated_at").
		Values(thread.ID, thread.Title, thread.Content, thread.AuthorID, thread.CategoryID, thread.IsPinned, tags, thread.CommentCount, thread.CreatedAt, thread.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if _, err := s.querier(ctx).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	return nil
}

// ThreadByID возвращает тему вместе с агрегатом голосов.
func (s *Storage) ThreadByID(ctx context.Context, id uuid.UUID) (*models.Thread, error) {
	const op = "storage/postgres/threads/ThreadByID"

	query, args, err := threadSelect().Where(sq.Eq{"t.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	t, err := scanThread(s.querier(ctx).QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return t, nil
}

// UpdateThread применяет частичное обновление и возвращает актуальную тему.
func (s *Storage) UpdateThread(ctx context.Context, id uuid.UUID, upd storage.ThreadUpdate, at time.Time) (*models.Thread, error) {
	const op = "storage/postgres/threads/UpdateThread"

	b := psql.Update("threads").Set("updated_at", at)

	if upd.Title != nil {
		b = b.Set("title", *upd.Title)
	}
	if upd.Content != nil {
		b = b.Set("content", *upd.Content)
	}
	if upd.CategoryID != nil {
		b = b.Set("category_id", *upd.CategoryID)
	}
	if upd.Tags != nil {
		b = b.Set("tags", *upd.Tags)
	}

	query, args, err := b.Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	tag, err := s.querier(ctx).Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return s.ThreadByID(ctx, id)
}

// DeleteThread удаляет тему и голоса за неё.
func (s *Storage) DeleteThread(ctx context.Context, id uuid.UUID) error {
	const op = "storage/postgres/threads/DeleteThread"

	q := s.querier(ctx)

	if _, err := q.Exec(ctx, `DELETE FROM votes WHERE entity_type = 'thread' AND entity_id = $1`, id.String()); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	tag, err := q.Exec(ctx, `DELETE FROM threads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// SetPinned закрепляет или открепляет тему.
func (s *Storage) SetPinned(ctx context.Context, id uuid.UUID, pinned bool) error {
	const op = "storage/postgres/threads/SetPinned"

	tag, err := s.querier(ctx).Exec(ctx, `UPDATE threads SET is_pinned = $2 WHERE id = $1`, id, pinned)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// AdjustCommentCount меняет денормализованный счётчик комментариев; значение не опускается ниже нуля.
func (s *Storage) AdjustCommentCount(ctx context.Context, id uuid.UUID, delta int64) error {
	const op = "storage/postgres/threads/AdjustCommentCount"

	tag, err := s.querier(ctx).Exec(ctx,
		`UPDATE threads SET comment_count = GREATEST(comment_count + $2, 0) WHERE id = $1`, id, delta)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// threadWhere собирает условия фильтра списка тем.
func threadWhere(f models.ThreadFilter) sq.And {
	where := sq.And{}

	if f.CategoryID != "" {
		where = append(where, sq.Eq{"t.category_id": f.CategoryID})
	}
	if f.AuthorID != uuid.Nil {
		where = append(where, sq.Eq{"t.author_id": f.AuthorID})
	}
	if f.Tag != "" {
		where = append(where, sq.Expr("? = ANY(t.tags)", f.Tag))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		where = append(where, sq.Or{sq.ILike{"t.title": pattern}, sq.ILike{"t.content": pattern}})
	}
	if f.Unanswered {
		where = append(where, sq.Eq{"t.comment_count": 0})
	}

	return where
}

// threadOrder - порядок выдачи; при выборке по разделу закреплённые темы идут первыми.
func threadOrder(f models.ThreadFilter) []string {
	order := make([]string, 0, 4)
	if f.CategoryID != "" {
		order = append(order, "t.is_pinned DESC")
	}

	switch f.Sort {
	case models.SortPopular:
		order = append(order, "(v.up - v.down) DESC", "t.created_at DESC")
	case models.SortComments:
		order = append(order, "t.comment_count DESC", "t.created_at DESC")
	default:
		order = append(order, "t.created_at DESC")
	}

	return append(order, "t.id")
}

// ListThreads возвращает страницу тем и общее количество подходящих тем.
// Page/Limit должны быть нормализованы вызывающей стороной (Page >= 1, Limit >= 1).
func (s *Storage) ListThreads(ctx context.Context, f models.ThreadFilter) ([]models.Thread, int64, error) {
	const op = "storage/postgres/threads/ListThreads"

	if f.Page < 1 || f.Limit < 1 {
		return nil, 0, fmt.Errorf("%s: %w", op, storage.ErrInvalidArgument)
	}

	where := threadWhere(f)
	q := s.querier(ctx)

	countSQL, countArgs, err := psql.Select("COUNT(*)").From("threads t").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	var total int64
	if err := q.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	items := make([]models.Thread, 0)
	offset := uint64(f.Page-1) * uint64(f.Limit)
	if total == 0 || offset >= uint64(total) {
		return items, total, nil
	}

	listSQL, listArgs, err := threadSelect().
		Where(where).
		OrderBy(threadOrder(f)...).
		Limit(uint64(f.Limit)).
		Offset(offset).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := q.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, *t)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}

	return items, total, nil
}
