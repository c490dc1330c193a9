package postgres

import (
	"context"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/pribylovaa/go-forum/internal/models"
)

// categorySelect - разделы с количеством тем.
func categorySelect() sq.SelectBuilder {
	return psql.
		Select("c.id", "c.name", "c.description", "c.created_at", "COUNT(t.id) AS thread_count").
		From("categories c").
		LeftJoin("threads t ON t.category_id = c.id").
		GroupBy("c.id")
}

func scanCategory(row interface{ Scan(dest ...any) error }) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.ThreadCount); err != nil {
		return nil, err
	}

	return &c, nil
}

// ListCategories возвращает разделы, отсортированные по количеству тем (desc), затем по названию.
func (s *Storage) ListCategories(ctx context.Context, query string) ([]models.Category, error) {
	const op = "storage/postgres/categories/ListCategories"

	b := categorySelect().OrderBy("thread_count DESC", "c.name ASC")
	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + escapeLike(q) + "%"
		b = b.Where(sq.Or{sq.ILike{"c.name": pattern}, sq.ILike{"c.description": pattern}})
	}

	sqlStr, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.querier(ctx).Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	out := make([]models.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out = append(out, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// CategoryByID возвращает раздел по slug.
func (s *Storage) CategoryByID(ctx context.Context, id string) (*models.Category, error) {
	const op = "storage/postgres/categories/CategoryByID"

	sqlStr, args, err := categorySelect().Where(sq.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c, err := scanCategory(s.querier(ctx).QueryRow(ctx, sqlStr, args...))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}

	return c, nil
}

// CreateCategory создает раздел. Ошибки: storage.ErrAlreadyExists при занятом slug,
// storage.ErrInvalidArgument при недопустимом slug.
func (s *Storage) CreateCategory(ctx context.Context, category *models.Category) error {
	const op = "storage/postgres/categories/CreateCategory"

	query := `
	INSERT INTO categories (id, name, description, created_at)
	VALUES ($1, $2, $3, $4)
	`

	_, err := s.querier(ctx).Exec(ctx, query, category.ID, category.Name, category.Description, category.CreatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	return nil
}

// escapeLike экранирует спецсимволы шаблона LIKE.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
