package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/pkg/log"
)

var categorySlugRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,31}$`)

// CreateCategoryInput - новый раздел.
type CreateCategoryInput struct {
	ID          string
	Name        string
	Description string
}

// ListCategories возвращает разделы с количеством тем: по убыванию количества,
// затем по названию. query - необязательный поиск по названию и описанию.
func (s *Service) ListCategories(ctx context.Context, query string) ([]models.Category, error) {
	const op = "service/categories/ListCategories"

	query = strings.TrimSpace(query)
	lg := log.From(ctx).With("op", op, "query", query)

	list, err := s.storage.ListCategories(ctx, query)
	if err != nil {
		return nil, fromStorage(lg, op, err)
	}

	return list, nil
}

// CategoryByID возвращает раздел по slug.
func (s *Service) CategoryByID(ctx context.Context, id string) (*models.Category, error) {
	const op = "service/categories/CategoryByID"

	id = strings.ToLower(strings.TrimSpace(id))
	lg := log.From(ctx).With("op", op, "category_id", id)

	if !categorySlugRe.MatchString(id) {
		lg.Warn("invalid_category_id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	c, err := s.storage.CategoryByID(ctx, id)
	if err != nil {
		return nil, fromStorage(lg, op, err)
	}

	return c, nil
}

// CreateCategory создаёт раздел. Только для администраторов.
func (s *Service) CreateCategory(ctx context.Context, actor uuid.UUID, in CreateCategoryInput) (*models.Category, error) {
	const op = "service/categories/CreateCategory"

	in.ID = strings.ToLower(strings.TrimSpace(in.ID))
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	lg := log.From(ctx).With("op", op, "actor", actor.String(), "category_id", in.ID)

	if actor == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	admin, err := s.isAdmin(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !admin {
		lg.Warn("forbidden")
		return nil, fmt.Errorf("%s: %w", op, ErrForbidden)
	}

	if !categorySlugRe.MatchString(in.ID) || in.Name == "" || utf8.RuneCountInString(in.Name) > 100 {
		lg.Warn("invalid_category")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	c := &models.Category{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
		CreatedAt:   s.now(),
	}

	if err := s.storage.CreateCategory(ctx, c); err != nil {
		return nil, fromStorage(lg, op, err)
	}

	lg.Info("category_created")

	return c, nil
}
