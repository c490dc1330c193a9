package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/pkg/log"
)

// Page возвращает информационную страницу по slug.
func (s *Service) Page(ctx context.Context, slug string) (*models.StaticPage, error) {
	const op = "service/pages/Page"

	slug = strings.ToLower(strings.TrimSpace(slug))

	if s.pages == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	p, ok := s.pages.Get(slug)
	if !ok {
		log.From(ctx).Debug("page_not_found", "op", op, "slug", slug)
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}

	return &p, nil
}
