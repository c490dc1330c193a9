// pages отдаёт встроенные в бинарник информационные страницы (Markdown).
package pages

import (
	"embed"
	"path"
	"sort"
	"strings"

	"github.com/pribylovaa/go-forum/internal/models"
)

//go:embed content/*.md
var content embed.FS

// Pages - неизменяемый набор страниц, загруженный при старте.
type Pages struct {
	bySlug map[string]models.StaticPage
}

// Load читает встроенные страницы. Заголовок - первая строка вида "# Title".
func Load() (*Pages, error) {
	entries, err := content.ReadDir("content")
	if err != nil {
		return nil, err
	}

	p := &Pages{bySlug: make(map[string]models.StaticPage, len(entries))}

	for _, e := range entries {
		raw, err := content.ReadFile(path.Join("content", e.Name()))
		if err != nil {
			return nil, err
		}

		slug := strings.TrimSuffix(e.Name(), ".md")
		title, body := split(string(raw))
		if title == "" {
			title = slug
		}

		p.bySlug[slug] = models.StaticPage{Slug: slug, Title: title, Body: body}
	}

	return p, nil
}

func split(doc string) (title, body string) {
	first, rest, _ := strings.Cut(doc, "\n")
	if t, ok := strings.CutPrefix(first, "# "); ok {
		return strings.TrimSpace(t), strings.TrimSpace(rest)
	}

	return "", strings.TrimSpace(doc)
}

// Get возвращает страницу по slug.
func (p *Pages) Get(slug string) (models.StaticPage, bool) {
	page, ok := p.bySlug[slug]
	return page, ok
}

// Slugs - отсортированный список доступных страниц.
func (p *Pages) Slugs() []string {
	out := make([]string, 0, len(p.bySlug))
	for s := range p.bySlug {
		out = append(out, s)
	}
	sort.Strings(out)

	return out
}
