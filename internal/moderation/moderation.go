// moderation - лексический фильтр пользовательского контента.
// Запрещённое слово задаётся целиком ("spam") или префиксом со звёздочкой ("casino*");
// сравнение идёт по словам текста без учёта регистра.
package moderation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// ErrRejected - текст содержит запрещённое слово.
var ErrRejected = errors.New("content rejected")

type rule struct {
	word    string
	pattern *regexp.Regexp
}

// Filter проверяет тексты по списку запрещённых слов. Нулевой Filter пропускает всё.
type Filter struct {
	rules []rule
}

// New компилирует список слов. Пустые элементы игнорируются.
func New(words []string) (*Filter, error) {
	f := &Filter{}

	for _, w := range words {
		w = normalize(w)
		if w == "" {
			continue
		}

		expr := "^" + regexp.QuoteMeta(strings.TrimSuffix(w, "*"))
		if !strings.HasSuffix(w, "*") {
			expr += "$"
		}

		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("moderation: compile %q: %w", w, err)
		}

		f.rules = append(f.rules, rule{word: w, pattern: re})
	}

	return f, nil
}

// Len - количество правил.
func (f *Filter) Len() int {
	if f == nil {
		return 0
	}

	return len(f.rules)
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, "ё", "е")
}

// tokens разбивает текст на слова (буквы и цифры).
func tokens(s string) []string {
	return strings.FieldsFunc(normalize(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Check возвращает ErrRejected (с указанием правила), если хотя бы один текст
// содержит запрещённое слово.
func (f *Filter) Check(texts ...string) error {
	if f.Len() == 0 {
		return nil
	}

	for _, text := range texts {
		for _, tok := range tokens(text) {
			for _, r := range f.rules {
				if r.pattern.MatchString(tok) {
					return fmt.Errorf("%w: %q", ErrRejected, r.word)
				}
			}
		}
	}

	return nil
}
