package models

import (
	"time"

	"github.com/google/uuid"
)

// Thread - тема обсуждения.
// Upvotes/Downvotes - агрегат из таблицы votes на момент чтения.
// CommentCount - денормализованный счётчик, поддерживаемый сервисом комментариев;
// авторитетное значение отдаёт агрегатный запрос CommentCount.
type Thread struct {
	ID           uuid.UUID
	Title        string
	Content      string
	AuthorID     uuid.UUID
	CategoryID   string
	IsPinned     bool
	Tags         []string
	Upvotes      int64
	Downvotes    int64
	CommentCount int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ThreadSort - порядок выдачи списка тем.
type ThreadSort string

const (
	// SortRecent - сначала новые.
	SortRecent ThreadSort = "recent"
	// SortPopular - по рейтингу (upvotes - downvotes).
	SortPopular ThreadSort = "popular"
	// SortComments - по количеству комментариев.
	SortComments ThreadSort = "comments"
)

// Valid сообщает, поддерживается ли порядок сортировки.
func (s ThreadSort) Valid() bool {
	switch s {
	case SortRecent, SortPopular, SortComments:
		return true
	default:
		return false
	}
}

// ThreadFilter - параметры выборки списка тем.
type ThreadFilter struct {
	CategoryID string
	AuthorID   uuid.UUID
	Tag        string
	Query      string
	Unanswered bool
	Sort       ThreadSort
	Page       int
	Limit      int
}

// ThreadPage - страница тем с offset-пагинацией.
type ThreadPage struct {
	Items      []Thread
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}
