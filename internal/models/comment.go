package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment - комментарий к теме (MongoDB).
//   - ID - ObjectID в hex-представлении;
//   - ParentID - пустой для корневого комментария;
//   - Level - глубина (корень = 0), ограничивается limits.max_depth;
//   - IsDeleted - мягкое удаление: текст очищается, узел остаётся в дереве.
type Comment struct {
	ID        string
	ThreadID  uuid.UUID
	ParentID  string
	AuthorID  uuid.UUID
	Content   string
	Level     int
	IsAnswer  bool
	IsDeleted bool
	Upvotes   int64
	Downvotes int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
