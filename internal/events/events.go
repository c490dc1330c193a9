// events публикует доменные события форума (темы, комментарии, голоса, сессии)
// для сервиса уведомлений. Транспорт - Kafka; при пустом списке брокеров
// используется Nop.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type - тип доменного события.
type Type string

const (
	ThreadCreated  Type = "thread_created"
	ThreadUpdated  Type = "thread_updated"
	ThreadDeleted  Type = "thread_deleted"
	ThreadPinned   Type = "thread_pinned"
	CommentCreated Type = "comment_created"
	CommentDeleted Type = "comment_deleted"
	AnswerMarked   Type = "answer_marked"
	VoteCast       Type = "vote_cast"
	SessionChanged Type = "session_changed"
)

// Event - сообщение в топике. RecipientID - пользователь, которого стоит уведомить
// (автор темы или родительского комментария), uuid.Nil если некого.
type Event struct {
	ID          uuid.UUID      `json:"id"`
	Type        Type           `json:"type"`
	At          time.Time      `json:"at"`
	ActorID     uuid.UUID      `json:"actor_id"`
	RecipientID uuid.UUID      `json:"recipient_id"`
	EntityType  string         `json:"entity_type,omitempty"`
	EntityID    string         `json:"entity_id,omitempty"`
	ThreadID    string         `json:"thread_id,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
}

// Publisher - отправка событий.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Nop - Publisher без отправки.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }

// fill проставляет ID и время, если они не заданы.
func fill(ev *Event, now time.Time) {
	if ev.ID == uuid.Nil {
		ev.ID = uuid.New()
	}
	if ev.At.IsZero() {
		ev.At = now.UTC()
	}
}
