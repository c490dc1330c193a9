// session рассылает уведомления о смене состояния сессии пользователя
// (регистрация, вход, обновление токенов, выход) подписчикам.
//
// Жизненный цикл подписки явный: Subscribe -> Events() -> Unsubscribe().
// SubscribeContext привязывает подписку к контексту и гарантирует отписку,
// когда контекст завершается (например, закрыт HTTP-запрос SSE-стрима).
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/pkg/log"
)

// ErrClosed - брокер закрыт, новые подписки невозможны.
var ErrClosed = errors.New("session broker closed")

// Kind - тип события сессии.
type Kind string

const (
	SignedUp       Kind = "signed_up"
	SignedIn       Kind = "signed_in"
	TokenRefreshed Kind = "token_refreshed"
	SignedOut      Kind = "signed_out"
)

// Event - уведомление о смене сессии.
type Event struct {
	Kind   Kind      `json:"kind"`
	UserID uuid.UUID `json:"user_id"`
	At     time.Time `json:"at"`
}

// Filter отбирает события для подписчика. nil - все события.
type Filter func(Event) bool

// ForUser - фильтр событий одного пользователя.
func ForUser(id uuid.UUID) Filter {
	return func(e Event) bool { return e.UserID == id }
}

const defaultBuffer = 16

// Broker - in-process рассыльщик событий. Безопасен для конкурентного использования.
// Медленный подписчик не блокирует публикацию: при переполнении буфера
// вытесняется самое старое событие.
type Broker struct {
	mu     sync.RWMutex
	subs   map[uint64]*Subscription
	nextID uint64
	buffer int
	closed bool
}

// NewBroker создаёт брокер с буфером buffer событий на подписку (<=0 - 16).
func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = defaultBuffer
	}

	return &Broker{
		subs:   make(map[uint64]*Subscription),
		buffer: buffer,
	}
}

// Subscription - подписка на события. Канал Events закрывается ровно один раз при отписке.
type Subscription struct {
	id     uint64
	broker *Broker
	filter Filter

	mu     sync.Mutex
	ch     chan Event
	done   chan struct{}
	closed bool
	once   sync.Once
}

// Events возвращает канал событий подписки.
func (s *Subscription) Events() <-chan Event { return s.ch }

// Done закрывается после отписки.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Unsubscribe снимает подписку. Идемпотентен.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		s.broker.remove(s.id)

		s.mu.Lock()
		s.closed = true
		close(s.ch)
		s.mu.Unlock()

		close(s.done)
	})
}

func (s *Subscription) deliver(ctx context.Context, ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	select {
	case s.ch <- ev:
		return
	default:
	}

	// Буфер полон: вытесняем самое старое событие.
	select {
	case old := <-s.ch:
		log.From(ctx).Warn("session_event_dropped",
			slog.Uint64("subscription", s.id),
			slog.String("kind", string(old.Kind)),
		)
	default:
	}

	select {
	case s.ch <- ev:
	default:
	}
}

// Subscribe регистрирует подписку. Вызывающий обязан вызвать Unsubscribe.
func (b *Broker) Subscribe(filter Filter) (*Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrClosed
	}

	b.nextID++
	sub := &Subscription{
		id:     b.nextID,
		broker: b,
		filter: filter,
		ch:     make(chan Event, b.buffer),
		done:   make(chan struct{}),
	}
	b.subs[sub.id] = sub

	return sub, nil
}

// SubscribeContext - Subscribe с автоматической отпиской по завершении ctx.
func (b *Broker) SubscribeContext(ctx context.Context, filter Filter) (*Subscription, error) {
	sub, err := b.Subscribe(filter)
	if err != nil {
		return nil, err
	}

	go func() {
		select {
		case <-ctx.Done():
			sub.Unsubscribe()
		case <-sub.Done():
		}
	}()

	return sub, nil
}

// Publish доставляет событие всем подходящим подписчикам. Не блокируется.
func (b *Broker) Publish(ctx context.Context, ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	b.mu.RLock()
	targets := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.filter == nil || s.filter(ev) {
			targets = append(targets, s)
		}
	}
	b.mu.RUnlock()

	for _, s := range targets {
		s.deliver(ctx, ev)
	}
}

// Len возвращает число активных подписок.
func (b *Broker) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.subs)
}

// Close отписывает всех подписчиков и запрещает новые подписки.
func (b *Broker) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}

	b.closed = true
	subs := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
}

func (b *Broker) remove(id uint64) {
	b.mu.Lock()
	delete(b.subs, id)
	b.mu.Unlock()
}
