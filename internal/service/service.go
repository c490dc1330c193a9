// service содержит бизнес-логику форума: регистрацию и сессии,
// разделы, темы, комментарии, голоса, профили и информационные страницы.
//
// Основные аспекты:
//   - Service не хранит состояние запроса и безопасен для конкурентного
//     использования при условии, что переданные хранилища потокобезопасны.
//   - Методы принимают идентификатор действующего пользователя (actor) явно;
//     проверка прав выполняется здесь, а не в транспорте.
//   - Ошибки хранилищ маппятся в ошибки пакета (errors.go); всё непредвиденное
//     логируется и возвращается как ErrInternal.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/cache"
	"github.com/pribylovaa/go-forum/internal/config"
	"github.com/pribylovaa/go-forum/internal/events"
	"github.com/pribylovaa/go-forum/internal/metrics"
	"github.com/pribylovaa/go-forum/internal/moderation"
	"github.com/pribylovaa/go-forum/internal/pages"
	"github.com/pribylovaa/go-forum/internal/session"
	"github.com/pribylovaa/go-forum/internal/storage"
	"github.com/pribylovaa/go-forum/pkg/log"
)

// Deps - зависимости сервиса. Обязательны Storage и Comments;
// остальные могут быть nil и заменяются no-op реализациями.
type Deps struct {
	Storage      storage.Storage
	Comments     storage.CommentsStorage
	Avatars      storage.AvatarsStorage
	RefreshCache cache.RefreshCache
	VoteCache    cache.VoteCountCache
	Publisher    events.Publisher
	Sessions     *session.Broker
	Moderation   *moderation.Filter
	Pages        *pages.Pages
}

// Service описывает бизнес-логику форума.
type Service struct {
	storage    storage.Storage
	comments   storage.CommentsStorage
	avatars    storage.AvatarsStorage // nil, если S3 не сконфигурирован
	rcache     cache.RefreshCache
	vcache     cache.VoteCountCache
	events     events.Publisher
	sessions   *session.Broker
	moderation *moderation.Filter
	pages      *pages.Pages
	cfg        *config.Config
	now        func() time.Time
}

// New создаёт новый экземпляр Service.
func New(deps Deps, cfg *config.Config) *Service {
	s := &Service{
		storage:    deps.Storage,
		comments:   deps.Comments,
		avatars:    deps.Avatars,
		rcache:     deps.RefreshCache,
		vcache:     deps.VoteCache,
		events:     deps.Publisher,
		sessions:   deps.Sessions,
		moderation: deps.Moderation,
		pages:      deps.Pages,
		cfg:        cfg,
		now:        func() time.Time { return time.Now().UTC() },
	}

	if s.rcache == nil {
		s.rcache = cache.NopRefresh{}
	}
	if s.vcache == nil {
		s.vcache = cache.NopVotes{}
	}
	if s.events == nil {
		s.events = events.Nop{}
	}
	if s.sessions == nil {
		s.sessions = session.NewBroker(cfg.Sessions.Buffer)
	}

	return s
}

// Sessions возвращает брокер событий сессии (SSE-стрим и пересылка в Kafka).
func (s *Service) Sessions() *session.Broker {
	return s.sessions
}

// publish отправляет доменное событие. Ошибка отправки не влияет на результат операции.
func (s *Service) publish(ctx context.Context, ev events.Event) {
	if err := s.events.Publish(ctx, ev); err != nil {
		metrics.EventsPublishFailed.Inc()
		log.From(ctx).Warn("event_publish_failed",
			"type", ev.Type,
			"entity_id", ev.EntityID,
			"err", err,
		)
	}
}

// notifySession публикует событие смены сессии подписчикам.
func (s *Service) notifySession(ctx context.Context, kind session.Kind, userID uuid.UUID) {
	metrics.SessionEvents.WithLabelValues(string(kind)).Inc()
	s.sessions.Publish(ctx, session.Event{Kind: kind, UserID: userID, At: s.now()})
}

// checkContent прогоняет тексты через фильтр модерации.
func (s *Service) checkContent(op string, texts ...string) error {
	if err := s.moderation.Check(texts...); err != nil {
		if errors.Is(err, moderation.ErrRejected) {
			metrics.ContentRejected.Inc()
			return fmt.Errorf("%s: %w: %w", op, ErrContentRejected, err)
		}

		return fmt.Errorf("%s: %w", op, ErrInternal)
	}

	return nil
}

// isAdmin проверяет роль пользователя. Отсутствующий профиль - не администратор.
func (s *Service) isAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	const op = "service/isAdmin"

	if userID == uuid.Nil {
		return false, nil
	}

	p, err := s.storage.ProfileByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return false, nil
		}

		return false, fromStorage(log.From(ctx).With("op", op), op, err)
	}

	return p.IsAdmin(), nil
}

// canModify - автор сущности или администратор.
func (s *Service) canModify(ctx context.Context, actor, author uuid.UUID) (bool, error) {
	if actor == uuid.Nil {
		return false, nil
	}
	if actor == author {
		return true, nil
	}

	return s.isAdmin(ctx, actor)
}

// pageLimit нормализует размер страницы: 0 - значение по умолчанию,
// выход за границы - ошибка.
func (s *Service) pageLimit(page, limit int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = s.cfg.Limits.DefaultPage
	}

	if page < 1 || limit < 1 || limit > s.cfg.Limits.MaxPage {
		return 0, 0, ErrInvalidArgument
	}

	return page, limit, nil
}
