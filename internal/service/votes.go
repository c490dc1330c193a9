package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/events"
	"github.com/pribylovaa/go-forum/internal/metrics"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/storage"
	"github.com/pribylovaa/go-forum/internal/votes"
	"github.com/pribylovaa/go-forum/pkg/log"
)

// VoteResult - состояние голоса пользователя и авторитетный агрегат после голосования.
type VoteResult struct {
	State votes.Direction
	Tally votes.Tally
}

// voteTarget - сущность, за которую голосуют.
type voteTarget struct {
	threadID string
	authorID uuid.UUID
}

// CastVote применяет голос пользователя. Повтор того же направления отзывает голос,
// противоположное направление переключает его.
//
// Чтение голоса, мутация и пересчёт агрегата выполняются в одной транзакции
// под блокировкой пары (пользователь, сущность); возвращается агрегат из БД.
func (s *Service) CastVote(ctx context.Context, userID uuid.UUID, entityType models.EntityType, entityID string, dir votes.Direction) (*VoteResult, error) {
	const op = "service/votes/CastVote"

	lg := log.From(ctx).With(
		"op", op,
		"user_id", userID.String(),
		"entity_type", entityType,
		"entity_id", entityID,
		"direction", dir.String(),
	)

	if userID == uuid.Nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	entityID, ok := canonicalEntityID(entityType, entityID)
	if !ok || (dir != votes.Up && dir != votes.Down) {
		lg.Warn("invalid_argument")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	target, err := s.voteTarget(ctx, op, entityType, entityID)
	if err != nil {
		return nil, err
	}

	key := storage.VoteKey{UserID: userID, EntityType: entityType, EntityID: entityID}

	var (
		result VoteResult
		change votes.Change
	)

	err = s.storage.RunInTx(ctx, func(ctx context.Context) error {
		current, err := s.storage.LockVote(ctx, key)
		if err != nil {
			return err
		}

		tally, err := s.storage.VoteCount(ctx, entityType, entityID)
		if err != nil {
			return err
		}

		pending, err := votes.Optimistic(current, tally, dir)
		if err != nil {
			return err
		}

		change = pending.Change
		if clamped(current, tally) {
			lg.Warn("vote_tally_clamped", "up", tally.Up, "down", tally.Down)
		}

		now := s.now()
		switch change {
		case votes.Insert:
			err = s.storage.InsertVote(ctx, key, dir, now)
		case votes.Delete:
			err = s.storage.DeleteVote(ctx, key)
		case votes.Switch:
			err = s.storage.SwitchVote(ctx, key, dir, now)
		}
		if err != nil {
			return err
		}

		authoritative, err := s.storage.VoteCount(ctx, entityType, entityID)
		if err != nil {
			return err
		}

		if authoritative != pending.Tally {
			lg.Debug("vote_tally_reconciled",
				"optimistic_up", pending.Tally.Up, "optimistic_down", pending.Tally.Down,
				"up", authoritative.Up, "down", authoritative.Down,
			)
		}

		result.State, result.Tally = pending.Confirm(pending.State, authoritative)

		return nil
	})
	if err != nil {
		return nil, fromStorage(lg, op, err)
	}

	s.invalidateVotes(ctx, entityType, entityID)
	metrics.VotesCast.WithLabelValues(string(entityType), change.String()).Inc()

	s.publish(ctx, events.Event{
		Type:        events.VoteCast,
		ActorID:     userID,
		RecipientID: recipient(userID, target.authorID),
		EntityType:  string(entityType),
		EntityID:    entityID,
		ThreadID:    target.threadID,
		Data: map[string]any{
			"state":     result.State.String(),
			"upvotes":   result.Tally.Up,
			"downvotes": result.Tally.Down,
		},
	})

	return &result, nil
}

// VoteCount - агрегат голосов за сущность (cache-aside через Redis).
func (s *Service) VoteCount(ctx context.Context, entityType models.EntityType, entityID string) (votes.Tally, error) {
	const op = "service/votes/VoteCount"

	lg := log.From(ctx).With("op", op, "entity_type", entityType, "entity_id", entityID)

	entityID, ok := canonicalEntityID(entityType, entityID)
	if !ok {
		lg.Warn("invalid_argument")
		return votes.Tally{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	t, ok, err := s.vcache.Get(ctx, entityType, entityID)
	if err != nil {
		lg.Warn("vote_cache_get_failed", "err", err)
	}
	if ok && err == nil {
		return t, nil
	}

	t, err = s.storage.VoteCount(ctx, entityType, entityID)
	if err != nil {
		return votes.Tally{}, fromStorage(lg, op, err)
	}

	if err := s.vcache.Set(ctx, entityType, entityID, t); err != nil {
		lg.Warn("vote_cache_set_failed", "err", err)
	}

	return t, nil
}

// UserVote - текущий голос пользователя за сущность (votes.None, если не голосовал).
func (s *Service) UserVote(ctx context.Context, userID uuid.UUID, entityType models.EntityType, entityID string) (votes.Direction, error) {
	const op = "service/votes/UserVote"

	lg := log.From(ctx).With("op", op, "user_id", userID.String(), "entity_type", entityType, "entity_id", entityID)

	if userID == uuid.Nil {
		return votes.None, nil
	}

	entityID, ok := canonicalEntityID(entityType, entityID)
	if !ok {
		return votes.None, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	d, err := s.storage.UserVote(ctx, storage.VoteKey{UserID: userID, EntityType: entityType, EntityID: entityID})
	if err != nil {
		return votes.None, fromStorage(lg, op, err)
	}

	return d, nil
}

// voteTarget проверяет существование сущности и возвращает её тему и автора.
// entityID ожидается в канонической форме (canonicalEntityID).
func (s *Service) voteTarget(ctx context.Context, op string, entityType models.EntityType, entityID string) (voteTarget, error) {
	lg := log.From(ctx).With("op", op, "entity_type", entityType, "entity_id", entityID)

	switch entityType {
	case models.EntityThread:
		id, err := uuid.Parse(entityID)
		if err != nil {
			lg.Warn("invalid_thread_id")
			return voteTarget{}, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
		}

		t, err := s.storage.ThreadByID(ctx, id)
		if err != nil {
			return voteTarget{}, fromStorage(lg, op, err)
		}

		return voteTarget{threadID: t.ID.String(), authorID: t.AuthorID}, nil
	default:
		c, err := s.comments.CommentByID(ctx, entityID)
		if err != nil {
			return voteTarget{}, fromStorage(lg, op, err)
		}

		if c.IsDeleted {
			lg.Warn("comment_deleted")
			return voteTarget{}, fmt.Errorf("%s: %w", op, ErrNotFound)
		}

		return voteTarget{threadID: c.ThreadID.String(), authorID: c.AuthorID}, nil
	}
}

// invalidateVotes сбрасывает кэш агрегата; ошибка кэша только логируется.
func (s *Service) invalidateVotes(ctx context.Context, entityType models.EntityType, entityID string) {
	if err := s.vcache.Invalidate(ctx, entityType, entityID); err != nil {
		log.From(ctx).Warn("vote_cache_invalidate_failed",
			"entity_type", entityType,
			"entity_id", entityID,
			"err", err,
		)
	}
}

// clamped сообщает, что снятие голоса current ушло бы в минус (агрегат рассогласован).
func clamped(current votes.Direction, t votes.Tally) bool {
	switch current {
	case votes.Up:
		return t.Up == 0
	case votes.Down:
		return t.Down == 0
	default:
		return false
	}
}

// canonicalEntityID приводит id сущности к единственной форме, под которой хранятся голоса:
// UUID темы в виде uuid.UUID.String(), ObjectID комментария в нижнем регистре hex.
// Разные написания одного id (регистр, urn:uuid:, фигурные скобки) дают один ключ.
func canonicalEntityID(entityType models.EntityType, id string) (string, bool) {
	id = strings.TrimSpace(id)

	switch entityType {
	case models.EntityThread:
		u, err := uuid.Parse(id)
		if err != nil || u == uuid.Nil {
			return "", false
		}
		return u.String(), true
	case models.EntityComment:
		if len(id) != 24 {
			return "", false
		}
		if _, err := hex.DecodeString(id); err != nil {
			return "", false
		}
		return strings.ToLower(id), true
	default:
		return "", false
	}
}
