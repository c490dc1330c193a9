package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/storage"
	"github.com/pribylovaa/go-forum/internal/votes"
)

// voteTally - агрегат голосов одной сущности.
const voteTally = `
	SELECT COUNT(*) FILTER (WHERE direction = 'up'),
	       COUNT(*) FILTER (WHERE direction = 'down')
	FROM votes
	WHERE entity_type = $1 AND entity_id = $2
`

func lockKey(key storage.VoteKey) string {
	return key.UserID.String() + "|" + string(key.EntityType) + "|" + key.EntityID
}

// LockVote берёт транзакционную advisory-блокировку на пару (пользователь, сущность)
// и читает текущий голос FOR UPDATE. Вызывать внутри RunInTx: блокировка
// снимается при завершении транзакции и сериализует и первый голос, для которого
// строки ещё нет.
func (s *Storage) LockVote(ctx context.Context, key storage.VoteKey) (votes.Direction, error) {
	const op = "storage/postgres/votes/LockVote"

	q := s.querier(ctx)

	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey(key)); err != nil {
		return votes.None, fmt.Errorf("%s: %w", op, err)
	}

	const sel = `
		SELECT direction FROM votes
		WHERE user_id = $1 AND entity_type = $2 AND entity_id = $3
		FOR UPDATE
	`

	return s.readVote(ctx, op, sel, key)
}

// UserVote возвращает голос пользователя за сущность (votes.None, если его нет).
func (s *Storage) UserVote(ctx context.Context, key storage.VoteKey) (votes.Direction, error) {
	const op = "storage/postgres/votes/UserVote"

	const sel = `
		SELECT direction FROM votes
		WHERE user_id = $1 AND entity_type = $2 AND entity_id = $3
	`

	return s.readVote(ctx, op, sel, key)
}

func (s *Storage) readVote(ctx context.Context, op, query string, key storage.VoteKey) (votes.Direction, error) {
	var raw string
	err := s.querier(ctx).QueryRow(ctx, query, key.UserID, string(key.EntityType), key.EntityID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return votes.None, nil
		}

		return votes.None, fmt.Errorf("%s: %w", op, err)
	}

	dir, err := votes.ParseDirection(raw)
	if err != nil {
		return votes.None, fmt.Errorf("%s: %w", op, err)
	}

	return dir, nil
}

// InsertVote сохраняет новый голос.
func (s *Storage) InsertVote(ctx context.Context, key storage.VoteKey, dir votes.Direction, at time.Time) error {
	const op = "storage/postgres/votes/InsertVote"

	query := `
	INSERT INTO votes (user_id, entity_type, entity_id, direction, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $5)
	`

	_, err := s.querier(ctx).Exec(ctx, query, key.UserID, string(key.EntityType), key.EntityID, dir.String(), at)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	return nil
}

// SwitchVote меняет направление существующего голоса.
func (s *Storage) SwitchVote(ctx context.Context, key storage.VoteKey, dir votes.Direction, at time.Time) error {
	const op = "storage/postgres/votes/SwitchVote"

	query := `
	UPDATE votes SET direction = $4, updated_at = $5
	WHERE user_id = $1 AND entity_type = $2 AND entity_id = $3
	`

	tag, err := s.querier(ctx).Exec(ctx, query, key.UserID, string(key.EntityType), key.EntityID, dir.String(), at)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// DeleteVote удаляет голос.
func (s *Storage) DeleteVote(ctx context.Context, key storage.VoteKey) error {
	const op = "storage/postgres/votes/DeleteVote"

	query := `DELETE FROM votes WHERE user_id = $1 AND entity_type = $2 AND entity_id = $3`

	tag, err := s.querier(ctx).Exec(ctx, query, key.UserID, string(key.EntityType), key.EntityID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return nil
}

// VoteCount - агрегат голосов за сущность.
func (s *Storage) VoteCount(ctx context.Context, entityType models.EntityType, entityID string) (votes.Tally, error) {
	const op = "storage/postgres/votes/VoteCount"

	var t votes.Tally
	if err := s.querier(ctx).QueryRow(ctx, voteTally, string(entityType), entityID).Scan(&t.Up, &t.Down); err != nil {
		return votes.Tally{}, fmt.Errorf("%s: %w", op, err)
	}

	return t, nil
}

// VoteCounts - агрегаты для набора сущностей одного типа.
// В результате есть ключ для каждого запрошенного ID.
func (s *Storage) VoteCounts(ctx context.Context, entityType models.EntityType, entityIDs []string) (map[string]votes.Tally, error) {
	const op = "storage/postgres/votes/VoteCounts"

	out := make(map[string]votes.Tally, len(entityIDs))
	if len(entityIDs) == 0 {
		return out, nil
	}

	for _, id := range entityIDs {
		out[id] = votes.Tally{}
	}

	query := `
	SELECT entity_id,
	       COUNT(*) FILTER (WHERE direction = 'up'),
	       COUNT(*) FILTER (WHERE direction = 'down')
	FROM votes
	WHERE entity_type = $1 AND entity_id = ANY($2)
	GROUP BY entity_id
	`

	rows, err := s.querier(ctx).Query(ctx, query, string(entityType), entityIDs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var t votes.Tally
		if err := rows.Scan(&id, &t.Up, &t.Down); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		out[id] = t
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return out, nil
}

// DeleteEntityVotes удаляет голоса за набор сущностей одного типа.
func (s *Storage) DeleteEntityVotes(ctx context.Context, entityType models.EntityType, entityIDs []string) error {
	const op = "storage/postgres/votes/DeleteEntityVotes"

	if len(entityIDs) == 0 {
		return nil
	}

	_, err := s.querier(ctx).Exec(ctx,
		`DELETE FROM votes WHERE entity_type = $1 AND entity_id = ANY($2)`, string(entityType), entityIDs)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
