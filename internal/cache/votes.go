package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/votes"
)

// VoteCountCache - cache-aside для агрегатов голосов.
type VoteCountCache interface {
	Get(ctx context.Context, entityType models.EntityType, entityID string) (votes.Tally, bool, error)
	Set(ctx context.Context, entityType models.EntityType, entityID string, t votes.Tally) error
	// Invalidate удаляет агрегат; вызывается после каждого голосования.
	Invalidate(ctx context.Context, entityType models.EntityType, entityID string) error
}

// VoteCounts - VoteCountCache поверх Redis Hash с полями up, down.
type VoteCounts struct {
	c   *Client
	ttl time.Duration
}

// Votes возвращает кэш агрегатов голосов с заданным TTL.
func (c *Client) Votes(ttl time.Duration) *VoteCounts { return &VoteCounts{c: c, ttl: ttl} }

func (v *VoteCounts) key(entityType models.EntityType, entityID string) string {
	return v.c.prefix + "votes:" + string(entityType) + ":" + entityID
}

func (v *VoteCounts) Get(ctx context.Context, entityType models.EntityType, entityID string) (votes.Tally, bool, error) {
	m, err := v.c.rdb.HGetAll(ctx, v.key(entityType, entityID)).Result()
	if err != nil {
		return votes.Tally{}, false, err
	}

	return parseTally(m)
}

func parseTally(m map[string]string) (votes.Tally, bool, error) {
	if len(m) == 0 {
		return votes.Tally{}, false, nil
	}

	up, err := strconv.ParseInt(m["up"], 10, 64)
	if err != nil {
		return votes.Tally{}, false, err
	}

	down, err := strconv.ParseInt(m["down"], 10, 64)
	if err != nil {
		return votes.Tally{}, false, err
	}

	return votes.Tally{Up: up, Down: down}, true, nil
}

func (v *VoteCounts) Set(ctx context.Context, entityType models.EntityType, entityID string, t votes.Tally) error {
	key := v.key(entityType, entityID)

	pipe := v.c.rdb.TxPipeline()
	pipe.HSet(ctx, key, "up", strconv.FormatInt(t.Up, 10), "down", strconv.FormatInt(t.Down, 10))
	pipe.Expire(ctx, key, v.ttl)

	_, err := pipe.Exec(ctx)
	return err
}

func (v *VoteCounts) Invalidate(ctx context.Context, entityType models.EntityType, entityID string) error {
	return v.c.rdb.Del(ctx, v.key(entityType, entityID)).Err()
}

// NopVotes - VoteCountCache без хранения (кэш выключен).
type NopVotes struct{}

func (NopVotes) Get(context.Context, models.EntityType, string) (votes.Tally, bool, error) {
	return votes.Tally{}, false, nil
}
func (NopVotes) Set(context.Context, models.EntityType, string, votes.Tally) error { return nil }
func (NopVotes) Invalidate(context.Context, models.EntityType, string) error      { return nil }

var (
	_ VoteCountCache = (*VoteCounts)(nil)
	_ VoteCountCache = NopVotes{}
)
