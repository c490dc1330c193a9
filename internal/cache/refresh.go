package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RefreshEntry описывает данные, которые хранятся в Redis по хэшу refresh-токена.
type RefreshEntry struct {
	UserID    uuid.UUID
	Revoked   bool
	ExpiresAt time.Time
}

// RefreshCache - контракт кэша refresh-токенов.
type RefreshCache interface {
	// Get возвращает запись и признак её наличия в кэше.
	Get(ctx context.Context, hash string) (*RefreshEntry, bool, error)
	// Set сохраняет запись с TTL (обычно ExpiresAt-now).
	Set(ctx context.Context, hash string, e *RefreshEntry, ttl time.Duration) error
	// MarkRevoked помечает существующую запись revoked=true, сохраняя остаточный TTL.
	MarkRevoked(ctx context.Context, hash string) error
}

// RefreshTokens - RefreshCache поверх Redis Hash с полями uid, rev (0/1), exp (unix).
type RefreshTokens struct {
	c *Client
}

// Refresh возвращает кэш refresh-токенов.
func (c *Client) Refresh() *RefreshTokens { return &RefreshTokens{c: c} }

func (r *RefreshTokens) key(hash string) string { return r.c.prefix + "rt:" + hash }

func (r *RefreshTokens) Get(ctx context.Context, hash string) (*RefreshEntry, bool, error) {
	m, err := r.c.rdb.HGetAll(ctx, r.key(hash)).Result()
	if err != nil {
		return nil, false, err
	}

	if len(m) == 0 {
		return nil, false, nil
	}

	return parseRefreshEntry(m)
}

// parseRefreshEntry разбирает поля хэша; неполная запись трактуется как промах.
func parseRefreshEntry(m map[string]string) (*RefreshEntry, bool, error) {
	if m["uid"] == "" || m["exp"] == "" {
		return nil, false, nil
	}

	uid, err := uuid.Parse(m["uid"])
	if err != nil {
		return nil, false, err
	}

	expUnix, err := strconv.ParseInt(m["exp"], 10, 64)
	if err != nil {
		return nil, false, err
	}

	return &RefreshEntry{
		UserID:    uid,
		Revoked:   m["rev"] == "1",
		ExpiresAt: time.Unix(expUnix, 0).UTC(),
	}, true, nil
}

func (r *RefreshTokens) Set(ctx context.Context, hash string, e *RefreshEntry, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	kv := map[string]string{
		"uid": e.UserID.String(),
		"rev": boolTo01(e.Revoked),
		"exp": strconv.FormatInt(e.ExpiresAt.Unix(), 10),
	}

	pipe := r.c.rdb.TxPipeline()
	pipe.HSet(ctx, r.key(hash), kv)
	pipe.Expire(ctx, r.key(hash), ttl)

	_, err := pipe.Exec(ctx)
	return err
}

// markRevoked не создаёт ключ без TTL, если записи в кэше нет.
var markRevoked = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 1 then
	return redis.call('HSET', KEYS[1], 'rev', '1')
end
return 0
`)

func (r *RefreshTokens) MarkRevoked(ctx context.Context, hash string) error {
	return markRevoked.Run(ctx, r.c.rdb, []string{r.key(hash)}).Err()
}

func boolTo01(b bool) string {
	if b {
		return "1"
	}

	return "0"
}

// NopRefresh - RefreshCache без хранения (кэш выключен).
type NopRefresh struct{}

func (NopRefresh) Get(context.Context, string) (*RefreshEntry, bool, error) { return nil, false, nil }
func (NopRefresh) Set(context.Context, string, *RefreshEntry, time.Duration) error {
	return nil
}
func (NopRefresh) MarkRevoked(context.Context, string) error { return nil }

var (
	_ RefreshCache = (*RefreshTokens)(nil)
	_ RefreshCache = NopRefresh{}
)
