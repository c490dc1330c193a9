// cache - Redis-кэши сервиса: записи refresh-токенов и агрегаты голосов.
// Кэш необязателен: при пустом redis.url используются Nop-реализации.
package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Client - общий клиент Redis с префиксом ключей.
type Client struct {
	rdb    *redis.Client
	prefix string
}

// New создаёт клиент Redis из URL (например, redis://:pass@host:6379/0).
// Если prefix пустой - используется "forum:".
func New(ctx context.Context, redisURL, prefix string) (*Client, error) {
	const op = "cache/New"

	if prefix == "" {
		prefix = "forum:"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb := redis.NewClient(opt)

	// Fail-fast на старте.
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Client{rdb: rdb, prefix: prefix}, nil
}

// Ping проверяет доступность Redis.
func (c *Client) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

// Close закрывает клиент Redis.
func (c *Client) Close() error { return c.rdb.Close() }
