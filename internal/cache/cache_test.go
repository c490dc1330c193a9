package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/votes"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestParseRefreshEntry(t *testing.T) {
	uid := uuid.New()

	e, ok, err := parseRefreshEntry(map[string]string{"uid": uid.String(), "rev": "1", "exp": "1700000000"})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uid, e.UserID)
	require.True(t, e.Revoked)
	require.Equal(t, time.Unix(1700000000, 0).UTC(), e.ExpiresAt)

	// хэш без uid (например, только rev) - промах
	_, ok, err = parseRefreshEntry(map[string]string{"rev": "1"})
	require.NoError(t, err)
	require.False(t, ok)

	_, _, err = parseRefreshEntry(map[string]string{"uid": "bad", "exp": "1"})
	require.Error(t, err)
}

func TestParseTally(t *testing.T) {
	tally, ok, err := parseTally(map[string]string{"up": "3", "down": "1"})
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, votes.Tally{Up: 3, Down: 1}, tally)

	_, ok, err = parseTally(nil)
	require.NoError(t, err)
	require.False(t, ok)

	_, _, err = parseTally(map[string]string{"up": "x", "down": "1"})
	require.Error(t, err)
}

func TestKeys(t *testing.T) {
	c := &Client{prefix: "p:"}

	require.Equal(t, "p:rt:abc", c.Refresh().key("abc"))
	require.Equal(t, "p:votes:thread:t1", c.Votes(time.Minute).key(models.EntityThread, "t1"))
}

func TestNop(t *testing.T) {
	ctx := context.Background()

	_, ok, err := NopRefresh{}.Get(ctx, "h")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, NopRefresh{}.MarkRevoked(ctx, "h"))

	_, ok, err = NopVotes{}.Get(ctx, models.EntityThread, "t")
	require.NoError(t, err)
	require.False(t, ok)
}

func startRedis(t *testing.T) *Client {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "6379/tcp")

	cli, err := New(ctx, fmt.Sprintf("redis://%s:%s/0", host, port.Port()), "test:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = cli.Close() })

	return cli
}

func TestIntegration_RefreshCache(t *testing.T) {
	cli := startRedis(t)
	ctx := context.Background()
	rc := cli.Refresh()
	uid := uuid.New()
	exp := time.Now().Add(time.Hour).Truncate(time.Second).UTC()

	// отзыв несуществующей записи не создаёт ключ
	require.NoError(t, rc.MarkRevoked(ctx, "missing"))
	n, err := cli.rdb.Exists(ctx, rc.key("missing")).Result()
	require.NoError(t, err)
	require.Zero(t, n)

	require.NoError(t, rc.Set(ctx, "h", &RefreshEntry{UserID: uid, ExpiresAt: exp}, time.Hour))

	got, ok, err := rc.Get(ctx, "h")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, uid, got.UserID)
	require.False(t, got.Revoked)
	require.Equal(t, exp, got.ExpiresAt)

	require.NoError(t, rc.MarkRevoked(ctx, "h"))
	got, ok, err = rc.Get(ctx, "h")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, got.Revoked)

	ttl, err := cli.rdb.TTL(ctx, rc.key("h")).Result()
	require.NoError(t, err)
	require.Greater(t, ttl, time.Duration(0))
}

func TestIntegration_VoteCountCache(t *testing.T) {
	cli := startRedis(t)
	ctx := context.Background()
	vc := cli.Votes(time.Minute)

	_, ok, err := vc.Get(ctx, models.EntityComment, "c1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, vc.Set(ctx, models.EntityComment, "c1", votes.Tally{Up: 2, Down: 5}))

	got, ok, err := vc.Get(ctx, models.EntityComment, "c1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, votes.Tally{Up: 2, Down: 5}, got)

	require.NoError(t, vc.Invalidate(ctx, models.EntityComment, "c1"))
	_, ok, err = vc.Get(ctx, models.EntityComment, "c1")
	require.NoError(t, err)
	require.False(t, ok)
}
