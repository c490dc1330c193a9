package mongo

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/storage"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson"
)

// testTimeout - общий дедлайн на операции с БД в тестах.
const testTimeout = 10 * time.Second

// TestMain запускает MongoDB в контейнере один раз на весь пакет.
// Адрес прокидывается в MONGO_TEST_URL; каждый тест работает в своей БД.
func TestMain(m *testing.M) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "mongo:7.0",
		ExposedPorts: []string{"27017/tcp"},
		WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(90 * time.Second),
	}

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start mongo testcontainer: %v\n", err)
		os.Exit(1)
	}

	host, err := mongoC.Host(ctx)
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get container host: %v\n", err)
		os.Exit(1)
	}

	port, err := mongoC.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get mapped port: %v\n", err)
		os.Exit(1)
	}

	_ = os.Setenv("MONGO_TEST_URL", fmt.Sprintf("mongodb://%s:%s", host, port.Port()))

	code := m.Run()

	_ = mongoC.Terminate(context.Background())
	os.Exit(code)
}

// newTestMongo подключается к отдельной БД и удаляет её после теста.
func newTestMongo(t *testing.T) *Mongo {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	dbName := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	m, err := New(ctx, os.Getenv("MONGO_TEST_URL")+"/"+dbName)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		_ = m.db.Drop(ctx)
		_ = m.Close(ctx)
	})

	return m
}

func TestDatabaseFromURI(t *testing.T) {
	require.Equal(t, "forum_x", databaseFromURI("mongodb://localhost:27017/forum_x"))
	require.Equal(t, "forum", databaseFromURI("mongodb://localhost:27017"))
	require.Equal(t, "forum", databaseFromURI("mongodb://localhost:27017/"))
	require.Equal(t, "forum", databaseFromURI("::bad::"))
}

func TestDocRoundTrip(t *testing.T) {
	c := &models.Comment{
		ThreadID: uuid.New(), ParentID: "p", AuthorID: uuid.New(),
		Content: "hi", Level: 2, IsAnswer: true,
		CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}

	got := toDoc(c).toModel()
	require.Equal(t, c.ThreadID, got.ThreadID)
	require.Equal(t, c.AuthorID, got.AuthorID)
	require.Equal(t, "p", got.ParentID)
	require.Equal(t, 2, got.Level)
	require.True(t, got.IsAnswer)
}

func TestParseID_BadHexIsNotFound(t *testing.T) {
	_, err := parseID("op", "not-an-oid")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func newComment(thread uuid.UUID, parent string, at time.Time) *models.Comment {
	return &models.Comment{ThreadID: thread, ParentID: parent, AuthorID: uuid.New(), Content: "text", CreatedAt: at}
}

func TestIntegration_CreateAndListByThread(t *testing.T) {
	m := newTestMongo(t)
	ctx := context.Background()
	thread := uuid.New()
	base := time.Now().UTC()

	root := newComment(thread, "", base)
	require.NoError(t, m.CreateComment(ctx, root))
	require.NotEmpty(t, root.ID)

	reply := newComment(thread, root.ID, base.Add(time.Second))
	reply.Level = 1
	require.NoError(t, m.CreateComment(ctx, reply))

	require.NoError(t, m.CreateComment(ctx, newComment(uuid.New(), "", base)))

	items, err := m.CommentsByThread(ctx, thread)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, root.ID, items[0].ID)
	require.Equal(t, root.ID, items[1].ParentID)
	require.Equal(t, 1, items[1].Level)

	got, err := m.CommentByID(ctx, reply.ID)
	require.NoError(t, err)
	require.Equal(t, thread, got.ThreadID)

	_, err = m.CommentByID(ctx, "000000000000000000000000")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestIntegration_SoftDeleteAndCount(t *testing.T) {
	m := newTestMongo(t)
	ctx := context.Background()
	thread := uuid.New()

	a := newComment(thread, "", time.Now())
	b := newComment(thread, "", time.Now())
	require.NoError(t, m.CreateComment(ctx, a))
	require.NoError(t, m.CreateComment(ctx, b))

	n, err := m.CountComments(ctx, thread)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	ok, err := m.SoftDeleteComment(ctx, a.ID, time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = m.SoftDeleteComment(ctx, a.ID, time.Now())
	require.NoError(t, err)
	require.False(t, ok)

	_, err = m.SoftDeleteComment(ctx, "000000000000000000000000", time.Now())
	require.ErrorIs(t, err, storage.ErrNotFound)

	n, err = m.CountComments(ctx, thread)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	got, err := m.CommentByID(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, got.IsDeleted)
	require.Empty(t, got.Content)

	// удалённый комментарий не редактируется
	_, err = m.UpdateCommentContent(ctx, a.ID, "again", time.Now())
	require.ErrorIs(t, err, storage.ErrNotFound)

	upd, err := m.UpdateCommentContent(ctx, b.ID, "edited", time.Now())
	require.NoError(t, err)
	require.Equal(t, "edited", upd.Content)
}

func TestIntegration_SetAnswer_SingleAnswerPerThread(t *testing.T) {
	m := newTestMongo(t)
	ctx := context.Background()
	thread := uuid.New()

	a := newComment(thread, "", time.Now())
	b := newComment(thread, "", time.Now())
	require.NoError(t, m.CreateComment(ctx, a))
	require.NoError(t, m.CreateComment(ctx, b))

	require.NoError(t, m.SetAnswer(ctx, thread, a.ID, true))
	require.NoError(t, m.SetAnswer(ctx, thread, b.ID, true))

	n, err := m.comments.CountDocuments(ctx, bson.D{{Key: "thread_id", Value: thread.String()}, {Key: "is_answer", Value: true}})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	got, err := m.CommentByID(ctx, b.ID)
	require.NoError(t, err)
	require.True(t, got.IsAnswer)

	require.NoError(t, m.SetAnswer(ctx, thread, b.ID, false))
	got, err = m.CommentByID(ctx, b.ID)
	require.NoError(t, err)
	require.False(t, got.IsAnswer)

	// комментарий другой темы
	require.ErrorIs(t, m.SetAnswer(ctx, uuid.New(), a.ID, true), storage.ErrNotFound)
}

func TestIntegration_DeleteThreadComments(t *testing.T) {
	m := newTestMongo(t)
	ctx := context.Background()
	thread := uuid.New()

	a := newComment(thread, "", time.Now())
	require.NoError(t, m.CreateComment(ctx, a))
	other := newComment(uuid.New(), "", time.Now())
	require.NoError(t, m.CreateComment(ctx, other))

	ids, err := m.DeleteThreadComments(ctx, thread)
	require.NoError(t, err)
	require.Equal(t, []string{a.ID}, ids)

	items, err := m.CommentsByThread(ctx, thread)
	require.NoError(t, err)
	require.Empty(t, items)

	_, err = m.CommentByID(ctx, other.ID)
	require.NoError(t, err)
}

func TestIntegration_EnsureIndexes_Created(t *testing.T) {
	m := newTestMongo(t)
	ctx := context.Background()

	cur, err := m.comments.Indexes().List(ctx)
	require.NoError(t, err)

	var specs []bson.M
	require.NoError(t, cur.All(ctx, &specs))

	names := map[string]bool{}
	for _, s := range specs {
		names[s["name"].(string)] = true
	}

	for _, want := range []string{"thread_created_asc", "thread_deleted", "thread_answer"} {
		require.True(t, names[want], "index %s missing", want)
	}
}
