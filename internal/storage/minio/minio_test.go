package minio

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pribylovaa/go-forum/internal/config"
	"github.com/pribylovaa/go-forum/internal/storage"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// Модульные тесты проверяют валидацию без сети; интеграционные поднимают MinIO
// через testcontainers-go и проходят полный цикл presign -> PUT -> confirm.
//
// Запуск:
//   GO_TEST_INTEGRATION=1 go test ./internal/storage/minio -v -race -count=1

func testConfigs(endpoint string) (config.S3Config, config.AvatarConfig) {
	return config.S3Config{
			Endpoint:      endpoint,
			RootUser:      "root",
			RootPassword:  "rootpass",
			Bucket:        "avatars",
			PresignTTL:    2 * time.Minute,
			PublicBaseURL: "http://cdn.local/",
		}, config.AvatarConfig{
			MaxSizeBytes:        1 << 20,
			AllowedContentTypes: []string{"image/png", "image/jpeg", "image/webp"},
		}
}

// offlineStorage - клиент без обращения к сети: mclient.New не устанавливает
// соединение, а заданный Region избавляет presign от запроса location бакета.
func offlineStorage(t *testing.T) *AvatarsStorage {
	t.Helper()
	s3, avatar := testConfigs("http://127.0.0.1:1")

	cli, err := mclient.New("127.0.0.1:1", &mclient.Options{
		Creds:  credentials.NewStaticV4("a", "b", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)

	return &AvatarsStorage{s3: s3, avatar: avatar, client: cli}
}

func TestSplitEndpoint(t *testing.T) {
	tests := []struct {
		in     string
		host   string
		secure bool
	}{
		{"http://minio:9000", "minio:9000", false},
		{"https://s3.example.com", "s3.example.com", true},
		{"minio:9000", "minio:9000", false},
	}

	for _, tt := range tests {
		host, secure := splitEndpoint(tt.in)
		require.Equal(t, tt.host, host, tt.in)
		require.Equal(t, tt.secure, secure, tt.in)
	}
}

func TestAvatarExt(t *testing.T) {
	require.Equal(t, ".jpg", avatarExt("image/jpeg"))
	require.Equal(t, ".png", avatarExt("image/png"))
	require.Equal(t, ".webp", avatarExt("image/webp"))
	require.Equal(t, "", avatarExt("image/gif"))
}

func TestAvatarUploadURL_Validation(t *testing.T) {
	st := offlineStorage(t)
	uid := uuid.New()

	_, err := st.AvatarUploadURL(context.Background(), uid, "image/gif", 10)
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	_, err = st.AvatarUploadURL(context.Background(), uid, "image/png", 0)
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	_, err = st.AvatarUploadURL(context.Background(), uid, "image/png", 2<<20)
	require.ErrorIs(t, err, storage.ErrInvalidArgument)
}

func TestAvatarUploadURL_PresignIsLocal(t *testing.T) {
	st := offlineStorage(t)
	uid := uuid.New()

	ui, err := st.AvatarUploadURL(context.Background(), uid, "image/webp", 42)
	require.NoError(t, err)
	require.Contains(t, ui.AvatarKey, "avatars/"+uid.String()+"/")
	require.Contains(t, ui.AvatarKey, ".webp")
	require.Equal(t, "42", ui.RequiredHeader["Content-Length"])
	require.Equal(t, 2*time.Minute, ui.Expires)
}

func TestCheckAvatarUpload_ForeignKey(t *testing.T) {
	st := offlineStorage(t)
	uid := uuid.New()

	_, err := st.CheckAvatarUpload(context.Background(), uid, "avatars/"+uuid.NewString()+"/x.png")
	require.ErrorIs(t, err, storage.ErrInvalidArgument)

	_, err = st.CheckAvatarUpload(context.Background(), uid, avatarPrefix(uid)+"../other/x.png")
	require.ErrorIs(t, err, storage.ErrInvalidArgument)
}

func startMinio(t *testing.T, createBucket bool) string {
	t.Helper()
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("integration tests are disabled (set GO_TEST_INTEGRATION=1)")
	}

	ctx := context.Background()
	req := tc.ContainerRequest{
		Image:        "docker.io/minio/minio:latest",
		Env:          map[string]string{"MINIO_ROOT_USER": "root", "MINIO_ROOT_PASSWORD": "rootpass"},
		Cmd:          []string{"server", "/data"},
		ExposedPorts: []string{"9000/tcp"},
		WaitingFor:   wait.ForListeningPort("9000/tcp").WithStartupTimeout(60 * time.Second),
	}
	c, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(context.Background()) })

	host, _ := c.Host(ctx)
	port, _ := c.MappedPort(ctx, "9000/tcp")

	if createBucket {
		admin, err := mclient.New(host+":"+port.Port(), &mclient.Options{
			Creds: credentials.NewStaticV4("root", "rootpass", ""),
		})
		require.NoError(t, err)
		require.NoError(t, admin.MakeBucket(ctx, "avatars", mclient.MakeBucketOptions{Region: "us-east-1"}))
	}

	return fmt.Sprintf("http://%s:%s", host, port.Port())
}

func put(t *testing.T, uploadURL, contentType string, body []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPut, uploadURL, bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", contentType)
	req.ContentLength = int64(len(body))

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Less(t, resp.StatusCode, 300, "PUT must succeed")
}

func TestIntegration_New_BucketMustExist(t *testing.T) {
	endpoint := startMinio(t, false)
	s3, avatar := testConfigs(endpoint)

	_, err := New(context.Background(), s3, avatar)
	require.Error(t, err)
}

func TestIntegration_UploadAndConfirm(t *testing.T) {
	endpoint := startMinio(t, true)
	s3, avatar := testConfigs(endpoint)

	st, err := New(context.Background(), s3, avatar)
	require.NoError(t, err)

	uid := uuid.New()
	const size = 5

	ui, err := st.AvatarUploadURL(context.Background(), uid, "image/png", size)
	require.NoError(t, err)
	require.Equal(t, strconv.Itoa(size), ui.RequiredHeader["Content-Length"])

	put(t, ui.UploadURL, "image/png", bytes.Repeat([]byte{0x42}, size))

	public, err := st.CheckAvatarUpload(context.Background(), uid, ui.AvatarKey)
	require.NoError(t, err)
	require.Equal(t, "http://cdn.local/"+ui.AvatarKey, public)

	_, err = st.CheckAvatarUpload(context.Background(), uid, avatarPrefix(uid)+"missing.png")
	require.ErrorIs(t, err, storage.ErrNotFound)

	st.avatar.MaxSizeBytes = 4
	_, err = st.CheckAvatarUpload(context.Background(), uid, ui.AvatarKey)
	require.ErrorIs(t, err, storage.ErrInvalidArgument)
}
