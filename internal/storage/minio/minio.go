// minio предоставляет реализацию storage.AvatarsStorage на базе MinIO/S3.
// minio.go - конструктор клиента: нормализует endpoint, настраивает
// Secure/creds и проверяет наличие целевого бакета.
// avatars.go - presigned PUT для загрузки аватара и подтверждение загрузки.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	mclient "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pribylovaa/go-forum/internal/config"
	"github.com/pribylovaa/go-forum/internal/storage"
)

// AvatarsStorage - адаптер MinIO для операций с аватарами.
type AvatarsStorage struct {
	s3     config.S3Config
	avatar config.AvatarConfig
	client *mclient.Client
}

// splitEndpoint убирает схему из endpoint и определяет Secure по ней.
func splitEndpoint(endpoint string) (host string, secure bool) {
	host = endpoint
	secure = strings.HasPrefix(endpoint, "https://")

	if u, err := url.Parse(endpoint); err == nil && u.Scheme != "" && u.Host != "" {
		host = u.Host
		secure = u.Scheme == "https"
	}

	return host, secure
}

// New создает клиента MinIO и выполняет fail-fast-проверку доступности бакета.
func New(ctx context.Context, s3 config.S3Config, avatar config.AvatarConfig) (*AvatarsStorage, error) {
	const op = "storage/minio/New"

	endpoint, secure := splitEndpoint(s3.Endpoint)

	client, err := mclient.New(endpoint, &mclient.Options{
		Creds:  credentials.NewStaticV4(s3.RootUser, s3.RootPassword, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	st := &AvatarsStorage{s3: s3, avatar: avatar, client: client}
	if err := st.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return st, nil
}

// Ping проверяет, что бакет существует и доступен.
func (s *AvatarsStorage) Ping(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.s3.Bucket)
	if err != nil {
		return err
	}

	if !exists {
		return fmt.Errorf("bucket %q does not exist", s.s3.Bucket)
	}

	return nil
}

// Проверка выполнения контракта верхнего уровня.
var _ storage.AvatarsStorage = (*AvatarsStorage)(nil)
