package minio

import (
	"context"
	"fmt"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	mclient "github.com/minio/minio-go/v7"
	"github.com/pribylovaa/go-forum/internal/storage"
)

// avatarExt - расширение ключа по типу содержимого.
func avatarExt(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}

func avatarPrefix(userID uuid.UUID) string {
	return "avatars/" + userID.String() + "/"
}

// AvatarUploadURL генерирует presigned PUT URL для загрузки аватара.
// Ключ имеет вид "avatars/<userID>/<uuid>.<ext>"; в ответе - заголовки,
// которые клиент должен передать при PUT.
func (s *AvatarsStorage) AvatarUploadURL(ctx context.Context, userID uuid.UUID, contentType string, contentLength int64) (*storage.UploadInfo, error) {
	const op = "storage/minio/avatars/AvatarUploadURL"

	if contentLength <= 0 || contentLength > s.avatar.MaxSizeBytes {
		return nil, fmt.Errorf("%s: size %d: %w", op, contentLength, storage.ErrInvalidArgument)
	}

	if !slices.Contains(s.avatar.AllowedContentTypes, contentType) {
		return nil, fmt.Errorf("%s: content type %q: %w", op, contentType, storage.ErrInvalidArgument)
	}

	key := path.Join("avatars", userID.String(), uuid.NewString()+avatarExt(contentType))

	u, err := s.client.PresignedPutObject(ctx, s.s3.Bucket, key, s.s3.PresignTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &storage.UploadInfo{
		UploadURL: u.String(),
		AvatarKey: key,
		Expires:   s.s3.PresignTTL,
		RequiredHeader: map[string]string{
			"Content-Type":   contentType,
			"Content-Length": strconv.FormatInt(contentLength, 10),
		},
	}, nil
}

// CheckAvatarUpload подтверждает факт загрузки по key: объект принадлежит
// пользователю, существует и удовлетворяет ограничениям размера и типа.
// Возвращает публичный URL, если задан PublicBaseURL, иначе пустую строку.
func (s *AvatarsStorage) CheckAvatarUpload(ctx context.Context, userID uuid.UUID, key string) (string, error) {
	const op = "storage/minio/avatars/CheckAvatarUpload"

	if !strings.HasPrefix(key, avatarPrefix(userID)) || strings.Contains(key, "..") {
		return "", fmt.Errorf("%s: foreign key: %w", op, storage.ErrInvalidArgument)
	}

	info, err := s.client.StatObject(ctx, s.s3.Bucket, key, mclient.StatObjectOptions{})
	if err != nil {
		resp := mclient.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == 404 {
			return "", fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return "", fmt.Errorf("%s: %w", op, err)
	}

	if info.Size <= 0 || info.Size > s.avatar.MaxSizeBytes {
		return "", fmt.Errorf("%s: size %d: %w", op, info.Size, storage.ErrInvalidArgument)
	}

	if ct := info.ContentType; ct != "" && !slices.Contains(s.avatar.AllowedContentTypes, ct) {
		return "", fmt.Errorf("%s: content type %q: %w", op, ct, storage.ErrInvalidArgument)
	}

	if s.s3.PublicBaseURL == "" {
		return "", nil
	}

	return strings.TrimRight(s.s3.PublicBaseURL, "/") + "/" + key, nil
}
