package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UploadInfo описывает выданную клиенту подпись на загрузку аватара.
// RequiredHeader нужно передать в PUT без изменений, иначе S3 отклонит подпись.
type UploadInfo struct {
	UploadURL      string
	AvatarKey      string
	Expires        time.Duration
	RequiredHeader map[string]string
}

// AvatarsStorage хранит аватары профилей в объектном хранилище.
// Загрузка идёт напрямую от клиента по presigned PUT, сервис только подписывает и проверяет.
type AvatarsStorage interface {
	AvatarUploadURL(ctx context.Context, userID uuid.UUID, contentType string, contentLength int64) (*UploadInfo, error)
	// CheckAvatarUpload убеждается, что key принадлежит userID и объект прошёл ограничения.
	// Пустой publicURL означает, что публичный адрес бакета не настроен.
	CheckAvatarUpload(ctx context.Context, userID uuid.UUID, key string) (publicURL string, err error)
	Ping(ctx context.Context) error
}
