// storage описывает контракты хранилищ форума и общие ошибки.
// Реализации: postgres (пользователи, токены, профили, разделы, темы, голоса),
// mongo (комментарии), minio (аватары).
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/votes"
)

var (
	// ErrNotFound - запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists - нарушение уникальности (email/username/slug/токен).
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidArgument - аргумент не прошёл проверку на уровне хранилища.
	ErrInvalidArgument = errors.New("invalid argument")
)

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser создает нового пользователя в БД.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail находит пользователя по email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID находит пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// RefreshTokenStorage выполняет операции над refresh-токенами.
type RefreshTokenStorage interface {
	SaveRefreshToken(ctx context.Context, token *models.RefreshToken) error
	RefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	// RevokeRefreshTokenIfActive отзывает токен, если он ещё активен.
	// (true, nil) - отозван сейчас; (false, nil) - уже был отозван.
	RevokeRefreshTokenIfActive(ctx context.Context, hash string) (bool, error)
	// DeleteExpiredTokens удаляет просроченные токены и возвращает их количество.
	DeleteExpiredTokens(ctx context.Context, now time.Time) (int64, error)
}

// ProfileUpdate - частичное обновление профиля; nil означает "не менять".
type ProfileUpdate struct {
	Username  *string
	Name      *string
	Bio       *string
	Gender    *models.Gender
	AvatarKey *string
	AvatarURL *string
}

// IsEmpty сообщает, что обновлять нечего.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Username == nil && u.Name == nil && u.Bio == nil &&
		u.Gender == nil && u.AvatarKey == nil && u.AvatarURL == nil
}

// ProfileStorage выполняет операции над профилями.
type ProfileStorage interface {
	CreateProfile(ctx context.Context, profile *models.Profile) error
	ProfileByID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	ProfileByUsername(ctx context.Context, username string) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, upd ProfileUpdate, at time.Time) (*models.Profile, error)
}

// CategoryStorage выполняет операции над разделами.
type CategoryStorage interface {
	// ListCategories возвращает разделы с количеством тем;
	// query - необязательный регистронезависимый поиск по названию и описанию.
	ListCategories(ctx context.Context, query string) ([]models.Category, error)
	CategoryByID(ctx context.Context, id string) (*models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) error
}

// ThreadUpdate - частичное обновление темы; nil означает "не менять".
type ThreadUpdate struct {
	Title      *string
	Content    *string
	CategoryID *string
	Tags       *[]string
}

// ThreadStorage выполняет операции над темами.
type ThreadStorage interface {
	CreateThread(ctx context.Context, thread *models.Thread) error
	// ThreadByID возвращает тему вместе с агрегатом голосов.
	ThreadByID(ctx context.Context, id uuid.UUID) (*models.Thread, error)
	UpdateThread(ctx context.Context, id uuid.UUID, upd ThreadUpdate, at time.Time) (*models.Thread, error)
	// DeleteThread удаляет тему и голоса за неё.
	DeleteThread(ctx context.Context, id uuid.UUID) error
	SetPinned(ctx context.Context, id uuid.UUID, pinned bool) error
	// ListThreads возвращает страницу тем и общее количество по фильтру.
	ListThreads(ctx context.Context, filter models.ThreadFilter) ([]models.Thread, int64, error)
	// AdjustCommentCount меняет денормализованный счётчик комментариев (не ниже нуля).
	AdjustCommentCount(ctx context.Context, id uuid.UUID, delta int64) error
}

// VoteKey - идентификатор голоса.
type VoteKey struct {
	UserID     uuid.UUID
	EntityType models.EntityType
	EntityID   string
}

// VoteStorage выполняет операции над голосами.
type VoteStorage interface {
	// LockVote блокирует пару (пользователь, сущность) до конца транзакции и
	// возвращает текущее направление голоса (votes.None, если голоса нет).
	LockVote(ctx context.Context, key VoteKey) (votes.Direction, error)
	// UserVote - то же без блокировки.
	UserVote(ctx context.Context, key VoteKey) (votes.Direction, error)
	InsertVote(ctx context.Context, key VoteKey, dir votes.Direction, at time.Time) error
	SwitchVote(ctx context.Context, key VoteKey, dir votes.Direction, at time.Time) error
	DeleteVote(ctx context.Context, key VoteKey) error
	// VoteCount - агрегат голосов за сущность.
	VoteCount(ctx context.Context, entityType models.EntityType, entityID string) (votes.Tally, error)
	// VoteCounts - агрегаты для набора сущностей одного типа (отсутствующие - нули).
	VoteCounts(ctx context.Context, entityType models.EntityType, entityIDs []string) (map[string]votes.Tally, error)
	// DeleteEntityVotes удаляет голоса за набор сущностей.
	DeleteEntityVotes(ctx context.Context, entityType models.EntityType, entityIDs []string) error
}

// TxManager выполняет fn в одной транзакции. Хранилища, вызванные с ctx из fn,
// работают внутри этой транзакции.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Storage задает контракт реляционного хранилища.
type Storage interface {
	UserStorage
	RefreshTokenStorage
	ProfileStorage
	CategoryStorage
	ThreadStorage
	VoteStorage
	TxManager
	Ping(ctx context.Context) error
	Close()
}
