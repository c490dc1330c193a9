package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// commentDoc - представление комментария в коллекции.
type commentDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ThreadID  string             `bson:"thread_id"`
	ParentID  string             `bson:"parent_id"`
	AuthorID  string             `bson:"author_id"`
	Content   string             `bson:"content"`
	Level     int                `bson:"level"`
	IsAnswer  bool               `bson:"is_answer"`
	IsDeleted bool               `bson:"is_deleted"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func toDoc(c *models.Comment) commentDoc {
	return commentDoc{
		ThreadID:  c.ThreadID.String(),
		ParentID:  c.ParentID,
		AuthorID:  c.AuthorID.String(),
		Content:   c.Content,
		Level:     c.Level,
		IsAnswer:  c.IsAnswer,
		IsDeleted: c.IsDeleted,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// toModel переводит документ в модель; битые UUID дают uuid.Nil.
func (d commentDoc) toModel() models.Comment {
	threadID, _ := uuid.Parse(d.ThreadID)
	authorID, _ := uuid.Parse(d.AuthorID)

	return models.Comment{
		ID:        d.ID.Hex(),
		ThreadID:  threadID,
		ParentID:  d.ParentID,
		AuthorID:  authorID,
		Content:   d.Content,
		Level:     d.Level,
		IsAnswer:  d.IsAnswer,
		IsDeleted: d.IsDeleted,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// MongoDB DateTime хранит миллисекунды.
func toMS(t time.Time) time.Time { return t.UTC().Truncate(time.Millisecond) }

// parseID - некорректный формат id трактуется как «нет такой записи».
func parseID(op, id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return oid, nil
}

// CreateComment вставляет комментарий и проставляет ему ID.
// Согласованность parent/thread и глубины проверяет вызывающая сторона.
func (m *Mongo) CreateComment(ctx context.Context, c *models.Comment) error {
	const op = "storage/mongo/CreateComment"

	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = c.CreatedAt
	}
	c.CreatedAt = toMS(c.CreatedAt)
	c.UpdatedAt = toMS(c.UpdatedAt)

	res, err := m.comments.InsertOne(ctx, toDoc(c))
	if err != nil {
		if mongodriver.IsDuplicateKeyError(err) {
			return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
		}

		return fmt.Errorf("%s: insert: %w", op, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("%s: inserted id type %T", op, res.InsertedID)
	}

	c.ID = oid.Hex()

	return nil
}

// CommentByID возвращает комментарий по идентификатору.
func (m *Mongo) CommentByID(ctx context.Context, id string) (*models.Comment, error) {
	const op = "storage/mongo/CommentByID"

	oid, err := parseID(op, id)
	if err != nil {
		return nil, err
	}

	var doc commentDoc
	if err := m.comments.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.toModel()

	return &out, nil
}

// CommentsByThread возвращает все комментарии темы в порядке created_at ASC, _id ASC.
// Мягко удалённые тоже попадают в выборку, чтобы дерево оставалось связным.
func (m *Mongo) CommentsByThread(ctx context.Context, threadID uuid.UUID) ([]models.Comment, error) {
	const op = "storage/mongo/CommentsByThread"

	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cur, err := m.comments.Find(ctx, bson.D{{Key: "thread_id", Value: threadID.String()}}, findOpts)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	items := make([]models.Comment, 0)
	for cur.Next(ctx) {
		var doc commentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		items = append(items, doc.toModel())
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	return items, nil
}

// UpdateCommentContent меняет текст неудалённого комментария.
// Удалённый или отсутствующий комментарий - storage.ErrNotFound.
func (m *Mongo) UpdateCommentContent(ctx context.Context, id, content string, at time.Time) (*models.Comment, error) {
	const op = "storage/mongo/UpdateCommentContent"

	oid, err := parseID(op, id)
	if err != nil {
		return nil, err
	}

	filter := bson.D{{Key: "_id", Value: oid}, {Key: "is_deleted", Value: false}}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "content", Value: content},
		{Key: "updated_at", Value: toMS(at)},
	}}}

	var doc commentDoc
	err = m.comments.FindOneAndUpdate(ctx, filter, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := doc.toModel()

	return &out, nil
}

// SoftDeleteComment помечает комментарий как удалённый (мягкое удаление):
// текст очищается, отметка принятого ответа снимается.
// Возвращает false, если комментарий уже был удалён.
func (m *Mongo) SoftDeleteComment(ctx context.Context, id string, at time.Time) (bool, error) {
	const op = "storage/mongo/SoftDeleteComment"

	oid, err := parseID(op, id)
	if err != nil {
		return false, err
	}

	res, err := m.comments.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: oid}, {Key: "is_deleted", Value: false}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "is_deleted", Value: true},
			{Key: "is_answer", Value: false},
			{Key: "content", Value: ""},
			{Key: "updated_at", Value: toMS(at)},
		}}},
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if res.ModifiedCount > 0 {
		return true, nil
	}

	n, err := m.comments.CountDocuments(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return false, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	return false, nil
}

// SetAnswer отмечает комментарий принятым ответом темы; предыдущий ответ сбрасывается.
// isAnswer=false снимает отметку только с указанного комментария.
func (m *Mongo) SetAnswer(ctx context.Context, threadID uuid.UUID, commentID string, isAnswer bool) error {
	const op = "storage/mongo/SetAnswer"

	oid, err := parseID(op, commentID)
	if err != nil {
		return err
	}

	target := bson.D{
		{Key: "_id", Value: oid},
		{Key: "thread_id", Value: threadID.String()},
		{Key: "is_deleted", Value: false},
	}

	n, err := m.comments.CountDocuments(ctx, target)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	if isAnswer {
		_, err := m.comments.UpdateMany(ctx,
			bson.D{
				{Key: "thread_id", Value: threadID.String()},
				{Key: "is_answer", Value: true},
				{Key: "_id", Value: bson.D{{Key: "$ne", Value: oid}}},
			},
			bson.D{{Key: "$set", Value: bson.D{{Key: "is_answer", Value: false}}}},
		)
		if err != nil {
			return fmt.Errorf("%s: clear previous: %w", op, err)
		}
	}

	if _, err := m.comments.UpdateOne(ctx, target,
		bson.D{{Key: "$set", Value: bson.D{{Key: "is_answer", Value: isAnswer}}}}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CountComments - количество неудалённых комментариев темы.
func (m *Mongo) CountComments(ctx context.Context, threadID uuid.UUID) (int64, error) {
	const op = "storage/mongo/CountComments"

	n, err := m.comments.CountDocuments(ctx, bson.D{
		{Key: "thread_id", Value: threadID.String()},
		{Key: "is_deleted", Value: false},
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return n, nil
}

// DeleteThreadComments физически удаляет комментарии темы и возвращает их ID
// (для удаления голосов за них).
func (m *Mongo) DeleteThreadComments(ctx context.Context, threadID uuid.UUID) ([]string, error) {
	const op = "storage/mongo/DeleteThreadComments"

	filter := bson.D{{Key: "thread_id", Value: threadID.String()}}

	cur, err := m.comments.Find(ctx, filter, options.Find().SetProjection(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", op, err)
	}
	defer cur.Close(ctx)

	ids := make([]string, 0)
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", op, err)
		}
		ids = append(ids, doc.ID.Hex())
	}

	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("%s: cursor: %w", op, err)
	}

	if _, err := m.comments.DeleteMany(ctx, filter); err != nil {
		return nil, fmt.Errorf("%s: delete: %w", op, err)
	}

	return ids, nil
}
