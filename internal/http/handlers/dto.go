package handlers

import (
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/service"
	"github.com/pribylovaa/go-forum/internal/storage"
	"github.com/pribylovaa/go-forum/internal/tree"
	"github.com/pribylovaa/go-forum/internal/votes"
)

// Время во всех ответах - Unix UTC (секунды).

// auth

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type AuthResponse struct {
	UserID          string `json:"user_id"`
	AccessToken     string `json:"access_token"`
	RefreshToken    string `json:"refresh_token"`
	AccessExpiresAt int64  `json:"access_expires_at"`
}

type SessionResponse struct {
	UserID  string   `json:"user_id"`
	Email   string   `json:"email"`
	Profile *Profile `json:"profile,omitempty"`
}

// categories

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ThreadCount int64  `json:"thread_count"`
	CreatedAt   int64  `json:"created_at"`
}

type CreateCategoryRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CategoriesResponse struct {
	Categories []Category `json:"categories"`
}

// threads

type Thread struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Content      string   `json:"content"`
	AuthorID     string   `json:"author_id"`
	CategoryID   string   `json:"category_id"`
	IsPinned     bool     `json:"is_pinned"`
	Tags         []string `json:"tags"`
	Upvotes      int64    `json:"upvotes"`
	Downvotes    int64    `json:"downvotes"`
	CommentCount int64    `json:"comment_count"`
	CreatedAt    int64    `json:"created_at"`
	UpdatedAt    int64    `json:"updated_at"`
}

type CreateThreadRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	CategoryID string   `json:"category_id"`
	Tags       []string `json:"tags,omitempty"`
}

// UpdateThreadRequest - частичное обновление: отсутствующее поле не меняется.
type UpdateThreadRequest struct {
	Title      *string   `json:"title,omitempty"`
	Content    *string   `json:"content,omitempty"`
	CategoryID *string   `json:"category_id,omitempty"`
	Tags       *[]string `json:"tags,omitempty"`
}

type PinRequest struct {
	Pinned bool `json:"pinned"`
}

type ThreadPageResponse struct {
	Threads    []Thread `json:"threads"`
	Total      int64    `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"total_pages"`
}

type ThreadViewResponse struct {
	Thread       Thread        `json:"thread"`
	Votes        VoteCount     `json:"votes"`
	MyVote       string        `json:"my_vote"`
	Comments     []CommentNode `json:"comments"`
	CommentCount int64         `json:"comment_count"`
}

// comments

type Comment struct {
	ID        string `json:"id"`
	ThreadID  string `json:"thread_id"`
	ParentID  string `json:"parent_id,omitempty"`
	AuthorID  string `json:"author_id"`
	Content   string `json:"content"`
	Level     int    `json:"level"`
	IsAnswer  bool   `json:"is_answer"`
	IsDeleted bool   `json:"is_deleted"`
	Upvotes   int64  `json:"upvotes"`
	Downvotes int64  `json:"downvotes"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// CommentNode - комментарий с вложенными ответами.
type CommentNode struct {
	Comment
	Replies []CommentNode `json:"replies"`
}

type CreateCommentRequest struct {
	ParentID string `json:"parent_id,omitempty"`
	Content  string `json:"content"`
}

type UpdateCommentRequest struct {
	Content string `json:"content"`
}

type AnswerRequest struct {
	IsAnswer bool `json:"is_answer"`
}

type CommentTreeResponse struct {
	Comments []CommentNode `json:"comments"`
}

type CommentCountResponse struct {
	ThreadID string `json:"thread_id"`
	Count    int64  `json:"count"`
}

// votes

type VoteRequest struct {
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	Direction  string `json:"direction"`
}

type VoteCount struct {
	Up    int64 `json:"up"`
	Down  int64 `json:"down"`
	Score int64 `json:"score"`
}

type VoteResponse struct {
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	Votes      VoteCount `json:"votes"`
	// State - голос текущего пользователя; отсутствует для анонима.
	State string `json:"state,omitempty"`
}

// profiles

type Profile struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Bio       string `json:"bio"`
	Gender    string `json:"gender"`
	Role      string `json:"role"`
	AvatarURL string `json:"avatar_url,omitempty"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
	Name     *string `json:"name,omitempty"`
	Bio      *string `json:"bio,omitempty"`
	Gender   *string `json:"gender,omitempty"`
}

type AvatarPresignRequest struct {
	ContentType   string `json:"content_type"`
	ContentLength int64  `json:"content_length"`
}

type AvatarPresignResponse struct {
	UploadURL      string            `json:"upload_url"`
	AvatarKey      string            `json:"avatar_key"`
	ExpiresIn      int64             `json:"expires_in"` // секунды
	RequiredHeader map[string]string `json:"required_headers,omitempty"`
}

type AvatarConfirmRequest struct {
	AvatarKey string `json:"avatar_key"`
}

// pages

type Page struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Конвертеры доменных моделей в DTO.

func unix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().Unix()
}

func idString(id uuid.UUID) string {
	if id == uuid.Nil {
		return ""
	}
	return id.String()
}

func authFromModel(p *models.TokenPair, userID uuid.UUID) AuthResponse {
	return AuthResponse{
		UserID:          userID.String(),
		AccessToken:     p.AccessToken,
		RefreshToken:    p.RefreshToken,
		AccessExpiresAt: unix(p.AccessExpiresAt),
	}
}

func categoryFromModel(c models.Category) Category {
	return Category{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ThreadCount: c.ThreadCount,
		CreatedAt:   unix(c.CreatedAt),
	}
}

func threadFromModel(t *models.Thread) Thread {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}

	return Thread{
		ID:           t.ID.String(),
		Title:        t.Title,
		Content:      t.Content,
		AuthorID:     idString(t.AuthorID),
		CategoryID:   t.CategoryID,
		IsPinned:     t.IsPinned,
		Tags:         tags,
		Upvotes:      t.Upvotes,
		Downvotes:    t.Downvotes,
		CommentCount: t.CommentCount,
		CreatedAt:    unix(t.CreatedAt),
		UpdatedAt:    unix(t.UpdatedAt),
	}
}

func threadPageFromModel(p *models.ThreadPage) ThreadPageResponse {
	out := ThreadPageResponse{
		Threads:    make([]Thread, 0, len(p.Items)),
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
	for i := range p.Items {
		out.Threads = append(out.Threads, threadFromModel(&p.Items[i]))
	}
	return out
}

func commentFromModel(c *models.Comment) Comment {
	return Comment{
		ID:        c.ID,
		ThreadID:  c.ThreadID.String(),
		ParentID:  c.ParentID,
		AuthorID:  idString(c.AuthorID),
		Content:   c.Content,
		Level:     c.Level,
		IsAnswer:  c.IsAnswer,
		IsDeleted: c.IsDeleted,
		Upvotes:   c.Upvotes,
		Downvotes: c.Downvotes,
		CreatedAt: unix(c.CreatedAt),
		UpdatedAt: unix(c.UpdatedAt),
	}
}

// forestFromModel рекурсивно переводит лес комментариев в JSON-дерево.
// Пустые списки ответов отдаются как [], а не null.
func forestFromModel(f tree.Forest[models.Comment]) []CommentNode {
	out := make([]CommentNode, 0, len(f))
	for _, n := range f {
		out = append(out, CommentNode{
			Comment: commentFromModel(&n.Value),
			Replies: forestFromModel(n.Children),
		})
	}
	return out
}

func voteCountFromModel(t votes.Tally) VoteCount {
	return VoteCount{Up: t.Up, Down: t.Down, Score: t.Score()}
}

func threadViewFromModel(v *service.ThreadView) ThreadViewResponse {
	return ThreadViewResponse{
		Thread:       threadFromModel(v.Thread),
		Votes:        voteCountFromModel(v.Votes),
		MyVote:       v.MyVote.String(),
		Comments:     forestFromModel(v.Comments),
		CommentCount: v.CommentCount,
	}
}

func profileFromModel(p *models.Profile) Profile {
	return Profile{
		UserID:    p.UserID.String(),
		Username:  p.Username,
		Name:      p.Name,
		Bio:       p.Bio,
		Gender:    p.Gender.String(),
		Role:      string(p.Role),
		AvatarURL: p.AvatarURL,
		CreatedAt: unix(p.CreatedAt),
		UpdatedAt: unix(p.UpdatedAt),
	}
}

func uploadFromModel(u *storage.UploadInfo) AvatarPresignResponse {
	return AvatarPresignResponse{
		UploadURL:      u.UploadURL,
		AvatarKey:      u.AvatarKey,
		ExpiresIn:      int64(u.Expires.Seconds()),
		RequiredHeader: u.RequiredHeader,
	}
}

func pageFromModel(p *models.StaticPage) Page {
	return Page{Slug: p.Slug, Title: p.Title, Body: p.Body}
}
