package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-forum/internal/config"
	"github.com/pribylovaa/go-forum/internal/http/handlers"
	"github.com/pribylovaa/go-forum/internal/http/middleware"
)

// Options - параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой - роуты регистрируются на корне.
	CORS     config.CORSConfig
	// RateLimiter - nil отключает ограничение частоты.
	RateLimiter *middleware.RateLimiter
	// Heartbeat - период пингов SSE-стрима /auth/events.
	Heartbeat time.Duration
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc handlers.Forum, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
		middleware.Metrics(),
		middleware.CORS(opts.CORS),
		opts.RateLimiter.Limit(),
		middleware.Authenticate(svc), // необязательный пользователь; обязательность проверяют хендлеры
	)

	h := handlers.New(svc, opts.Heartbeat)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h, opts.Timeout)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, opts.Timeout)
	return root
}

// registerRoutes - единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers, timeout time.Duration) {
	// SSE живёт дольше общего дедлайна запроса.
	r.Get("/auth/events", h.SessionEvents)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(timeout))

		// auth
		r.Post("/auth/signup", h.SignUp)
		r.Post("/auth/signin", h.SignIn)
		r.Post("/auth/refresh", h.Refresh)
		r.Post("/auth/signout", h.SignOut)
		r.Get("/auth/session", h.Session)

		// categories
		r.Get("/categories", h.ListCategories)
		r.Post("/categories", h.CreateCategory)
		r.Get("/categories/{id}", h.GetCategory)

		// threads
		r.Get("/threads", h.ListThreads)
		r.Post("/threads", h.CreateThread)
		r.Get("/threads/{id}", h.GetThread)
		r.Patch("/threads/{id}", h.UpdateThread)
		r.Delete("/threads/{id}", h.DeleteThread)
		r.Post("/threads/{id}/pin", h.PinThread)
		r.Get("/threads/{id}/comments", h.CommentTree)
		r.Post("/threads/{id}/comments", h.CreateComment)
		r.Get("/threads/{id}/comment-count", h.CommentCount)

		// comments
		r.Patch("/comments/{id}", h.UpdateComment)
		r.Delete("/comments/{id}", h.DeleteComment)
		r.Post("/comments/{id}/answer", h.MarkAnswer)

		// votes
		r.Post("/votes", h.CastVote)
		r.Get("/votes/{entity_type}/{entity_id}", h.GetVotes)

		// profiles
		r.Get("/profiles/by-username/{username}", h.GetProfileByUsername)
		r.Patch("/profiles/me", h.UpdateProfile)
		r.Post("/profiles/me/avatar/presign", h.AvatarPresign)
		r.Post("/profiles/me/avatar/confirm", h.AvatarConfirm)
		r.Get("/profiles/{id}", h.GetProfile)
		r.Get("/profiles/{id}/threads", h.UserThreads)

		// pages
		r.Get("/pages/{slug}", h.GetPage)
	})
}
