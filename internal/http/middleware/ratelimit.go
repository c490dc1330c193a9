package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/pribylovaa/go-forum/internal/http/apierrors"
	logctx "github.com/pribylovaa/go-forum/pkg/log"
	"golang.org/x/time/rate"
)

// RateLimiter - ограничение частоты запросов по IP (token bucket).
// Неактивные IP удаляются фоновой очисткой; Stop() на shutdown.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   rate.Limit
	burst   int
	idle    time.Duration
	stop    chan struct{}
	once    sync.Once
	now     func() time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter создаёт лимитер на perMinute запросов в минуту с одного IP.
// perMinute <= 0 отключает ограничение.
func NewRateLimiter(perMinute int, cleanup time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		stop:    make(chan struct{}),
		now:     time.Now,
	}

	if perMinute > 0 {
		rl.limit = rate.Every(time.Minute / time.Duration(perMinute))
		rl.burst = perMinute
	}

	if cleanup <= 0 {
		cleanup = 5 * time.Minute
	}
	rl.idle = 2 * cleanup

	if rl.burst > 0 {
		go rl.cleanup(cleanup)
	}

	return rl
}

// Stop останавливает фоновую очистку. Идемпотентен.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stop) })
}

// Limit - middleware ограничения.
func (rl *RateLimiter) Limit() Middleware {
	return func(next http.Handler) http.Handler {
		if rl == nil || rl.burst == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)

			res := rl.limiter(ip).ReserveN(rl.now(), 1)
			if delay := res.DelayFrom(rl.now()); delay > 0 {
				res.CancelAt(rl.now())

				logctx.From(r.Context()).Warn("rate_limited", "ip", ip)
				w.Header().Set("Retry-After", strconv.Itoa(int(delay.Seconds())+1))
				apierrors.WriteError(w, r, apierrors.ErrRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = rl.now()

	return c.limiter
}

func (rl *RateLimiter) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			now := rl.now()

			rl.mu.Lock()
			for ip, c := range rl.clients {
				if now.Sub(c.lastSeen) > rl.idle {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// clientIP - адрес клиента без порта; X-Forwarded-For не учитывается.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
