package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pribylovaa/go-forum/internal/http/apierrors"
	"github.com/pribylovaa/go-forum/internal/http/middleware"
	"github.com/pribylovaa/go-forum/internal/service"
	"github.com/pribylovaa/go-forum/internal/session"
	logctx "github.com/pribylovaa/go-forum/pkg/log"
)

func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var in SignUpRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	pair, userID, err := h.svc.SignUp(r.Context(), service.SignUpInput{
		Email:    in.Email,
		Password: in.Password,
		Username: in.Username,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, authFromModel(pair, userID))
}

func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var in SignInRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	pair, userID, err := h.svc.SignIn(r.Context(), in.Email, in.Password)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authFromModel(pair, userID))
}

func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var in RefreshRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	pair, userID, err := h.svc.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authFromModel(pair, userID))
}

func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	var in RefreshRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.svc.SignOut(r.Context(), in.RefreshToken); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Session - текущий пользователь и его профиль (если профиль есть).
func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	p, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		apierrors.WriteError(w, r, service.ErrUnauthenticated)
		return
	}

	out := SessionResponse{UserID: p.UserID.String(), Email: p.Email}

	profile, err := h.svc.ProfileByID(r.Context(), p.UserID)
	switch {
	case err == nil:
		pr := profileFromModel(profile)
		out.Profile = &pr
	case errors.Is(err, service.ErrNotFound):
	default:
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// SessionEvents - SSE-стрим событий сессии текущего пользователя.
// Подписка снимается при разрыве соединения; после signed_out стрим закрывается.
func (h *Handlers) SessionEvents(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	ctx := r.Context()
	lg := logctx.From(ctx).With("op", "http/SessionEvents")

	sub, err := h.svc.Sessions().SubscribeContext(ctx, session.ForUser(userID))
	if err != nil {
		lg.Warn("subscribe_failed", "err", err)
		apierrors.WriteError(w, r, fmt.Errorf("%w: %v", service.ErrUnavailable, err))
		return
	}
	defer sub.Unsubscribe()

	rc := http.NewResponseController(w)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	if err := rc.Flush(); err != nil {
		lg.Warn("sse_flush_unsupported", "err", err)
		return
	}

	lg.Debug("sse_subscribed")

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}

			data, err := json.Marshal(ev)
			if err != nil {
				lg.Error("sse_marshal_failed", "err", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}

			if ev.Kind == session.SignedOut {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
