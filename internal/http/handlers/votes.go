package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/http/apierrors"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/service"
	"github.com/pribylovaa/go-forum/internal/votes"
)

// CastVote - POST /votes. Повтор того же направления отзывает голос.
func (h *Handlers) CastVote(w http.ResponseWriter, r *http.Request) {
	userID, err := requireUser(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in VoteRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	dir, err := votes.ParseDirection(in.Direction)
	if err != nil {
		apierrors.WriteError(w, r, fmt.Errorf("%w: %v", service.ErrInvalidArgument, err))
		return
	}

	et := models.EntityType(in.EntityType)
	res, err := h.svc.CastVote(r.Context(), userID, et, in.EntityID, dir)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, VoteResponse{
		EntityType: in.EntityType,
		EntityID:   in.EntityID,
		Votes:      voteCountFromModel(res.Tally),
		State:      res.State.String(),
	})
}

// GetVotes - GET /votes/{entity_type}/{entity_id}; для вошедшего пользователя
// добавляет его голос (state).
func (h *Handlers) GetVotes(w http.ResponseWriter, r *http.Request) {
	et := models.EntityType(chi.URLParam(r, "entity_type"))
	entityID := chi.URLParam(r, "entity_id")

	tally, err := h.svc.VoteCount(r.Context(), et, entityID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := VoteResponse{
		EntityType: string(et),
		EntityID:   entityID,
		Votes:      voteCountFromModel(tally),
	}

	if viewer := viewerID(r); viewer != uuid.Nil {
		dir, err := h.svc.UserVote(r.Context(), viewer, et, entityID)
		if err != nil {
			apierrors.WriteError(w, r, err)
			return
		}
		out.State = dir.String()
	}

	writeJSON(w, http.StatusOK, out)
}
