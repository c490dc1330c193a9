package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/go-forum/internal/http/apierrors"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/service"
)

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	p, err := h.svc.ProfileByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileFromModel(p))
}

func (h *Handlers) GetProfileByUsername(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.ProfileByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileFromModel(p))
}

// UserThreads - GET /profiles/{id}/threads?page=&limit=
func (h *Handlers) UserThreads(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	page, err := intQuery(r, "page", 0)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}
	limit, err := intQuery(r, "limit", 0)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	res, err := h.svc.UserThreads(r.Context(), id, page, limit)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, threadPageFromModel(res))
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	owner, err := requireUser(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in UpdateProfileRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	upd := service.UpdateProfileInput{
		Username: in.Username,
		Name:     in.Name,
		Bio:      in.Bio,
	}
	if in.Gender != nil {
		g, ok := models.ParseGender(*in.Gender)
		if !ok {
			apierrors.WriteError(w, r, fmt.Errorf("gender: %w", service.ErrInvalidArgument))
			return
		}
		upd.Gender = &g
	}

	p, err := h.svc.UpdateProfile(r.Context(), owner, upd)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileFromModel(p))
}

func (h *Handlers) AvatarPresign(w http.ResponseWriter, r *http.Request) {
	owner, err := requireUser(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in AvatarPresignRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	info, err := h.svc.AvatarUploadURL(r.Context(), owner, in.ContentType, in.ContentLength)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, uploadFromModel(info))
}

func (h *Handlers) AvatarConfirm(w http.ResponseWriter, r *http.Request) {
	owner, err := requireUser(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in AvatarConfirmRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	p, err := h.svc.ConfirmAvatar(r.Context(), owner, in.AvatarKey)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileFromModel(p))
}
