package handlers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/pribylovaa/go-forum/internal/http/apierrors"
	"github.com/pribylovaa/go-forum/internal/models"
	"github.com/pribylovaa/go-forum/internal/service"
)

// ListThreads - GET /threads?category=&author=&tag=&q=&unanswered=&sort=&page=&limit=
func (h *Handlers) ListThreads(w http.ResponseWriter, r *http.Request) {
	f, err := threadFilter(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	page, err := h.svc.ListThreads(r.Context(), f)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, threadPageFromModel(page))
}

func threadFilter(r *http.Request) (models.ThreadFilter, error) {
	q := r.URL.Query()

	f := models.ThreadFilter{
		CategoryID: q.Get("category"),
		Tag:        q.Get("tag"),
		Query:      q.Get("q"),
		Sort:       models.ThreadSort(q.Get("sort")),
	}

	if v := q.Get("author"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return f, fmt.Errorf("author: %w", service.ErrInvalidArgument)
		}
		f.AuthorID = id
	}

	var err error
	if f.Unanswered, err = boolQuery(r, "unanswered"); err != nil {
		return f, err
	}
	if f.Page, err = intQuery(r, "page", 0); err != nil {
		return f, err
	}
	if f.Limit, err = intQuery(r, "limit", 0); err != nil {
		return f, err
	}

	return f, nil
}

func (h *Handlers) CreateThread(w http.ResponseWriter, r *http.Request) {
	author, err := requireUser(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in CreateThreadRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	t, err := h.svc.CreateThread(r.Context(), service.CreateThreadInput{
		AuthorID:   author,
		Title:      in.Title,
		Content:    in.Content,
		CategoryID: in.CategoryID,
		Tags:       in.Tags,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, threadFromModel(t))
}

// GetThread - полное представление темы: голоса, голос зрителя, дерево комментариев.
func (h *Handlers) GetThread(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	view, err := h.svc.ThreadView(r.Context(), viewerID(r), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, threadViewFromModel(view))
}

func (h *Handlers) UpdateThread(w http.ResponseWriter, r *http.Request) {
	actor, err := requireUser(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in UpdateThreadRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	t, err := h.svc.UpdateThread(r.Context(), actor, id, service.UpdateThreadInput{
		Title:      in.Title,
		Content:    in.Content,
		CategoryID: in.CategoryID,
		Tags:       in.Tags,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, threadFromModel(t))
}

func (h *Handlers) DeleteThread(w http.ResponseWriter, r *http.Request) {
	actor, err := requireUser(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.svc.DeleteThread(r.Context(), actor, id); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) PinThread(w http.ResponseWriter, r *http.Request) {
	actor, err := requireUser(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	id, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in PinRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.svc.PinThread(r.Context(), actor, id, in.Pinned); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
