package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/go-forum/internal/http/apierrors"
	"github.com/pribylovaa/go-forum/internal/service"
)

func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListCategories(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	out := CategoriesResponse{Categories: make([]Category, 0, len(list))}
	for _, c := range list {
		out.Categories = append(out.Categories, categoryFromModel(c))
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.CategoryByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, categoryFromModel(*c))
}

func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	actor, err := requireUser(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in CreateCategoryRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	c, err := h.svc.CreateCategory(r.Context(), actor, service.CreateCategoryInput{
		ID:          in.ID,
		Name:        in.Name,
		Description: in.Description,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, categoryFromModel(*c))
}
