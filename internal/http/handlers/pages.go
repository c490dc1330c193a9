package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/go-forum/internal/http/apierrors"
)

func (h *Handlers) GetPage(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Page(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, pageFromModel(p))
}
