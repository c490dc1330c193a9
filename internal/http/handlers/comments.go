package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pribylovaa/go-forum/internal/http/apierrors"
	"github.com/pribylovaa/go-forum/internal/service"
)

func (h *Handlers) CommentTree(w http.ResponseWriter, r *http.Request) {
	threadID, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	forest, err := h.svc.CommentTree(r.Context(), threadID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CommentTreeResponse{Comments: forestFromModel(forest)})
}

func (h *Handlers) CommentCount(w http.ResponseWriter, r *http.Request) {
	threadID, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	n, err := h.svc.CommentCount(r.Context(), threadID)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, CommentCountResponse{ThreadID: threadID.String(), Count: n})
}

func (h *Handlers) CreateComment(w http.ResponseWriter, r *http.Request) {
	author, err := requireUser(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	threadID, err := uuidParam(r, "id")
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in CreateCommentRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	c, err := h.svc.CreateComment(r.Context(), service.CreateCommentInput{
		AuthorID: author,
		ThreadID: threadID,
		ParentID: in.ParentID,
		Content:  in.Content,
	})
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, commentFromModel(c))
}

func (h *Handlers) UpdateComment(w http.ResponseWriter, r *http.Request) {
	actor, err := requireUser(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in UpdateCommentRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	c, err := h.svc.UpdateComment(r.Context(), actor, chi.URLParam(r, "id"), in.Content)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, commentFromModel(c))
}

func (h *Handlers) DeleteComment(w http.ResponseWriter, r *http.Request) {
	actor, err := requireUser(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.svc.DeleteComment(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) MarkAnswer(w http.ResponseWriter, r *http.Request) {
	actor, err := requireUser(r)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	var in AnswerRequest
	if err := decodeStrict(r, &in); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	if err := h.svc.MarkAnswer(r.Context(), actor, chi.URLParam(r, "id"), in.IsAnswer); err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
