package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	authcontext "github.com/nasermirzaei89/pressroom/auth/context"
	"github.com/nasermirzaei89/pressroom/discuss"
)

type commentsHandler struct {
	discussSvc discuss.Service
}

func NewCommentsHandler(discussSvc discuss.Service, cfg Config) *Handler {
	h := &commentsHandler{discussSvc: discussSvc}

	return newHandler(cfg, h.registerRoutes)
}

func (h *commentsHandler) registerRoutes(r chi.Router) {
	r.Get("/comments/{postId}", h.HandleListComments)
	r.Post("/comments", h.HandleCreateComment)
	r.Put("/comments/{commentId}", h.HandleUpdateComment)
	r.Delete("/comments/{commentId}", h.HandleDeleteComment)
}

func (h *commentsHandler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.discussSvc.ListComments(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		handleServiceError(w, r, "failed to list comments", err)

		return
	}

	res := make([]*CommentResponse, 0, len(comments))
	for _, comment := range comments {
		res = append(res, commentResponseFromComment(comment))
	}

	writeJSON(w, http.StatusOK, res)
}

func (h *commentsHandler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req CreateCommentRequest

	err := decodeRequest(r, &req)
	if err != nil {
		handleServiceError(w, r, "invalid create comment request", err)

		return
	}

	comment, err := h.discussSvc.CreateComment(r.Context(), discuss.CreateCommentRequest{
		PostID:    req.PostID,
		Commenter: authcontext.GetSubject(r.Context()),
		Text:      req.Text,
	})
	if err != nil {
		handleServiceError(w, r, "failed to create comment", err)

		return
	}

	writeJSON(w, http.StatusCreated, commentResponseFromComment(comment))
}

func (h *commentsHandler) HandleUpdateComment(w http.ResponseWriter, r *http.Request) {
	var req UpdateCommentRequest

	err := decodeRequest(r, &req)
	if err != nil {
		handleServiceError(w, r, "invalid update comment request", err)

		return
	}

	comment, err := h.discussSvc.UpdateComment(r.Context(), discuss.UpdateCommentRequest{
		ID:        chi.URLParam(r, "commentId"),
		Text:      req.Text,
		Requester: authcontext.GetSubject(r.Context()),
	})
	if err != nil {
		handleServiceError(w, r, "failed to update comment", err)

		return
	}

	writeJSON(w, http.StatusOK, commentResponseFromComment(comment))
}

func (h *commentsHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	err := h.discussSvc.DeleteComment(r.Context(), discuss.DeleteCommentRequest{
		ID:        chi.URLParam(r, "commentId"),
		Requester: authcontext.GetSubject(r.Context()),
	})
	if err != nil {
		handleServiceError(w, r, "failed to delete comment", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
