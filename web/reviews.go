package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	authcontext "github.com/nasermirzaei89/pressroom/auth/context"
	"github.com/nasermirzaei89/pressroom/reviews"
)

type reviewsHandler struct {
	reviewsSvc reviews.Service
}

func NewReviewsHandler(reviewsSvc reviews.Service, cfg Config) *Handler {
	h := &reviewsHandler{reviewsSvc: reviewsSvc}

	return newHandler(cfg, h.registerRoutes)
}

func (h *reviewsHandler) registerRoutes(r chi.Router) {
	r.Post("/review/{postId}", h.HandleSubmitReview)
	r.Get("/review/{postId}", h.HandleGetReview)
}

func (h *reviewsHandler) HandleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req ReviewRequest

	err := decodeRequest(r, &req)
	if err != nil {
		handleServiceError(w, r, "invalid review request", err)

		return
	}

	review, err := h.reviewsSvc.SubmitReview(r.Context(), reviews.SubmitReviewRequest{
		PostID:   chi.URLParam(r, "postId"),
		Editor:   authcontext.GetSubject(r.Context()),
		Approved: *req.Approved,
		Comment:  req.ReviewComment,
	})
	if err != nil {
		handleServiceError(w, r, "failed to submit review", err)

		return
	}

	writeJSON(w, http.StatusOK, reviewResponseFromReview(review))
}

func (h *reviewsHandler) HandleGetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.reviewsSvc.GetReview(r.Context(), chi.URLParam(r, "postId"))
	if err != nil {
		handleServiceError(w, r, "failed to get review", err)

		return
	}

	writeJSON(w, http.StatusOK, reviewResponseFromReview(review))
}
