package handler

import (
	"encoding/json"
	"net/http"

	"github.com/TrueMarcoM/GroupProjectRepo2/internal/api/middleware"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/app/service"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/common"

	"github.com/go-chi/chi/v5"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(rs *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: rs}
}

// RegisterRoutes mounts under /rentals/{rentalID}/reviews.
func (h *ReviewHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listReviews)

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/", h.submitReview)
	})
}

func (h *ReviewHandler) submitReview(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	rentalID := chi.URLParam(r, "rentalID")

	var req service.SubmitReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	review, err := h.reviewService.SubmitReview(r.Context(), rentalID, username, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, review)
}

func (h *ReviewHandler) listReviews(w http.ResponseWriter, r *http.Request) {
	rentalID := chi.URLParam(r, "rentalID")
	reviews, err := h.reviewService.ListReviews(r.Context(), rentalID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, reviews)
}
