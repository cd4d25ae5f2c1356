package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/TrueMarcoM/GroupProjectRepo2/internal/api/middleware"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/app/service"
	"github.com/TrueMarcoM/GroupProjectRepo2/internal/common"

	"github.com/go-chi/chi/v5"
)

type RentalHandler struct {
	rentalService *service.RentalService
}

func NewRentalHandler(rs *service.RentalService) *RentalHandler {
	return &RentalHandler{rentalService: rs}
}

func (h *RentalHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listRentals)           // GET /api/v1/rentals?feature=wifi
	r.Get("/{rentalSlug}", h.getRental) // GET /api/v1/rentals/lakeside-cabin-1a2b3c4d

	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/", h.submitPosting) // POST /api/v1/rentals
		authed.Get("/my", h.myRentals)    // GET /api/v1/rentals/my
	})
}

func (h *RentalHandler) submitPosting(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.SubmitPostingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	rental, err := h.rentalService.SubmitPosting(r.Context(), username, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, rental)
}

func (h *RentalHandler) listRentals(w http.ResponseWriter, r *http.Request) {
	feature := r.URL.Query().Get("feature")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	resp, err := h.rentalService.ListRentals(r.Context(), feature, page, pageSize)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *RentalHandler) getRental(w http.ResponseWriter, r *http.Request) {
	rentalSlug := chi.URLParam(r, "rentalSlug")
	rental, err := h.rentalService.GetRentalBySlug(r.Context(), rentalSlug)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, rental)
}

func (h *RentalHandler) myRentals(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsernameFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	rentals, err := h.rentalService.ListMyRentals(r.Context(), username)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, rentals)
}
