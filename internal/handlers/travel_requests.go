package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/dto"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/matching"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/services"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/utils"
)

const maxMatchLimit = 50

// TravelRequestHandler serves travel requests and their matches
type TravelRequestHandler struct {
	svc         *services.Services
	defaultTopN int
}

// NewTravelRequestHandler creates a new TravelRequestHandler instance
func NewTravelRequestHandler(svc *services.Services, defaultTopN int) *TravelRequestHandler {
	return &TravelRequestHandler{svc: svc, defaultTopN: defaultTopN}
}

// Create posts a new travel request
// @Summary Create travel request
// @Description Post a ride request; departure must be in the future with enough lead time for the route
// @Tags travel-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTravelRequestRequest true "Travel request"
// @Success 201 {object} dto.TravelRequestResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Already in a group on that date"
// @Router /api/travel-requests [post]
func (h *TravelRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateTravelRequestRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	created, err := h.svc.Requests.Create(r.Context(), userID, services.NewTravelRequest{
		Route:            models.Route(req.Route),
		Date:             req.Date,
		Time:             req.Time,
		VehicleType:      models.VehicleType(req.VehicleType),
		GroupSize:        req.GroupSize,
		GenderPreference: models.GenderPreference(req.GenderPreference),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, toTravelRequestResponse(created, h.svc.Users.DisplayName(r.Context(), userID)))
}

// ListMine lists the current user's travel requests
// @Summary List my travel requests
// @Tags travel-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TravelRequestResponse
// @Router /api/travel-requests [get]
func (h *TravelRequestHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	requests, err := h.svc.Requests.ListByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	name := h.svc.Users.DisplayName(r.Context(), userID)
	out := make([]dto.TravelRequestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, toTravelRequestResponse(req, name))
	}
	utils.WriteJSONResponse(w, http.StatusOK, out)
}

// Browse lists other students' active travel requests
// @Summary Browse travel requests
// @Tags travel-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.TravelRequestResponse
// @Router /api/travel-requests/browse [get]
func (h *TravelRequestHandler) Browse(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	requests, err := h.svc.Requests.Browse(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]dto.TravelRequestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, toTravelRequestResponse(req, h.svc.Users.DisplayName(r.Context(), req.UserID)))
	}
	utils.WriteJSONResponse(w, http.StatusOK, out)
}

// Matches ranks companions for one of the current user's requests
// @Summary Find matches
// @Description Best compatible requests first; limit defaults to the configured top N
// @Tags travel-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Travel request ID"
// @Param limit query int false "Maximum number of matches"
// @Success 200 {object} dto.MatchesResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid limit"
// @Failure 403 {object} dto.ErrorResponse "Not your request"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /api/travel-requests/{id}/matches [get]
func (h *TravelRequestHandler) Matches(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	requestID := mux.Vars(r)["id"]

	limit := h.defaultTopN
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxMatchLimit {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid limit", "limit must be between 1 and 50")
			return
		}
		limit = n
	}

	ref, err := h.svc.Requests.Get(r.Context(), requestID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if ref.UserID != userID {
		writeServiceError(w, r, services.ErrForbidden)
		return
	}

	seq, err := h.svc.Requests.Matches(r.Context(), requestID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	top := matching.Top(seq, limit)
	out := dto.MatchesResponse{RequestID: requestID, Matches: make([]dto.MatchResponse, 0, len(top))}
	for _, m := range top {
		out.Matches = append(out.Matches, toMatchResponse(r.Context(), h.svc.Users, m))
	}
	utils.WriteJSONResponse(w, http.StatusOK, out)
}
