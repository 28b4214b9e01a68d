package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/dto"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/services"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/utils"
)

// GroupRequestHandler serves the send/accept/reject handshake
type GroupRequestHandler struct {
	svc *services.Services
}

// NewGroupRequestHandler creates a new GroupRequestHandler instance
func NewGroupRequestHandler(svc *services.Services) *GroupRequestHandler {
	return &GroupRequestHandler{svc: svc}
}

// Send opens a handshake with another student
// @Summary Send travel request
// @Tags group-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SendGroupRequestRequest true "Recipient and request type"
// @Success 201 {object} dto.GroupRequestResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /api/group-requests [post]
func (h *GroupRequestHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.SendGroupRequestRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	sent, err := h.svc.Handshakes.Send(r.Context(), userID, req.ToUserID, models.RequestType(req.RequestType), req.GroupID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, toGroupRequestResponse(r.Context(), h.svc.Users, sent))
}

// Incoming lists pending requests addressed to the current user
// @Summary Incoming travel requests
// @Tags group-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.GroupRequestResponse
// @Router /api/group-requests/incoming [get]
func (h *GroupRequestHandler) Incoming(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.svc.Handshakes.Incoming)
}

// Outgoing lists pending requests the current user sent
// @Summary Outgoing travel requests
// @Tags group-requests
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.GroupRequestResponse
// @Router /api/group-requests/outgoing [get]
func (h *GroupRequestHandler) Outgoing(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.svc.Handshakes.Outgoing)
}

func (h *GroupRequestHandler) list(w http.ResponseWriter, r *http.Request, load func(context.Context, string) ([]models.GroupRequest, error)) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	requests, err := load(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]dto.GroupRequestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, toGroupRequestResponse(r.Context(), h.svc.Users, req))
	}
	utils.WriteJSONResponse(w, http.StatusOK, out)
}

// Accept accepts a pending request and forms a group when both students
// have active requests in the same slot
// @Summary Accept travel request
// @Tags group-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group request ID"
// @Success 200 {object} dto.AcceptGroupRequestResponse
// @Failure 403 {object} dto.ErrorResponse "Not the recipient"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Already responded"
// @Router /api/group-requests/{id}/accept [post]
func (h *GroupRequestHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	res, err := h.svc.Handshakes.Accept(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	resp := dto.AcceptGroupRequestResponse{
		Request:     toGroupRequestResponse(r.Context(), h.svc.Users, res.Request),
		GroupFormed: res.GroupFormed(),
		Message:     "Request accepted, but you have no travel requests in the same slot so no group was formed",
	}
	if res.GroupFormed() {
		g := toGroupResponse(r.Context(), h.svc, *res.Group, userID)
		resp.Group = &g
		resp.Message = "Request accepted, travel group formed"
	}
	utils.WriteJSONResponse(w, http.StatusOK, resp)
}

// Reject declines a pending request addressed to the current user
// @Summary Reject travel request
// @Tags group-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group request ID"
// @Success 200 {object} dto.GroupRequestResponse
// @Failure 403 {object} dto.ErrorResponse "Not the recipient"
// @Failure 409 {object} dto.ErrorResponse "Already responded"
// @Router /api/group-requests/{id}/reject [post]
func (h *GroupRequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.svc.Handshakes.Reject)
}

// Cancel withdraws a pending request the current user sent
// @Summary Cancel travel request
// @Tags group-requests
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group request ID"
// @Success 200 {object} dto.GroupRequestResponse
// @Failure 403 {object} dto.ErrorResponse "Not the sender"
// @Failure 409 {object} dto.ErrorResponse "Already responded"
// @Router /api/group-requests/{id}/cancel [post]
func (h *GroupRequestHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.svc.Handshakes.Cancel)
}

func (h *GroupRequestHandler) respond(w http.ResponseWriter, r *http.Request, act func(context.Context, string, string) (models.GroupRequest, error)) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	req, err := act(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toGroupRequestResponse(r.Context(), h.svc.Users, req))
}
