package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/dto"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/services"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/utils"
)

// GroupHandler serves travel groups and their chat
type GroupHandler struct {
	svc *services.Services
}

// NewGroupHandler creates a new GroupHandler instance
func NewGroupHandler(svc *services.Services) *GroupHandler {
	return &GroupHandler{svc: svc}
}

// memberGroup loads the {id} group and checks the caller belongs to it
func (h *GroupHandler) memberGroup(w http.ResponseWriter, r *http.Request) (models.TravelGroup, string, bool) {
	userID, ok := requireUser(w, r)
	if !ok {
		return models.TravelGroup{}, "", false
	}
	group, err := h.svc.Groups.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return models.TravelGroup{}, "", false
	}
	if !group.HasMember(userID) {
		writeServiceError(w, r, services.ErrNotMember)
		return models.TravelGroup{}, "", false
	}
	return group, userID, true
}

// List returns the current user's active groups
// @Summary List my groups
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Success 200 {array} dto.GroupResponse
// @Router /api/groups [get]
func (h *GroupHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	groups, err := h.svc.Groups.ListActiveForUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]dto.GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, toGroupResponse(r.Context(), h.svc, g, userID))
	}
	utils.WriteJSONResponse(w, http.StatusOK, out)
}

// Get returns one group the current user belongs to
// @Summary Get group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} dto.GroupResponse
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /api/groups/{id} [get]
func (h *GroupHandler) Get(w http.ResponseWriter, r *http.Request) {
	group, userID, ok := h.memberGroup(w, r)
	if !ok {
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toGroupResponse(r.Context(), h.svc, group, userID))
}

// Confirm locks in the group on behalf of the current user
// @Summary Confirm group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} dto.GroupResponse
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /api/groups/{id}/confirm [post]
func (h *GroupHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	group, err := h.svc.Groups.Confirm(r.Context(), mux.Vars(r)["id"], userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toGroupResponse(r.Context(), h.svc, group, userID))
}

// Leave removes the current user from the group
// @Summary Leave group
// @Description A group left with fewer than two members is deleted
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} dto.LeaveGroupResponse
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /api/groups/{id}/leave [post]
func (h *GroupHandler) Leave(w http.ResponseWriter, r *http.Request) {
	group, userID, ok := h.memberGroup(w, r)
	if !ok {
		return
	}

	updated, deleted, err := h.svc.Groups.RemoveMember(r.Context(), group.ID, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	resp := dto.LeaveGroupResponse{GroupID: group.ID, GroupDeleted: deleted}
	if !deleted {
		g := toGroupResponse(r.Context(), h.svc, updated, userID)
		resp.Group = &g
	}
	utils.WriteJSONResponse(w, http.StatusOK, resp)
}

// Delete removes the group; only its creator may do so
// @Summary Delete group
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse "Not the creator"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /api/groups/{id} [delete]
func (h *GroupHandler) Delete(w http.ResponseWriter, r *http.Request) {
	group, userID, ok := h.memberGroup(w, r)
	if !ok {
		return
	}
	if group.Creator() != userID {
		writeServiceError(w, r, services.ErrForbidden)
		return
	}

	if err := h.svc.Groups.Delete(r.Context(), group.ID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{Message: "Group deleted"})
}

// MergeTargets lists groups the current group could merge into
// @Summary List merge targets
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Success 200 {array} dto.GroupResponse
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Router /api/groups/{id}/merge-targets [get]
func (h *GroupHandler) MergeTargets(w http.ResponseWriter, r *http.Request) {
	group, userID, ok := h.memberGroup(w, r)
	if !ok {
		return
	}

	targets, err := h.svc.Groups.MergeTargets(r.Context(), group.ID, userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]dto.GroupResponse, 0, len(targets))
	for _, g := range targets {
		out = append(out, toGroupResponse(r.Context(), h.svc, g, userID))
	}
	utils.WriteJSONResponse(w, http.StatusOK, out)
}

// Merge moves the current group into a target group
// @Summary Merge groups
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Source group ID"
// @Param request body dto.MergeGroupRequest true "Target group"
// @Success 200 {object} dto.GroupResponse "The merged target group"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Failure 404 {object} dto.ErrorResponse "Group not found"
// @Router /api/groups/{id}/merge [post]
func (h *GroupHandler) Merge(w http.ResponseWriter, r *http.Request) {
	group, userID, ok := h.memberGroup(w, r)
	if !ok {
		return
	}

	var req dto.MergeGroupRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	merged, err := h.svc.Groups.Merge(r.Context(), group.ID, req.TargetGroupID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toGroupResponse(r.Context(), h.svc, merged, userID))
}

// Messages returns the group chat, optionally only messages after since
// @Summary Get chat messages
// @Tags groups
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param since query string false "RFC3339 timestamp"
// @Success 200 {array} dto.ChatMessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid since"
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Router /api/groups/{id}/messages [get]
func (h *GroupHandler) Messages(w http.ResponseWriter, r *http.Request) {
	group, _, ok := h.memberGroup(w, r)
	if !ok {
		return
	}

	var since time.Time
	if raw := r.URL.Query().Get("since"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid since", "since must be an RFC3339 timestamp")
			return
		}
		since = t
	}

	messages, err := h.svc.Groups.Messages(r.Context(), group.ID, since)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	out := make([]dto.ChatMessageResponse, 0, len(messages))
	for _, m := range messages {
		out = append(out, toChatMessageResponse(m))
	}
	utils.WriteJSONResponse(w, http.StatusOK, out)
}

// PostMessage adds a message to the group chat
// @Summary Post chat message
// @Tags groups
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Group ID"
// @Param request body dto.PostMessageRequest true "Message"
// @Success 201 {object} dto.ChatMessageResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Not a member"
// @Router /api/groups/{id}/messages [post]
func (h *GroupHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.PostMessageRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	msg, err := h.svc.Groups.PostMessage(r.Context(), mux.Vars(r)["id"], userID, req.Message)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, toChatMessageResponse(msg))
}
