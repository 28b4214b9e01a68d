package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/logger"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/services"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/utils"
)

// writeServiceError maps service sentinel errors to HTTP statuses
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Validation failed", detail(err, services.ErrValidation))
	case errors.Is(err, services.ErrSelfRequest):
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request", err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Invalid credentials", err.Error())
	case errors.Is(err, services.ErrNotMember), errors.Is(err, services.ErrForbidden):
		utils.WriteErrorResponse(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, services.ErrNotFound):
		utils.WriteErrorResponse(w, http.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, services.ErrNotPending):
		utils.WriteErrorResponse(w, http.StatusConflict, "Already responded", err.Error())
	case errors.Is(err, services.ErrConflict):
		utils.WriteErrorResponse(w, http.StatusConflict, "Conflict", detail(err, services.ErrConflict))
	default:
		logger.Log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error", "Something went wrong, please try again")
	}
}

// detail strips the sentinel prefix from "sentinel: detail" messages
func detail(err, sentinel error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		return rest
	}
	return msg
}

// requireUser writes a 401 when the request carries no authenticated user
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := utils.GetUserIDFromContext(r)
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
	}
	return userID, ok
}
