package handlers

import (
	"net/http"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/config"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/dto"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/middleware"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/services"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/utils"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	users *services.UserService
	jwt   *config.JWTConfig
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(users *services.UserService, jwt *config.JWTConfig) *AuthHandler {
	return &AuthHandler{users: users, jwt: jwt}
}

// Register handles user registration
// @Summary Register a new user
// @Description Create a student account with campus e-mail, registration number and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "User registration data"
// @Success 201 {object} dto.AuthResponse "User created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "User already exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	user, err := h.users.Register(r.Context(), services.RegisterInput{
		Email:              req.Email,
		RegistrationNumber: req.RegistrationNumber,
		Name:               req.Name,
		Username:           req.Username,
		Phone:              req.Phone,
		Gender:             models.Gender(req.Gender),
		Password:           req.Password,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.writeAuth(w, r, http.StatusCreated, user)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate with e-mail and password
// @Tags authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "User login credentials"
// @Success 200 {object} dto.AuthResponse "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.writeAuth(w, r, http.StatusOK, user)
}

func (h *AuthHandler) writeAuth(w http.ResponseWriter, r *http.Request, status int, user models.User) {
	token, err := middleware.GenerateToken(user.ID, user.Email, h.jwt)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, status, dto.AuthResponse{User: toUserResponse(user), Token: token})
}

// GetProfile returns the current user's profile
// @Summary Get user profile
// @Tags authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /api/auth/profile [get]
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toUserResponse(user))
}

// UpdateProfile changes the current user's contact fields
// @Summary Update user profile
// @Description Update name and phone; identity fields cannot change
// @Tags authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdateProfileRequest true "Fields to change"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /api/auth/profile [patch]
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}

	user, err := h.users.UpdateContact(r.Context(), userID, req.Name, req.Phone)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, toUserResponse(user))
}
