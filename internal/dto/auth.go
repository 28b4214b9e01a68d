package dto

// RegisterRequest represents the request payload for user registration
type RegisterRequest struct {
	Email              string `json:"email" validate:"required,email,max=254"`
	RegistrationNumber string `json:"vit_registration_number" validate:"required,alphanum,min=6,max=15"`
	Name               string `json:"name" validate:"required,min=1,max=100"`
	Username           string `json:"username" validate:"required,min=3,max=50"`
	Phone              string `json:"phone" validate:"required,numeric,min=10,max=15"`
	Gender             string `json:"gender" validate:"required,oneof=male female"`
	Password           string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest represents the request payload for user login
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest changes contact fields; omitted fields stay as they are
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone *string `json:"phone,omitempty" validate:"omitempty,numeric,min=10,max=15"`
}

// AuthResponse represents the response after successful authentication
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// UserResponse represents user data in API responses
type UserResponse struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	RegistrationNumber string `json:"vit_registration_number"`
	Name               string `json:"name"`
	Username           string `json:"username"`
	Phone              string `json:"phone"`
	Gender             string `json:"gender"`
	CreatedAt          string `json:"created_at"`
	UpdatedAt          string `json:"updated_at"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}
