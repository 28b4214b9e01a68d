package services

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/logger"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
)

// UnknownUserName stands in for members whose user record cannot be found
const UnknownUserName = "Unknown user"

// UserService manages registered students
type UserService struct {
	core *core
}

// RegisterInput carries a new account's fields
type RegisterInput struct {
	Email              string
	RegistrationNumber string
	Name               string
	Username           string
	Phone              string
	Gender             models.Gender
	Password           string
}

// Register creates an account. Email, registration number and username must be unique.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)
	in.RegistrationNumber = strings.ToUpper(strings.TrimSpace(in.RegistrationNumber))
	if !in.Gender.Valid() {
		return models.User{}, fmt.Errorf("%w: gender must be male or female", ErrValidation)
	}

	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	users, err := s.core.store.Users.List(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		switch {
		case strings.EqualFold(u.Email, in.Email):
			return models.User{}, fmt.Errorf("%w: an account with this email already exists", ErrConflict)
		case strings.EqualFold(u.RegistrationNumber, in.RegistrationNumber):
			return models.User{}, fmt.Errorf("%w: an account with this registration number already exists", ErrConflict)
		case strings.EqualFold(u.Username, in.Username):
			return models.User{}, fmt.Errorf("%w: this username is already taken", ErrConflict)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.core.now()
	user := models.User{
		ID:                 newID(),
		Email:              in.Email,
		RegistrationNumber: in.RegistrationNumber,
		Name:               strings.TrimSpace(in.Name),
		Username:           in.Username,
		Phone:              strings.TrimSpace(in.Phone),
		Gender:             in.Gender,
		PasswordHash:       string(hash),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.core.store.Users.Put(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("save user: %w", err)
	}
	logger.Log.WithField("user_id", user.ID).Info("User registered")
	return user, nil
}

// Authenticate returns the user owning email when password matches
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	users, err := s.core.store.Users.List(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		if !strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return models.User{}, ErrInvalidCredentials
		}
		return u, nil
	}
	return models.User{}, ErrInvalidCredentials
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	user, ok, err := s.core.store.Users.Get(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("get user: %w", err)
	}
	if !ok {
		return models.User{}, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	return user, nil
}

// UpdateContact changes the mutable contact fields; nil leaves a field as is
func (s *UserService) UpdateContact(ctx context.Context, id string, name, phone *string) (models.User, error) {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	user, err := s.Get(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if name != nil {
		user.Name = strings.TrimSpace(*name)
	}
	if phone != nil {
		user.Phone = strings.TrimSpace(*phone)
	}
	user.UpdatedAt = s.core.now()
	if err := s.core.store.Users.Put(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("save user: %w", err)
	}
	return user, nil
}

// DisplayName resolves a user id to a name, tolerating dangling ids
func (s *UserService) DisplayName(ctx context.Context, id string) string {
	return displayName(ctx, s.core, id)
}

func displayName(ctx context.Context, c *core, id string) string {
	user, ok, err := c.store.Users.Get(ctx, id)
	if err != nil || !ok || user.Name == "" {
		return UnknownUserName
	}
	return user.Name
}
