package services

import (
	"context"
	"fmt"
	"iter"

	"github.com/sirupsen/logrus"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/logger"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/matching"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
)

// RequestService owns travel requests: creation, lookup, matching and expiry
type RequestService struct {
	core *core
}

// NewTravelRequest carries the fields a student submits
type NewTravelRequest struct {
	Route            models.Route
	Date             string
	Time             string
	VehicleType      models.VehicleType
	GroupSize        int
	GenderPreference models.GenderPreference
}

// Create validates and stores a new active request for userID
func (s *RequestService) Create(ctx context.Context, userID string, in NewTravelRequest) (models.TravelRequest, error) {
	if !in.Route.Valid() || !in.VehicleType.Valid() || !in.GenderPreference.Valid() {
		return models.TravelRequest{}, fmt.Errorf("%w: route, vehicle type and gender preference must be known values", ErrValidation)
	}
	if in.GroupSize < models.MinGroupSize || in.GroupSize > models.MaxGroupSize {
		return models.TravelRequest{}, fmt.Errorf("%w: group size must be between %d and %d",
			ErrValidation, models.MinGroupSize, models.MaxGroupSize)
	}

	req := models.TravelRequest{
		ID:               newID(),
		UserID:           userID,
		Route:            in.Route,
		Date:             in.Date,
		Time:             in.Time,
		VehicleType:      in.VehicleType,
		GroupSize:        in.GroupSize,
		GenderPreference: in.GenderPreference,
		Status:           models.RequestActive,
	}

	departure, err := req.DepartureAt(s.core.loc)
	if err != nil {
		return models.TravelRequest{}, fmt.Errorf("%w: date must be YYYY-MM-DD and time HH:MM", ErrValidation)
	}
	now := s.core.now()
	if !departure.After(now) {
		return models.TravelRequest{}, fmt.Errorf("%w: please select a future date and time", ErrValidation)
	}
	lead := s.core.opts.StationLeadTime
	if in.Route.IsAirport() {
		lead = s.core.opts.AirportLeadTime
	}
	if departure.Sub(now) < lead {
		return models.TravelRequest{}, fmt.Errorf("%w: this route must be booked at least %s in advance", ErrValidation, lead)
	}

	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	groups, err := s.core.store.TravelGroups.List(ctx)
	if err != nil {
		return models.TravelRequest{}, fmt.Errorf("list groups: %w", err)
	}
	for _, g := range groups {
		if g.IsActive() && g.HasMember(userID) && g.Date == in.Date {
			return models.TravelRequest{}, fmt.Errorf("%w: you already have a travel group for this date", ErrConflict)
		}
	}

	req.CreatedAt = now
	if err := s.core.store.TravelRequests.Put(ctx, req); err != nil {
		return models.TravelRequest{}, fmt.Errorf("save travel request: %w", err)
	}
	logger.Log.WithFields(logrus.Fields{
		"request_id": req.ID,
		"user_id":    userID,
		"route":      req.Route,
	}).Info("Travel request created")
	return req, nil
}

func (s *RequestService) Get(ctx context.Context, id string) (models.TravelRequest, error) {
	req, ok, err := s.core.store.TravelRequests.Get(ctx, id)
	if err != nil {
		return models.TravelRequest{}, fmt.Errorf("get travel request: %w", err)
	}
	if !ok {
		return models.TravelRequest{}, fmt.Errorf("travel request %s: %w", id, ErrNotFound)
	}
	return req, nil
}

// ListByUser returns every request owned by userID
func (s *RequestService) ListByUser(ctx context.Context, userID string) ([]models.TravelRequest, error) {
	return s.filter(ctx, func(r models.TravelRequest) bool { return r.UserID == userID })
}

// Browse returns other users' active requests
func (s *RequestService) Browse(ctx context.Context, userID string) ([]models.TravelRequest, error) {
	return s.filter(ctx, func(r models.TravelRequest) bool {
		return r.UserID != userID && r.Status == models.RequestActive
	})
}

func (s *RequestService) filter(ctx context.Context, keep func(models.TravelRequest) bool) ([]models.TravelRequest, error) {
	all, err := s.core.store.TravelRequests.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list travel requests: %w", err)
	}
	out := make([]models.TravelRequest, 0)
	for _, r := range all {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Matches ranks every other request against the request with id requestID
func (s *RequestService) Matches(ctx context.Context, requestID string) (iter.Seq[matching.Match], error) {
	ref, err := s.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	requests, err := s.core.store.TravelRequests.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list travel requests: %w", err)
	}
	groups, err := s.core.store.TravelGroups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return matching.FindMatches(ref, requests, groups), nil
}

// SweepExpired deletes requests whose departure is more than the expiry grace
// in the past. Requests with an unreadable date or time are deleted as well.
func (s *RequestService) SweepExpired(ctx context.Context) (int, error) {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	all, err := s.core.store.TravelRequests.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list travel requests: %w", err)
	}
	cutoff := s.core.now().Add(-s.core.opts.ExpiryGrace)
	kept := make([]models.TravelRequest, 0, len(all))
	for _, r := range all {
		departure, err := r.DepartureAt(s.core.loc)
		if err == nil && departure.After(cutoff) {
			kept = append(kept, r)
		}
	}
	removed := len(all) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.core.store.TravelRequests.ReplaceAll(ctx, kept); err != nil {
		return 0, fmt.Errorf("replace travel requests: %w", err)
	}
	logger.Log.WithField("removed", removed).Info("Expired travel requests swept")
	return removed, nil
}
