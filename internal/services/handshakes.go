package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/logger"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/matching"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
)

// HandshakeService runs the send/accept/reject protocol between two students
type HandshakeService struct {
	core   *core
	groups *GroupService
}

// AcceptResult is the outcome of accepting a handshake. Group is nil when
// the two users had no active requests in the same slot, in which case the
// handshake is accepted but no group was formed.
type AcceptResult struct {
	Request models.GroupRequest
	Group   *models.TravelGroup
}

func (r AcceptResult) GroupFormed() bool { return r.Group != nil }

// Send opens a pending handshake from one user to another. Repeated
// requests between the same pair are allowed.
func (s *HandshakeService) Send(ctx context.Context, fromUserID, toUserID string, requestType models.RequestType, groupID string) (models.GroupRequest, error) {
	if fromUserID == toUserID {
		return models.GroupRequest{}, ErrSelfRequest
	}
	if !requestType.Valid() {
		return models.GroupRequest{}, fmt.Errorf("%w: unknown request type %q", ErrValidation, requestType)
	}

	req := models.GroupRequest{
		ID:          newID(),
		FromUserID:  fromUserID,
		ToUserID:    toUserID,
		RequestType: requestType,
		GroupID:     groupID,
		Status:      models.HandshakePending,
		CreatedAt:   s.core.now(),
	}

	s.core.mu.Lock()
	err := s.core.store.GroupRequests.Put(ctx, req)
	s.core.mu.Unlock()
	if err != nil {
		return models.GroupRequest{}, fmt.Errorf("save group request: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"group_request_id": req.ID,
		"from_user_id":     fromUserID,
		"to_user_id":       toUserID,
	}).Info("Travel request sent")

	s.core.notify(ctx, Notification{
		UserID:  toUserID,
		Type:    TypeTravelRequestReceived,
		Title:   "New travel request",
		Message: fmt.Sprintf("%s wants to travel with you.", displayName(ctx, s.core, fromUserID)),
		Data:    map[string]any{"group_request_id": req.ID},
	})
	return req, nil
}

func (s *HandshakeService) Get(ctx context.Context, id string) (models.GroupRequest, error) {
	req, ok, err := s.core.store.GroupRequests.Get(ctx, id)
	if err != nil {
		return models.GroupRequest{}, fmt.Errorf("get group request: %w", err)
	}
	if !ok {
		return models.GroupRequest{}, fmt.Errorf("group request %s: %w", id, ErrNotFound)
	}
	return req, nil
}

// Incoming returns pending handshakes addressed to userID
func (s *HandshakeService) Incoming(ctx context.Context, userID string) ([]models.GroupRequest, error) {
	return s.pending(ctx, func(r models.GroupRequest) bool { return r.ToUserID == userID })
}

// Outgoing returns pending handshakes sent by userID
func (s *HandshakeService) Outgoing(ctx context.Context, userID string) ([]models.GroupRequest, error) {
	return s.pending(ctx, func(r models.GroupRequest) bool { return r.FromUserID == userID })
}

func (s *HandshakeService) pending(ctx context.Context, keep func(models.GroupRequest) bool) ([]models.GroupRequest, error) {
	all, err := s.core.store.GroupRequests.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list group requests: %w", err)
	}
	out := make([]models.GroupRequest, 0)
	for _, r := range all {
		if r.Status == models.HandshakePending && keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Accept marks the handshake accepted on behalf of its recipient, then looks
// for an active request of the recipient and one of the sender in the same
// slot. When found, a forming group of the two is created from the
// recipient's request. The group is stored before the handshake turns
// accepted, so a failed Accept leaves the handshake pending and retryable.
func (s *HandshakeService) Accept(ctx context.Context, requestID, userID string) (AcceptResult, error) {
	result, batch, err := s.accept(ctx, requestID, userID)
	if err != nil {
		return AcceptResult{}, err
	}
	s.core.notifyAll(ctx, batch)
	return result, nil
}

func (s *HandshakeService) accept(ctx context.Context, requestID, userID string) (AcceptResult, []Notification, error) {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	req, err := s.respondable(ctx, requestID)
	if err != nil {
		return AcceptResult{}, nil, err
	}
	if req.ToUserID != userID {
		return AcceptResult{}, nil, ErrForbidden
	}

	requests, err := s.core.store.TravelRequests.List(ctx)
	if err != nil {
		return AcceptResult{}, nil, fmt.Errorf("list travel requests: %w", err)
	}
	matched, found := sharedSlot(activeRequestsOf(requests, req.ToUserID), activeRequestsOf(requests, req.FromUserID))

	var result AcceptResult
	if found {
		group, err := s.groups.create(ctx, req.ToUserID, req.FromUserID, matched)
		if err != nil {
			return AcceptResult{}, nil, err
		}
		result.Group = &group
	}

	req.Status = models.HandshakeAccepted
	if err := s.core.store.GroupRequests.Put(ctx, req); err != nil {
		if result.Group != nil {
			if rmErr := s.core.store.TravelGroups.Remove(ctx, result.Group.ID); rmErr != nil {
				logger.Log.WithError(rmErr).WithField("group_id", result.Group.ID).Error("orphan travel group left behind")
			}
		}
		return AcceptResult{}, nil, fmt.Errorf("save group request: %w", err)
	}
	result.Request = req

	fields := logrus.Fields{"group_request_id": req.ID, "from_user_id": req.FromUserID, "to_user_id": req.ToUserID}
	if result.Group == nil {
		logger.Log.WithFields(fields).Warn("Travel request accepted without a compatible pair, no group formed")
		return result, []Notification{{
			UserID:  req.FromUserID,
			Type:    TypeTravelRequestAccepted,
			Title:   "Travel request accepted",
			Message: fmt.Sprintf("%s accepted your request, but you have no trips in the same slot yet.", displayName(ctx, s.core, req.ToUserID)),
			Data:    map[string]any{"group_request_id": req.ID, "group_formed": false},
		}}, nil
	}

	group := *result.Group
	logger.Log.WithFields(fields).WithField("group_id", group.ID).Info("Travel request accepted")
	batch := make([]Notification, 0, len(group.Members))
	for _, m := range group.Members {
		batch = append(batch, Notification{
			UserID:  m,
			Type:    TypeGroupFormed,
			Title:   "Travel group formed",
			Message: fmt.Sprintf("You are travelling %s on %s at %s.", group.Route.Label(), group.Date, group.Time),
			Data:    map[string]any{"group_request_id": req.ID, "group_id": group.ID, "group_formed": true},
		})
	}
	return result, batch, nil
}

// sharedSlot picks the first of mine that shares a slot with any of theirs
func sharedSlot(mine, theirs []models.TravelRequest) (models.TravelRequest, bool) {
	for _, r := range mine {
		for _, other := range theirs {
			if matching.SameSlot(r, other) {
				return r, true
			}
		}
	}
	return models.TravelRequest{}, false
}

// Reject declines the handshake on behalf of its recipient
func (s *HandshakeService) Reject(ctx context.Context, requestID, userID string) (models.GroupRequest, error) {
	req, err := s.decline(ctx, requestID, func(r models.GroupRequest) bool { return r.ToUserID == userID })
	if err != nil {
		return models.GroupRequest{}, err
	}
	s.core.notify(ctx, Notification{
		UserID:  req.FromUserID,
		Type:    TypeTravelRequestDeclined,
		Title:   "Travel request declined",
		Message: fmt.Sprintf("%s declined your travel request.", displayName(ctx, s.core, req.ToUserID)),
		Data:    map[string]any{"group_request_id": req.ID},
	})
	return req, nil
}

// Cancel withdraws the handshake on behalf of its sender
func (s *HandshakeService) Cancel(ctx context.Context, requestID, userID string) (models.GroupRequest, error) {
	return s.decline(ctx, requestID, func(r models.GroupRequest) bool { return r.FromUserID == userID })
}

func (s *HandshakeService) decline(ctx context.Context, requestID string, allowed func(models.GroupRequest) bool) (models.GroupRequest, error) {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	req, err := s.respondable(ctx, requestID)
	if err != nil {
		return models.GroupRequest{}, err
	}
	if !allowed(req) {
		return models.GroupRequest{}, ErrForbidden
	}
	req.Status = models.HandshakeRejected
	if err := s.core.store.GroupRequests.Put(ctx, req); err != nil {
		return models.GroupRequest{}, fmt.Errorf("save group request: %w", err)
	}
	logger.Log.WithField("group_request_id", req.ID).Info("Travel request rejected")
	return req, nil
}

// respondable loads a handshake that is still pending
func (s *HandshakeService) respondable(ctx context.Context, requestID string) (models.GroupRequest, error) {
	req, err := s.Get(ctx, requestID)
	if err != nil {
		return models.GroupRequest{}, err
	}
	if req.Status.Terminal() {
		return models.GroupRequest{}, ErrNotPending
	}
	return req, nil
}

func activeRequestsOf(requests []models.TravelRequest, userID string) []models.TravelRequest {
	out := make([]models.TravelRequest, 0)
	for _, r := range requests {
		if r.UserID == userID && r.Status == models.RequestActive {
			out = append(out, r)
		}
	}
	return out
}
