package services

import (
	"context"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/logger"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/utils"
)

// GroupService owns travel groups: formation, confirmation, membership,
// merging, deletion and the group chat.
type GroupService struct {
	core *core
}

// create forms a two-member group from the matched request. Callers hold the writer lock.
func (s *GroupService) create(ctx context.Context, first, second string, from models.TravelRequest) (models.TravelGroup, error) {
	group := models.TravelGroup{
		ID:           newID(),
		RequestID:    from.ID,
		Members:      []string{first, second},
		Route:        from.Route,
		Date:         from.Date,
		Time:         from.Time,
		VehicleType:  from.VehicleType,
		Status:       models.GroupForming,
		ChatMessages: []models.ChatMessage{},
		CreatedAt:    s.core.now(),
	}
	if err := s.core.store.TravelGroups.Put(ctx, group); err != nil {
		return models.TravelGroup{}, fmt.Errorf("save group: %w", err)
	}
	logger.Log.WithFields(logrus.Fields{
		"group_id":   group.ID,
		"request_id": from.ID,
		"members":    group.Members,
	}).Info("Travel group formed")
	return group, nil
}

func (s *GroupService) Get(ctx context.Context, id string) (models.TravelGroup, error) {
	group, ok, err := s.core.store.TravelGroups.Get(ctx, id)
	if err != nil {
		return models.TravelGroup{}, fmt.Errorf("get group: %w", err)
	}
	if !ok {
		return models.TravelGroup{}, fmt.Errorf("group %s: %w", id, ErrNotFound)
	}
	return group, nil
}

// ListActiveForUser returns the non-completed groups userID belongs to
func (s *GroupService) ListActiveForUser(ctx context.Context, userID string) ([]models.TravelGroup, error) {
	all, err := s.core.store.TravelGroups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	out := make([]models.TravelGroup, 0)
	for _, g := range all {
		if g.IsActive() && g.HasMember(userID) {
			out = append(out, g)
		}
	}
	return out, nil
}

// ActiveGroup returns the first non-completed group userID belongs to
func (s *GroupService) ActiveGroup(ctx context.Context, userID string) (models.TravelGroup, bool, error) {
	all, err := s.core.store.TravelGroups.List(ctx)
	if err != nil {
		return models.TravelGroup{}, false, fmt.Errorf("list groups: %w", err)
	}
	g, ok := models.FindActiveGroup(all, userID)
	return g, ok, nil
}

// Confirm locks the group in on behalf of a member. The first confirmation
// moves forming to confirmed; every confirming member is recorded once.
func (s *GroupService) Confirm(ctx context.Context, groupID, userID string) (models.TravelGroup, error) {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	group, err := s.Get(ctx, groupID)
	if err != nil {
		return models.TravelGroup{}, err
	}
	if !group.HasMember(userID) {
		return models.TravelGroup{}, ErrNotMember
	}

	changed := false
	if group.Status == models.GroupForming {
		group.Status = models.GroupConfirmed
		changed = true
	}
	if !slices.Contains(group.ConfirmedMembers, userID) {
		group.ConfirmedMembers = append(group.ConfirmedMembers, userID)
		changed = true
	}
	if !changed {
		return group, nil
	}

	if err := s.core.store.TravelGroups.Put(ctx, group); err != nil {
		return models.TravelGroup{}, fmt.Errorf("save group: %w", err)
	}
	logger.Log.WithFields(logrus.Fields{"group_id": groupID, "user_id": userID}).Info("Travel group confirmed")
	return group, nil
}

// RemoveMember takes userID out of the group. A group left with fewer than
// two members is deleted together with its chat; deleted reports that case.
// Remaining members are notified once the writer lock is released.
func (s *GroupService) RemoveMember(ctx context.Context, groupID, userID string) (models.TravelGroup, bool, error) {
	group, deleted, batch, err := s.removeMember(ctx, groupID, userID)
	if err != nil {
		return models.TravelGroup{}, false, err
	}
	s.core.notifyAll(ctx, batch)
	return group, deleted, nil
}

func (s *GroupService) removeMember(ctx context.Context, groupID, userID string) (group models.TravelGroup, deleted bool, batch []Notification, err error) {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	all, err := s.core.store.TravelGroups.List(ctx)
	if err != nil {
		return models.TravelGroup{}, false, nil, fmt.Errorf("list groups: %w", err)
	}
	i := slices.IndexFunc(all, func(g models.TravelGroup) bool { return g.ID == groupID })
	if i < 0 {
		return models.TravelGroup{}, false, nil, fmt.Errorf("group %s: %w", groupID, ErrNotFound)
	}
	if !all[i].HasMember(userID) {
		return models.TravelGroup{}, false, nil, ErrNotMember
	}

	group = all[i]
	group.Members = slices.DeleteFunc(slices.Clone(group.Members), func(m string) bool { return m == userID })
	if len(group.Members) < models.MinGroupSize {
		all = slices.Delete(all, i, i+1)
		deleted = true
	} else {
		all[i] = group
	}
	if err := s.core.store.TravelGroups.ReplaceAll(ctx, all); err != nil {
		return models.TravelGroup{}, false, nil, fmt.Errorf("replace groups: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"group_id": groupID,
		"user_id":  userID,
		"deleted":  deleted,
	}).Info("Member left travel group")

	leaver := displayName(ctx, s.core, userID)
	for _, m := range group.Members {
		batch = append(batch, Notification{
			UserID:  m,
			Type:    TypeMemberLeft,
			Title:   "A member left your travel group",
			Message: fmt.Sprintf("%s left your %s group on %s.", leaver, group.Route.Label(), group.Date),
			Data:    map[string]any{"group_id": groupID, "group_deleted": deleted},
		})
	}
	return group, deleted, batch, nil
}

// Merge moves the source group's members and chat into target and retires
// source. Members become target's roster followed by source members not yet
// in it; the chat is target's log followed by source's log, not interleaved.
// Capacity and route/date/time/vehicle agreement are not re-checked here;
// MergeTargets is how callers find a suitable target.
func (s *GroupService) Merge(ctx context.Context, sourceID, targetID string) (models.TravelGroup, error) {
	if sourceID == targetID {
		return models.TravelGroup{}, fmt.Errorf("%w: a group cannot be merged into itself", ErrValidation)
	}
	target, err := s.merge(ctx, sourceID, targetID)
	if err != nil {
		return models.TravelGroup{}, err
	}

	batch := make([]Notification, 0, len(target.Members))
	for _, m := range target.Members {
		batch = append(batch, Notification{
			UserID:  m,
			Type:    TypeGroupMerged,
			Title:   "Travel groups merged",
			Message: fmt.Sprintf("Your %s group on %s now has %d members.", target.Route.Label(), target.Date, len(target.Members)),
			Data:    map[string]any{"group_id": targetID},
		})
	}
	s.core.notifyAll(ctx, batch)
	return target, nil
}

func (s *GroupService) merge(ctx context.Context, sourceID, targetID string) (models.TravelGroup, error) {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	source, err := s.Get(ctx, sourceID)
	if err != nil {
		return models.TravelGroup{}, err
	}
	target, err := s.Get(ctx, targetID)
	if err != nil {
		return models.TravelGroup{}, err
	}

	members := slices.Clone(target.Members)
	for _, m := range source.Members {
		if !slices.Contains(members, m) {
			members = append(members, m)
		}
	}
	chat := make([]models.ChatMessage, 0, len(target.ChatMessages)+len(source.ChatMessages))
	chat = append(chat, target.ChatMessages...)
	chat = append(chat, source.ChatMessages...)

	target.Members = members
	target.ChatMessages = chat
	if err := s.core.store.TravelGroups.Put(ctx, target); err != nil {
		return models.TravelGroup{}, fmt.Errorf("save target group: %w", err)
	}

	source.Status = models.GroupCompleted
	if err := s.core.store.TravelGroups.Put(ctx, source); err != nil {
		return models.TravelGroup{}, fmt.Errorf("save source group: %w", err)
	}

	logger.Log.WithFields(logrus.Fields{
		"source_group_id": sourceID,
		"target_group_id": targetID,
		"members":         len(target.Members),
	}).Info("Travel groups merged")
	return target, nil
}

// MergeTargets lists forming groups on the same route, date and vehicle that
// userID is not in and that fit the source group within the member cap.
func (s *GroupService) MergeTargets(ctx context.Context, groupID, userID string) ([]models.TravelGroup, error) {
	current, err := s.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}
	all, err := s.core.store.TravelGroups.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	out := make([]models.TravelGroup, 0)
	for _, g := range all {
		if g.ID != current.ID &&
			g.Route == current.Route &&
			g.Date == current.Date &&
			g.VehicleType == current.VehicleType &&
			g.Status == models.GroupForming &&
			!g.HasMember(userID) &&
			len(g.Members)+len(current.Members) <= models.MaxGroupSize {
			out = append(out, g)
		}
	}
	return out, nil
}

// Delete removes the group and every handshake addressed to it by group id.
// Handshakes that only name the two users are left alone.
func (s *GroupService) Delete(ctx context.Context, groupID string) error {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	groups, err := s.core.store.TravelGroups.List(ctx)
	if err != nil {
		return fmt.Errorf("list groups: %w", err)
	}
	keptGroups := slices.DeleteFunc(groups, func(g models.TravelGroup) bool { return g.ID == groupID })
	if err := s.core.store.TravelGroups.ReplaceAll(ctx, keptGroups); err != nil {
		return fmt.Errorf("replace groups: %w", err)
	}

	requests, err := s.core.store.GroupRequests.List(ctx)
	if err != nil {
		return fmt.Errorf("list group requests: %w", err)
	}
	before := len(requests)
	keptRequests := slices.DeleteFunc(requests, func(r models.GroupRequest) bool { return r.GroupID == groupID })
	if len(keptRequests) != before {
		if err := s.core.store.GroupRequests.ReplaceAll(ctx, keptRequests); err != nil {
			return fmt.Errorf("replace group requests: %w", err)
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"group_id":          groupID,
		"cascaded_requests": before - len(keptRequests),
	}).Info("Travel group deleted")
	return nil
}

// SweepOld deletes groups whose date lies more than the retention period in
// the past. Groups with an unreadable date go too. Handshakes are not cascaded.
func (s *GroupService) SweepOld(ctx context.Context) (int, error) {
	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	all, err := s.core.store.TravelGroups.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list groups: %w", err)
	}
	cutoff := s.core.now().Add(-s.core.opts.GroupRetention)
	kept := make([]models.TravelGroup, 0, len(all))
	for _, g := range all {
		day, err := utils.ParseDate(g.Date, s.core.loc)
		if err == nil && !day.Before(cutoff) {
			kept = append(kept, g)
		}
	}
	removed := len(all) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.core.store.TravelGroups.ReplaceAll(ctx, kept); err != nil {
		return 0, fmt.Errorf("replace groups: %w", err)
	}
	logger.Log.WithField("removed", removed).Info("Old travel groups swept")
	return removed, nil
}
