package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/logger"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
)

const (
	maxMessageLength = 2000
	unreadWindow     = time.Hour
)

// PostMessage appends a message by a member to the group chat
func (s *GroupService) PostMessage(ctx context.Context, groupID, userID, text string) (models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.ChatMessage{}, fmt.Errorf("%w: message cannot be empty", ErrValidation)
	}
	if len(text) > maxMessageLength {
		return models.ChatMessage{}, fmt.Errorf("%w: message exceeds %d characters", ErrValidation, maxMessageLength)
	}

	s.core.mu.Lock()
	defer s.core.mu.Unlock()

	group, err := s.Get(ctx, groupID)
	if err != nil {
		return models.ChatMessage{}, err
	}
	if !group.HasMember(userID) {
		return models.ChatMessage{}, ErrNotMember
	}

	msg := models.ChatMessage{
		ID:        newID(),
		UserID:    userID,
		UserName:  displayName(ctx, s.core, userID),
		Message:   text,
		Timestamp: s.core.now(),
	}
	group.ChatMessages = append(group.ChatMessages, msg)
	if err := s.core.store.TravelGroups.Put(ctx, group); err != nil {
		return models.ChatMessage{}, fmt.Errorf("save group: %w", err)
	}
	logger.Log.WithField("group_id", groupID).Debug("Chat message posted")
	return msg, nil
}

// Messages returns the chat log, optionally only entries after since. It has
// no side effects so clients may poll it.
func (s *GroupService) Messages(ctx context.Context, groupID string, since time.Time) ([]models.ChatMessage, error) {
	group, err := s.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}
	out := make([]models.ChatMessage, 0, len(group.ChatMessages))
	for _, m := range group.ChatMessages {
		if since.IsZero() || m.Timestamp.After(since) {
			out = append(out, m)
		}
	}
	return out, nil
}

// UnreadCount counts other members' messages from the last hour
func (s *GroupService) UnreadCount(group models.TravelGroup, userID string) int {
	cutoff := s.core.now().Add(-unreadWindow)
	n := 0
	for _, m := range group.ChatMessages {
		if m.UserID != userID && m.Timestamp.After(cutoff) {
			n++
		}
	}
	return n
}
