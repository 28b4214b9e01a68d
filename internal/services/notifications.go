package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/logger"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/store"
)

type NotificationType string

const (
	TypeTravelRequestReceived NotificationType = "travel_request_received"
	TypeTravelRequestAccepted NotificationType = "travel_request_accepted"
	TypeTravelRequestDeclined NotificationType = "travel_request_declined"
	TypeGroupFormed           NotificationType = "group_formed"
	TypeGroupMerged           NotificationType = "group_merged"
	TypeMemberLeft            NotificationType = "member_left"
)

// Notification is a message for one user. Delivery is best effort and may
// happen zero or more times.
type Notification struct {
	UserID  string
	Type    NotificationType
	Title   string
	Message string
	Data    map[string]any
}

// Notifier delivers notifications
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the structured log
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, n Notification) error {
	logger.Log.WithFields(logrus.Fields{
		"user_id": n.UserID,
		"type":    n.Type,
		"data":    n.Data,
	}).Info(n.Title)
	return nil
}

// MailSender sends a plain text message
type MailSender interface {
	Send(to, subject, body string) error
}

// EmailNotifier mails notifications to the user's registered address
type EmailNotifier struct {
	Mail  MailSender
	Users store.Collection[models.User]
}

func (e EmailNotifier) Notify(ctx context.Context, n Notification) error {
	user, ok, err := e.Users.Get(ctx, n.UserID)
	if err != nil {
		return fmt.Errorf("lookup recipient: %w", err)
	}
	if !ok || strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("no email address for user %s", n.UserID)
	}
	body := n.Message
	if user.Name != "" {
		body = fmt.Sprintf("Hello %s,\n\n%s\n\nVIT Travel Buddy", user.Name, n.Message)
	}
	return e.Mail.Send(user.Email, n.Title, body)
}

// MultiNotifier fans out to every notifier and joins their errors
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, notifier := range m {
		if err := notifier.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
