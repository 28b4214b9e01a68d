// Package services holds the request, group and handshake lifecycles on top
// of a store.Store.
//
// Every mutation reads whole collections, computes the new state in memory
// and writes it back. A single writer lock shared by all services serialises
// those sequences inside one process; separate processes writing the same
// store can still overwrite each other.
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/logger"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/store"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrNotPending         = errors.New("request already responded to")
	ErrNotMember          = errors.New("user is not a member of this group")
	ErrForbidden          = errors.New("action not allowed for this user")
	ErrSelfRequest        = errors.New("cannot send a travel request to yourself")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("email or password is incorrect")
)

// Options configures New. Zero durations fall back to the defaults below.
type Options struct {
	Store    *store.Store
	Notifier Notifier
	Now      func() time.Time
	Location *time.Location

	// ExpiryGrace is how long after departure a travel request is kept
	ExpiryGrace time.Duration
	// GroupRetention is how long after its date a travel group is kept
	GroupRetention time.Duration
	// StationLeadTime and AirportLeadTime are the minimum booking notice per route kind
	StationLeadTime time.Duration
	AirportLeadTime time.Duration
}

const (
	DefaultExpiryGrace     = 2 * time.Hour
	DefaultGroupRetention  = 48 * time.Hour
	DefaultStationLeadTime = 2 * time.Hour
	DefaultAirportLeadTime = 4 * time.Hour
)

// Services bundles the lifecycle services sharing one store and writer lock
type Services struct {
	Users      *UserService
	Requests   *RequestService
	Groups     *GroupService
	Handshakes *HandshakeService
}

type core struct {
	store    *store.Store
	notifier Notifier
	now      func() time.Time
	loc      *time.Location
	opts     Options

	// mu serialises read-modify-replace sequences
	mu sync.Mutex
}

func New(opts Options) *Services {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Notifier == nil {
		opts.Notifier = LogNotifier{}
	}
	if opts.ExpiryGrace <= 0 {
		opts.ExpiryGrace = DefaultExpiryGrace
	}
	if opts.GroupRetention <= 0 {
		opts.GroupRetention = DefaultGroupRetention
	}
	if opts.StationLeadTime <= 0 {
		opts.StationLeadTime = DefaultStationLeadTime
	}
	if opts.AirportLeadTime <= 0 {
		opts.AirportLeadTime = DefaultAirportLeadTime
	}

	c := &core{
		store:    opts.Store,
		notifier: opts.Notifier,
		now:      opts.Now,
		loc:      opts.Location,
		opts:     opts,
	}
	groups := &GroupService{core: c}
	return &Services{
		Users:      &UserService{core: c},
		Requests:   &RequestService{core: c},
		Groups:     groups,
		Handshakes: &HandshakeService{core: c, groups: groups},
	}
}

func newID() string {
	return uuid.NewString()
}

// notifyAll delivers a batch collected under the writer lock. Call it after
// the lock is released so slow notifiers never hold up other writers.
func (c *core) notifyAll(ctx context.Context, batch []Notification) {
	for _, n := range batch {
		c.notify(ctx, n)
	}
}

// notify delivers best effort; failures are logged and swallowed
func (c *core) notify(ctx context.Context, n Notification) {
	if err := c.notifier.Notify(ctx, n); err != nil {
		logger.Log.WithError(err).WithFields(logrus.Fields{
			"user_id": n.UserID,
			"type":    n.Type,
		}).Warn("notification not delivered")
	}
}
