package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/store"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/store/memstore"
)

var testNow = time.Date(2024, 1, 9, 8, 0, 0, 0, time.UTC)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return nil
}

func (r *recordingNotifier) ofType(t NotificationType) []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, 0)
	for _, n := range r.sent {
		if n.Type == t {
			out = append(out, n)
		}
	}
	return out
}

// blockingNotifier parks every delivery until release is closed and
// signals entered on the first one.
type blockingNotifier struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingNotifier() *blockingNotifier {
	return &blockingNotifier{entered: make(chan struct{}), release: make(chan struct{})}
}

func (b *blockingNotifier) Notify(ctx context.Context, _ Notification) error {
	b.once.Do(func() { close(b.entered) })
	select {
	case <-b.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// failingPuts is a collection whose writes fail
type failingPuts[T store.Record] struct {
	store.Collection[T]
}

func (failingPuts[T]) Put(context.Context, T) error { return errors.New("disk full") }

type testEnv struct {
	svc      *Services
	store    *store.Store
	notifier *recordingNotifier
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		store:    memstore.New(),
		notifier: &recordingNotifier{},
		now:      testNow,
	}
	env.svc = New(Options{
		Store:    env.store,
		Notifier: env.notifier,
		Now:      func() time.Time { return env.now },
		Location: time.UTC,
	})
	return env
}

func (e *testEnv) putUser(t *testing.T, id, name string) {
	t.Helper()
	require.NoError(t, e.store.Users.Put(context.Background(), models.User{ID: id, Name: name, Email: id + "@vitstudent.ac.in"}))
}

func (e *testEnv) putRequest(t *testing.T, r models.TravelRequest) {
	t.Helper()
	require.NoError(t, e.store.TravelRequests.Put(context.Background(), r))
}

func (e *testEnv) putGroup(t *testing.T, g models.TravelGroup) {
	t.Helper()
	require.NoError(t, e.store.TravelGroups.Put(context.Background(), g))
}

func (e *testEnv) groups(t *testing.T) []models.TravelGroup {
	t.Helper()
	all, err := e.store.TravelGroups.List(context.Background())
	require.NoError(t, err)
	return all
}

func activeRequest(id, userID, clock string) models.TravelRequest {
	return models.TravelRequest{
		ID:               id,
		UserID:           userID,
		Route:            models.RouteVITToKatpadi,
		Date:             "2024-01-10",
		Time:             clock,
		VehicleType:      models.VehicleAuto,
		GroupSize:        3,
		GenderPreference: models.GenderPrefMixed,
		Status:           models.RequestActive,
	}
}

func groupOf(id string, members ...string) models.TravelGroup {
	return models.TravelGroup{
		ID:           id,
		Members:      members,
		Route:        models.RouteVITToKatpadi,
		Date:         "2024-01-10",
		Time:         "09:00",
		VehicleType:  models.VehicleAuto,
		Status:       models.GroupForming,
		ChatMessages: []models.ChatMessage{},
	}
}

// requireWritersNotBlocked runs act against a notifier that holds every
// delivery, then checks an unrelated Confirm still completes meanwhile.
func requireWritersNotBlocked(t *testing.T, env *testEnv, act func(*Services) error) {
	t.Helper()
	notifier := newBlockingNotifier()
	svc := New(Options{
		Store:    env.store,
		Notifier: notifier,
		Now:      func() time.Time { return env.now },
		Location: time.UTC,
	})
	env.putGroup(t, groupOf("unrelated", "u7", "u8"))

	released := false
	defer func() {
		if !released {
			close(notifier.release)
		}
	}()

	done := make(chan error, 1)
	go func() { done <- act(svc) }()
	select {
	case <-notifier.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("no notification was delivered")
	}

	confirmed := make(chan error, 1)
	go func() {
		_, err := svc.Groups.Confirm(context.Background(), "unrelated", "u7")
		confirmed <- err
	}()
	select {
	case err := <-confirmed:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Confirm waited behind notification delivery")
	}

	close(notifier.release)
	released = true
	require.NoError(t, <-done)
}
