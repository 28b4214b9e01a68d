// Package storetest checks a store.Store implementation against the
// collection contract every backend has to honour.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/store"
)

// Run exercises s. The store must start empty.
func Run(t *testing.T, s *store.Store) {
	t.Run("Ping", func(t *testing.T) {
		require.NoError(t, s.Ping(context.Background()))
	})
	t.Run("OrderAndReplace", func(t *testing.T) { testOrderAndReplace(t, s.TravelRequests) })
	t.Run("ReplaceAll", func(t *testing.T) { testReplaceAll(t, s.GroupRequests) })
	t.Run("NestedRecords", func(t *testing.T) { testNestedRecords(t, s.TravelGroups) })
	t.Run("CollectionsAreSeparate", func(t *testing.T) { testSeparate(t, s) })
}

// Reset empties every collection of s, for backends shared between runs
func Reset(t *testing.T, s *store.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Users.ReplaceAll(ctx, nil))
	require.NoError(t, s.TravelRequests.ReplaceAll(ctx, nil))
	require.NoError(t, s.TravelGroups.ReplaceAll(ctx, nil))
	require.NoError(t, s.GroupRequests.ReplaceAll(ctx, nil))
}

func request(id, userID, clock string) models.TravelRequest {
	return models.TravelRequest{
		ID:               id,
		UserID:           userID,
		Route:            models.RouteVITToKatpadi,
		Date:             "2024-01-10",
		Time:             clock,
		VehicleType:      models.VehicleAuto,
		GroupSize:        2,
		GenderPreference: models.GenderPrefMixed,
		Status:           models.RequestActive,
		CreatedAt:        time.Date(2024, 1, 9, 8, 0, 0, 0, time.UTC),
	}
}

func requestIDs(t *testing.T, c store.Collection[models.TravelRequest]) []string {
	t.Helper()
	all, err := c.List(context.Background())
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, r := range all {
		ids = append(ids, r.ID)
	}
	return ids
}

func testOrderAndReplace(t *testing.T, c store.Collection[models.TravelRequest]) {
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Put(ctx, request("r1", "u1", "09:00")))
	require.NoError(t, c.Put(ctx, request("r2", "u2", "09:05")))
	require.NoError(t, c.Put(ctx, request("r3", "u3", "09:10")))
	assert.Equal(t, []string{"r1", "r2", "r3"}, requestIDs(t, c))

	// replacing keeps the position
	updated := request("r1", "u1", "09:30")
	require.NoError(t, c.Put(ctx, updated))
	assert.Equal(t, []string{"r1", "r2", "r3"}, requestIDs(t, c))

	got, ok, err := c.Get(ctx, "r1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "09:30", got.Time)
	assert.True(t, updated.CreatedAt.Equal(got.CreatedAt))

	require.NoError(t, c.Remove(ctx, "r2"))
	require.NoError(t, c.Remove(ctx, "missing"))
	assert.Equal(t, []string{"r1", "r3"}, requestIDs(t, c))

	require.NoError(t, c.Put(ctx, request("r4", "u4", "09:15")))
	assert.Equal(t, []string{"r1", "r3", "r4"}, requestIDs(t, c))
}

func testReplaceAll(t *testing.T, c store.Collection[models.GroupRequest]) {
	ctx := context.Background()
	gr := func(id string) models.GroupRequest {
		return models.GroupRequest{
			ID:          id,
			FromUserID:  "u1",
			ToUserID:    "u2",
			RequestType: models.RequestTypeDirect,
			Status:      models.HandshakePending,
		}
	}

	require.NoError(t, c.Put(ctx, gr("a")))
	require.NoError(t, c.Put(ctx, gr("b")))
	require.NoError(t, c.ReplaceAll(ctx, []models.GroupRequest{gr("c"), gr("a")}))

	all, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[1].ID)

	_, ok, err := c.Get(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.ReplaceAll(ctx, nil))
	all, err = c.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testNestedRecords(t *testing.T, c store.Collection[models.TravelGroup]) {
	ctx := context.Background()
	group := models.TravelGroup{
		ID:               "g1",
		RequestID:        "r1",
		Members:          []string{"u1", "u2"},
		Route:            models.RouteChennaiToVIT,
		Date:             "2024-01-10",
		Time:             "21:45",
		VehicleType:      models.VehicleCab,
		Status:           models.GroupConfirmed,
		ConfirmedMembers: []string{"u2"},
		ChatMessages: []models.ChatMessage{
			{ID: "m1", UserID: "u1", UserName: "Asha", Message: "reached?", Timestamp: time.Date(2024, 1, 10, 20, 0, 0, 0, time.UTC)},
		},
	}
	require.NoError(t, c.Put(ctx, group))

	got, ok, err := c.Get(ctx, "g1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, group.Members, got.Members)
	assert.Equal(t, group.ConfirmedMembers, got.ConfirmedMembers)
	require.Len(t, got.ChatMessages, 1)
	assert.Equal(t, "reached?", got.ChatMessages[0].Message)

	// mutating a returned record must not leak into the store
	got.Members[0] = "someone-else"
	again, _, err := c.Get(ctx, "g1")
	require.NoError(t, err)
	assert.Equal(t, "u1", again.Members[0])
}

func testSeparate(t *testing.T, s *store.Store) {
	ctx := context.Background()
	require.NoError(t, s.Users.Put(ctx, models.User{ID: "shared-id", Name: "Asha"}))

	_, ok, err := s.TravelGroups.Get(ctx, "shared-id")
	require.NoError(t, err)
	assert.False(t, ok)

	user, ok, err := s.Users.Get(ctx, "shared-id")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Asha", user.Name)
}
