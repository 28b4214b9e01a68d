package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/matching"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
)

func validInput() NewTravelRequest {
	return NewTravelRequest{
		Route:            models.RouteVITToKatpadi,
		Date:             "2024-01-10",
		Time:             "09:00",
		VehicleType:      models.VehicleAuto,
		GroupSize:        3,
		GenderPreference: models.GenderPrefMixed,
	}
}

func TestCreateRequest(t *testing.T) {
	env := newTestEnv(t)

	req, err := env.svc.Requests.Create(context.Background(), "u1", validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, models.RequestActive, req.Status)
	assert.Equal(t, testNow, req.CreatedAt)

	stored, err := env.svc.Requests.Get(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, req.Time, stored.Time)
}

func TestCreateRequestValidation(t *testing.T) {
	tests := []struct {
		name string
		edit func(*NewTravelRequest)
	}{
		{"unknown route", func(in *NewTravelRequest) { in.Route = "vit-to-mars" }},
		{"unknown vehicle", func(in *NewTravelRequest) { in.VehicleType = "bus" }},
		{"group too small", func(in *NewTravelRequest) { in.GroupSize = 1 }},
		{"group too large", func(in *NewTravelRequest) { in.GroupSize = 5 }},
		{"bad date", func(in *NewTravelRequest) { in.Date = "10/01/2024" }},
		{"past departure", func(in *NewTravelRequest) { in.Date = "2024-01-08" }},
		{"inside station lead time", func(in *NewTravelRequest) { in.Date = "2024-01-09"; in.Time = "09:30" }},
		{"inside airport lead time", func(in *NewTravelRequest) {
			in.Route = models.RouteVITToChennai
			in.Date = "2024-01-09"
			in.Time = "11:00"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			in := validInput()
			tt.edit(&in)
			_, err := env.svc.Requests.Create(context.Background(), "u1", in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateRequestConflictsWithGroupOnSameDate(t *testing.T) {
	env := newTestEnv(t)
	env.putGroup(t, groupOf("g1", "u1", "u2"))

	_, err := env.svc.Requests.Create(context.Background(), "u1", validInput())
	assert.ErrorIs(t, err, ErrConflict)

	in := validInput()
	in.Date = "2024-01-11"
	_, err = env.svc.Requests.Create(context.Background(), "u1", in)
	assert.NoError(t, err)
}

func TestBrowseAndListByUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.putRequest(t, activeRequest("r1", "u1", "09:00"))
	env.putRequest(t, activeRequest("r2", "u2", "09:05"))
	stale := activeRequest("r3", "u3", "09:05")
	stale.Status = models.RequestExpired
	env.putRequest(t, stale)

	mine, err := env.svc.Requests.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "r1", mine[0].ID)

	others, err := env.svc.Requests.Browse(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, others, 1)
	assert.Equal(t, "r2", others[0].ID)
}

func TestMatches(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.putRequest(t, activeRequest("r1", "u1", "09:00"))
	env.putRequest(t, activeRequest("r2", "u2", "09:12"))
	env.putRequest(t, activeRequest("r3", "u3", "09:02"))
	env.putRequest(t, activeRequest("r4", "u4", "10:00"))

	seq, err := env.svc.Requests.Matches(ctx, "r1")
	require.NoError(t, err)
	top := matching.Top(seq, 5)
	require.Len(t, top, 2)
	assert.Equal(t, "r3", top[0].Request.ID)
	assert.Equal(t, "r2", top[1].Request.ID)

	_, err = env.svc.Requests.Matches(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSweepExpiredRequests(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.now = time.Date(2024, 1, 10, 11, 30, 0, 0, time.UTC)

	env.putRequest(t, activeRequest("gone", "u1", "09:00"))
	env.putRequest(t, activeRequest("grace", "u2", "09:45"))
	broken := activeRequest("broken", "u3", "09:00")
	broken.Date = "tomorrow"
	env.putRequest(t, broken)
	later := activeRequest("later", "u4", "18:00")
	env.putRequest(t, later)

	removed, err := env.svc.Requests.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	all, err := env.store.TravelRequests.List(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, r := range all {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"grace", "later"}, ids)

	removed, err = env.svc.Requests.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
