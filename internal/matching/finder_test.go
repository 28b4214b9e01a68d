package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
)

func ids(matches []Match) []string {
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Request.ID)
	}
	return out
}

func TestFindMatchesRanksBestFirst(t *testing.T) {
	ref := baseRequest("ref", "u0")

	far := baseRequest("far", "u1")
	far.Time = "09:14"
	near := baseRequest("near", "u2")
	near.Time = "09:01"
	wrongRoute := baseRequest("route", "u3")
	wrongRoute.Route = models.RouteVITToChennai

	matches := Top(FindMatches(ref, []models.TravelRequest{far, wrongRoute, near, ref}, nil), 0)
	require.Len(t, matches, 2)
	assert.Equal(t, []string{"near", "far"}, ids(matches))
	assert.Greater(t, matches[0].Score, matches[1].Score)
}

func TestFindMatchesStableTies(t *testing.T) {
	ref := baseRequest("ref", "u0")
	first := baseRequest("first", "u1")
	second := baseRequest("second", "u2")
	third := baseRequest("third", "u3")

	matches := Top(FindMatches(ref, []models.TravelRequest{first, second, third}, nil), 0)
	assert.Equal(t, []string{"first", "second", "third"}, ids(matches))
}

func TestFindMatchesSkipsOwnAndInactive(t *testing.T) {
	ref := baseRequest("ref", "u0")
	own := baseRequest("own", "u0")
	expired := baseRequest("expired", "u1")
	expired.Status = models.RequestExpired
	matched := baseRequest("matched", "u2")
	matched.Status = models.RequestMatched
	ok := baseRequest("ok", "u3")

	matches := Top(FindMatches(ref, []models.TravelRequest{own, expired, matched, ok}, nil), 0)
	assert.Equal(t, []string{"ok"}, ids(matches))
}

func TestFindMatchesGroupEligibility(t *testing.T) {
	ref := baseRequest("ref", "u0")

	full := baseRequest("full", "u1")
	full.GroupSize = 2
	roomy := baseRequest("roomy", "u2")
	roomy.GroupSize = 3
	confirmed := baseRequest("confirmed", "u3")
	confirmed.GroupSize = 4

	groups := []models.TravelGroup{
		{ID: "g1", Members: []string{"u1", "u9"}, Status: models.GroupForming},
		{ID: "g2", Members: []string{"u2", "u8"}, Status: models.GroupForming},
		{
			ID:               "g3",
			Members:          []string{"u3", "u7"},
			Status:           models.GroupConfirmed,
			ConfirmedMembers: []string{"u3", "u7"},
		},
		// completed groups never count
		{ID: "g4", Members: []string{"u1"}, Status: models.GroupCompleted},
	}

	matches := Top(FindMatches(ref, []models.TravelRequest{full, roomy, confirmed}, groups), 0)
	assert.Equal(t, []string{"roomy"}, ids(matches))
}

func TestFindMatchesIsRestartable(t *testing.T) {
	ref := baseRequest("ref", "u0")
	seq := FindMatches(ref, []models.TravelRequest{
		baseRequest("a", "u1"),
		baseRequest("b", "u2"),
		baseRequest("c", "u3"),
	}, nil)

	assert.Equal(t, []string{"a"}, ids(Top(seq, 1)))
	assert.Equal(t, []string{"a", "b", "c"}, ids(Top(seq, 0)))
	assert.Equal(t, []string{"a", "b"}, ids(Top(seq, 2)))
}
