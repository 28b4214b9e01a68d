package matching

import (
	"iter"
	"slices"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
)

// Match is a ranked candidate for a reference request
type Match struct {
	Request models.TravelRequest
	Score   int
	Reasons []string
}

// FindMatches ranks requests against ref, best first. Ranking happens when
// the sequence is iterated, over the snapshots passed in, so the sequence can
// be ranged over any number of times. Equal scores keep the order of requests.
func FindMatches(ref models.TravelRequest, requests []models.TravelRequest, groups []models.TravelGroup) iter.Seq[Match] {
	return func(yield func(Match) bool) {
		for _, m := range rank(ref, requests, groups) {
			if !yield(m) {
				return
			}
		}
	}
}

// Top collects at most n matches from seq; n <= 0 collects everything
func Top(seq iter.Seq[Match], n int) []Match {
	out := make([]Match, 0)
	for m := range seq {
		if n > 0 && len(out) >= n {
			break
		}
		out = append(out, m)
	}
	return out
}

func rank(ref models.TravelRequest, requests []models.TravelRequest, groups []models.TravelGroup) []Match {
	matches := make([]Match, 0)
	for _, candidate := range requests {
		if !eligible(ref, candidate, groups) {
			continue
		}
		res := Score(ref, candidate)
		if !res.Compatible() || res.Score() == 0 {
			continue
		}
		matches = append(matches, Match{Request: candidate, Score: res.Score(), Reasons: res.Reasons()})
	}
	slices.SortStableFunc(matches, func(a, b Match) int { return b.Score - a.Score })
	return matches
}

func eligible(ref, candidate models.TravelRequest, groups []models.TravelGroup) bool {
	if candidate.UserID == ref.UserID || candidate.Status != models.RequestActive {
		return false
	}

	group, ok := models.FindActiveGroup(groups, candidate.UserID)
	if !ok {
		return true
	}
	// capacity is judged against the candidate's own desired size
	if len(group.Members) >= candidate.GroupSize {
		return false
	}
	return !group.IsFullyConfirmed()
}
