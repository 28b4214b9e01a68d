// Package matching scores pairs of travel requests and ranks candidate
// companions for a request.
package matching

import (
	"fmt"
	"time"

	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/models"
	"github.com/supriya-vit2006/vit-travel-buddy-s/internal/utils"
)

// MaxTimeGap is the widest departure gap two requests may have and still match
const MaxTimeGap = 15 * time.Minute

const (
	routePoints       = 50
	datePoints        = 30
	timePoints        = 30
	vehiclePoints     = 15
	groupSizePoints   = 10
	genderPrefPoints  = 10
	mergeScoreMinimum = 70
)

// Result is the outcome of scoring two requests. The zero value is incompatible.
type Result struct {
	compatible bool
	score      int
	reasons    []string
}

// Incompatible is the result of a pair failing a hard filter
func Incompatible() Result { return Result{} }

func scored(score int, reasons []string) Result {
	return Result{compatible: true, score: score, reasons: reasons}
}

func (r Result) Compatible() bool { return r.compatible }

// Score is 0 for incompatible pairs
func (r Result) Score() int { return r.score }

// Reasons lists why the pair matched, in scoring order
func (r Result) Reasons() []string {
	return append([]string(nil), r.reasons...)
}

// Score rates how well candidate fits ref. Route, date, departure time and
// gender preference are hard filters; vehicle type and group size only add points.
func Score(ref, candidate models.TravelRequest) Result {
	score := 0
	reasons := make([]string, 0, 6)

	if ref.Route != candidate.Route {
		return Incompatible()
	}
	score += routePoints
	reasons = append(reasons, "Same route")

	if ref.Date != candidate.Date {
		return Incompatible()
	}
	score += datePoints
	reasons = append(reasons, "Same date")

	gap, ok := TimeDifference(ref.Time, candidate.Time)
	if !ok || gap > MaxTimeGap {
		return Incompatible()
	}
	minutes := int(gap / time.Minute)
	score += timePoints - minutes
	reasons = append(reasons, fmt.Sprintf("Time difference: %d minutes", minutes))

	if ref.VehicleType == candidate.VehicleType {
		score += vehiclePoints
		reasons = append(reasons, "Same vehicle type")
	}

	if ref.GroupSize == candidate.GroupSize {
		score += groupSizePoints
		reasons = append(reasons, "Same group size preference")
	}

	reason, ok := genderCompatible(ref.GenderPreference, candidate.GenderPreference)
	if !ok {
		return Incompatible()
	}
	score += genderPrefPoints
	reasons = append(reasons, reason)

	return scored(score, reasons)
}

// genderCompatible compares the stated preference tags only, not the users' genders
func genderCompatible(a, b models.GenderPreference) (string, bool) {
	if a == models.GenderPrefMixed || b == models.GenderPrefMixed {
		return "Mixed group preference", true
	}
	switch a {
	case models.GenderPrefBoys, models.GenderPrefGirls:
		if a == b {
			return fmt.Sprintf("Both prefer %s groups", a), true
		}
	}
	return "", false
}

// TimeDifference returns the absolute gap between two times of day, ignoring dates
func TimeDifference(a, b string) (time.Duration, bool) {
	ta, err := utils.ParseClock(a)
	if err != nil {
		return 0, false
	}
	tb, err := utils.ParseClock(b)
	if err != nil {
		return 0, false
	}
	gap := ta - tb
	if gap < 0 {
		gap = -gap
	}
	return gap, true
}

// SameSlot reports whether two requests share route and date and depart at
// most MaxTimeGap apart. It is the looser check used when accepting a handshake.
func SameSlot(a, b models.TravelRequest) bool {
	if a.Route != b.Route || a.Date != b.Date {
		return false
	}
	gap, ok := TimeDifference(a.Time, b.Time)
	return ok && gap <= MaxTimeGap
}

// CanMerge reports whether two requests match strongly enough to be combined automatically
func CanMerge(a, b models.TravelRequest) bool {
	return Score(a, b).Score() > mergeScoreMinimum
}

// CompatibleGroupSize is the largest group both requests accept
func CompatibleGroupSize(a, b models.TravelRequest) int {
	return min(a.GroupSize, b.GroupSize)
}
