package intelligence

import (
	"fmt"
	"sort"
	"time"

	"github.com/stefanorainone/sales-management/internal/domain"
)

const (
	BottleneckLowCompletion = "Low completion rate yesterday: too many tasks are being left open."

	TipPickThree       = "Pick the three most important tasks and finish them before anything else."
	TipBlockFocusHours = "Block two focus hours in your calendar with notifications off."
	TipPrepareScripts  = "Prepare call scripts the evening before so you can start dialing right away."
	TipCongratulations = "Great completion rate yesterday: keep the same rhythm today."
	TipBatchSimilar    = "Batch similar tasks together, for example all calls in one block."
	TipQuickFollowUps  = "Send quick follow-ups to stalled deals: a two-line message is enough to restart the conversation."
	TipSchools         = "Schools plan trips months ahead: propose dates for next term now."
	TipMunicipalities  = "Municipalities follow budget cycles: ask when the next funding window opens."
	TipHotels          = "Hotels look for guest experiences: pitch VR as an evening activity for families."
)

const stalledAfterDays = 5

// CoachingAdvice is the outcome of the productivity heuristic.
type CoachingAdvice struct {
	Tips        []string
	Bottlenecks []string
}

// ProductivityCoaching applies fixed rules to yesterday's completion rate
// and to the deal pipeline. The activities argument is accepted for callers
// that already hold it; no rule reads it.
func ProductivityCoaching(yesterdayCompleted, yesterdayTotal int, _ []domain.Activity, deals []domain.Deal, now time.Time) CoachingAdvice {
	advice := CoachingAdvice{Tips: []string{}, Bottlenecks: []string{}}

	if yesterdayTotal > 0 {
		rate := CompletionRate(yesterdayCompleted, yesterdayTotal)
		switch {
		case rate < 50:
			advice.Bottlenecks = append(advice.Bottlenecks, BottleneckLowCompletion)
			advice.Tips = append(advice.Tips, TipPickThree, TipBlockFocusHours)
		case rate < 80:
			advice.Tips = append(advice.Tips, TipPrepareScripts)
		default:
			advice.Tips = append(advice.Tips, TipCongratulations, TipBatchSimilar)
		}
	}

	if stalled := StalledDeals(deals, now); len(stalled) > 2 {
		advice.Bottlenecks = append(advice.Bottlenecks,
			fmt.Sprintf("%d deals have had no update for more than %d days", len(stalled), stalledAfterDays))
		advice.Tips = append(advice.Tips, TipQuickFollowUps)
	}

	entities := make(map[domain.EntityType]bool)
	for _, d := range deals {
		entities[d.EntityType] = true
	}
	if entities[domain.EntitySchool] {
		advice.Tips = append(advice.Tips, TipSchools)
	}
	if entities[domain.EntityMunicipality] {
		advice.Tips = append(advice.Tips, TipMunicipalities)
	}
	if entities[domain.EntityHotel] {
		advice.Tips = append(advice.Tips, TipHotels)
	}
	return advice
}

// CompletionRate returns completed/total as a percentage, 0 when total is 0.
func CompletionRate(completed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// StalledDeals returns unsettled deals whose last update is more than five
// days before now, oldest first.
func StalledDeals(deals []domain.Deal, now time.Time) []domain.Deal {
	cutoff := now.Add(-stalledAfterDays * 24 * time.Hour)
	var out []domain.Deal
	for _, d := range deals {
		if d.Stage.IsSettled() || d.UpdatedAt.IsZero() {
			continue
		}
		if d.UpdatedAt.Before(cutoff) {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.Before(out[j].UpdatedAt.Time)
	})
	return out
}
