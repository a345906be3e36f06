package intelligence

import (
	"time"

	"github.com/google/uuid"
	"github.com/stefanorainone/sales-management/internal/domain"
)

// Source records where a generated batch came from.
type Source string

const (
	SourceExisting Source = "existing"
	SourceLLM      Source = "llm"
	SourceMock     Source = "mock"
)

// Degraded reports whether the batch came from the deterministic fallback.
func (s Source) Degraded() bool {
	return s == SourceMock
}

// PipelineSnapshot is everything the coach knows about one seller when
// drafting tasks or insights.
type PipelineSnapshot struct {
	UserID   string
	UserName string
	Date     time.Time // day being planned
	Now      time.Time

	Deals          []domain.Deal
	Clients        []domain.Client
	Activities     []domain.Activity
	CompletedToday []domain.Task

	// CustomInstructions is the pre-rendered admin guidance block, or "".
	CustomInstructions string
	// AdminPrompt is an ad-hoc request from an admin preview; empty for
	// the daily batch.
	AdminPrompt string
	// TaskCount asks for an exact batch size; 0 means the default 4 to 8.
	TaskCount int
}

const (
	minDailyTasks = 4
	maxDailyTasks = 8
)

// slotTime places the i-th task of the day at a fixed working-hours slot.
func slotTime(day time.Time, i int) time.Time {
	slots := [...]struct{ h, m int }{
		{9, 0}, {10, 0}, {11, 30}, {14, 0}, {15, 0}, {16, 30}, {17, 30}, {18, 0},
	}
	s := slots[i%len(slots)]
	y, mo, d := day.Date()
	return time.Date(y, mo, d, s.h, s.m, 0, 0, day.Location())
}

// stampTasks assigns server-side identity and lifecycle fields to drafted
// tasks. Drafts never choose their own id, owner or status.
func stampTasks(drafts []domain.Task, snap PipelineSnapshot) []domain.Task {
	now := domain.NewTimestamp(snap.Now)
	known := knownRefs(snap)
	out := make([]domain.Task, 0, len(drafts))
	for i, t := range drafts {
		t.ID = uuid.New().String()
		t.UserID = snap.UserID
		t.Status = domain.StatusPending
		t.CreatedAt = now
		t.UpdatedAt = now
		if t.ScheduledAt.IsZero() {
			t.ScheduledAt = domain.NewTimestamp(slotTime(snap.Date, i))
		}
		if t.ClientID != "" && !known[t.ClientID] {
			t.ClientID = ""
		}
		if t.DealID != "" && !known[t.DealID] {
			t.DealID = ""
		}
		t.Normalize()
		t.EstimatedDuration = domain.ClampDuration(t.Type, t.EstimatedDuration)
		out = append(out, t)
	}
	return out
}

// stampInsights assigns identity fields to drafted insights and drops
// references to records the seller does not have.
func stampInsights(drafts []domain.Insight, snap PipelineSnapshot) []domain.Insight {
	now := domain.NewTimestamp(snap.Now)
	known := knownRefs(snap)
	out := make([]domain.Insight, 0, len(drafts))
	for _, in := range drafts {
		in.ID = uuid.New().String()
		in.UserID = snap.UserID
		in.Dismissed = false
		in.CreatedAt = now
		if !known[in.RelatedClientID] {
			in.RelatedClientID = ""
		}
		if !known[in.RelatedDealID] {
			in.RelatedDealID = ""
		}
		if !known[in.RelatedTaskID] {
			in.RelatedTaskID = ""
		}
		if !domain.ValidInsightTypes[in.Type] {
			in.Type = domain.InsightTip
		}
		if !domain.ValidLevels[in.Priority] {
			in.Priority = domain.LevelMedium
		}
		out = append(out, in)
	}
	return out
}

func knownRefs(snap PipelineSnapshot) map[string]bool {
	known := make(map[string]bool, len(snap.Deals)+len(snap.Clients)+len(snap.CompletedToday))
	for _, d := range snap.Deals {
		known[d.ID] = true
	}
	for _, c := range snap.Clients {
		known[c.ID] = true
	}
	for _, t := range snap.CompletedToday {
		known[t.ID] = true
	}
	return known
}

func openDeals(deals []domain.Deal) []domain.Deal {
	var out []domain.Deal
	for _, d := range deals {
		if d.Stage != domain.StageWon && d.Stage != domain.StageLost {
			out = append(out, d)
		}
	}
	return out
}
