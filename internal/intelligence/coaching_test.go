package intelligence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/testutil"
	"github.com/stretchr/testify/assert"
)

var coachNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func TestProductivityCoaching_CompletionThresholds(t *testing.T) {
	tests := []struct {
		name            string
		completed       int
		total           int
		wantTips        []string
		wantBottlenecks []string
	}{
		{"no tasks yesterday", 0, 0, []string{}, []string{}},
		{"low", 2, 5, []string{TipPickThree, TipBlockFocusHours}, []string{BottleneckLowCompletion}},
		{"just under half", 49, 100, []string{TipPickThree, TipBlockFocusHours}, []string{BottleneckLowCompletion}},
		{"exactly half", 1, 2, []string{TipPrepareScripts}, []string{}},
		{"medium", 3, 5, []string{TipPrepareScripts}, []string{}},
		{"exactly eighty", 4, 5, []string{TipCongratulations, TipBatchSimilar}, []string{}},
		{"all done", 5, 5, []string{TipCongratulations, TipBatchSimilar}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProductivityCoaching(tt.completed, tt.total, nil, nil, coachNow)
			assert.Equal(t, tt.wantTips, got.Tips)
			assert.Equal(t, tt.wantBottlenecks, got.Bottlenecks)
		})
	}
}

func TestProductivityCoaching_StalledDeals(t *testing.T) {
	old := coachNow.Add(-6 * 24 * time.Hour)
	stale := func(stage domain.DealStage) domain.Deal {
		return *testutil.NewTestDeal("u1", string(stage), testutil.WithStage(stage), testutil.WithDealUpdatedAt(old))
	}

	three := []domain.Deal{stale(domain.StageLead), stale(domain.StageProposal), stale(domain.StageNegotiation)}
	got := ProductivityCoaching(0, 0, nil, three, coachNow)
	assert.Equal(t, []string{"3 deals have had no update for more than 5 days"}, got.Bottlenecks)
	assert.Equal(t, []string{TipQuickFollowUps}, got.Tips)

	two := three[:2]
	got = ProductivityCoaching(0, 0, nil, two, coachNow)
	assert.Empty(t, got.Bottlenecks)
	assert.NotContains(t, got.Tips, TipQuickFollowUps)

	settled := []domain.Deal{stale(domain.StageActive), stale(domain.StageWon), stale(domain.StageLost), stale(domain.StageLead)}
	got = ProductivityCoaching(0, 0, nil, settled, coachNow)
	assert.Empty(t, got.Bottlenecks)

	fresh := *testutil.NewTestDeal("u1", "fresh", testutil.WithStage(domain.StageLead),
		testutil.WithDealUpdatedAt(coachNow.Add(-4*24*time.Hour)))
	got = ProductivityCoaching(0, 0, nil, []domain.Deal{fresh, three[0], three[1]}, coachNow)
	assert.Empty(t, got.Bottlenecks)
}

func TestProductivityCoaching_EntityNudges(t *testing.T) {
	recent := testutil.WithDealUpdatedAt(coachNow)
	deals := []domain.Deal{
		*testutil.NewTestDeal("u1", "a", testutil.WithEntityType(domain.EntityHotel), recent),
		*testutil.NewTestDeal("u1", "b", testutil.WithEntityType(domain.EntitySchool), recent),
		*testutil.NewTestDeal("u1", "c", testutil.WithEntityType(domain.EntityMuseum), recent),
	}
	got := ProductivityCoaching(5, 5, nil, deals, coachNow)
	assert.Equal(t, []string{TipCongratulations, TipBatchSimilar, TipSchools, TipHotels}, got.Tips)
	assert.NotContains(t, got.Tips, TipMunicipalities)
}

func TestStalledDeals_OldestFirst(t *testing.T) {
	a := *testutil.NewTestDeal("u1", "a", testutil.WithStage(domain.StageLead), testutil.WithDealUpdatedAt(coachNow.Add(-7*24*time.Hour)))
	b := *testutil.NewTestDeal("u1", "b", testutil.WithStage(domain.StageLead), testutil.WithDealUpdatedAt(coachNow.Add(-20*24*time.Hour)))
	got := StalledDeals([]domain.Deal{a, b}, coachNow)
	if assert.Len(t, got, 2) {
		assert.Equal(t, "b", got[0].Title)
	}
}

func TestAssembleBriefing(t *testing.T) {
	tasks := []domain.Task{
		*testutil.NewTestTask("u1", "Demo", testutil.WithTaskPriority(domain.PriorityCritical)),
		*testutil.NewTestTask("u1", "Proposal", testutil.WithTaskPriority(domain.PriorityHigh)),
		*testutil.NewTestTask("u1", "Hotel", testutil.WithTaskPriority(domain.PriorityHigh)),
		*testutil.NewTestTask("u1", "Museum", testutil.WithTaskPriority(domain.PriorityHigh)),
		*testutil.NewTestTask("u1", "Research", testutil.WithTaskPriority(domain.PriorityLow)),
	}
	yesterday := []domain.Task{
		*testutil.NewTestTask("u1", "y1", testutil.WithTaskStatus(domain.StatusCompleted)),
		*testutil.NewTestTask("u1", "y2", testutil.WithTaskStatus(domain.StatusCompleted)),
		*testutil.NewTestTask("u1", "y3", testutil.WithTaskStatus(domain.StatusPending)),
		*testutil.NewTestTask("u1", "y4", testutil.WithTaskStatus(domain.StatusSkipped)),
	}

	b := AssembleBriefing(BriefingInput{
		UserID:         "u1",
		UserName:       "Giulia",
		Date:           planDay,
		Now:            coachNow,
		Tasks:          tasks,
		YesterdayTasks: yesterday,
		TaskSource:     SourceExisting,
		InsightSource:  SourceMock,
	})

	assert.Equal(t, len(b.Tasks), b.TasksCount)
	assert.Equal(t, b.TasksCount, b.PriorityBreakdown.Total())
	assert.Equal(t, domain.PriorityBreakdown{Critical: 1, High: 3, Low: 1}, b.PriorityBreakdown)
	assert.Equal(t, 2, b.YesterdayCompleted)
	assert.Equal(t, 4, b.YesterdayTotal)
	assert.Equal(t, []string{"Demo", "Proposal", "Hotel"}, b.FocusAreas)
	assert.Equal(t, "Good progress yesterday, Giulia: 2/4 tasks done. Today let's aim even higher.", b.MotivationalMessage)
	assert.Equal(t, []string{TipPrepareScripts}, b.ProductivityTips)
	assert.Equal(t, "2026-03-10", b.Date)
	assert.Equal(t, "existing", b.TaskSource)
	assert.NotNil(t, b.Insights)
}

func TestMotivationalMessage(t *testing.T) {
	assert.Contains(t, MotivationalMessage("Luca", 0, 0), "Good morning Luca!")
	assert.Contains(t, MotivationalMessage("Luca", 4, 5), "Outstanding work yesterday, Luca: 4/5")
	assert.Contains(t, MotivationalMessage("Luca", 1, 5), "Yesterday you closed 1/5 tasks")
}

type stubInstructionSource struct {
	list []*domain.AICustomInstructions
	err  error
}

func (s stubInstructionSource) ListActiveByUser(context.Context, string, time.Time) ([]*domain.AICustomInstructions, error) {
	return s.list, s.err
}

func TestFormatCustomInstructions(t *testing.T) {
	list := []*domain.AICustomInstructions{
		testutil.NewTestInstructions("u1", "Mention the spring discount", testutil.WithInstructionPriority(domain.LevelLow)),
		testutil.NewTestInstructions("u1", "Focus on schools in Puglia", testutil.WithInstructionPriority(domain.LevelHigh)),
		testutil.NewTestInstructions("u1", "Call before noon", testutil.WithInstructionPriority(domain.LevelHigh)),
	}
	want := "HIGH PRIORITY INSTRUCTIONS (must follow):\n" +
		"- Focus on schools in Puglia\n" +
		"- Call before noon\n\n" +
		"LOW PRIORITY INSTRUCTIONS (nice to have):\n" +
		"- Mention the spring discount"
	assert.Equal(t, want, FormatCustomInstructions(list))
	assert.Empty(t, FormatCustomInstructions(nil))
}

func TestInstructionsFetcher_ReadFailureIsEmpty(t *testing.T) {
	f := NewInstructionsFetcher(stubInstructionSource{err: errors.New("db down")}, nil)
	assert.Empty(t, f.Fetch(context.Background(), "u1"))

	f = NewInstructionsFetcher(stubInstructionSource{list: []*domain.AICustomInstructions{
		testutil.NewTestInstructions("u1", "Be brief"),
	}}, nil)
	assert.Equal(t, "MEDIUM PRIORITY INSTRUCTIONS:\n- Be brief", f.Fetch(context.Background(), "u1"))
}
