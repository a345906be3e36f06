package intelligence

import (
	"context"
	"fmt"
	"sort"

	"github.com/stefanorainone/sales-management/internal/domain"
)

// MockTaskGenerator drafts tasks from pipeline rules alone. The same
// snapshot always yields the same drafts.
type MockTaskGenerator struct{}

func (MockTaskGenerator) GenerateTasks(_ context.Context, snap PipelineSnapshot) ([]domain.Task, error) {
	deals := openDeals(snap.Deals)
	sort.SliceStable(deals, func(i, j int) bool {
		if deals[i].Value != deals[j].Value {
			return deals[i].Value > deals[j].Value
		}
		return deals[i].ID < deals[j].ID
	})

	limit := maxDailyTasks
	if snap.TaskCount > 0 {
		limit = snap.TaskCount
	}

	var tasks []domain.Task
	add := func(t domain.Task) {
		if len(tasks) < limit {
			tasks = append(tasks, withGuidance(t))
		}
	}

	for _, d := range deals {
		if t, ok := dealTask(d); ok {
			add(t)
		}
	}

	if c, ok := firstProspect(snap.Clients); ok {
		add(domain.Task{
			Type:        domain.TaskCall,
			Title:       "Discovery call with " + c.Name,
			Description: "Introduce the VR experiences and find out who decides on new projects at " + c.Name + ".",
			AIReasoning: "Prospect with no open deal yet.",
			Priority:    domain.PriorityMedium,
			ClientID:    c.ID,
		})
	}

	add(domain.Task{
		Type:        domain.TaskResearch,
		Title:       "Research three new prospects",
		Description: "Find three schools, museums or hotels in your area that could host a VR experience and note a contact for each.",
		AIReasoning: "A steady flow of new leads keeps the pipeline healthy.",
		Priority:    domain.PriorityLow,
	})
	add(domain.Task{
		Type:        domain.TaskAdmin,
		Title:       "Update the CRM",
		Description: "Bring deal stages and next actions up to date after today's contacts.",
		AIReasoning: "Accurate stages make tomorrow's plan sharper.",
		Priority:    domain.PriorityLow,
	})

	fillers := []domain.Task{
		{
			Type:        domain.TaskFollowUp,
			Title:       "Follow up on recent conversations",
			Description: "Send a short note to the last contacts you spoke with and confirm the next step.",
			AIReasoning: "Quick follow-ups keep warm contacts from cooling down.",
			Priority:    domain.PriorityMedium,
		},
		{
			Type:        domain.TaskEmail,
			Title:       "Share a VR case study",
			Description: "Email a recent success story to a prospect that has not heard from you this week.",
			AIReasoning: "Social proof moves undecided prospects.",
			Priority:    domain.PriorityLow,
		},
		{
			Type:        domain.TaskResearch,
			Title:       "Prepare for tomorrow's calls",
			Description: "Review the notes of the deals you will contact tomorrow.",
			AIReasoning: "Preparation shortens calls and improves outcomes.",
			Priority:    domain.PriorityLow,
		},
		{
			Type:        domain.TaskAdmin,
			Title:       "Plan next week's demos",
			Description: "Check equipment availability and block slots for upcoming demos.",
			AIReasoning: "Demos need headsets and a free slot.",
			Priority:    domain.PriorityLow,
		},
	}
	want := minDailyTasks
	if snap.TaskCount > 0 {
		want = snap.TaskCount
	}
	for i := 0; len(tasks) < want; i++ {
		add(fillers[i%len(fillers)])
	}

	for i := range tasks {
		tasks[i].EstimatedDuration = domain.TaskDurations[tasks[i].Type].Min
	}
	return tasks, nil
}

func dealTask(d domain.Deal) (domain.Task, bool) {
	t := domain.Task{DealID: d.ID, ClientID: d.ClientID}
	switch d.Stage {
	case domain.StageDemoScheduled:
		t.Type = domain.TaskDemo
		t.Title = "Run the VR demo for " + d.Title
		t.Description = "Set up the headsets, run the scheduled demo and agree on the next step before leaving."
		t.AIReasoning = "A scheduled demo is the strongest moment to move this deal forward."
		t.Priority = domain.PriorityCritical
	case domain.StageProposal, domain.StageNegotiation:
		t.Type = domain.TaskCall
		t.Title = "Follow-up call on the proposal for " + d.Title
		t.Description = "Call the decision maker, answer open questions on the proposal and ask for a decision date."
		t.AIReasoning = fmt.Sprintf("Deal worth %.0f is waiting on a decision.", d.Value)
		t.Priority = domain.PriorityHigh
	case domain.StageDemoDone:
		t.Type = domain.TaskCall
		t.Title = "Collect demo feedback for " + d.Title
		t.Description = "Ask how the demo landed and propose sending a tailored offer."
		t.AIReasoning = "Feedback right after a demo keeps momentum."
		t.Priority = domain.PriorityHigh
	case domain.StageLead, domain.StageContacted:
		t.Type = domain.TaskEmail
		t.Title = "Send an introduction email for " + d.Title
		t.Description = "Write a short email presenting the VR offer and propose a date for a demo."
		t.AIReasoning = "Early-stage deal that needs a first concrete step."
		t.Priority = domain.PriorityMedium
	default:
		return domain.Task{}, false
	}
	return t, true
}

func firstProspect(clients []domain.Client) (domain.Client, bool) {
	var best *domain.Client
	for i := range clients {
		c := &clients[i]
		if c.Status != domain.ClientProspect {
			continue
		}
		if best == nil || c.ID < best.ID {
			best = c
		}
	}
	if best == nil {
		return domain.Client{}, false
	}
	return *best, true
}

type guidance struct {
	objectives     []string
	guidelines     []string
	bestPractices  []string
	commonMistakes []string
	talkingPoints  []string
}

var typeGuidance = map[domain.TaskType]guidance{
	domain.TaskCall: {
		objectives: []string{
			"Confirm who takes the decision",
			"Understand the main need",
			"Agree on a concrete next step",
		},
		guidelines: []string{
			"Open the CRM record before dialing",
			"Introduce yourself and the reason for the call in one sentence",
			"Ask open questions first",
			"Listen more than you talk",
			"Summarize what you heard",
			"Propose a date for the next step",
			"Log the outcome right after the call",
		},
		bestPractices: []string{
			"Call in the morning when decision makers are reachable",
			"Keep a script nearby but do not read it",
			"Use the client's own words when summarizing",
			"Mention a similar customer",
			"Smile while speaking",
			"End with a clear commitment",
		},
		commonMistakes: []string{
			"Pitching before asking questions",
			"Talking about price too early",
			"Forgetting to ask for the next step",
			"Not logging the call",
			"Letting the call run too long",
			"Ignoring objections",
		},
		talkingPoints: []string{
			"Immersive VR experiences tailored to the audience",
			"Turnkey setup with headsets and staff",
			"References from similar organizations",
		},
	},
	domain.TaskEmail: {
		objectives: []string{
			"Get a reply",
			"Present one clear benefit",
			"Propose a call or demo",
		},
		guidelines: []string{
			"Write a specific subject line",
			"Keep the body under 150 words",
			"Personalize the first sentence",
			"State one benefit for their audience",
			"Add a single call to action",
			"Sign with full contact details",
			"Proofread before sending",
		},
		bestPractices: []string{
			"Send mid-morning on weekdays",
			"Link a short video of the experience",
			"Reference a shared contact or event",
			"Keep the tone warm and direct",
			"Follow up after three working days",
			"Track the email in the CRM",
		},
		commonMistakes: []string{
			"Long generic emails",
			"Multiple calls to action",
			"Attachments that are too heavy",
			"No follow-up plan",
			"Typos in the client's name",
			"Vague subject lines",
		},
	},
	domain.TaskDemo: {
		objectives: []string{
			"Let every decision maker try the headset",
			"Connect the experience to their goals",
			"Agree on an offer date",
		},
		guidelines: []string{
			"Charge the headsets the evening before",
			"Arrive fifteen minutes early",
			"Start with the most impressive scene",
			"Keep each session short",
			"Ask for reactions after each session",
			"Note who was present",
			"Close with a proposed next step",
		},
		bestPractices: []string{
			"Bring a spare headset",
			"Prepare content matched to the audience",
			"Take photos with permission",
			"Have a printed one-pager ready",
			"Ask the champion to invite the decision maker",
			"Send a thank-you message the same day",
		},
		commonMistakes: []string{
			"Technical problems from missing checks",
			"Demoing to people who cannot decide",
			"Running too many scenes",
			"Leaving without a next step",
			"Talking over the experience",
			"Forgetting hygiene covers",
		},
	},
}

// defaultGuidance covers types without dedicated guidance.
var defaultGuidance = guidance{
	objectives: []string{
		"Finish the task within the estimated time",
		"Record the result",
		"Identify the next step",
	},
	guidelines: []string{
		"Read the related CRM records first",
		"Work without interruptions",
		"Focus on one outcome",
		"Write down what you learn",
		"Update the deal or client record",
		"Flag anything blocking",
		"Upload the requested evidence",
	},
	bestPractices: []string{
		"Batch similar work together",
		"Use templates where they exist",
		"Timebox the task",
		"Prefer concrete facts over opinions",
		"Share useful findings with the team",
		"Close the loop with a short note",
	},
	commonMistakes: []string{
		"Starting without context",
		"Letting the task grow in scope",
		"Not recording the result",
		"Leaving the CRM outdated",
		"Skipping the evidence upload",
		"Postponing without a new date",
	},
}

func withGuidance(t domain.Task) domain.Task {
	g, ok := typeGuidance[t.Type]
	if !ok {
		g = defaultGuidance
	}
	t.Objectives = append([]string(nil), g.objectives...)
	t.Guidelines = append([]string(nil), g.guidelines...)
	t.BestPractices = append([]string(nil), g.bestPractices...)
	t.CommonMistakes = append([]string(nil), g.commonMistakes...)
	t.TalkingPoints = append([]string(nil), g.talkingPoints...)
	t.ExpectedOutputFormat = domain.DefaultOutputFormat()
	return t
}

// MockInsightGenerator derives two to four insights from the pipeline.
type MockInsightGenerator struct{}

func (MockInsightGenerator) GenerateInsights(_ context.Context, snap PipelineSnapshot) ([]domain.Insight, error) {
	var out []domain.Insight

	if stalled := StalledDeals(snap.Deals, snap.Now); len(stalled) > 0 {
		out = append(out, domain.Insight{
			Type:            domain.InsightWarning,
			Title:           "Deals without recent updates",
			Message:         fmt.Sprintf("%d deals have had no update for more than %d days.", len(stalled), stalledAfterDays),
			Priority:        domain.LevelHigh,
			Actionable:      true,
			SuggestedAction: "Send a short follow-up to each of them today.",
			RelatedDealID:   stalled[0].ID,
		})
	}

	if hot, ok := hottestDeal(snap.Deals); ok {
		out = append(out, domain.Insight{
			Type:            domain.InsightOpportunity,
			Title:           "Closest deal to signing",
			Message:         fmt.Sprintf("%s is in %s with a value of %.0f.", hot.Title, hot.Stage, hot.Value),
			Priority:        domain.LevelHigh,
			Actionable:      true,
			SuggestedAction: "Ask for a decision date on your next contact.",
			RelatedDealID:   hot.ID,
			RelatedClientID: hot.ClientID,
		})
	}

	if n := len(snap.CompletedToday); n > 0 {
		out = append(out, domain.Insight{
			Type:     domain.InsightCelebration,
			Title:    "Good pace today",
			Message:  fmt.Sprintf("You already completed %d tasks today.", n),
			Priority: domain.LevelLow,
		})
	}

	tips := []domain.Insight{
		{
			Type:     domain.InsightTip,
			Title:    "Start with the hardest call",
			Message:  "Tackle the most important call first, while energy is high.",
			Priority: domain.LevelMedium,
		},
		{
			Type:            domain.InsightSuggestion,
			Title:           "Ask for referrals",
			Message:         "Satisfied customers often know other schools or museums that could host a VR experience.",
			Priority:        domain.LevelLow,
			Actionable:      true,
			SuggestedAction: "Ask one active customer for a referral this week.",
		},
	}
	for i := 0; len(out) < 2; i++ {
		out = append(out, tips[i])
	}
	if len(out) > 4 {
		out = out[:4]
	}
	return out, nil
}

func hottestDeal(deals []domain.Deal) (domain.Deal, bool) {
	var best *domain.Deal
	for i := range deals {
		d := &deals[i]
		if d.Stage != domain.StageProposal && d.Stage != domain.StageNegotiation {
			continue
		}
		if best == nil || d.Value > best.Value || (d.Value == best.Value && d.ID < best.ID) {
			best = d
		}
	}
	if best == nil {
		return domain.Deal{}, false
	}
	return *best, true
}
