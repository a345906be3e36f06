package domain

// ExpectedOutputFormat describes the evidence a seller must upload when
// completing a task.
type ExpectedOutputFormat struct {
	Type           string   `json:"type"`
	Description    string   `json:"description"`
	RequiredFields []string `json:"requiredFields"`
	Example        string   `json:"example,omitempty"`
}

// PostponeEntry records one snooze of a task.
type PostponeEntry struct {
	PostponedAt Timestamp `json:"postponedAt"`
	Reason      string    `json:"reason,omitempty"`
	FromDate    Timestamp `json:"fromDate"`
	ToDate      Timestamp `json:"toDate"`
}

// Task is a unit of seller work, either drafted by the coach or created
// manually by an admin.
type Task struct {
	ID          string       `json:"id"`
	UserID      string       `json:"userId"`
	Type        TaskType     `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	AIReasoning string       `json:"aiReasoning,omitempty"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`

	ScheduledAt         Timestamp       `json:"scheduledAt"`
	OriginalScheduledAt *Timestamp      `json:"originalScheduledAt,omitempty"`
	SnoozedUntil        *Timestamp      `json:"snoozedUntil,omitempty"`
	PostponeHistory     []PostponeEntry `json:"postponeHistory"`

	ClientID string `json:"clientId,omitempty"`
	DealID   string `json:"dealId,omitempty"`

	Script               string                `json:"script,omitempty"`
	TalkingPoints        []string              `json:"talkingPoints"`
	Objectives           []string              `json:"objectives"`
	Guidelines           []string              `json:"guidelines"`
	BestPractices        []string              `json:"bestPractices"`
	CommonMistakes       []string              `json:"commonMistakes"`
	ExpectedOutputFormat *ExpectedOutputFormat `json:"expectedOutputFormat,omitempty"`

	CompletedAt     *Timestamp  `json:"completedAt,omitempty"`
	Outcome         TaskOutcome `json:"outcome,omitempty"`
	Results         string      `json:"results,omitempty"`
	Notes           string      `json:"notes,omitempty"`
	AdditionalNotes string      `json:"additionalNotes,omitempty"`
	AIAnalysis      string      `json:"aiAnalysis,omitempty"`
	Attachments     []string    `json:"attachments"`

	EstimatedDuration int `json:"estimatedDuration"`
	ActualDuration    int `json:"actualDuration,omitempty"`

	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// DurationRange is the optimistic estimate in minutes for one task type.
type DurationRange struct {
	Min int
	Max int
}

// TaskDurations holds the fixed per-type estimate ranges.
var TaskDurations = map[TaskType]DurationRange{
	TaskCall:     {Min: 10, Max: 15},
	TaskEmail:    {Min: 5, Max: 10},
	TaskMeeting:  {Min: 20, Max: 30},
	TaskDemo:     {Min: 30, Max: 40},
	TaskFollowUp: {Min: 5, Max: 10},
	TaskResearch: {Min: 15, Max: 20},
	TaskAdmin:    {Min: 5, Max: 10},
}

// ClampDuration keeps minutes inside the range of the given type. Zero or
// negative input yields the lower bound.
func ClampDuration(t TaskType, minutes int) int {
	r, ok := TaskDurations[t]
	if !ok {
		r = TaskDurations[TaskAdmin]
	}
	switch {
	case minutes <= 0:
		return r.Min
	case minutes < r.Min:
		return r.Min
	case minutes > r.Max:
		return r.Max
	}
	return minutes
}

// DefaultOutputFormat is the evidence requirement applied when a task has none.
func DefaultOutputFormat() *ExpectedOutputFormat {
	return &ExpectedOutputFormat{
		Type:           "document",
		Description:    "Upload a short report (PDF, DOCX or image) documenting what was done and the result obtained.",
		RequiredFields: []string{"summary", "outcome", "nextSteps"},
	}
}

// Normalize fills optional fields with safe defaults so readers never see
// nil collections or unknown enum values.
func (t *Task) Normalize() {
	if !ValidTaskTypes[t.Type] {
		t.Type = TaskAdmin
	}
	if !ValidTaskPriorities[t.Priority] {
		t.Priority = PriorityMedium
	}
	if !ValidTaskStatuses[t.Status] {
		t.Status = StatusPending
	}
	t.PostponeHistory = nonNil(t.PostponeHistory)
	t.TalkingPoints = nonNil(t.TalkingPoints)
	t.Objectives = nonNil(t.Objectives)
	t.Guidelines = nonNil(t.Guidelines)
	t.BestPractices = nonNil(t.BestPractices)
	t.CommonMistakes = nonNil(t.CommonMistakes)
	t.Attachments = nonNil(t.Attachments)
	if t.ExpectedOutputFormat == nil {
		t.ExpectedOutputFormat = DefaultOutputFormat()
	}
	if t.ExpectedOutputFormat.RequiredFields == nil {
		t.ExpectedOutputFormat.RequiredFields = []string{}
	}
	if t.EstimatedDuration <= 0 {
		t.EstimatedDuration = ClampDuration(t.Type, 0)
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
