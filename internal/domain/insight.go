package domain

// Insight is an advisory note about the seller's pipeline. Only Dismissed
// changes after creation.
type Insight struct {
	ID              string      `json:"id"`
	UserID          string      `json:"userId"`
	Type            InsightType `json:"type"`
	Title           string      `json:"title"`
	Message         string      `json:"message"`
	Priority        Level       `json:"priority"`
	Actionable      bool        `json:"actionable"`
	SuggestedAction string      `json:"suggestedAction,omitempty"`
	RelatedClientID string      `json:"relatedClientId,omitempty"`
	RelatedDealID   string      `json:"relatedDealId,omitempty"`
	RelatedTaskID   string      `json:"relatedTaskId,omitempty"`
	Dismissed       bool        `json:"dismissed"`
	CreatedAt       Timestamp   `json:"createdAt"`
}

// PriorityBreakdown counts tasks per priority.
type PriorityBreakdown struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Total returns the sum of all buckets.
func (p PriorityBreakdown) Total() int {
	return p.Critical + p.High + p.Medium + p.Low
}

// DailyBriefing is the assembled morning view for one seller. It is built
// per request and never stored.
type DailyBriefing struct {
	UserID              string            `json:"userId"`
	Date                string            `json:"date"`
	TasksCount          int               `json:"tasksCount"`
	PriorityBreakdown   PriorityBreakdown `json:"priorityBreakdown"`
	Tasks               []Task            `json:"tasks"`
	Insights            []Insight         `json:"insights"`
	YesterdayCompleted  int               `json:"yesterdayCompleted"`
	YesterdayTotal      int               `json:"yesterdayTotal"`
	MotivationalMessage string            `json:"motivationalMessage"`
	FocusAreas          []string          `json:"focusAreas"`
	ProductivityTips    []string          `json:"productivityTips"`
	Bottlenecks         []string          `json:"bottlenecks"`
	TaskSource          string            `json:"taskSource"`
	InsightSource       string            `json:"insightSource"`
	GeneratedAt         Timestamp         `json:"generatedAt"`
}

// AICustomInstructions is admin-authored guidance appended to a seller's
// generation prompts.
type AICustomInstructions struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	CreatedBy    string     `json:"createdBy"`
	Instructions string     `json:"instructions"`
	Priority     Level      `json:"priority"`
	Active       bool       `json:"active"`
	ExpiresAt    *Timestamp `json:"expiresAt,omitempty"`
	CreatedAt    Timestamp  `json:"createdAt"`
	UpdatedAt    Timestamp  `json:"updatedAt"`
}
