package domain

type TaskType string

const (
	TaskCall     TaskType = "call"
	TaskEmail    TaskType = "email"
	TaskMeeting  TaskType = "meeting"
	TaskDemo     TaskType = "demo"
	TaskFollowUp TaskType = "follow_up"
	TaskResearch TaskType = "research"
	TaskAdmin    TaskType = "admin"
)

// ValidTaskTypes is the canonical set of accepted task type strings.
var ValidTaskTypes = map[TaskType]bool{
	TaskCall: true, TaskEmail: true, TaskMeeting: true, TaskDemo: true,
	TaskFollowUp: true, TaskResearch: true, TaskAdmin: true,
}

type TaskPriority string

const (
	PriorityCritical TaskPriority = "critical"
	PriorityHigh     TaskPriority = "high"
	PriorityMedium   TaskPriority = "medium"
	PriorityLow      TaskPriority = "low"
)

var ValidTaskPriorities = map[TaskPriority]bool{
	PriorityCritical: true, PriorityHigh: true, PriorityMedium: true, PriorityLow: true,
}

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusDismissed  TaskStatus = "dismissed"
	StatusSkipped    TaskStatus = "skipped"
	StatusSnoozed    TaskStatus = "snoozed"
)

var ValidTaskStatuses = map[TaskStatus]bool{
	StatusPending: true, StatusInProgress: true, StatusCompleted: true,
	StatusDismissed: true, StatusSkipped: true, StatusSnoozed: true,
}

// IsUnfinished reports whether a task still blocks a new daily batch.
func (s TaskStatus) IsUnfinished() bool {
	return s == StatusPending || s == StatusInProgress
}

type TaskOutcome string

const (
	OutcomeSuccess     TaskOutcome = "success"
	OutcomePartial     TaskOutcome = "partial"
	OutcomeFailed      TaskOutcome = "failed"
	OutcomeNoResponse  TaskOutcome = "no_response"
	OutcomeRescheduled TaskOutcome = "rescheduled"
)

var ValidTaskOutcomes = map[TaskOutcome]bool{
	OutcomeSuccess: true, OutcomePartial: true, OutcomeFailed: true,
	OutcomeNoResponse: true, OutcomeRescheduled: true,
}

type InsightType string

const (
	InsightWarning     InsightType = "warning"
	InsightOpportunity InsightType = "opportunity"
	InsightSuggestion  InsightType = "suggestion"
	InsightCelebration InsightType = "celebration"
	InsightTip         InsightType = "tip"
)

var ValidInsightTypes = map[InsightType]bool{
	InsightWarning: true, InsightOpportunity: true, InsightSuggestion: true,
	InsightCelebration: true, InsightTip: true,
}

// Level is the three-step priority used by insights and custom instructions.
type Level string

const (
	LevelHigh   Level = "high"
	LevelMedium Level = "medium"
	LevelLow    Level = "low"
)

var ValidLevels = map[Level]bool{LevelHigh: true, LevelMedium: true, LevelLow: true}

type DealStage string

const (
	StageLead          DealStage = "lead"
	StageContacted     DealStage = "contacted"
	StageDemoScheduled DealStage = "demo_scheduled"
	StageDemoDone      DealStage = "demo_done"
	StageProposal      DealStage = "proposal"
	StageNegotiation   DealStage = "negotiation"
	StageActive        DealStage = "active"
	StageWon           DealStage = "won"
	StageLost          DealStage = "lost"
)

var ValidDealStages = map[DealStage]bool{
	StageLead: true, StageContacted: true, StageDemoScheduled: true, StageDemoDone: true,
	StageProposal: true, StageNegotiation: true, StageActive: true, StageWon: true, StageLost: true,
}

// IsSettled reports whether a deal no longer needs chasing.
func (s DealStage) IsSettled() bool {
	return s == StageActive || s == StageWon || s == StageLost
}

type EntityType string

const (
	EntitySchool         EntityType = "school"
	EntityHotel          EntityType = "hotel"
	EntityMuseum         EntityType = "museum"
	EntityMunicipality   EntityType = "municipality"
	EntityCulturalCenter EntityType = "cultural_center"
	EntityCompany        EntityType = "company"
	EntityOther          EntityType = "other"
)

var ValidEntityTypes = map[EntityType]bool{
	EntitySchool: true, EntityHotel: true, EntityMuseum: true, EntityMunicipality: true,
	EntityCulturalCenter: true, EntityCompany: true, EntityOther: true,
}

type ClientStatus string

const (
	ClientProspect ClientStatus = "prospect"
	ClientActive   ClientStatus = "active"
	ClientInactive ClientStatus = "inactive"
	ClientLost     ClientStatus = "lost"
)

var ValidClientStatuses = map[ClientStatus]bool{
	ClientProspect: true, ClientActive: true, ClientInactive: true, ClientLost: true,
}

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleSeller Role = "seller"
)

var ValidRoles = map[Role]bool{RoleAdmin: true, RoleSeller: true}
