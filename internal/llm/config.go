package llm

// TaskType identifies the kind of LLM task being performed.
type TaskType string

const (
	TaskDailyTasks    TaskType = "daily_tasks"
	TaskCustomTasks   TaskType = "custom_tasks"
	TaskInsights      TaskType = "insights"
	TaskNotesAnalysis TaskType = "notes_analysis"
)

// Provider names the hosted or local backend behind LLMClient.
type Provider string

const (
	ProviderMock   Provider = "mock"
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// TaskConfig holds per-task LLM parameters.
type TaskConfig struct {
	Temperature float64
	MaxTokens   int
	TimeoutMs   int // overrides global if > 0
}

// LLMConfig holds all configuration for the LLM subsystem.
type LLMConfig struct {
	Provider   Provider
	LogCalls   bool
	Endpoint   string
	APIKey     string
	Model      string
	TimeoutMs  int
	MaxRetries int
	Tasks      map[TaskType]TaskConfig
}

// DefaultConfig returns an LLMConfig with sensible defaults.
// The mock provider is the default, so nothing calls out until configured.
func DefaultConfig() LLMConfig {
	return LLMConfig{
		Provider:   ProviderMock,
		LogCalls:   false,
		Endpoint:   "http://localhost:11434",
		Model:      "llama3.2",
		TimeoutMs:  30000,
		MaxRetries: 1,
		Tasks: map[TaskType]TaskConfig{
			TaskDailyTasks:    {Temperature: 0.7, MaxTokens: 8000, TimeoutMs: 60000},
			TaskCustomTasks:   {Temperature: 0.7, MaxTokens: 8000, TimeoutMs: 60000},
			TaskInsights:      {Temperature: 0.7, MaxTokens: 2000, TimeoutMs: 30000},
			TaskNotesAnalysis: {Temperature: 0.3, MaxTokens: 2000, TimeoutMs: 30000},
		},
	}
}

// TaskTimeout returns the effective timeout for a given task type.
// Uses the task-specific timeout if set, otherwise the global timeout.
func (c LLMConfig) TaskTimeout(task TaskType) int {
	if tc, ok := c.Tasks[task]; ok && tc.TimeoutMs > 0 {
		return tc.TimeoutMs
	}
	return c.TimeoutMs
}

// taskParams resolves temperature and token limits for req.
func (c LLMConfig) taskParams(req GenerateRequest) (float64, int) {
	tc := c.Tasks[req.Task]
	temp := tc.Temperature
	if req.Temperature != nil {
		temp = *req.Temperature
	}
	maxTok := tc.MaxTokens
	if req.MaxTokens != nil {
		maxTok = *req.MaxTokens
	}
	return temp, maxTok
}
