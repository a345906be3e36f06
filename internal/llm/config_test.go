package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig_UsesMockProvider(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ProviderMock, cfg.Provider)
	assert.Equal(t, 60000, cfg.Tasks[TaskDailyTasks].TimeoutMs)
}

func TestTaskTimeout_FallsBackToGlobal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeoutMs = 9000
	cfg.Tasks[TaskInsights] = TaskConfig{Temperature: 0.5, MaxTokens: 100}

	assert.Equal(t, 9000, cfg.TaskTimeout(TaskInsights))
	assert.Equal(t, 30000, cfg.TaskTimeout(TaskNotesAnalysis))
	assert.Equal(t, 9000, cfg.TaskTimeout(TaskType("unknown")))
}

func TestTaskParams_RequestOverrides(t *testing.T) {
	cfg := DefaultConfig()
	temp, maxTok := cfg.taskParams(GenerateRequest{Task: TaskNotesAnalysis})
	assert.Equal(t, 0.3, temp)
	assert.Equal(t, 2000, maxTok)

	override := 0.9
	tokens := 50
	temp, maxTok = cfg.taskParams(GenerateRequest{Task: TaskNotesAnalysis, Temperature: &override, MaxTokens: &tokens})
	assert.Equal(t, 0.9, temp)
	assert.Equal(t, 50, maxTok)
}
