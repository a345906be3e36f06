package intelligence

import "github.com/stefanorainone/sales-management/internal/llm"

var (
	taskBatchSchema   = llm.MustCompileSchema(taskBatchSchemaJSON)
	insightListSchema = llm.MustCompileSchema(insightListSchemaJSON)
	notesSchema       = llm.MustCompileSchema(notesSchemaJSON)
)

const stringList = `{"type": "array", "items": {"type": "string"}}`

const taskBatchSchemaJSON = `{
	"type": "array",
	"minItems": 1,
	"maxItems": 8,
	"items": {
		"type": "object",
		"required": ["type", "title", "description", "priority"],
		"properties": {
			"type": {"type": "string", "enum": ["call", "email", "meeting", "demo", "follow_up", "research", "admin"]},
			"title": {"type": "string", "minLength": 1},
			"description": {"type": "string"},
			"aiReasoning": {"type": "string"},
			"priority": {"type": "string", "enum": ["critical", "high", "medium", "low"]},
			"scheduledAt": {"type": "string"},
			"estimatedDuration": {"type": "number", "minimum": 0},
			"clientId": {"type": "string"},
			"dealId": {"type": "string"},
			"script": {"type": "string"},
			"talkingPoints": ` + stringList + `,
			"objectives": ` + stringList + `,
			"guidelines": ` + stringList + `,
			"bestPractices": ` + stringList + `,
			"commonMistakes": ` + stringList + `,
			"expectedOutputFormat": {
				"type": ["object", "null"],
				"required": ["type", "description"],
				"properties": {
					"type": {"type": "string"},
					"description": {"type": "string"},
					"requiredFields": ` + stringList + `,
					"example": {"type": "string"}
				}
			}
		}
	}
}`

const insightListSchemaJSON = `{
	"type": "array",
	"minItems": 1,
	"maxItems": 4,
	"items": {
		"type": "object",
		"required": ["type", "title", "message"],
		"properties": {
			"type": {"type": "string", "enum": ["warning", "opportunity", "suggestion", "celebration", "tip"]},
			"title": {"type": "string", "minLength": 1},
			"message": {"type": "string", "minLength": 1},
			"priority": {"type": "string", "enum": ["high", "medium", "low"]},
			"actionable": {"type": "boolean"},
			"suggestedAction": {"type": "string"},
			"relatedClientId": {"type": "string"},
			"relatedDealId": {"type": "string"}
		}
	}
}`

const notesSchemaJSON = `{
	"type": "object",
	"required": ["analysis"],
	"properties": {
		"analysis": {"type": "string", "minLength": 1},
		"suggestedNextSteps": ` + stringList + `,
		"dealUpdates": {
			"type": ["object", "null"],
			"properties": {
				"stage": {"type": "string", "enum": ["lead", "contacted", "demo_scheduled", "demo_done", "proposal", "negotiation", "active", "won", "lost"]},
				"nextAction": {"type": "string"},
				"notes": {"type": "string"}
			}
		},
		"clientUpdates": {
			"type": ["object", "null"],
			"properties": {
				"status": {"type": "string", "enum": ["prospect", "active", "inactive", "lost"]},
				"notes": {"type": "string"}
			}
		},
		"newTaskSuggestions": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["type", "title"],
				"properties": {
					"type": {"type": "string"},
					"title": {"type": "string"},
					"description": {"type": "string"},
					"priority": {"type": "string"},
					"daysFromNow": {"type": "number"}
				}
			}
		}
	}
}`
