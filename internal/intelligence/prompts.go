package intelligence

import (
	"encoding/json"
	"fmt"
	"strings"
)

// taskSystemPrompt frames the model as the seller's coach.
const taskSystemPrompt = `You are an expert sales coach for a company that sells immersive VR experiences
to schools, hotels, museums, municipalities and cultural centers.
You plan the seller's day as a list of concrete, high-impact tasks.
You must output ONLY a JSON array of task objects. No prose, no markdown.`

// taskGenerationRules are the fixed rules appended to every task prompt.
const taskGenerationRules = `RULES:
1. Produce between 4 and 8 tasks (unless an exact count is requested below).
2. Every task has these fields:
   - type: one of ["call", "email", "meeting", "demo", "follow_up", "research", "admin"]
   - title: short imperative title
   - description: what to do, concretely
   - aiReasoning: why this task matters today
   - priority: one of ["critical", "high", "medium", "low"]
   - scheduledAt: ISO-8601 timestamp during working hours of the planned day
   - estimatedDuration: OPTIMISTIC minutes. call 10-15, email 5-10, meeting 20-30, demo 30-40,
     follow_up 5-10, research 15-20, admin 5-10
   - clientId / dealId: ids from the pipeline data when the task relates to them, else omit
   - script: for calls and meetings, an opening script the seller can read
   - talkingPoints: 3-6 short bullet points
   - objectives: 3 to 5 measurable objectives
   - guidelines: 7 to 12 step-by-step guidelines
   - bestPractices: 6 to 10 best practices
   - commonMistakes: 6 to 10 common mistakes to avoid
   - expectedOutputFormat: MANDATORY object {"type": "document", "description": string,
     "requiredFields": [string], "example": string}. The seller must upload a document
     proving the task was done (call report, sent email, meeting minutes, demo feedback).
3. Prioritize deals that have been idle longest and deals closest to closing.
4. Never invent client or deal ids.`

const insightSystemPrompt = `You are a sales analyst for a VR experiences company.
Study the seller's pipeline and produce between 2 and 4 short, actionable insights.
You must output ONLY a JSON array. Each element has:
- type: one of ["warning", "opportunity", "suggestion", "celebration", "tip"]
- title: short headline
- message: one or two sentences
- priority: one of ["high", "medium", "low"]
- actionable: boolean
- suggestedAction: what to do next (when actionable)
- relatedClientId / relatedDealId: ids from the data when relevant, else omit`

const notesSystemPrompt = `You are a sales coach reviewing the notes a seller wrote after completing a task.
Return ONLY a JSON object with:
- analysis: 2-4 sentences evaluating how the task went
- suggestedNextSteps: array of 2-5 concrete next steps
- dealUpdates: optional object {"stage": one of ["lead","contacted","demo_scheduled","demo_done","proposal","negotiation","active","won","lost"], "nextAction": string, "notes": string}
- clientUpdates: optional object {"status": one of ["prospect","active","inactive","lost"], "notes": string}
- newTaskSuggestions: array of {"type", "title", "description", "priority", "daysFromNow"}`

// taskPromptData is the JSON context embedded in the task prompt.
type taskPromptData struct {
	Seller         string `json:"seller"`
	Date           string `json:"date"`
	Deals          any    `json:"deals"`
	Clients        any    `json:"clients"`
	RecentActivity any    `json:"recentActivities"`
	CompletedToday any    `json:"completedToday"`
}

func buildTaskPrompt(snap PipelineSnapshot) (string, error) {
	data, err := json.MarshalIndent(taskPromptData{
		Seller:         snap.UserName,
		Date:           snap.Date.Format("2006-01-02"),
		Deals:          snap.Deals,
		Clients:        snap.Clients,
		RecentActivity: snap.Activities,
		CompletedToday: snap.CompletedToday,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding pipeline: %w", err)
	}

	var b strings.Builder
	b.WriteString("PIPELINE DATA:\n")
	b.Write(data)
	b.WriteString("\n\n")
	if snap.CustomInstructions != "" {
		b.WriteString("ADMIN INSTRUCTIONS FOR THIS SELLER:\n")
		b.WriteString(snap.CustomInstructions)
		b.WriteString("\n\n")
	}
	b.WriteString(taskGenerationRules)
	if snap.TaskCount > 0 {
		fmt.Fprintf(&b, "\n\nProduce EXACTLY %d tasks.", snap.TaskCount)
	}
	if snap.AdminPrompt != "" {
		b.WriteString("\n\nADDITIONAL REQUEST FROM THE SALES MANAGER:\n")
		b.WriteString(snap.AdminPrompt)
	}
	return b.String(), nil
}

func buildInsightPrompt(snap PipelineSnapshot) (string, error) {
	data, err := json.MarshalIndent(struct {
		Deals          any `json:"deals"`
		Clients        any `json:"clients"`
		RecentActivity any `json:"recentActivities"`
		CompletedToday any `json:"completedToday"`
	}{snap.Deals, snap.Clients, snap.Activities, snap.CompletedToday}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding pipeline: %w", err)
	}
	prompt := "Today is " + snap.Date.Format("2006-01-02") + ".\n\nPIPELINE DATA:\n" + string(data)
	if snap.CustomInstructions != "" {
		prompt += "\n\nADMIN INSTRUCTIONS FOR THIS SELLER:\n" + snap.CustomInstructions
	}
	return prompt, nil
}

func buildNotesPrompt(in NotesInput) (string, error) {
	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding notes: %w", err)
	}
	return "Completed task report:\n" + string(data), nil
}
