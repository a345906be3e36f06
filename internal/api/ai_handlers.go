package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stefanorainone/sales-management/internal/auth"
	"github.com/stefanorainone/sales-management/internal/intelligence"
	"github.com/stefanorainone/sales-management/internal/service"
)

type dayRequest struct {
	Date string `json:"date"`
}

// loadDay builds the caller's pipeline for the requested day. The body is
// optional; an absent date means today.
func (h *handlers) loadDay(c *gin.Context) (*service.BriefingRequest, error) {
	var body dayRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, badRequest("decoding body: %v", err)
		}
	}
	var day time.Time
	if body.Date != "" {
		var err error
		day, err = time.Parse(time.DateOnly, body.Date)
		if err != nil {
			return nil, badRequest("date must be YYYY-MM-DD")
		}
	}
	return h.svc.Loader.Load(c.Request.Context(), auth.CurrentUser(c).ID, day)
}

func (h *handlers) dailyTasks(c *gin.Context) {
	req, err := h.loadDay(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	res, err := h.svc.Generation.GenerateDailyTasks(c.Request.Context(), req.GenerateDailyTasksRequest)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) dailyBriefing(c *gin.Context) {
	req, err := h.loadDay(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	b, err := h.svc.Briefings.GenerateDailyBriefing(c.Request.Context(), *req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *handlers) generateInsights(c *gin.Context) {
	req, err := h.loadDay(c)
	if err != nil {
		h.writeError(c, err)
		return
	}
	res, err := h.svc.Insights.GenerateInsights(c.Request.Context(), req.GenerateDailyTasksRequest)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) analyzeNotes(c *gin.Context) {
	var in intelligence.NotesInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.writeError(c, badRequest("decoding body: %v", err))
		return
	}
	if strings.TrimSpace(in.Notes) == "" {
		h.writeError(c, badRequest("notes are required"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"analysis": h.svc.Completion.AnalyzeNotes(c.Request.Context(), in)})
}

func (h *handlers) previewCustomTasks(c *gin.Context) {
	var req service.CustomGenerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, badRequest("decoding body: %v", err))
		return
	}
	res, err := h.svc.Custom.Preview(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) confirmCustomTasks(c *gin.Context) {
	var req service.ConfirmTasksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, badRequest("decoding body: %v", err))
		return
	}
	tasks, err := h.svc.Custom.Confirm(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tasks": tasks})
}
