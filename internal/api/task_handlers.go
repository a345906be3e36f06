package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stefanorainone/sales-management/internal/auth"
	"github.com/stefanorainone/sales-management/internal/domain"
	"github.com/stefanorainone/sales-management/internal/repository"
	"github.com/stefanorainone/sales-management/internal/service"
	"github.com/stefanorainone/sales-management/internal/storage"
)

// maxUploadMemory bounds the in-memory part of a multipart completion.
const maxUploadMemory = 32 << 20

func parseStatuses(raw string) ([]domain.TaskStatus, error) {
	if raw == "" {
		return nil, nil
	}
	var out []domain.TaskStatus
	for _, s := range strings.Split(raw, ",") {
		st := domain.TaskStatus(strings.TrimSpace(s))
		if !domain.ValidTaskStatuses[st] {
			return nil, badRequest("unknown status %q", s)
		}
		out = append(out, st)
	}
	return out, nil
}

func (h *handlers) listOwnTasks(c *gin.Context) {
	statuses, err := parseStatuses(c.Query("status"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	tasks, err := h.svc.Admin.List(c.Request.Context(), repository.TaskFilter{
		UserID:   auth.CurrentUser(c).ID,
		Statuses: statuses,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

type completeBody struct {
	Outcome                   domain.TaskOutcome `json:"outcome" form:"outcome"`
	Results                   string             `json:"results" form:"results"`
	Notes                     string             `json:"notes" form:"notes"`
	AdditionalNotes           string             `json:"additionalNotes" form:"additionalNotes"`
	ActualDuration            int                `json:"actualDuration" form:"actualDuration"`
	ProceedWithoutAttachments bool               `json:"proceedWithoutAttachments" form:"proceedWithoutAttachments"`
}

// completeTask accepts JSON, or multipart with the same fields plus
// "files" parts.
func (h *handlers) completeTask(c *gin.Context) {
	var body completeBody
	var files []storage.File

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
			h.writeError(c, badRequest("reading multipart form: %v", err))
			return
		}
		if err := c.ShouldBind(&body); err != nil {
			h.writeError(c, badRequest("decoding form: %v", err))
			return
		}
		var closers []io.Closer
		defer func() {
			for _, cl := range closers {
				cl.Close()
			}
		}()
		for _, fh := range c.Request.MultipartForm.File["files"] {
			f, err := fh.Open()
			if err != nil {
				h.writeError(c, badRequest("opening %s: %v", fh.Filename, err))
				return
			}
			closers = append(closers, f)
			files = append(files, storage.File{Name: fh.Filename, Content: f})
		}
	} else if err := c.ShouldBindJSON(&body); err != nil {
		h.writeError(c, badRequest("decoding body: %v", err))
		return
	}

	res, err := h.svc.Completion.Complete(c.Request.Context(), service.CompleteTaskRequest{
		UserID:                    auth.CurrentUser(c).ID,
		TaskID:                    c.Param("id"),
		Outcome:                   body.Outcome,
		Results:                   body.Results,
		Notes:                     body.Notes,
		AdditionalNotes:           body.AdditionalNotes,
		ActualDuration:            body.ActualDuration,
		Files:                     files,
		ProceedWithoutAttachments: body.ProceedWithoutAttachments,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

type snoozeBody struct {
	Until  time.Time `json:"until"`
	Reason string    `json:"reason"`
}

func (h *handlers) snoozeTask(c *gin.Context) {
	var body snoozeBody
	if err := c.ShouldBindJSON(&body); err != nil {
		h.writeError(c, badRequest("decoding body: %v", err))
		return
	}
	task, err := h.svc.Completion.Snooze(c.Request.Context(), service.SnoozeRequest{
		UserID: auth.CurrentUser(c).ID,
		TaskID: c.Param("id"),
		Until:  body.Until,
		Reason: body.Reason,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *handlers) setTaskStatus(c *gin.Context) {
	var body struct {
		Status domain.TaskStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		h.writeError(c, badRequest("decoding body: %v", err))
		return
	}
	task, err := h.svc.Completion.SetStatus(c.Request.Context(), auth.CurrentUser(c).ID, c.Param("id"), body.Status)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *handlers) listInsights(c *gin.Context) {
	includeDismissed, _ := strconv.ParseBool(c.Query("includeDismissed"))
	insights, err := h.svc.Insights.List(c.Request.Context(), auth.CurrentUser(c).ID, includeDismissed)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

func (h *handlers) dismissInsight(c *gin.Context) {
	if err := h.svc.Insights.Dismiss(c.Request.Context(), auth.CurrentUser(c).ID, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// analytics lets sellers read their own numbers and admins anyone's.
func (h *handlers) analytics(c *gin.Context) {
	caller := auth.CurrentUser(c)
	userID := c.DefaultQuery("userId", caller.ID)
	if userID != caller.ID && !caller.IsAdmin() {
		h.writeError(c, service.ErrForbidden)
		return
	}
	period, err := service.ParseTimePeriod(c.Query("timePeriod"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	res, err := h.svc.Analytics.Compute(c.Request.Context(), userID, period)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
