package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stefanorainone/sales-management/internal/auth"
	"github.com/stefanorainone/sales-management/internal/repository"
	"github.com/stefanorainone/sales-management/internal/service"
)

func (h *handlers) adminListTasks(c *gin.Context) {
	statuses, err := parseStatuses(c.Query("status"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	tasks, err := h.svc.Admin.List(c.Request.Context(), repository.TaskFilter{
		UserID:   c.Query("userId"),
		Statuses: statuses,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

func (h *handlers) adminCreateTask(c *gin.Context) {
	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, badRequest("decoding body: %v", err))
		return
	}
	task, err := h.svc.Admin.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (h *handlers) adminUpdateTask(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.writeError(c, badRequest("reading body: %v", err))
		return
	}
	if !json.Valid(raw) {
		h.writeError(c, badRequest("body must be a JSON object"))
		return
	}
	task, err := h.svc.Admin.Update(c.Request.Context(), c.Param("id"), raw)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (h *handlers) adminDeleteTask(c *gin.Context) {
	if err := h.svc.Admin.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listInstructions(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		h.writeError(c, badRequest("userId is required"))
		return
	}
	list, err := h.svc.Instructions.List(c.Request.Context(), userID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"instructions": list})
}

func (h *handlers) createInstruction(c *gin.Context) {
	var req service.CreateInstructionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeError(c, badRequest("decoding body: %v", err))
		return
	}
	req.CreatedBy = auth.CurrentUser(c).ID
	in, err := h.svc.Instructions.Create(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, in)
}

func (h *handlers) deactivateInstruction(c *gin.Context) {
	in, err := h.svc.Instructions.Deactivate(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, in)
}
