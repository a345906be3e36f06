// Package api exposes the sales coach over HTTP with gin.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stefanorainone/sales-management/internal/auth"
	"github.com/stefanorainone/sales-management/internal/logging"
	"github.com/stefanorainone/sales-management/internal/service"
)

// Services bundles the use cases the handlers call.
type Services struct {
	Loader       *service.PipelineLoader
	Generation   service.TaskGenerationService
	Insights     service.InsightService
	Briefings    service.BriefingService
	Completion   service.CompletionService
	Admin        service.TaskAdminService
	Custom       service.CustomGenerationService
	Analytics    service.AnalyticsService
	Instructions service.InstructionService
}

type handlers struct {
	svc    Services
	logger *slog.Logger
}

// NewRouter wires every route. files serves stored attachments below
// /files and may be nil.
func NewRouter(svc Services, authn *auth.Authenticator, files http.Handler, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = logging.Discard()
	}
	h := &handlers{svc: svc, logger: logger}

	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if files != nil {
		r.GET("/files/*filepath", gin.WrapH(http.StripPrefix("/files", files)))
	}

	api := r.Group("/api", authn.RequireAuth())

	ai := api.Group("/ai")
	ai.POST("/daily-tasks", h.dailyTasks)
	ai.POST("/daily-briefing", h.dailyBriefing)
	ai.POST("/insights", h.generateInsights)
	ai.POST("/analyze-notes", h.analyzeNotes)
	ai.POST("/generate-tasks-custom", auth.RequireAdmin(), h.previewCustomTasks)
	ai.POST("/confirm-tasks", auth.RequireAdmin(), h.confirmCustomTasks)

	api.GET("/tasks", h.listOwnTasks)
	api.POST("/tasks/:id/complete", h.completeTask)
	api.POST("/tasks/:id/snooze", h.snoozeTask)
	api.POST("/tasks/:id/status", h.setTaskStatus)

	api.GET("/insights", h.listInsights)
	api.POST("/insights/:id/dismiss", h.dismissInsight)

	api.GET("/analytics", h.analytics)

	admin := api.Group("/admin", auth.RequireAdmin())
	admin.GET("/tasks", h.adminListTasks)
	admin.POST("/tasks", h.adminCreateTask)
	admin.PATCH("/tasks/:id", h.adminUpdateTask)
	admin.DELETE("/tasks/:id", h.adminDeleteTask)
	admin.GET("/instructions", h.listInstructions)
	admin.POST("/instructions", h.createInstruction)
	admin.POST("/instructions/:id/deactivate", h.deactivateInstruction)

	return r
}
