// Package handler exposes the admissions scoring and automation API.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"admissions_crm_backend/internal/admissions/domain"
	"admissions_crm_backend/internal/admissions/service"
	"admissions_crm_backend/internal/admissions/transport"
	"admissions_crm_backend/platform/httpkit"
	"admissions_crm_backend/platform/logger"
	"admissions_crm_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// WorkflowTrigger fires an automation workflow in the background.
type WorkflowTrigger interface {
	TriggerWorkflow(ctx context.Context, leadID, schoolID uuid.UUID, trigger domain.TriggerType)
}

// EscalationRunner runs one escalation sweep for a school.
type EscalationRunner interface {
	EscalateMissedTasks(ctx context.Context, schoolID uuid.UUID) error
}

// Handler handles HTTP requests for the admissions engine.
type Handler struct {
	svc        *service.Service
	dispatcher WorkflowTrigger
	sweeper    EscalationRunner
	val        *validator.Validator
	log        *logger.Logger
}

func New(svc *service.Service, dispatcher WorkflowTrigger, sweeper EscalationRunner, val *validator.Validator, log *logger.Logger) *Handler {
	return &Handler{svc: svc, dispatcher: dispatcher, sweeper: sweeper, val: val, log: log}
}

// RegisterRoutes registers the school-scoped admissions routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/leads/:leadId/score", h.GetScore)
	rg.POST("/leads/:leadId/score/refresh", h.RefreshScore)
	rg.GET("/leads/:leadId/interactions", h.LeadTimeline)
	rg.POST("/leads/:leadId/automation", h.TriggerAutomation)
	rg.POST("/escalations/run", h.RunEscalations)
	rg.POST("/settings/score-preview", h.ScorePreview)
	rg.GET("/settings", h.GetSettings)
	rg.PUT("/settings", h.UpdateSettings)
	rg.GET("/pipeline/summary", h.PipelineSummary)
}

// pathUUID parses a UUID path parameter, writing a 400 on failure.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid "+name, nil)
		return uuid.UUID{}, false
	}
	return id, true
}

// GetScore handles GET /schools/:schoolId/leads/:leadId/score.
func (h *Handler) GetScore(c *gin.Context) {
	schoolID, ok := pathUUID(c, "schoolId")
	if !ok {
		return
	}
	leadID, ok := pathUUID(c, "leadId")
	if !ok {
		return
	}

	score, err := h.svc.CalculateScore(c.Request.Context(), leadID, schoolID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ScoreResponse{
		LeadID: leadID.String(),
		Score:  score,
		Band:   string(domain.BandForScore(score)),
	})
}

// RefreshScore handles POST /schools/:schoolId/leads/:leadId/score/refresh.
func (h *Handler) RefreshScore(c *gin.Context) {
	schoolID, ok := pathUUID(c, "schoolId")
	if !ok {
		return
	}
	leadID, ok := pathUUID(c, "leadId")
	if !ok {
		return
	}

	score, err := h.svc.RefreshLeadScore(c.Request.Context(), leadID, schoolID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.ScoreResponse{
		LeadID: leadID.String(),
		Score:  score,
		Band:   string(domain.BandForScore(score)),
	})
}

// LeadTimeline handles GET /schools/:schoolId/leads/:leadId/interactions.
func (h *Handler) LeadTimeline(c *gin.Context) {
	schoolID, ok := pathUUID(c, "schoolId")
	if !ok {
		return
	}
	leadID, ok := pathUUID(c, "leadId")
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		httpkit.Error(c, http.StatusBadRequest, "invalid limit", nil)
		return
	}

	items, err := h.svc.LeadTimeline(c.Request.Context(), leadID, schoolID, limit)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.TimelineFromRepo(leadID, items))
}

// TriggerAutomation handles POST /schools/:schoolId/leads/:leadId/automation.
// The workflow runs in the background; the endpoint acknowledges the trigger
// without waiting for its side effects.
func (h *Handler) TriggerAutomation(c *gin.Context) {
	schoolID, ok := pathUUID(c, "schoolId")
	if !ok {
		return
	}
	leadID, ok := pathUUID(c, "leadId")
	if !ok {
		return
	}

	var req transport.TriggerAutomationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}

	trigger, err := domain.ParseTriggerType(req.Trigger)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	// Detached from the request context so a client disconnect does not
	// cancel the workflow mid-write.
	go h.dispatcher.TriggerWorkflow(context.Background(), leadID, schoolID, trigger)

	httpkit.Accepted(c, gin.H{"status": "accepted", "trigger": string(trigger)})
}

// RunEscalations handles POST /schools/:schoolId/escalations/run.
func (h *Handler) RunEscalations(c *gin.Context) {
	schoolID, ok := pathUUID(c, "schoolId")
	if !ok {
		return
	}

	go func() {
		if err := h.sweeper.EscalateMissedTasks(context.Background(), schoolID); err != nil {
			h.log.Error("escalation sweep failed", "school_id", schoolID.String(), "error", err)
		}
	}()

	httpkit.Accepted(c, gin.H{"status": "accepted"})
}

// ScorePreview handles POST /schools/:schoolId/settings/score-preview.
func (h *Handler) ScorePreview(c *gin.Context) {
	schoolID, ok := pathUUID(c, "schoolId")
	if !ok {
		return
	}

	var req transport.DistributionPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	dist, err := h.svc.DistributionPreview(c.Request.Context(), schoolID, req.Weights.ToWeights())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.DistributionPreviewResponse{
		Distribution: dist,
		TotalLeads:   dist.Hot + dist.Warm + dist.Cool + dist.Cold,
	})
}

// GetSettings handles GET /schools/:schoolId/settings.
func (h *Handler) GetSettings(c *gin.Context) {
	schoolID, ok := pathUUID(c, "schoolId")
	if !ok {
		return
	}

	settings, err := h.svc.GetSettings(c.Request.Context(), schoolID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.SettingsFromService(settings))
}

// UpdateSettings handles PUT /schools/:schoolId/settings.
func (h *Handler) UpdateSettings(c *gin.Context) {
	schoolID, ok := pathUUID(c, "schoolId")
	if !ok {
		return
	}

	var req transport.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	settings, err := h.svc.UpdateSettings(c.Request.Context(), schoolID, req.Weights.ToWeights(), req.AutomationRules)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.SettingsFromService(settings))
}

// PipelineSummary handles GET /schools/:schoolId/pipeline/summary.
func (h *Handler) PipelineSummary(c *gin.Context) {
	schoolID, ok := pathUUID(c, "schoolId")
	if !ok {
		return
	}

	summary, err := h.svc.PipelineSummary(c.Request.Context(), schoolID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.PipelineSummaryFromRepo(summary))
}
