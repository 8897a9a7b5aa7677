// Package transport defines the request and response DTOs for the admissions
// HTTP API.
package transport

import (
	"encoding/json"
	"time"

	"admissions_crm_backend/internal/admissions/repository"
	"admissions_crm_backend/internal/admissions/scoring"
	"admissions_crm_backend/internal/admissions/service"

	"github.com/google/uuid"
)

// WeightsPayload mirrors scoring.Weights with validation tags for the API
// boundary. Individual values are percentages; the sum-to-100 rule is
// enforced by the service at the settings write boundary, not here, because
// the preview endpoint deliberately accepts unbalanced sets.
type WeightsPayload struct {
	Responsiveness  int `json:"responsiveness" validate:"min=0,max=100"`
	ProgramInterest int `json:"programInterest" validate:"min=0,max=100"`
	Location        int `json:"location" validate:"min=0,max=100"`
	Budget          int `json:"budget" validate:"min=0,max=100"`
	Engagement      int `json:"engagement" validate:"min=0,max=100"`
}

func (p WeightsPayload) ToWeights() scoring.Weights {
	return scoring.Weights{
		Responsiveness:  p.Responsiveness,
		ProgramInterest: p.ProgramInterest,
		Location:        p.Location,
		Budget:          p.Budget,
		Engagement:      p.Engagement,
	}
}

func WeightsFromScoring(w scoring.Weights) WeightsPayload {
	return WeightsPayload{
		Responsiveness:  w.Responsiveness,
		ProgramInterest: w.ProgramInterest,
		Location:        w.Location,
		Budget:          w.Budget,
		Engagement:      w.Engagement,
	}
}

// ScoreResponse is returned by the score read and refresh endpoints.
type ScoreResponse struct {
	LeadID string `json:"leadId"`
	Score  int    `json:"score"`
	Band   string `json:"band"`
}

// InteractionPayload is one entry on a lead's timeline.
type InteractionPayload struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// TimelineResponse lists a lead's interactions, newest first.
type TimelineResponse struct {
	LeadID       string               `json:"leadId"`
	Interactions []InteractionPayload `json:"interactions"`
}

func TimelineFromRepo(leadID uuid.UUID, items []repository.LeadInteraction) TimelineResponse {
	resp := TimelineResponse{
		LeadID:       leadID.String(),
		Interactions: make([]InteractionPayload, 0, len(items)),
	}
	for _, item := range items {
		resp.Interactions = append(resp.Interactions, InteractionPayload{
			ID:        item.ID.String(),
			Type:      item.Type,
			Content:   item.Content,
			CreatedAt: item.CreatedAt,
		})
	}
	return resp
}

// TriggerAutomationRequest fires a lifecycle workflow for a lead.
type TriggerAutomationRequest struct {
	Trigger string `json:"trigger" binding:"required"`
}

// DistributionPreviewRequest carries the hypothetical weight set.
type DistributionPreviewRequest struct {
	Weights WeightsPayload `json:"weights" binding:"required"`
}

// DistributionPreviewResponse is the band histogram for the simulator.
type DistributionPreviewResponse struct {
	Distribution service.Distribution `json:"distribution"`
	TotalLeads   int                  `json:"totalLeads"`
}

// SettingsResponse is the decoded tenant configuration.
type SettingsResponse struct {
	Weights         WeightsPayload  `json:"weights"`
	AutomationRules json.RawMessage `json:"automationRules,omitempty"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func SettingsFromService(s service.Settings) SettingsResponse {
	return SettingsResponse{
		Weights:         WeightsFromScoring(s.Weights),
		AutomationRules: s.AutomationRules,
		UpdatedAt:       s.UpdatedAt,
	}
}

// UpdateSettingsRequest replaces the tenant's weights and automation rules.
type UpdateSettingsRequest struct {
	Weights         WeightsPayload  `json:"weights" binding:"required"`
	AutomationRules json.RawMessage `json:"automationRules,omitempty"`
}

// StageCountPayload is one funnel row of the pipeline summary.
type StageCountPayload struct {
	Stage string `json:"stage"`
	Count int    `json:"count"`
}

// PipelineSummaryResponse is the dashboard aggregation.
type PipelineSummaryResponse struct {
	TotalLeads   int                 `json:"totalLeads"`
	HotLeads     int                 `json:"hotLeads"`
	AverageScore float64             `json:"averageScore"`
	StageCounts  []StageCountPayload `json:"stageCounts"`
}

func PipelineSummaryFromRepo(s repository.PipelineSummary) PipelineSummaryResponse {
	resp := PipelineSummaryResponse{
		TotalLeads:   s.TotalLeads,
		HotLeads:     s.HotLeads,
		AverageScore: s.AverageScore,
		StageCounts:  make([]StageCountPayload, 0, len(s.StageCounts)),
	}
	for _, sc := range s.StageCounts {
		resp.StageCounts = append(resp.StageCounts, StageCountPayload{Stage: sc.Stage, Count: sc.Count})
	}
	return resp
}
