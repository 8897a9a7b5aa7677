// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"admissions_crm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Admissions Domain Events
// =============================================================================
//
// Each lead lifecycle event below maps to one automation trigger. The intake
// and pipeline flows publish these; the admissions module subscribes and runs
// the automation workflow in the background.

// LeadCreated is published when a new admissions lead enters the pipeline.
type LeadCreated struct {
	BaseEvent
	LeadID       uuid.UUID `json:"leadId"`
	SchoolID     uuid.UUID `json:"schoolId"`
	GuardianName string    `json:"guardianName"`
	Source       string    `json:"source,omitempty"`
}

func (e LeadCreated) EventName() string { return "admissions.lead.created" }

// LeadStageChanged is published when a lead moves to a different pipeline stage.
type LeadStageChanged struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	SchoolID uuid.UUID `json:"schoolId"`
	OldStage string    `json:"oldStage"`
	NewStage string    `json:"newStage"`
}

func (e LeadStageChanged) EventName() string { return "admissions.lead.stage_changed" }

// TourScheduled is published when a campus tour is booked for a lead.
type TourScheduled struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	SchoolID uuid.UUID `json:"schoolId"`
}

func (e TourScheduled) EventName() string { return "admissions.tour.scheduled" }

// TourCompleted is published when a lead finishes a campus tour.
type TourCompleted struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	SchoolID uuid.UUID `json:"schoolId"`
}

func (e TourCompleted) EventName() string { return "admissions.tour.completed" }

// CallNoAnswer is published when an outbound call to the guardian goes unanswered.
type CallNoAnswer struct {
	BaseEvent
	LeadID   uuid.UUID `json:"leadId"`
	SchoolID uuid.UUID `json:"schoolId"`
}

func (e CallNoAnswer) EventName() string { return "admissions.call.no_answer" }
