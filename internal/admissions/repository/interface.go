package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces (Interface Segregation Principle)
// =====================================
//
// Services depend on the narrowest capability they need so unit tests can
// substitute in-memory fakes for the pgx-backed Repository.

// LeadReader provides read-only access to lead data.
type LeadReader interface {
	GetLeadByID(ctx context.Context, id uuid.UUID, schoolID uuid.UUID) (Lead, error)
	ListLeadsBySchool(ctx context.Context, schoolID uuid.UUID) ([]Lead, error)
}

// ScoreWriter persists the recomputed score projection.
type ScoreWriter interface {
	UpdateLeadScore(ctx context.Context, id uuid.UUID, schoolID uuid.UUID, score int) error
}

// ReceiptWriter records the simulated WhatsApp read receipt.
type ReceiptWriter interface {
	MarkWhatsAppRead(ctx context.Context, id uuid.UUID, schoolID uuid.UUID) error
}

// FollowUpStore manages scheduled follow-up tasks.
type FollowUpStore interface {
	CreateFollowUp(ctx context.Context, params CreateFollowUpParams) (FollowUp, error)
	ListOverduePendingFollowUps(ctx context.Context, schoolID uuid.UUID, now time.Time) ([]OverdueFollowUp, error)
	MarkFollowUpEscalated(ctx context.Context, id uuid.UUID, at time.Time) error
}

// InteractionLogger appends audit/timeline entries on leads.
type InteractionLogger interface {
	CreateInteraction(ctx context.Context, params CreateInteractionParams) (LeadInteraction, error)
}

// InteractionReader reads a lead's timeline entries.
type InteractionReader interface {
	ListInteractions(ctx context.Context, leadID uuid.UUID, schoolID uuid.UUID, limit int) ([]LeadInteraction, error)
}

// SettingsStore manages per-tenant scoring configuration.
type SettingsStore interface {
	GetSettings(ctx context.Context, schoolID uuid.UUID) (AISettings, error)
	UpdateSettings(ctx context.Context, params UpdateSettingsParams) (AISettings, error)
}

// SchoolReader provides tenant lookups.
type SchoolReader interface {
	GetSchool(ctx context.Context, id uuid.UUID) (School, error)
}

// SchoolLister enumerates tenants for batch jobs.
type SchoolLister interface {
	ListSchools(ctx context.Context) ([]School, error)
}

// MetricsReader provides dashboard aggregates.
type MetricsReader interface {
	GetPipelineSummary(ctx context.Context, schoolID uuid.UUID) (PipelineSummary, error)
}

// Compile-time checks that the pgx Repository satisfies every capability.
var (
	_ LeadReader        = (*Repository)(nil)
	_ ScoreWriter       = (*Repository)(nil)
	_ ReceiptWriter     = (*Repository)(nil)
	_ FollowUpStore     = (*Repository)(nil)
	_ InteractionLogger = (*Repository)(nil)
	_ InteractionReader = (*Repository)(nil)
	_ SettingsStore     = (*Repository)(nil)
	_ SchoolReader      = (*Repository)(nil)
	_ SchoolLister      = (*Repository)(nil)
	_ MetricsReader     = (*Repository)(nil)
)
