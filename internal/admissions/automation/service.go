// Package automation runs the trigger-driven lead workflows and the overdue
// follow-up escalation sweep. Workflow failures are contained here: a broken
// automation run never surfaces to the caller that raised the trigger.
package automation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"admissions_crm_backend/internal/admissions/domain"
	"admissions_crm_backend/internal/admissions/messaging"
	"admissions_crm_backend/internal/admissions/repository"
	"admissions_crm_backend/platform/logger"

	"github.com/google/uuid"
)

// firstCallDelay is how far out the welcome workflow books the first
// follow-up call.
const firstCallDelay = 2 * time.Hour

// ScoreRefresher recomputes and persists a lead's score, returning the new
// value. The admissions service implements this.
type ScoreRefresher interface {
	RefreshLeadScore(ctx context.Context, leadID, schoolID uuid.UUID) (int, error)
}

// MessageSender sends a templated message to a lead's guardian.
type MessageSender interface {
	Send(ctx context.Context, leadID, schoolID uuid.UUID, template messaging.Template, band domain.Band) error
}

// Dispatcher maps lead lifecycle triggers to workflow actions.
type Dispatcher struct {
	leads        repository.LeadReader
	followUps    repository.FollowUpStore
	interactions repository.InteractionLogger
	scores       ScoreRefresher
	messenger    MessageSender
	log          *logger.Logger
}

func NewDispatcher(
	leads repository.LeadReader,
	followUps repository.FollowUpStore,
	interactions repository.InteractionLogger,
	scores ScoreRefresher,
	messenger MessageSender,
	log *logger.Logger,
) *Dispatcher {
	return &Dispatcher{
		leads:        leads,
		followUps:    followUps,
		interactions: interactions,
		scores:       scores,
		messenger:    messenger,
		log:          log,
	}
}

// TriggerWorkflow runs the workflow for a lifecycle trigger. It never returns
// an error and never panics: failures are logged and swallowed so the calling
// write path (lead creation, status update) is unaffected.
func (d *Dispatcher) TriggerWorkflow(ctx context.Context, leadID, schoolID uuid.UUID, trigger domain.TriggerType) {
	defer func() {
		if r := recover(); r != nil {
			d.log.AutomationFailure(string(trigger), leadID.String(), fmt.Errorf("panic: %v", r))
		}
	}()

	if err := d.runWorkflow(ctx, leadID, schoolID, trigger); err != nil {
		d.log.AutomationFailure(string(trigger), leadID.String(), err)
	}
}

func (d *Dispatcher) runWorkflow(ctx context.Context, leadID, schoolID uuid.UUID, trigger domain.TriggerType) error {
	// Re-read the lead instead of trusting the event payload: the trigger may
	// arrive after the lead was deleted or moved.
	_, err := d.leads.GetLeadByID(ctx, leadID, schoolID)
	if errors.Is(err, repository.ErrNotFound) {
		d.log.Debug("automation skipped, lead not found",
			"trigger", string(trigger), "lead_id", leadID.String())
		return nil
	}
	if err != nil {
		return fmt.Errorf("load lead: %w", err)
	}

	score, err := d.scores.RefreshLeadScore(ctx, leadID, schoolID)
	if err != nil {
		return fmt.Errorf("refresh score: %w", err)
	}
	band := domain.BandForScore(score)

	switch trigger {
	case domain.TriggerNewLead:
		d.send(ctx, leadID, schoolID, messaging.TemplateWelcome, band, trigger)
		if _, err := d.followUps.CreateFollowUp(ctx, repository.CreateFollowUpParams{
			LeadID:      leadID,
			Type:        domain.FollowUpTypeCall,
			ScheduledAt: time.Now().UTC().Add(firstCallDelay),
			Notes:       "First follow-up call",
		}); err != nil {
			return fmt.Errorf("create follow-up: %w", err)
		}
	case domain.TriggerTourScheduled:
		d.send(ctx, leadID, schoolID, messaging.TemplateTourConfirmation, band, trigger)
	case domain.TriggerTourCompleted:
		d.send(ctx, leadID, schoolID, messaging.TemplateTourThankYou, band, trigger)
	case domain.TriggerNoAnswer:
		d.send(ctx, leadID, schoolID, messaging.TemplateMissedCall, band, trigger)
	case domain.TriggerStatusChange:
		// Score refresh and the audit entry below are the whole workflow.
	}

	content := fmt.Sprintf("Automation ran for trigger %s: score %d, band %s", trigger, score, band)
	if _, err := d.interactions.CreateInteraction(ctx, repository.CreateInteractionParams{
		LeadID:  leadID,
		Type:    domain.InteractionAutomation,
		Content: content,
	}); err != nil {
		return fmt.Errorf("record automation interaction: %w", err)
	}

	d.log.AutomationEvent(string(trigger), leadID.String(), string(band))
	return nil
}

// send delivers a workflow message best-effort. A failed send must not stop
// the follow-up booking or the audit entry, so the error is only logged.
func (d *Dispatcher) send(ctx context.Context, leadID, schoolID uuid.UUID, template messaging.Template, band domain.Band, trigger domain.TriggerType) {
	if d.messenger == nil {
		return
	}
	if err := d.messenger.Send(ctx, leadID, schoolID, template, band); err != nil {
		d.log.Warn("workflow message send failed",
			"trigger", string(trigger), "lead_id", leadID.String(), "template", string(template), "error", err)
	}
}
