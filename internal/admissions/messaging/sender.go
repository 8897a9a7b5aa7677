// Package messaging implements the simulated outbound WhatsApp channel.
// A send appends a WHATSAPP_MSG interaction and schedules a delayed
// read-receipt task; no real gateway is wired in this core. A production
// replacement would swap the interaction write for a gateway call and drive
// the read flag from a delivery webhook instead of the delayed task.
package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"admissions_crm_backend/internal/admissions/domain"
	"admissions_crm_backend/internal/admissions/repository"
	"admissions_crm_backend/platform/config"
	"admissions_crm_backend/platform/logger"
	"admissions_crm_backend/platform/phone"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// ReceiptScheduler schedules the simulated read-receipt callback. The
// scheduler client implements this; tests use a fake.
type ReceiptScheduler interface {
	ScheduleReadReceipt(ctx context.Context, leadID, schoolID uuid.UUID, runAt time.Time) error
}

// Sender writes simulated WhatsApp sends to the interaction timeline.
type Sender struct {
	leads        repository.LeadReader
	schools      repository.SchoolReader
	interactions repository.InteractionLogger
	receipts     ReceiptScheduler
	limiter      *rate.Limiter
	receiptDelay time.Duration
	log          *logger.Logger
}

// NewSender creates a Sender. receipts may be nil when no scheduler is
// configured; sends then skip the read-receipt simulation.
func NewSender(
	leads repository.LeadReader,
	schools repository.SchoolReader,
	interactions repository.InteractionLogger,
	receipts ReceiptScheduler,
	cfg config.MessagingConfig,
	log *logger.Logger,
) *Sender {
	sendRate := cfg.GetMessageSendRate()
	if sendRate <= 0 {
		sendRate = 5
	}

	return &Sender{
		leads:        leads,
		schools:      schools,
		interactions: interactions,
		receipts:     receipts,
		limiter:      rate.NewLimiter(rate.Limit(sendRate), int(sendRate)),
		receiptDelay: cfg.GetReadReceiptDelay(),
		log:          log,
	}
}

// Send records a simulated outbound message for the lead. A missing lead is
// a no-op, not an error; leads with automation paused are skipped.
func (s *Sender) Send(ctx context.Context, leadID, schoolID uuid.UUID, template Template, band domain.Band) error {
	if s == nil {
		return nil
	}

	lead, err := s.leads.GetLeadByID(ctx, leadID, schoolID)
	if errors.Is(err, repository.ErrNotFound) {
		if s.log != nil {
			s.log.Debug("whatsapp send skipped, lead not found", "lead_id", leadID.String())
		}
		return nil
	}
	if err != nil {
		return err
	}

	if lead.AutomationPaused {
		if s.log != nil {
			s.log.Info("whatsapp send skipped, automation paused", "lead_id", leadID.String())
		}
		return nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}

	recipient := phone.NormalizeE164(lead.GuardianPhone)
	if recipient == "" {
		recipient = "unknown"
	}

	schoolName := "our school"
	if school, err := s.schools.GetSchool(ctx, schoolID); err == nil {
		schoolName = school.Name
	}

	body := template.Body(lead.GuardianName, schoolName, band)
	content := fmt.Sprintf("[simulated] WhatsApp %q to %s: %s", template, recipient, body)
	if _, err := s.interactions.CreateInteraction(ctx, repository.CreateInteractionParams{
		LeadID:  leadID,
		Type:    domain.InteractionWhatsAppMsg,
		Content: repository.TruncateContent(content, repository.InteractionContentMaxLen),
	}); err != nil {
		return err
	}

	// Read receipt is fire-and-forget: callers never observe its completion
	// and there is no ordering guarantee relative to other lead writes.
	if s.receipts != nil {
		runAt := time.Now().UTC().Add(s.receiptDelay)
		if err := s.receipts.ScheduleReadReceipt(ctx, leadID, schoolID, runAt); err != nil && s.log != nil {
			s.log.Warn("read receipt scheduling failed", "lead_id", leadID.String(), "error", err)
		}
	}

	return nil
}
