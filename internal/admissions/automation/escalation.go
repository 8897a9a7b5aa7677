package automation

import (
	"context"
	"fmt"
	"time"

	"admissions_crm_backend/internal/admissions/domain"
	"admissions_crm_backend/internal/admissions/repository"
	"admissions_crm_backend/platform/logger"

	"github.com/google/uuid"
)

// AlertSender notifies the school manager about an overdue follow-up.
type AlertSender interface {
	SendOverdueAlert(ctx context.Context, to, schoolName string, task repository.OverdueFollowUp) error
}

// Sweeper escalates overdue pending follow-ups for one school. Each overdue
// task gets an AUTOMATION interaction, an escalated_at stamp, and a manager
// email when one is configured. Per-task failures do not abort the batch.
type Sweeper struct {
	followUps    repository.FollowUpStore
	interactions repository.InteractionLogger
	schools      repository.SchoolReader
	alerts       AlertSender
	log          *logger.Logger
}

// NewSweeper creates a Sweeper. alerts may be nil when no SMTP is configured.
func NewSweeper(
	followUps repository.FollowUpStore,
	interactions repository.InteractionLogger,
	schools repository.SchoolReader,
	alerts AlertSender,
	log *logger.Logger,
) *Sweeper {
	return &Sweeper{
		followUps:    followUps,
		interactions: interactions,
		schools:      schools,
		alerts:       alerts,
		log:          log,
	}
}

// EscalateMissedTasks runs one escalation pass for the school.
func (s *Sweeper) EscalateMissedTasks(ctx context.Context, schoolID uuid.UUID) error {
	now := time.Now().UTC()

	overdue, err := s.followUps.ListOverduePendingFollowUps(ctx, schoolID, now)
	if err != nil {
		return fmt.Errorf("list overdue follow-ups: %w", err)
	}
	if len(overdue) == 0 {
		return nil
	}

	school, err := s.schools.GetSchool(ctx, schoolID)
	if err != nil {
		return fmt.Errorf("load school: %w", err)
	}

	escalated := 0
	for _, task := range overdue {
		if err := s.escalate(ctx, school, task, now); err != nil {
			s.log.Error("follow-up escalation failed",
				"follow_up_id", task.ID.String(), "lead_id", task.LeadID.String(), "error", err)
			continue
		}
		escalated++
	}

	s.log.Info("escalation sweep finished",
		"school_id", schoolID.String(), "overdue", len(overdue), "escalated", escalated)
	return nil
}

func (s *Sweeper) escalate(ctx context.Context, school repository.School, task repository.OverdueFollowUp, now time.Time) error {
	content := fmt.Sprintf("Follow-up %s for %s (child %s) scheduled at %s is overdue; manager alerted",
		task.Type, task.GuardianName, task.ChildName, task.ScheduledAt.Format(time.RFC3339))
	if _, err := s.interactions.CreateInteraction(ctx, repository.CreateInteractionParams{
		LeadID:  task.LeadID,
		Type:    domain.InteractionAutomation,
		Content: repository.TruncateContent(content, repository.InteractionContentMaxLen),
	}); err != nil {
		return fmt.Errorf("record escalation interaction: %w", err)
	}

	if err := s.followUps.MarkFollowUpEscalated(ctx, task.ID, now); err != nil {
		return fmt.Errorf("mark escalated: %w", err)
	}

	// The interaction and stamp are the contract; the email is best-effort.
	if s.alerts != nil && school.ManagerEmail != nil && *school.ManagerEmail != "" {
		if err := s.alerts.SendOverdueAlert(ctx, *school.ManagerEmail, school.Name, task); err != nil {
			s.log.Warn("manager alert email failed",
				"follow_up_id", task.ID.String(), "to", *school.ManagerEmail, "error", err)
		}
	}

	return nil
}
