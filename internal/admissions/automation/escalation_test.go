package automation

import (
	"context"
	"testing"
	"time"

	"admissions_crm_backend/internal/admissions/domain"
	"admissions_crm_backend/internal/admissions/repository"
	"admissions_crm_backend/platform/logger"

	"github.com/google/uuid"
)

type testSchools struct {
	school repository.School
}

func (t *testSchools) GetSchool(_ context.Context, _ uuid.UUID) (repository.School, error) {
	return t.school, nil
}

type testAlerts struct {
	recipients []string
}

func (t *testAlerts) SendOverdueAlert(_ context.Context, to, _ string, _ repository.OverdueFollowUp) error {
	t.recipients = append(t.recipients, to)
	return nil
}

// storedFollowUps keeps rows and applies the overdue predicate the way the
// database query does: PENDING, past the scheduled time, not yet escalated.
type storedFollowUps struct {
	rows []repository.OverdueFollowUp
}

func (t *storedFollowUps) CreateFollowUp(_ context.Context, params repository.CreateFollowUpParams) (repository.FollowUp, error) {
	fu := repository.FollowUp{
		ID:          uuid.New(),
		LeadID:      params.LeadID,
		Type:        params.Type,
		ScheduledAt: params.ScheduledAt,
		Status:      domain.FollowUpPending,
		Notes:       params.Notes,
	}
	t.rows = append(t.rows, repository.OverdueFollowUp{FollowUp: fu})
	return fu, nil
}

func (t *storedFollowUps) ListOverduePendingFollowUps(_ context.Context, schoolID uuid.UUID, now time.Time) ([]repository.OverdueFollowUp, error) {
	var out []repository.OverdueFollowUp
	for _, row := range t.rows {
		if row.SchoolID != schoolID || row.Status != domain.FollowUpPending {
			continue
		}
		if !row.ScheduledAt.Before(now) || row.EscalatedAt != nil {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (t *storedFollowUps) MarkFollowUpEscalated(_ context.Context, id uuid.UUID, at time.Time) error {
	for i := range t.rows {
		if t.rows[i].ID == id && t.rows[i].EscalatedAt == nil {
			stamped := at
			t.rows[i].EscalatedAt = &stamped
			return nil
		}
	}
	return repository.ErrNotFound
}

func (t *storedFollowUps) row(id uuid.UUID) repository.OverdueFollowUp {
	for _, row := range t.rows {
		if row.ID == id {
			return row
		}
	}
	return repository.OverdueFollowUp{}
}

func overdueTask(schoolID uuid.UUID) repository.OverdueFollowUp {
	return repository.OverdueFollowUp{
		FollowUp: repository.FollowUp{
			ID:          uuid.New(),
			LeadID:      uuid.New(),
			Type:        domain.FollowUpTypeCall,
			ScheduledAt: time.Now().UTC().Add(-3 * time.Hour),
			Status:      domain.FollowUpPending,
		},
		SchoolID:     schoolID,
		GuardianName: "Anita",
		ChildName:    "Kabir",
	}
}

func TestEscalationMarksTasksAndAlertsManager(t *testing.T) {
	schoolID := uuid.New()
	managerEmail := "manager@school.example"
	followUps := &testFollowUps{overdue: []repository.OverdueFollowUp{overdueTask(schoolID), overdueTask(schoolID)}}
	interactions := &testInteractions{}
	alerts := &testAlerts{}
	schools := &testSchools{school: repository.School{ID: schoolID, Name: "Sunrise Preschool", ManagerEmail: &managerEmail}}

	s := NewSweeper(followUps, interactions, schools, alerts, logger.New("development"))
	if err := s.EscalateMissedTasks(context.Background(), schoolID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(followUps.escalated) != 2 {
		t.Errorf("escalated %d tasks, want 2", len(followUps.escalated))
	}
	if len(interactions.entries) != 2 {
		t.Errorf("recorded %d interactions, want 2", len(interactions.entries))
	}
	for _, entry := range interactions.entries {
		if entry.Type != domain.InteractionAutomation {
			t.Errorf("interaction type = %s, want AUTOMATION", entry.Type)
		}
	}
	if len(alerts.recipients) != 2 || alerts.recipients[0] != managerEmail {
		t.Errorf("alerts sent to %v, want 2x %s", alerts.recipients, managerEmail)
	}
}

// Two sweeps over a mixed set of tasks: only the past-due pending one is
// alerted, the future and completed ones stay untouched, and the second sweep
// does not re-alert the already-escalated row.
func TestEscalationSweepAlertsOnlyPastDueOnce(t *testing.T) {
	schoolID := uuid.New()
	now := time.Now().UTC()
	managerEmail := "manager@school.example"

	pastDue := overdueTask(schoolID)
	pastDue.ScheduledAt = now.Add(-24 * time.Hour)
	future := overdueTask(schoolID)
	future.ScheduledAt = now.Add(24 * time.Hour)
	done := overdueTask(schoolID)
	done.ScheduledAt = now.Add(-48 * time.Hour)
	done.Status = domain.FollowUpCompleted

	store := &storedFollowUps{rows: []repository.OverdueFollowUp{pastDue, future, done}}
	interactions := &testInteractions{}
	alerts := &testAlerts{}
	schools := &testSchools{school: repository.School{ID: schoolID, Name: "Sunrise Preschool", ManagerEmail: &managerEmail}}

	s := NewSweeper(store, interactions, schools, alerts, logger.New("development"))
	if err := s.EscalateMissedTasks(context.Background(), schoolID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(interactions.entries) != 1 {
		t.Fatalf("recorded %d interactions, want exactly 1", len(interactions.entries))
	}
	if interactions.entries[0].LeadID != pastDue.LeadID {
		t.Errorf("escalated lead = %s, want past-due task's lead %s", interactions.entries[0].LeadID, pastDue.LeadID)
	}
	if len(alerts.recipients) != 1 {
		t.Errorf("sent %d alerts, want 1", len(alerts.recipients))
	}
	if store.row(pastDue.ID).EscalatedAt == nil {
		t.Errorf("past-due task must carry an escalation stamp")
	}
	if store.row(future.ID).EscalatedAt != nil {
		t.Errorf("future task must stay untouched")
	}
	if store.row(done.ID).EscalatedAt != nil {
		t.Errorf("completed task must stay untouched")
	}

	if err := s.EscalateMissedTasks(context.Background(), schoolID); err != nil {
		t.Fatalf("unexpected error on second sweep: %v", err)
	}
	if len(interactions.entries) != 1 || len(alerts.recipients) != 1 {
		t.Errorf("second sweep re-alerted: %d interactions, %d alerts, want 1 each",
			len(interactions.entries), len(alerts.recipients))
	}
}

func TestEscalationContinuesAfterItemFailure(t *testing.T) {
	schoolID := uuid.New()
	broken := overdueTask(schoolID)
	healthy := overdueTask(schoolID)
	followUps := &testFollowUps{
		overdue:      []repository.OverdueFollowUp{broken, healthy},
		failEscalate: broken.ID,
	}
	interactions := &testInteractions{}
	schools := &testSchools{school: repository.School{ID: schoolID, Name: "Sunrise Preschool"}}

	s := NewSweeper(followUps, interactions, schools, nil, logger.New("development"))
	if err := s.EscalateMissedTasks(context.Background(), schoolID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(followUps.escalated) != 1 || followUps.escalated[0] != healthy.ID {
		t.Errorf("escalated = %v, want only healthy task %s", followUps.escalated, healthy.ID)
	}
}

func TestEscalationWithoutManagerEmailSkipsAlerts(t *testing.T) {
	schoolID := uuid.New()
	followUps := &testFollowUps{overdue: []repository.OverdueFollowUp{overdueTask(schoolID)}}
	interactions := &testInteractions{}
	alerts := &testAlerts{}
	schools := &testSchools{school: repository.School{ID: schoolID, Name: "Sunrise Preschool"}}

	s := NewSweeper(followUps, interactions, schools, alerts, logger.New("development"))
	if err := s.EscalateMissedTasks(context.Background(), schoolID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(alerts.recipients) != 0 {
		t.Errorf("no alerts expected without a manager email, sent to %v", alerts.recipients)
	}
	if len(followUps.escalated) != 1 {
		t.Errorf("task must still be escalated without email")
	}
}

func TestEscalationNothingOverdue(t *testing.T) {
	schoolID := uuid.New()
	followUps := &testFollowUps{}
	interactions := &testInteractions{}

	s := NewSweeper(followUps, interactions, &testSchools{}, nil, logger.New("development"))
	if err := s.EscalateMissedTasks(context.Background(), schoolID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(interactions.entries) != 0 || len(followUps.escalated) != 0 {
		t.Errorf("empty sweep must not write anything")
	}
}
