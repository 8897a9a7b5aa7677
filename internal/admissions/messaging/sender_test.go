package messaging

import (
	"context"
	"strings"
	"testing"
	"time"

	"admissions_crm_backend/internal/admissions/domain"
	"admissions_crm_backend/internal/admissions/repository"
	"admissions_crm_backend/platform/logger"

	"github.com/google/uuid"
)

type testMsgConfig struct {
	delay time.Duration
	rate  float64
}

func (c testMsgConfig) GetReadReceiptDelay() time.Duration { return c.delay }
func (c testMsgConfig) GetMessageSendRate() float64        { return c.rate }

type testLeads struct {
	leads map[uuid.UUID]repository.Lead
}

func (t *testLeads) GetLeadByID(_ context.Context, id, schoolID uuid.UUID) (repository.Lead, error) {
	lead, ok := t.leads[id]
	if !ok || lead.SchoolID != schoolID {
		return repository.Lead{}, repository.ErrNotFound
	}
	return lead, nil
}

func (t *testLeads) ListLeadsBySchool(_ context.Context, _ uuid.UUID) ([]repository.Lead, error) {
	return nil, nil
}

type testSchools struct{}

func (testSchools) GetSchool(_ context.Context, id uuid.UUID) (repository.School, error) {
	return repository.School{ID: id, Name: "Sunrise Preschool"}, nil
}

type testInteractions struct {
	entries []repository.CreateInteractionParams
}

func (t *testInteractions) CreateInteraction(_ context.Context, params repository.CreateInteractionParams) (repository.LeadInteraction, error) {
	t.entries = append(t.entries, params)
	return repository.LeadInteraction{ID: uuid.New()}, nil
}

type testReceipts struct {
	runAts []time.Time
}

func (t *testReceipts) ScheduleReadReceipt(_ context.Context, _, _ uuid.UUID, runAt time.Time) error {
	t.runAts = append(t.runAts, runAt)
	return nil
}

func newTestSender(leads *testLeads, interactions *testInteractions, receipts ReceiptScheduler) *Sender {
	return NewSender(leads, testSchools{}, interactions, receipts, testMsgConfig{delay: 5 * time.Second, rate: 1000}, logger.New("development"))
}

func TestSendRecordsInteractionAndSchedulesReceipt(t *testing.T) {
	lead := repository.Lead{ID: uuid.New(), SchoolID: uuid.New(), GuardianPhone: "9876543210"}
	leads := &testLeads{leads: map[uuid.UUID]repository.Lead{lead.ID: lead}}
	interactions := &testInteractions{}
	receipts := &testReceipts{}

	s := newTestSender(leads, interactions, receipts)
	if err := s.Send(context.Background(), lead.ID, lead.SchoolID, TemplateWelcome, domain.BandHot); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(interactions.entries) != 1 {
		t.Fatalf("expected 1 interaction, got %d", len(interactions.entries))
	}
	entry := interactions.entries[0]
	if entry.Type != domain.InteractionWhatsAppMsg {
		t.Errorf("interaction type = %s, want WHATSAPP_MSG", entry.Type)
	}
	if !strings.Contains(entry.Content, string(TemplateWelcome)) {
		t.Errorf("content %q should name the template", entry.Content)
	}
	if !strings.Contains(entry.Content, "+91") {
		t.Errorf("content %q should carry the normalized recipient", entry.Content)
	}

	if len(receipts.runAts) != 1 {
		t.Fatalf("expected 1 scheduled receipt, got %d", len(receipts.runAts))
	}
	want := time.Now().UTC().Add(5 * time.Second)
	if diff := receipts.runAts[0].Sub(want); diff < -time.Second || diff > time.Second {
		t.Errorf("receipt scheduled at %v, want about %v", receipts.runAts[0], want)
	}
}

func TestSendSkipsPausedLead(t *testing.T) {
	lead := repository.Lead{ID: uuid.New(), SchoolID: uuid.New(), AutomationPaused: true}
	leads := &testLeads{leads: map[uuid.UUID]repository.Lead{lead.ID: lead}}
	interactions := &testInteractions{}
	receipts := &testReceipts{}

	s := newTestSender(leads, interactions, receipts)
	if err := s.Send(context.Background(), lead.ID, lead.SchoolID, TemplateWelcome, domain.BandWarm); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(interactions.entries) != 0 || len(receipts.runAts) != 0 {
		t.Errorf("paused lead must produce no writes")
	}
}

func TestSendMissingLeadIsNoOp(t *testing.T) {
	interactions := &testInteractions{}
	s := newTestSender(&testLeads{leads: map[uuid.UUID]repository.Lead{}}, interactions, &testReceipts{})

	if err := s.Send(context.Background(), uuid.New(), uuid.New(), TemplateMissedCall, domain.BandCold); err != nil {
		t.Fatalf("missing lead must not error: %v", err)
	}
	if len(interactions.entries) != 0 {
		t.Errorf("missing lead must produce no writes")
	}
}

func TestSendWithoutReceiptScheduler(t *testing.T) {
	lead := repository.Lead{ID: uuid.New(), SchoolID: uuid.New(), GuardianPhone: "+919876543210"}
	leads := &testLeads{leads: map[uuid.UUID]repository.Lead{lead.ID: lead}}
	interactions := &testInteractions{}

	s := newTestSender(leads, interactions, nil)
	if err := s.Send(context.Background(), lead.ID, lead.SchoolID, TemplateTourConfirmation, domain.BandWarm); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(interactions.entries) != 1 {
		t.Errorf("send must still record the interaction without a scheduler")
	}
}
