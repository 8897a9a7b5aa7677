package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type testSchedulerConfig struct {
	redisURL string
}

func (c testSchedulerConfig) GetRedisURL() string                       { return c.redisURL }
func (c testSchedulerConfig) GetAsynqQueueName() string                 { return "admissions" }
func (c testSchedulerConfig) GetAsynqConcurrency() int                  { return 1 }
func (c testSchedulerConfig) GetEscalationSweepInterval() time.Duration { return time.Minute }

func newTestClient(t *testing.T) (*Client, *asynq.Inspector) {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg := testSchedulerConfig{redisURL: "redis://" + mr.Addr()}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	t.Cleanup(func() { _ = inspector.Close() })

	return client, inspector
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatalf("expected error without redis url")
	}
}

func TestScheduleReadReceiptEnqueuesDelayedTask(t *testing.T) {
	client, inspector := newTestClient(t)

	leadID := uuid.New()
	schoolID := uuid.New()
	runAt := time.Now().Add(30 * time.Second)

	if err := client.ScheduleReadReceipt(context.Background(), leadID, schoolID, runAt); err != nil {
		t.Fatalf("ScheduleReadReceipt: %v", err)
	}

	tasks, err := inspector.ListScheduledTasks("admissions")
	if err != nil {
		t.Fatalf("ListScheduledTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 scheduled task, got %d", len(tasks))
	}
	if tasks[0].Type != TaskWhatsAppReadReceipt {
		t.Errorf("task type = %s, want %s", tasks[0].Type, TaskWhatsAppReadReceipt)
	}

	payload, err := ParseWhatsAppReadReceiptPayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if payload.LeadID != leadID.String() || payload.SchoolID != schoolID.String() {
		t.Errorf("payload = %+v, want lead %s school %s", payload, leadID, schoolID)
	}
}

func TestEnqueueEscalationSweep(t *testing.T) {
	client, inspector := newTestClient(t)

	schoolID := uuid.New()
	if err := client.EnqueueEscalationSweep(context.Background(), schoolID); err != nil {
		t.Fatalf("EnqueueEscalationSweep: %v", err)
	}

	tasks, err := inspector.ListPendingTasks("admissions")
	if err != nil {
		t.Fatalf("ListPendingTasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 pending task, got %d", len(tasks))
	}
	if tasks[0].Type != TaskEscalationSweep {
		t.Errorf("task type = %s, want %s", tasks[0].Type, TaskEscalationSweep)
	}

	payload, err := ParseEscalationSweepPayload(asynq.NewTask(tasks[0].Type, tasks[0].Payload))
	if err != nil {
		t.Fatalf("parse payload: %v", err)
	}
	if payload.SchoolID != schoolID.String() {
		t.Errorf("payload school = %s, want %s", payload.SchoolID, schoolID)
	}
}
