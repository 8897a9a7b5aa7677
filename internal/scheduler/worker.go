package scheduler

import (
	"context"
	"fmt"

	"admissions_crm_backend/internal/admissions/automation"
	"admissions_crm_backend/internal/admissions/repository"
	"admissions_crm_backend/platform/config"
	"admissions_crm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Worker consumes the admissions queue: read-receipt tasks mark the lead's
// message as read, sweep tasks run the escalation pass for one school.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	receipts repository.ReceiptWriter
	sweeper  *automation.Sweeper
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, receipts repository.ReceiptWriter, sweeper *automation.Sweeper, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		receipts: receipts,
		sweeper:  sweeper,
		log:      log,
	}

	mux.HandleFunc(TaskWhatsAppReadReceipt, w.handleWhatsAppReadReceipt)
	mux.HandleFunc(TaskEscalationSweep, w.handleEscalationSweep)

	return w, nil
}

func (w *Worker) handleWhatsAppReadReceipt(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseWhatsAppReadReceiptPayload(task)
	if err != nil {
		return err
	}

	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	schoolID, err := uuid.Parse(payload.SchoolID)
	if err != nil {
		return err
	}

	// MarkWhatsAppRead treats a missing lead as success, so a lead deleted
	// between send and receipt does not make the task retry forever.
	return w.receipts.MarkWhatsAppRead(ctx, leadID, schoolID)
}

func (w *Worker) handleEscalationSweep(ctx context.Context, task *asynq.Task) error {
	if w.sweeper == nil {
		return nil
	}

	payload, err := ParseEscalationSweepPayload(task)
	if err != nil {
		return err
	}

	schoolID, err := uuid.Parse(payload.SchoolID)
	if err != nil {
		return err
	}

	return w.sweeper.EscalateMissedTasks(ctx, schoolID)
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
