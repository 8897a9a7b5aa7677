package scheduler

import (
	"context"
	"time"

	"admissions_crm_backend/internal/admissions/repository"
	"admissions_crm_backend/platform/config"
	"admissions_crm_backend/platform/logger"
)

// SweepDispatcher periodically enqueues an escalation sweep task per school.
// The sweep itself is idempotent (escalated_at stamping), so overlapping or
// duplicated runs after a dispatcher restart are harmless.
type SweepDispatcher struct {
	client   *Client
	schools  repository.SchoolLister
	interval time.Duration
	log      *logger.Logger
}

func NewSweepDispatcher(cfg config.SchedulerConfig, client *Client, schools repository.SchoolLister, log *logger.Logger) *SweepDispatcher {
	interval := cfg.GetEscalationSweepInterval()
	if interval <= 0 {
		interval = time.Hour
	}

	return &SweepDispatcher{
		client:   client,
		schools:  schools,
		interval: interval,
		log:      log,
	}
}

func (d *SweepDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil || d.schools == nil {
		return
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		d.dispatchOnce(ctx)
	}
}

func (d *SweepDispatcher) dispatchOnce(ctx context.Context) {
	schools, err := d.schools.ListSchools(ctx)
	if err != nil {
		d.log.Warn("sweep dispatch: listing schools failed", "error", err)
		return
	}

	enqueued := 0
	for _, school := range schools {
		if err := d.client.EnqueueEscalationSweep(ctx, school.ID); err != nil {
			d.log.Warn("sweep dispatch: enqueue failed",
				"school_id", school.ID.String(), "error", err)
			continue
		}
		enqueued++
	}

	d.log.Info("escalation sweeps enqueued", "schools", len(schools), "enqueued", enqueued)
}
