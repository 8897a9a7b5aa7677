// Package scheduler wraps asynq for the delayed and periodic work the
// admissions engine needs: the simulated WhatsApp read receipt and the
// per-school escalation sweeps.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"admissions_crm_backend/platform/config"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

type Client struct {
	client *asynq.Client
	queue  string
}

func NewClient(cfg config.SchedulerConfig) (*Client, error) {
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

	return &Client{
		client: asynq.NewClient(opt),
		queue:  queue,
	}, nil
}

func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// ScheduleReadReceipt enqueues the delayed task that flips the lead's
// whatsapp_read flag at runAt.
func (c *Client) ScheduleReadReceipt(ctx context.Context, leadID, schoolID uuid.UUID, runAt time.Time) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewWhatsAppReadReceiptTask(WhatsAppReadReceiptPayload{
		LeadID:   leadID.String(),
		SchoolID: schoolID.String(),
	})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.ProcessAt(runAt), asynq.Queue(c.queue))
	return err
}

// EnqueueEscalationSweep enqueues an immediate escalation sweep for one school.
func (c *Client) EnqueueEscalationSweep(ctx context.Context, schoolID uuid.UUID) error {
	if c == nil || c.client == nil {
		return nil
	}

	task, err := NewEscalationSweepTask(EscalationSweepPayload{SchoolID: schoolID.String()})
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	return err
}

func redisClientOpt(redisURL string) (asynq.RedisClientOpt, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return asynq.RedisClientOpt{}, err
	}

	return asynq.RedisClientOpt{
		Addr:      opt.Addr,
		Password:  opt.Password,
		DB:        opt.DB,
		TLSConfig: opt.TLSConfig,
	}, nil
}
