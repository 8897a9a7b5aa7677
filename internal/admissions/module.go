// Package admissions provides the lead scoring and automation domain module.
package admissions

import (
	"context"

	"admissions_crm_backend/internal/admissions/automation"
	"admissions_crm_backend/internal/admissions/domain"
	"admissions_crm_backend/internal/admissions/handler"
	"admissions_crm_backend/internal/admissions/messaging"
	"admissions_crm_backend/internal/admissions/repository"
	"admissions_crm_backend/internal/admissions/scoring"
	"admissions_crm_backend/internal/admissions/service"
	"admissions_crm_backend/internal/events"
	apphttp "admissions_crm_backend/internal/http"
	"admissions_crm_backend/platform/config"
	"admissions_crm_backend/platform/logger"
	"admissions_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config is the slice of application configuration the module needs.
type Config interface {
	config.MessagingConfig
	config.EmailConfig
}

// Module wires the admissions bounded context: repository, scoring engine,
// service layer, messaging, automation, and the HTTP handler.
type Module struct {
	handler    *handler.Handler
	svc        *service.Service
	dispatcher *automation.Dispatcher
	sweeper    *automation.Sweeper
	log        *logger.Logger
}

// NewModule creates the admissions module with all dependencies wired.
// receipts may be nil when no scheduler backend is configured.
func NewModule(pool *pgxpool.Pool, receipts messaging.ReceiptScheduler, cfg Config, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	scorer := scoring.New(repo, repo, log)
	svc := service.New(scorer, repo, repo, repo, repo, repo, log)
	sender := messaging.NewSender(repo, repo, repo, receipts, cfg, log)
	dispatcher := automation.NewDispatcher(repo, repo, repo, svc, sender, log)

	var alerts automation.AlertSender
	if emailAlerts := automation.NewEmailAlertSender(cfg); emailAlerts != nil {
		alerts = emailAlerts
	}
	sweeper := automation.NewSweeper(repo, repo, repo, alerts, log)

	return &Module{
		handler:    handler.New(svc, dispatcher, sweeper, val, log),
		svc:        svc,
		dispatcher: dispatcher,
		sweeper:    sweeper,
		log:        log,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "admissions"
}

// RegisterRoutes registers the module's routes under /api/v1/schools/:schoolId.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	schools := ctx.V1.Group("/schools/:schoolId")
	m.handler.RegisterRoutes(schools)
}

// Service exposes the admissions service for other composition-root wiring.
func (m *Module) Service() *service.Service {
	return m.svc
}

// Sweeper exposes the escalation sweeper for the scheduler worker.
func (m *Module) Sweeper() *automation.Sweeper {
	return m.sweeper
}

// RegisterHandlers subscribes the automation dispatcher to the lead lifecycle
// events. Handlers run on the bus's worker goroutines; TriggerWorkflow
// swallows its own failures, so subscriptions never report errors back.
func (m *Module) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if evt, ok := e.(events.LeadCreated); ok {
			m.dispatcher.TriggerWorkflow(ctx, evt.LeadID, evt.SchoolID, domain.TriggerNewLead)
		}
		return nil
	}))

	bus.Subscribe(events.LeadStageChanged{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if evt, ok := e.(events.LeadStageChanged); ok {
			m.dispatcher.TriggerWorkflow(ctx, evt.LeadID, evt.SchoolID, domain.TriggerStatusChange)
		}
		return nil
	}))

	bus.Subscribe(events.TourScheduled{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if evt, ok := e.(events.TourScheduled); ok {
			m.dispatcher.TriggerWorkflow(ctx, evt.LeadID, evt.SchoolID, domain.TriggerTourScheduled)
		}
		return nil
	}))

	bus.Subscribe(events.TourCompleted{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if evt, ok := e.(events.TourCompleted); ok {
			m.dispatcher.TriggerWorkflow(ctx, evt.LeadID, evt.SchoolID, domain.TriggerTourCompleted)
		}
		return nil
	}))

	bus.Subscribe(events.CallNoAnswer{}.EventName(), events.HandlerFunc(func(ctx context.Context, e events.Event) error {
		if evt, ok := e.(events.CallNoAnswer); ok {
			m.dispatcher.TriggerWorkflow(ctx, evt.LeadID, evt.SchoolID, domain.TriggerNoAnswer)
		}
		return nil
	}))
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
