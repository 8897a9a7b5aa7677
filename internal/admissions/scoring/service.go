package scoring

import (
	"context"
	"time"

	"admissions_crm_backend/internal/admissions/repository"
	"admissions_crm_backend/platform/logger"

	"github.com/google/uuid"
)

// Service resolves a lead and its tenant configuration and runs the engine.
type Service struct {
	leads    repository.LeadReader
	settings repository.SettingsStore
	log      *logger.Logger
}

// New creates a new scoring service.
func New(leads repository.LeadReader, settings repository.SettingsStore, log *logger.Logger) *Service {
	return &Service{leads: leads, settings: settings, log: log}
}

// Calculate computes the lead's current score. A non-nil custom weight set
// bypasses the persisted tenant settings (used by the distribution preview).
// On resolution failure it returns 0 with the error: callers must treat that
// 0 as "unscoreable", not a genuine low score.
func (s *Service) Calculate(ctx context.Context, leadID, schoolID uuid.UUID, custom *Weights) (int, error) {
	lead, err := s.leads.GetLeadByID(ctx, leadID, schoolID)
	if err != nil {
		return 0, err
	}

	weights, err := s.resolveWeights(ctx, schoolID, custom)
	if err != nil {
		return 0, err
	}

	score, breakdown := ComputeDetailed(InputsFromLead(lead), weights, time.Now().UTC())
	if s.log != nil {
		s.log.Debug("lead score computed",
			"lead_id", leadID.String(),
			"score", score,
			"model_version", breakdown.Version,
		)
	}

	return score, nil
}

// resolveWeights returns the custom override when given, otherwise the
// school's persisted weights. Malformed stored JSON falls back to the default
// set and is logged, not fatal.
func (s *Service) resolveWeights(ctx context.Context, schoolID uuid.UUID, custom *Weights) (Weights, error) {
	if custom != nil {
		return *custom, nil
	}

	settings, err := s.settings.GetSettings(ctx, schoolID)
	if err != nil {
		return Weights{}, err
	}

	weights, parseErr := ParseWeights(settings.WeightsJSON)
	if parseErr != nil && s.log != nil {
		s.log.Warn("stored weights unparsable, using defaults",
			"school_id", schoolID.String(), "error", parseErr)
	}

	return weights, nil
}
