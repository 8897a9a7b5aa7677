// Package service holds the value-returning admissions operations: score
// reads and refreshes, the distribution simulator, settings, and the
// pipeline dashboard aggregate. Fire-and-forget workflows live in the
// automation package.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"admissions_crm_backend/internal/admissions/domain"
	"admissions_crm_backend/internal/admissions/repository"
	"admissions_crm_backend/internal/admissions/scoring"
	"admissions_crm_backend/platform/apperr"
	"admissions_crm_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// previewConcurrency bounds the distribution simulator's worker fan-out.
const previewConcurrency = 8

type Service struct {
	scorer       *scoring.Service
	leads        repository.LeadReader
	scores       repository.ScoreWriter
	interactions repository.InteractionReader
	settings     repository.SettingsStore
	metrics      repository.MetricsReader
	log          *logger.Logger
}

func New(
	scorer *scoring.Service,
	leads repository.LeadReader,
	scores repository.ScoreWriter,
	interactions repository.InteractionReader,
	settings repository.SettingsStore,
	metrics repository.MetricsReader,
	log *logger.Logger,
) *Service {
	return &Service{
		scorer:       scorer,
		leads:        leads,
		scores:       scores,
		interactions: interactions,
		settings:     settings,
		metrics:      metrics,
		log:          log,
	}
}

// CalculateScore computes the lead's current score without persisting it.
func (s *Service) CalculateScore(ctx context.Context, leadID, schoolID uuid.UUID) (int, error) {
	score, err := s.scorer.Calculate(ctx, leadID, schoolID, nil)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, apperr.NotFound("lead not found").WithOp("service.CalculateScore")
	}
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "calculate score", err)
	}
	return score, nil
}

// RefreshLeadScore recomputes the score with the school's persisted weights
// and writes it back to the lead row. Safe to call repeatedly: the write is
// a pure projection of the lead's current inputs.
func (s *Service) RefreshLeadScore(ctx context.Context, leadID, schoolID uuid.UUID) (int, error) {
	score, err := s.scorer.Calculate(ctx, leadID, schoolID, nil)
	if errors.Is(err, repository.ErrNotFound) {
		return 0, apperr.NotFound("lead not found").WithOp("service.RefreshLeadScore")
	}
	if err != nil {
		return 0, apperr.Wrap(apperr.KindInternal, "calculate score", err)
	}

	if err := s.scores.UpdateLeadScore(ctx, leadID, schoolID, score); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, apperr.NotFound("lead not found").WithOp("service.RefreshLeadScore")
		}
		s.log.DatabaseError("update_lead_score", err)
		return 0, apperr.Wrap(apperr.KindInternal, "persist score", err)
	}

	return score, nil
}

// Distribution buckets a school's leads by score band.
type Distribution struct {
	Hot  int `json:"hot"`
	Warm int `json:"warm"`
	Cool int `json:"cool"`
	Cold int `json:"cold"`
}

// DistributionPreview scores every lead of the school under hypothetical
// weights and returns the band histogram. Nothing is persisted; an
// out-of-balance weight set is allowed here since this is exactly the tool
// for exploring one.
func (s *Service) DistributionPreview(ctx context.Context, schoolID uuid.UUID, w scoring.Weights) (Distribution, error) {
	leads, err := s.leads.ListLeadsBySchool(ctx, schoolID)
	if err != nil {
		return Distribution{}, apperr.Wrap(apperr.KindInternal, "list leads", err)
	}

	now := time.Now().UTC()
	scores := make([]int, len(leads))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(previewConcurrency)
	for i := range leads {
		g.Go(func() error {
			scores[i] = scoring.Compute(scoring.InputsFromLead(leads[i]), w, now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Distribution{}, apperr.Wrap(apperr.KindInternal, "score leads", err)
	}

	var dist Distribution
	for _, score := range scores {
		switch domain.BandForScore(score) {
		case domain.BandHot:
			dist.Hot++
		case domain.BandWarm:
			dist.Warm++
		case domain.BandCool:
			dist.Cool++
		default:
			dist.Cold++
		}
	}

	return dist, nil
}

// LeadTimeline returns the lead's interactions, newest first. limit <= 0
// falls back to the repository's default page size.
func (s *Service) LeadTimeline(ctx context.Context, leadID, schoolID uuid.UUID, limit int) ([]repository.LeadInteraction, error) {
	if _, err := s.leads.GetLeadByID(ctx, leadID, schoolID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("lead not found").WithOp("service.LeadTimeline")
		}
		return nil, apperr.Wrap(apperr.KindInternal, "load lead", err)
	}

	items, err := s.interactions.ListInteractions(ctx, leadID, schoolID, limit)
	if err != nil {
		s.log.DatabaseError("list_interactions", err)
		return nil, apperr.Wrap(apperr.KindInternal, "list interactions", err)
	}

	return items, nil
}

// PipelineSummary returns the dashboard aggregates for a school.
func (s *Service) PipelineSummary(ctx context.Context, schoolID uuid.UUID) (repository.PipelineSummary, error) {
	summary, err := s.metrics.GetPipelineSummary(ctx, schoolID)
	if err != nil {
		s.log.DatabaseError("pipeline_summary", err)
		return repository.PipelineSummary{}, apperr.Wrap(apperr.KindInternal, "pipeline summary", err)
	}
	return summary, nil
}

// Settings is the decoded per-tenant configuration exposed to the API.
type Settings struct {
	Weights         scoring.Weights `json:"weights"`
	AutomationRules json.RawMessage `json:"automationRules"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// GetSettings returns the school's settings, creating the default row on
// first access. Unparsable stored weights surface as the default set.
func (s *Service) GetSettings(ctx context.Context, schoolID uuid.UUID) (Settings, error) {
	stored, err := s.settings.GetSettings(ctx, schoolID)
	if err != nil {
		return Settings{}, apperr.Wrap(apperr.KindInternal, "load settings", err)
	}

	weights, parseErr := scoring.ParseWeights(stored.WeightsJSON)
	if parseErr != nil {
		s.log.Warn("stored weights unparsable, serving defaults",
			"school_id", schoolID.String(), "error", parseErr)
	}

	return Settings{
		Weights:         weights,
		AutomationRules: stored.AutomationRulesJSON,
		UpdatedAt:       stored.UpdatedAt,
	}, nil
}

// UpdateSettings persists new weights and automation rules. The weights must
// sum to exactly 100; this write boundary is the only place that invariant is
// enforced, so stored rows are trusted downstream.
func (s *Service) UpdateSettings(ctx context.Context, schoolID uuid.UUID, weights scoring.Weights, rules json.RawMessage) (Settings, error) {
	if err := weights.Validate(); err != nil {
		return Settings{}, apperr.Validation(err.Error()).WithOp("service.UpdateSettings")
	}

	weightsJSON, err := json.Marshal(weights)
	if err != nil {
		return Settings{}, apperr.Wrap(apperr.KindInternal, "encode weights", err)
	}

	if len(rules) > 0 && !json.Valid(rules) {
		return Settings{}, apperr.Validation("automationRules must be a JSON object").WithOp("service.UpdateSettings")
	}

	stored, err := s.settings.UpdateSettings(ctx, repository.UpdateSettingsParams{
		SchoolID:            schoolID,
		WeightsJSON:         weightsJSON,
		AutomationRulesJSON: rules,
	})
	if err != nil {
		s.log.DatabaseError("update_settings", err)
		return Settings{}, apperr.Wrap(apperr.KindInternal, "persist settings", err)
	}

	saved, parseErr := scoring.ParseWeights(stored.WeightsJSON)
	if parseErr != nil {
		return Settings{}, apperr.Wrap(apperr.KindInternal, "decode persisted weights", fmt.Errorf("%w", parseErr))
	}

	return Settings{
		Weights:         saved,
		AutomationRules: stored.AutomationRulesJSON,
		UpdatedAt:       stored.UpdatedAt,
	}, nil
}
