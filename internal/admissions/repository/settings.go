package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// defaultWeightsJSON is the weight set written when a school has no settings
// row yet. Must match scoring.DefaultWeights.
const defaultWeightsJSON = `{"responsiveness":30,"programInterest":25,"location":15,"budget":20,"engagement":10}`

// AISettings is the per-tenant scoring configuration. WeightsJSON holds the
// factor-name to percentage mapping; AutomationRulesJSON is stored
// configuration (autoPauseDays, highIntentThreshold) consumed by automation
// guards, not by the scoring formula.
type AISettings struct {
	SchoolID            uuid.UUID
	WeightsJSON         []byte
	AutomationRulesJSON []byte
	UpdatedAt           time.Time
}

// GetSettings returns the school's settings, creating the row with the
// default weight set on first access.
func (r *Repository) GetSettings(ctx context.Context, schoolID uuid.UUID) (AISettings, error) {
	var settings AISettings
	err := r.pool.QueryRow(ctx, `
		INSERT INTO ai_settings (school_id, weights)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (school_id) DO UPDATE SET school_id = excluded.school_id
		RETURNING school_id, weights, automation_rules, updated_at
	`, schoolID, defaultWeightsJSON).Scan(
		&settings.SchoolID, &settings.WeightsJSON, &settings.AutomationRulesJSON, &settings.UpdatedAt,
	)
	if err != nil {
		return AISettings{}, err
	}

	return settings, nil
}

type UpdateSettingsParams struct {
	SchoolID            uuid.UUID
	WeightsJSON         []byte
	AutomationRulesJSON []byte
}

func (r *Repository) UpdateSettings(ctx context.Context, params UpdateSettingsParams) (AISettings, error) {
	var settings AISettings
	err := r.pool.QueryRow(ctx, `
		INSERT INTO ai_settings (school_id, weights, automation_rules, updated_at)
		VALUES ($1, $2::jsonb, coalesce($3, '{}')::jsonb, now())
		ON CONFLICT (school_id) DO UPDATE
			SET weights = excluded.weights,
				automation_rules = excluded.automation_rules,
				updated_at = now()
		RETURNING school_id, weights, automation_rules, updated_at
	`, params.SchoolID, params.WeightsJSON, params.AutomationRulesJSON).Scan(
		&settings.SchoolID, &settings.WeightsJSON, &settings.AutomationRulesJSON, &settings.UpdatedAt,
	)
	if err != nil {
		return AISettings{}, err
	}

	return settings, nil
}
