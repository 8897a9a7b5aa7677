// Package scoring computes the 0-100 propensity score for admissions leads:
// five weighted factor sub-scores multiplied by a staleness decay factor.
package scoring

import (
	"math"
	"time"

	"admissions_crm_backend/internal/admissions/domain"
	"admissions_crm_backend/internal/admissions/repository"
)

// scoreVersion tracks the scoring model for debugging and analysis.
// Bump this when changing scoring logic significantly.
const scoreVersion = "2026-v1"

// ScoreInputs are the raw lead fields the engine reads. Nil pointers mean the
// signal was never observed and score neutrally.
type ScoreInputs struct {
	FirstResponseMinutes   *int
	TourStatus             domain.TourStatus
	RepliesCount           int
	DistanceConcern        *bool
	FeeConcernLevel        *domain.FeeConcernLevel
	CallConnectedCount     int
	LinkClicks             int
	LastMeaningfulActionAt *time.Time
	CreatedAt              time.Time
}

// InputsFromLead projects a stored lead onto the engine's input set.
func InputsFromLead(lead repository.Lead) ScoreInputs {
	return ScoreInputs{
		FirstResponseMinutes:   lead.FirstResponseMinutes,
		TourStatus:             lead.TourStatus,
		RepliesCount:           lead.RepliesCount,
		DistanceConcern:        lead.DistanceConcern,
		FeeConcernLevel:        lead.FeeConcernLevel,
		CallConnectedCount:     lead.CallConnectedCount,
		LinkClicks:             lead.LinkClicks,
		LastMeaningfulActionAt: lead.LastMeaningfulActionAt,
		CreatedAt:              lead.CreatedAt,
	}
}

// Compute returns the lead's propensity score in [0,100]. Pure: no lookups,
// no side effects.
func Compute(in ScoreInputs, w Weights, now time.Time) int {
	score, _ := ComputeDetailed(in, w, now)
	return score
}

// Breakdown carries the per-factor sub-scores and the model version that
// produced them, for timeline and debug logging.
type Breakdown struct {
	Version string
	Factors map[string]int
}

// ComputeDetailed additionally returns the factor breakdown.
func ComputeDetailed(in ScoreInputs, w Weights, now time.Time) (int, Breakdown) {
	factors := map[string]int{
		"responsiveness":  responsivenessScore(in.FirstResponseMinutes),
		"programInterest": programInterestScore(in.TourStatus, in.RepliesCount),
		"location":        locationScore(in.DistanceConcern),
		"budget":          budgetScore(in.FeeConcernLevel),
		"engagement":      engagementScore(in.CallConnectedCount, in.LinkClicks, in.RepliesCount),
	}

	weighted := float64(factors["responsiveness"])*float64(w.Responsiveness)/100 +
		float64(factors["programInterest"])*float64(w.ProgramInterest)/100 +
		float64(factors["location"])*float64(w.Location)/100 +
		float64(factors["budget"])*float64(w.Budget)/100 +
		float64(factors["engagement"])*float64(w.Engagement)/100

	weighted *= decayFactor(in.LastMeaningfulActionAt, in.CreatedAt, now)

	score := int(math.Round(weighted))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return score, Breakdown{Version: scoreVersion, Factors: factors}
}

// responsivenessScore is a step function of the first-response time in
// minutes. Unknown response time scores neutrally.
func responsivenessScore(firstResponseMinutes *int) int {
	if firstResponseMinutes == nil {
		return 50
	}

	switch m := *firstResponseMinutes; {
	case m < 15:
		return 100
	case m < 60:
		return 80
	case m < 360:
		return 60
	case m < 1440:
		return 40
	default:
		return 20
	}
}

func programInterestScore(tourStatus domain.TourStatus, repliesCount int) int {
	switch tourStatus {
	case domain.TourCompleted:
		return 100
	case domain.TourScheduled:
		return 80
	}

	switch {
	case repliesCount > 5:
		return 70
	case repliesCount > 2:
		return 50
	default:
		return 30
	}
}

func locationScore(distanceConcern *bool) int {
	if distanceConcern == nil {
		return 50
	}
	if *distanceConcern {
		return 20
	}
	return 100
}

func budgetScore(level *domain.FeeConcernLevel) int {
	if level == nil {
		return 60
	}

	switch *level {
	case domain.FeeConcernNone:
		return 100
	case domain.FeeConcernMild:
		return 60
	case domain.FeeConcernStrong:
		return 20
	default:
		return 60
	}
}

func engagementScore(callConnected, linkClicks, replies int) int {
	score := callConnected*20 + linkClicks*15 + replies*10
	if score > 100 {
		return 100
	}
	return score
}

// decayFactor penalizes staleness of engagement, keyed off the last
// meaningful action (falling back to lead creation), in whole elapsed days.
func decayFactor(lastAction *time.Time, createdAt time.Time, now time.Time) float64 {
	reference := createdAt
	if lastAction != nil {
		reference = *lastAction
	}

	days := int(math.Floor(now.Sub(reference).Hours() / 24))
	switch {
	case days >= 30:
		return 0.5
	case days >= 15:
		return 0.7
	case days >= 7:
		return 0.85
	default:
		return 1.0
	}
}
