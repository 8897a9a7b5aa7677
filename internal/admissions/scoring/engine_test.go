package scoring

import (
	"testing"
	"time"

	"admissions_crm_backend/internal/admissions/domain"
)

func intPtr(v int) *int                                    { return &v }
func boolPtr(v bool) *bool                                 { return &v }
func feePtr(v domain.FeeConcernLevel) *domain.FeeConcernLevel { return &v }
func timePtr(v time.Time) *time.Time                       { return &v }

// responsivenessOnly isolates the responsiveness factor so its step function
// is observable in the final score.
var responsivenessOnly = Weights{Responsiveness: 100}

func TestResponsivenessStepFunction(t *testing.T) {
	now := time.Now().UTC()

	cases := []struct {
		minutes *int
		want    int
	}{
		{intPtr(10), 100},
		{intPtr(45), 80},
		{intPtr(300), 60},
		{intPtr(1000), 40},
		{intPtr(2000), 20},
		{nil, 50},
	}

	for _, tc := range cases {
		in := ScoreInputs{
			FirstResponseMinutes: tc.minutes,
			TourStatus:           domain.TourNone,
			CreatedAt:            now,
		}
		if got := Compute(in, responsivenessOnly, now); got != tc.want {
			t.Errorf("responsiveness(%v) score = %d, want %d", tc.minutes, got, tc.want)
		}
	}
}

func TestProgramInterestPrefersTourOverReplies(t *testing.T) {
	now := time.Now().UTC()
	weights := Weights{ProgramInterest: 100}

	cases := []struct {
		tour    domain.TourStatus
		replies int
		want    int
	}{
		{domain.TourCompleted, 0, 100},
		{domain.TourScheduled, 0, 80},
		{domain.TourNone, 6, 70},
		{domain.TourNone, 3, 50},
		{domain.TourNone, 2, 30},
		{domain.TourNone, 0, 30},
	}

	for _, tc := range cases {
		in := ScoreInputs{TourStatus: tc.tour, RepliesCount: tc.replies, CreatedAt: now}
		if got := Compute(in, weights, now); got != tc.want {
			t.Errorf("programInterest(tour=%s replies=%d) = %d, want %d", tc.tour, tc.replies, got, tc.want)
		}
	}
}

func TestLocationAndBudgetNeutralDefaults(t *testing.T) {
	now := time.Now().UTC()

	in := ScoreInputs{TourStatus: domain.TourNone, CreatedAt: now}
	if got := Compute(in, Weights{Location: 100}, now); got != 50 {
		t.Errorf("unset distance concern score = %d, want 50", got)
	}
	if got := Compute(in, Weights{Budget: 100}, now); got != 60 {
		t.Errorf("unset fee concern score = %d, want 60", got)
	}

	in.DistanceConcern = boolPtr(true)
	if got := Compute(in, Weights{Location: 100}, now); got != 20 {
		t.Errorf("distance concern score = %d, want 20", got)
	}
	in.DistanceConcern = boolPtr(false)
	if got := Compute(in, Weights{Location: 100}, now); got != 100 {
		t.Errorf("no distance concern score = %d, want 100", got)
	}

	in.FeeConcernLevel = feePtr(domain.FeeConcernStrong)
	if got := Compute(in, Weights{Budget: 100}, now); got != 20 {
		t.Errorf("strong fee concern score = %d, want 20", got)
	}
}

func TestEngagementSaturatesAt100(t *testing.T) {
	now := time.Now().UTC()
	weights := Weights{Engagement: 100}

	in := ScoreInputs{TourStatus: domain.TourNone, CallConnectedCount: 2, LinkClicks: 2, RepliesCount: 1, CreatedAt: now}
	if got := Compute(in, weights, now); got != 80 {
		t.Errorf("engagement(2,2,1) = %d, want 80", got)
	}

	in = ScoreInputs{TourStatus: domain.TourNone, CallConnectedCount: 10, LinkClicks: 10, RepliesCount: 10, CreatedAt: now}
	if got := Compute(in, weights, now); got != 100 {
		t.Errorf("engagement saturation = %d, want 100", got)
	}
}

func TestDecayHalvesScoreAfterThirtyDays(t *testing.T) {
	now := time.Now().UTC()

	fresh := ScoreInputs{
		FirstResponseMinutes:   intPtr(10),
		TourStatus:             domain.TourNone,
		CreatedAt:              now,
		LastMeaningfulActionAt: timePtr(now),
	}
	stale := fresh
	stale.LastMeaningfulActionAt = timePtr(now.AddDate(0, 0, -31))

	freshScore := Compute(fresh, responsivenessOnly, now)
	staleScore := Compute(stale, responsivenessOnly, now)

	if freshScore != 100 {
		t.Fatalf("fresh score = %d, want 100", freshScore)
	}
	if staleScore != 50 {
		t.Errorf("31-day stale score = %d, want 50 (half of pre-decay)", staleScore)
	}
}

func TestDecayTiers(t *testing.T) {
	now := time.Now().UTC()

	cases := []struct {
		daysAgo int
		want    int
	}{
		{0, 100},
		{6, 100},
		{7, 85},
		{14, 85},
		{15, 70},
		{29, 70},
		{30, 50},
	}

	for _, tc := range cases {
		in := ScoreInputs{
			FirstResponseMinutes:   intPtr(10),
			TourStatus:             domain.TourNone,
			CreatedAt:              now,
			LastMeaningfulActionAt: timePtr(now.AddDate(0, 0, -tc.daysAgo)),
		}
		if got := Compute(in, responsivenessOnly, now); got != tc.want {
			t.Errorf("decay at %d days = %d, want %d", tc.daysAgo, got, tc.want)
		}
	}
}

func TestDecayFallsBackToCreatedAt(t *testing.T) {
	now := time.Now().UTC()

	in := ScoreInputs{
		FirstResponseMinutes: intPtr(10),
		TourStatus:           domain.TourNone,
		CreatedAt:            now.AddDate(0, 0, -31),
	}
	if got := Compute(in, responsivenessOnly, now); got != 50 {
		t.Errorf("createdAt fallback decay = %d, want 50", got)
	}
}

// Weights that do not sum to 100 must still produce a clamped [0,100] score.
func TestScoreClampedWhenWeightsExceedHundred(t *testing.T) {
	now := time.Now().UTC()

	in := ScoreInputs{
		FirstResponseMinutes:   intPtr(10),
		TourStatus:             domain.TourCompleted,
		RepliesCount:           10,
		DistanceConcern:        boolPtr(false),
		FeeConcernLevel:        feePtr(domain.FeeConcernNone),
		CallConnectedCount:     5,
		LinkClicks:             5,
		CreatedAt:              now,
		LastMeaningfulActionAt: timePtr(now),
	}

	inflated := Weights{Responsiveness: 100, ProgramInterest: 100, Location: 100, Budget: 100, Engagement: 100}
	if got := Compute(in, inflated, now); got != 100 {
		t.Errorf("inflated weights score = %d, want clamp at 100", got)
	}

	if got := Compute(in, Weights{}, now); got != 0 {
		t.Errorf("zero weights score = %d, want 0", got)
	}
}

// A lead saturating every factor under default weights with no decay must
// score exactly 100.
func TestFullySaturatedLeadScoresHundred(t *testing.T) {
	now := time.Now().UTC()

	in := ScoreInputs{
		FirstResponseMinutes:   intPtr(10),
		TourStatus:             domain.TourCompleted,
		RepliesCount:           10,
		DistanceConcern:        boolPtr(false),
		FeeConcernLevel:        feePtr(domain.FeeConcernNone),
		CallConnectedCount:     3,
		LinkClicks:             2,
		CreatedAt:              now,
		LastMeaningfulActionAt: timePtr(now),
	}

	if got := Compute(in, DefaultWeights(), now); got != 100 {
		t.Errorf("saturated lead score = %d, want 100", got)
	}
}

func TestComputeDetailedReportsFactors(t *testing.T) {
	now := time.Now().UTC()

	in := ScoreInputs{
		FirstResponseMinutes: intPtr(45),
		TourStatus:           domain.TourScheduled,
		CreatedAt:            now,
	}

	_, breakdown := ComputeDetailed(in, DefaultWeights(), now)
	if breakdown.Version != "2026-v1" {
		t.Errorf("breakdown version = %q, want 2026-v1", breakdown.Version)
	}
	if breakdown.Factors["responsiveness"] != 80 {
		t.Errorf("responsiveness factor = %d, want 80", breakdown.Factors["responsiveness"])
	}
	if breakdown.Factors["programInterest"] != 80 {
		t.Errorf("programInterest factor = %d, want 80", breakdown.Factors["programInterest"])
	}
	if breakdown.Factors["location"] != 50 {
		t.Errorf("location factor = %d, want 50", breakdown.Factors["location"])
	}
}
