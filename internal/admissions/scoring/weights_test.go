package scoring

import "testing"

func TestParseWeightsFallsBackToDefaultsOnGarbage(t *testing.T) {
	w, err := ParseWeights([]byte(`{not json`))
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if w != DefaultWeights() {
		t.Fatalf("expected default weights on parse failure, got %+v", w)
	}
}

func TestParseWeightsEmptyUsesDefaults(t *testing.T) {
	w, err := ParseWeights(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != DefaultWeights() {
		t.Fatalf("expected default weights, got %+v", w)
	}
}

func TestParseWeightsRoundTrip(t *testing.T) {
	w, err := ParseWeights([]byte(`{"responsiveness":50,"programInterest":20,"location":10,"budget":10,"engagement":10}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.Responsiveness != 50 || w.Engagement != 10 {
		t.Fatalf("unexpected weights: %+v", w)
	}
}

func TestValidateRejectsBadSums(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("default weights must validate: %v", err)
	}

	bad := Weights{Responsiveness: 50, ProgramInterest: 50, Location: 50}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected validation error for sum != 100")
	}

	negative := Weights{Responsiveness: 120, ProgramInterest: -20}
	if err := negative.Validate(); err == nil {
		t.Fatalf("expected validation error for negative weight")
	}
}
