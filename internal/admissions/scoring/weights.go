package scoring

import (
	"encoding/json"
	"fmt"
)

// Weights maps each scoring factor to its integer percentage. The five
// values are expected to sum to 100; UpdateSettings enforces that at the
// write boundary, while the engine itself trusts whatever it is given and
// relies on the final clamp (pre-existing rows may carry bad sums).
type Weights struct {
	Responsiveness  int `json:"responsiveness"`
	ProgramInterest int `json:"programInterest"`
	Location        int `json:"location"`
	Budget          int `json:"budget"`
	Engagement      int `json:"engagement"`
}

// DefaultWeights is the documented fallback weight set, used when a school
// has no stored settings or the stored JSON is unparsable.
func DefaultWeights() Weights {
	return Weights{
		Responsiveness:  30,
		ProgramInterest: 25,
		Location:        15,
		Budget:          20,
		Engagement:      10,
	}
}

// Sum returns the total of the five weight percentages.
func (w Weights) Sum() int {
	return w.Responsiveness + w.ProgramInterest + w.Location + w.Budget + w.Engagement
}

// Validate checks the invariants enforced at the settings-write boundary.
func (w Weights) Validate() error {
	for name, v := range map[string]int{
		"responsiveness":  w.Responsiveness,
		"programInterest": w.ProgramInterest,
		"location":        w.Location,
		"budget":          w.Budget,
		"engagement":      w.Engagement,
	} {
		if v < 0 {
			return fmt.Errorf("weight %s must not be negative", name)
		}
	}

	if sum := w.Sum(); sum != 100 {
		return fmt.Errorf("weights must sum to 100, got %d", sum)
	}

	return nil
}

// ParseWeights decodes the stored weights JSON. On malformed input it returns
// the default weight set along with the parse error so callers can log the
// fallback without failing the score computation.
func ParseWeights(raw []byte) (Weights, error) {
	if len(raw) == 0 {
		return DefaultWeights(), nil
	}

	var w Weights
	if err := json.Unmarshal(raw, &w); err != nil {
		return DefaultWeights(), fmt.Errorf("parse weights: %w", err)
	}

	return w, nil
}
