package domain

// Band is the coarse propensity bucket derived from a 0-100 lead score.
type Band string

const (
	BandHot  Band = "HOT"
	BandWarm Band = "WARM"
	BandCool Band = "COOL"
	BandCold Band = "COLD"
)

// BandForScore buckets a score into its band. Boundaries are inclusive on the
// lower edge: 80+ HOT, 60-79 WARM, 40-59 COOL, below 40 COLD.
func BandForScore(score int) Band {
	switch {
	case score >= 80:
		return BandHot
	case score >= 60:
		return BandWarm
	case score >= 40:
		return BandCool
	default:
		return BandCold
	}
}
