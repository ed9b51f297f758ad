package match

import "fmt"

// DefaultAffordabilityReference is the monthly cost, in dollars, the
// index treats as comfortably affordable for a student budget.
const DefaultAffordabilityReference = 800.0

// AffordabilityIndex maps a listing's total monthly cost (rent plus
// average utilities) onto a banded score relative to the reference
// point. It is a non-increasing step function, not a continuous one:
// costs at exactly the reference, 1.2x, 1.5x, and 2x score 100, 80,
// 60, and 40; anything above 2x scores 20.
func AffordabilityIndex(listing HousingListing, reference float64) ScoredCandidate {
	if reference <= 0 {
		reference = DefaultAffordabilityReference
	}
	total := listing.Rent + listing.AvgUtilities

	var score float64
	var band string
	switch {
	case total <= reference:
		score, band = 100, "well within a typical student budget"
	case total <= 1.2*reference:
		score, band = 80, "slightly above the reference budget"
	case total <= 1.5*reference:
		score, band = 60, "moderately above the reference budget"
	case total <= 2*reference:
		score, band = 40, "well above the reference budget"
	default:
		score, band = 20, "far above the reference budget"
	}

	return ScoredCandidate{
		Candidate: listing,
		Score:     score,
		Rationale: []string{fmt.Sprintf("total monthly cost $%.0f is %s", total, band)},
		SubScores: map[string]float64{"total_cost": total},
	}
}
