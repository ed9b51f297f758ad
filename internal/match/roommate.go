package match

import (
	"fmt"
	"strings"
)

// Weighted combination for roommate compatibility. Sub-scores are each
// bounded [0,100] before weighting, so the combined score is too.
const (
	weightLifestyle   = 0.25
	weightSchedule    = 0.20
	weightCleanliness = 0.20
	weightSocial      = 0.15
	weightBudget      = 0.20

	// MatchThreshold is the hard cutoff for materializing a match:
	// combined score >= 50 is stored, anything below is not.
	MatchThreshold = 50.0

	// scheduleBaseline stands in for a schedule comparison that was
	// never finished upstream; there is no finer signal to compare
	// yet. Kept for behavioral parity.
	scheduleBaseline = 70.0
)

// RoommateScore holds the pairwise result. Sub-scores are computed
// from symmetric matches and absolute differences, so
// ScoreRoommates(a, b) == ScoreRoommates(b, a).
type RoommateScore struct {
	Combined  float64            `json:"score"`
	SubScores map[string]float64 `json:"sub_scores"`
	Rationale []string           `json:"rationale"`
}

// Materialize reports whether the pair clears the storage cutoff.
func (s RoommateScore) Materialize() bool {
	return s.Combined >= MatchThreshold
}

// ScoreRoommates computes the five-factor weighted compatibility of a
// pair of profiles.
func ScoreRoommates(a, b RoommateProfile) RoommateScore {
	lifestyle := lifestyleScore(a, b)
	cleanliness := cleanlinessScore(a, b)
	social := socialScore(a, b)
	budget := budgetScore(a, b)

	combined := lifestyle*weightLifestyle +
		scheduleBaseline*weightSchedule +
		cleanliness*weightCleanliness +
		social*weightSocial +
		budget*weightBudget

	var rationale []string
	if eqFold(a.SleepSchedule, b.SleepSchedule) {
		rationale = append(rationale, "same sleep schedule")
	}
	if cleanliness >= 75 {
		rationale = append(rationale, "similar cleanliness standards")
	}
	if social == 100 {
		rationale = append(rationale, "matching social style")
	}
	if budget >= 90 {
		rationale = append(rationale, "compatible budgets")
	}
	if len(rationale) == 0 {
		rationale = append(rationale, fmt.Sprintf("overall compatibility %.0f%%", combined))
	}

	return RoommateScore{
		Combined: clamp(combined, 0, 100),
		SubScores: map[string]float64{
			"lifestyle":   lifestyle,
			"schedule":    scheduleBaseline,
			"cleanliness": cleanliness,
			"social":      social,
			"budget":      budget,
		},
		Rationale: rationale,
	}
}

// lifestyleScore: sleep schedule exact match 50, smoking preference
// match 25, pet compatibility 25. Unknown (nil) preferences contribute
// nothing.
func lifestyleScore(a, b RoommateProfile) float64 {
	var score float64
	if a.SleepSchedule != "" && eqFold(a.SleepSchedule, b.SleepSchedule) {
		score += 50
	}
	if a.Smoker != nil && b.Smoker != nil && *a.Smoker == *b.Smoker {
		score += 25
	}
	if a.OkWithPets != nil && b.OkWithPets != nil && *a.OkWithPets == *b.OkWithPets {
		score += 25
	}
	return score
}

// cleanlinessScore: 100 minus 25 per point of difference on the 1-5
// self-rating, floored at 0.
func cleanlinessScore(a, b RoommateProfile) float64 {
	diff := a.Cleanliness - b.Cleanliness
	if diff < 0 {
		diff = -diff
	}
	return clamp(100-25*float64(diff), 0, 100)
}

func socialScore(a, b RoommateProfile) float64 {
	if a.SocialLevel != "" && eqFold(a.SocialLevel, b.SocialLevel) {
		return 100
	}
	return 60
}

// budgetScore: 100 minus a tenth of the absolute rent-ceiling
// difference in dollars, floored at 0. A $50 gap scores 95.
func budgetScore(a, b RoommateProfile) float64 {
	diff := a.MaxRent - b.MaxRent
	if diff < 0 {
		diff = -diff
	}
	return clamp(100-diff/10, 0, 100)
}

// PairKey returns the unordered pair identity used to deduplicate
// pairwise scoring, so (a,b) and (b,a) are computed once.
func PairKey(aID, bID string) string {
	if aID > bID {
		aID, bID = bID, aID
	}
	return aID + "|" + bID
}

func eqFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
