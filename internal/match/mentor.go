package match

import (
	"fmt"
	"sort"
	"strings"
)

// Scoring weights for mentor ranking. Integer arithmetic throughout;
// the mentor scorer has no floating-point path.
const (
	mentorSkillPoints   = 2
	mentorFieldBonus    = 1
	mentorCapacityBonus = 2
	mentorPersonaBonus  = 1
	mentorResultLimit   = 3
)

// RankMentors scores every candidate against the request and returns
// the top candidates with open capacity, preserving input order on
// ties. If no scored candidate has capacity the single highest-scored
// mentor is returned anyway, so a nonempty candidate list never yields
// an empty result.
func RankMentors(req MentorRequest, candidates []Mentor) []ScoredCandidate {
	if len(candidates) == 0 {
		return nil
	}

	scored := make([]ScoredCandidate, 0, len(candidates))
	for _, m := range candidates {
		scored = append(scored, scoreMentor(req, m))
	}

	// Stable keeps input order for equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	available := make([]ScoredCandidate, 0, mentorResultLimit)
	for _, sc := range scored {
		if sc.Candidate.(Mentor).Capacity > 0 {
			available = append(available, sc)
			if len(available) == mentorResultLimit {
				break
			}
		}
	}
	if len(available) == 0 {
		return scored[:1]
	}
	return available
}

func scoreMentor(req MentorRequest, m Mentor) ScoredCandidate {
	var score int
	var rationale []string

	skillHits := 0
	fieldHit := false
	field := strings.ToLower(m.Field)
	for _, interest := range req.Interests {
		needle := strings.ToLower(strings.TrimSpace(interest))
		if needle == "" {
			continue
		}
		for _, skill := range m.Skills {
			if strings.Contains(strings.ToLower(skill), needle) {
				skillHits++
				break
			}
		}
		if strings.Contains(field, needle) {
			fieldHit = true
		}
	}
	if skillHits > 0 {
		score += mentorSkillPoints * skillHits
		rationale = append(rationale, fmt.Sprintf("%d shared skill area(s)", skillHits))
	}
	if fieldHit {
		score += mentorFieldBonus
		rationale = append(rationale, "working in your field of interest")
	}
	if m.Capacity > 0 {
		score += mentorCapacityBonus
		rationale = append(rationale, "has open mentee slots")
	}
	if overlaps(req.Personas, m.Personas) {
		score += mentorPersonaBonus
		rationale = append(rationale, "matching mentorship style")
	}

	return ScoredCandidate{
		Candidate: m,
		Score:     float64(score),
		Rationale: rationale,
		SubScores: map[string]float64{
			"skills":   float64(mentorSkillPoints * skillHits),
			"field":    boolPoints(fieldHit, mentorFieldBonus),
			"capacity": boolPoints(m.Capacity > 0, mentorCapacityBonus),
			"persona":  boolPoints(overlaps(req.Personas, m.Personas), mentorPersonaBonus),
		},
	}
}

func overlaps(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if strings.EqualFold(strings.TrimSpace(x), strings.TrimSpace(y)) && strings.TrimSpace(x) != "" {
				return true
			}
		}
	}
	return false
}

func boolPoints(cond bool, points int) float64 {
	if cond {
		return float64(points)
	}
	return 0
}
