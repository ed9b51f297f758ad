package match

import (
	"fmt"
	"strings"
)

// Band caps for research-application fit. The bands sum to 100; the
// final score is clamped there anyway in case the caps ever drift.
const (
	gpaBandMax          = 20.0
	gpaNoMinimumCredit  = 10.0
	skillsBandMax       = 30.0
	experienceBandMax   = 25.0
	courseworkBandMax   = 15.0
	availabilityBandMax = 10.0
)

// ScoreResearchApplication rates an applicant against a project as a
// weighted sum of five bounded bands. The rationale lists only the
// factors that contributed positively.
func ScoreResearchApplication(project ResearchProject, app ResearchApplicant) ScoredCandidate {
	var rationale []string

	gpa := gpaBand(project, app)
	if gpa > 0 {
		if project.MinGPA > 0 {
			rationale = append(rationale, fmt.Sprintf("GPA %.2f clears the %.2f minimum", app.GPA, project.MinGPA))
		} else {
			rationale = append(rationale, "no GPA minimum set")
		}
	}

	skills, matched := skillsBand(project, app)
	if skills > 0 {
		rationale = append(rationale, fmt.Sprintf("%d of %d required skills listed", matched, len(project.RequiredSkills)))
	}

	experience := steppedBand(len(strings.TrimSpace(app.Experience)), 500, 200, experienceBandMax, 15, 5)
	if experience > 5 {
		rationale = append(rationale, "substantial experience described")
	}

	coursework := steppedBand(len(strings.TrimSpace(app.Coursework)), 300, 100, courseworkBandMax, 8, 3)
	if coursework > 3 {
		rationale = append(rationale, "relevant coursework described")
	}

	availability := availabilityBand(app.WeeklyHours)
	if availability > 2 {
		rationale = append(rationale, fmt.Sprintf("%d hours per week available", app.WeeklyHours))
	}

	total := clamp(gpa+skills+experience+coursework+availability, 0, 100)

	return ScoredCandidate{
		Candidate: app,
		Score:     total,
		Rationale: rationale,
		SubScores: map[string]float64{
			"gpa":          gpa,
			"skills":       skills,
			"experience":   experience,
			"coursework":   coursework,
			"availability": availability,
		},
	}
}

// gpaBand is proportional to the applicant's margin over the project
// minimum, full credit one grade point above it. Projects without a
// minimum give flat partial credit; applicants below the minimum get
// nothing.
func gpaBand(project ResearchProject, app ResearchApplicant) float64 {
	if project.MinGPA <= 0 {
		return gpaNoMinimumCredit
	}
	margin := app.GPA - project.MinGPA
	if margin < 0 {
		return 0
	}
	if margin > 1 {
		margin = 1
	}
	return gpaBandMax * margin
}

// skillsBand is proportional to the fraction of required skills
// textually present in the applicant's free-text skill list.
func skillsBand(project ResearchProject, app ResearchApplicant) (float64, int) {
	if len(project.RequiredSkills) == 0 {
		return 0, 0
	}
	haystack := strings.ToLower(app.Skills)
	matched := 0
	for _, skill := range project.RequiredSkills {
		needle := strings.ToLower(strings.TrimSpace(skill))
		if needle != "" && strings.Contains(haystack, needle) {
			matched++
		}
	}
	return skillsBandMax * float64(matched) / float64(len(project.RequiredSkills)), matched
}

// steppedBand maps a free-text length onto full/partial/minimal credit.
func steppedBand(length, fullAt, partialAt int, full, partial, minimal float64) float64 {
	switch {
	case length > fullAt:
		return full
	case length > partialAt:
		return partial
	default:
		return minimal
	}
}

func availabilityBand(hours int) float64 {
	switch {
	case hours >= 15:
		return availabilityBandMax
	case hours >= 10:
		return 6
	default:
		return 2
	}
}
