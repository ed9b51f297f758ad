// Package match implements the portal's heuristic scorers: mentor
// ranking, roommate compatibility, research-application fit, and the
// housing affordability index. Every scorer is pure and total; missing
// optional fields contribute zero to their sub-score instead of
// producing an error.
package match

// Mentor is a candidate mentor profile.
type Mentor struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Field    string   `json:"field"`
	Skills   []string `json:"skills"`
	Personas []string `json:"personas"`
	Capacity int      `json:"capacity"` // open mentee slots
}

// MentorRequest describes the student asking for mentors.
type MentorRequest struct {
	Interests []string `json:"interests"`
	Goals     []string `json:"goals"`
	Personas  []string `json:"personas"`
}

// RoommateProfile is one side of a pairwise compatibility score.
type RoommateProfile struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	SleepSchedule string  `json:"sleep_schedule"` // e.g. "early_bird", "night_owl"
	Smoker        *bool   `json:"smoker,omitempty"`
	OkWithPets    *bool   `json:"ok_with_pets,omitempty"`
	Cleanliness   int     `json:"cleanliness"` // 1-5 self rating
	SocialLevel   string  `json:"social_level"`
	MaxRent       float64 `json:"max_rent"`
}

// ResearchProject describes an open research position.
type ResearchProject struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	MinGPA         float64  `json:"min_gpa"` // 0 means no minimum
	RequiredSkills []string `json:"required_skills"`
}

// ResearchApplicant is a student applying to a project.
type ResearchApplicant struct {
	ID          string  `json:"id"`
	GPA         float64 `json:"gpa"`
	Skills      string  `json:"skills"` // free-text, comma separated
	Experience  string  `json:"experience"`
	Coursework  string  `json:"coursework"`
	WeeklyHours int     `json:"weekly_hours"`
}

// HousingListing is a single listing scored for affordability.
type HousingListing struct {
	ID           string  `json:"id"`
	Rent         float64 `json:"rent"`
	AvgUtilities float64 `json:"avg_utilities"`
}

// ScoredCandidate pairs any scored entity with its bounded score, a
// human-readable rationale, and the named sub-score breakdown the
// total was derived from.
type ScoredCandidate struct {
	Candidate interface{}        `json:"candidate"`
	Score     float64            `json:"score"`
	Rationale []string           `json:"rationale"`
	SubScores map[string]float64 `json:"sub_scores,omitempty"`
}
