package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreMentorIntegerArithmetic(t *testing.T) {
	// One interest substring hit in skills, no field/persona overlap,
	// no capacity: exactly 2 points.
	req := MentorRequest{Interests: []string{"python", "internships"}}
	m := Mentor{ID: "m1", Field: "biology", Skills: []string{"python", "ml"}}

	sc := scoreMentor(req, m)
	assert.Equal(t, float64(2), sc.Score)
	assert.Equal(t, float64(2), sc.SubScores["skills"])
	assert.Zero(t, sc.SubScores["field"])
	assert.Zero(t, sc.SubScores["capacity"])
	assert.Zero(t, sc.SubScores["persona"])
}

func TestScoreMentorAllBonuses(t *testing.T) {
	req := MentorRequest{
		Interests: []string{"machine learning"},
		Personas:  []string{"hands-on"},
	}
	m := Mentor{
		ID:       "m1",
		Field:    "machine learning research",
		Skills:   []string{"machine learning", "statistics"},
		Personas: []string{"Hands-On"},
		Capacity: 2,
	}

	sc := scoreMentor(req, m)
	// 2 (skill) + 1 (field) + 2 (capacity) + 1 (persona)
	assert.Equal(t, float64(6), sc.Score)
	assert.Len(t, sc.Rationale, 4)
}

func TestRankMentorsPrefersAvailability(t *testing.T) {
	req := MentorRequest{Interests: []string{"go"}}
	busy := Mentor{ID: "busy", Skills: []string{"go"}, Capacity: 0}
	free := Mentor{ID: "free", Skills: []string{"go"}, Capacity: 1}

	ranked := RankMentors(req, []Mentor{busy, free})
	require.NotEmpty(t, ranked)
	// Identical overlap: the available mentor must rank at or above
	// the unavailable one, and only available mentors are returned.
	assert.Equal(t, "free", ranked[0].Candidate.(Mentor).ID)
	for _, sc := range ranked {
		assert.Positive(t, sc.Candidate.(Mentor).Capacity)
	}
}

func TestRankMentorsFallbackWhenNoneAvailable(t *testing.T) {
	req := MentorRequest{Interests: []string{"go"}}
	a := Mentor{ID: "a", Skills: []string{"go"}, Capacity: 0}
	b := Mentor{ID: "b", Skills: []string{"rust"}, Capacity: 0}

	ranked := RankMentors(req, []Mentor{a, b})
	// A nonempty candidate list never yields an empty result; the
	// single best-scored mentor is returned regardless of capacity.
	require.Len(t, ranked, 1)
	assert.Equal(t, "a", ranked[0].Candidate.(Mentor).ID)
}

func TestRankMentorsLimitsToThree(t *testing.T) {
	req := MentorRequest{Interests: []string{"go"}}
	var candidates []Mentor
	for _, id := range []string{"m1", "m2", "m3", "m4", "m5"} {
		candidates = append(candidates, Mentor{ID: id, Skills: []string{"go"}, Capacity: 1})
	}

	ranked := RankMentors(req, candidates)
	assert.Len(t, ranked, 3)
}

func TestRankMentorsStableTieBreak(t *testing.T) {
	req := MentorRequest{Interests: []string{"go"}}
	first := Mentor{ID: "first", Skills: []string{"go"}, Capacity: 1}
	second := Mentor{ID: "second", Skills: []string{"go"}, Capacity: 1}

	ranked := RankMentors(req, []Mentor{first, second})
	require.Len(t, ranked, 2)
	assert.Equal(t, "first", ranked[0].Candidate.(Mentor).ID, "ties keep input order")
}

func TestRankMentorsEmptyInput(t *testing.T) {
	assert.Nil(t, RankMentors(MentorRequest{}, nil))
}
