package assist

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/audit"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/cache"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/llm"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/match"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/metrics"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/store"
)

// MentorMatchData is the body for mentor ranking responses.
type MentorMatchData struct {
	Matches   []match.ScoredCandidate `json:"matches"`
	Narrative string                  `json:"narrative,omitempty"`
}

// MentorMatches ranks candidate mentors for the requester. Heuristic
// scores are always computed; when an LLM is configured a short
// narrative is merged in, and any LLM failure is absorbed silently.
func (s *Service) MentorMatches(ctx context.Context, identity string, req match.MentorRequest, candidates []match.Mentor) (*Payload, error) {
	started := time.Now()
	requestID := newRequestID()

	if err := s.admit(ctx, identity, "mentor_match", requestID); err != nil {
		return nil, err
	}

	key := cache.Fingerprint("mentors",
		cache.NormalizeList(req.Interests),
		cache.NormalizeList(req.Goals),
		cache.NormalizeList(req.Personas),
		mentorSetKey(candidates))

	if raw, ok := s.cacheGet(ctx, cache.ScopeMatch, key); ok {
		var data MentorMatchData
		if err := json.Unmarshal(raw, &data); err == nil {
			s.finish("mentor_match", identity, requestID, "ok", true, started)
			return &Payload{Success: true, Data: data, Meta: Meta{Cached: true, RequestID: requestID}}, nil
		}
	}

	data := MentorMatchData{Matches: match.RankMentors(req, candidates)}
	data.Narrative = s.narrative(ctx,
		"You introduce mentor matches to students in two encouraging sentences.",
		mentorNarrativePrompt(req, data.Matches))

	if raw, err := json.Marshal(data); err == nil {
		s.cacheSet(ctx, cache.ScopeMatch, key, raw)
	}

	s.finish("mentor_match", identity, requestID, "ok", false, started)
	return &Payload{Success: true, Data: data, Meta: Meta{RequestID: requestID}}, nil
}

// RoommateMatchData is the body for pairwise roommate responses.
type RoommateMatchData struct {
	Pairs []RoommatePair `json:"pairs"`
}

// RoommatePair is one scored (and possibly materialized) pairing.
type RoommatePair struct {
	AID    string              `json:"a_id"`
	BID    string              `json:"b_id"`
	Result match.RoommateScore `json:"result"`
	Stored bool                `json:"stored"`
}

// RoommateMatches scores every unordered pair among the submitted
// profiles and persists the ones clearing the materialization cutoff.
// Storage failures degrade to unstored results rather than erroring.
func (s *Service) RoommateMatches(ctx context.Context, identity string, profiles []match.RoommateProfile) (*Payload, error) {
	started := time.Now()
	requestID := newRequestID()

	if err := s.admit(ctx, identity, "roommate_match", requestID); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var pairs []RoommatePair
	for i := 0; i < len(profiles); i++ {
		for j := i + 1; j < len(profiles); j++ {
			a, b := profiles[i], profiles[j]
			if a.ID == b.ID {
				continue
			}
			pk := match.PairKey(a.ID, b.ID)
			if seen[pk] {
				continue
			}
			seen[pk] = true

			result := match.ScoreRoommates(a, b)
			pair := RoommatePair{AID: a.ID, BID: b.ID, Result: result}
			if result.Materialize() && s.matches != nil {
				if err := s.matches.SaveRoommateMatch(ctx, a.ID, b.ID, result); err != nil {
					s.logger.Warn("failed to store roommate match",
						zap.String("pair", pk), zap.Error(err))
				} else {
					pair.Stored = true
					s.auditor.Record(audit.Event{
						Type:      audit.EventMatchStored,
						Feature:   "roommate_match",
						Identity:  identity,
						RequestID: requestID,
						Status:    "stored",
						Timestamp: time.Now().UTC(),
					})
				}
			}
			pairs = append(pairs, pair)
		}
	}

	s.finish("roommate_match", identity, requestID, "ok", false, started)
	return &Payload{Success: true, Data: RoommateMatchData{Pairs: pairs}, Meta: Meta{RequestID: requestID}}, nil
}

// StoredRoommateMatches lists the materialized match list for one
// profile.
func (s *Service) StoredRoommateMatches(ctx context.Context, profileID string) ([]store.RoommateMatch, error) {
	if s.matches == nil {
		return nil, nil
	}
	return s.matches.ListRoommateMatches(ctx, profileID)
}

// ResearchScores rates each applicant against the project.
func (s *Service) ResearchScores(ctx context.Context, identity string, project match.ResearchProject, applicants []match.ResearchApplicant) (*Payload, error) {
	started := time.Now()
	requestID := newRequestID()

	if err := s.admit(ctx, identity, "research_score", requestID); err != nil {
		return nil, err
	}

	scored := make([]match.ScoredCandidate, 0, len(applicants))
	for _, app := range applicants {
		scored = append(scored, match.ScoreResearchApplication(project, app))
	}

	s.finish("research_score", identity, requestID, "ok", false, started)
	return &Payload{Success: true, Data: scored, Meta: Meta{RequestID: requestID}}, nil
}

// HousingAffordability computes the banded index for each listing.
func (s *Service) HousingAffordability(ctx context.Context, identity string, listings []match.HousingListing) (*Payload, error) {
	started := time.Now()
	requestID := newRequestID()

	if err := s.admit(ctx, identity, "housing_index", requestID); err != nil {
		return nil, err
	}

	scored := make([]match.ScoredCandidate, 0, len(listings))
	for _, l := range listings {
		scored = append(scored, match.AffordabilityIndex(l, s.cfg.HousingRef))
	}

	s.finish("housing_index", identity, requestID, "ok", false, started)
	return &Payload{Success: true, Data: scored, Meta: Meta{RequestID: requestID}}, nil
}

// narrative asks the LLM for flavor text around heuristic results.
// Matching features never fail on LLM errors, so any failure returns
// an empty narrative.
func (s *Service) narrative(ctx context.Context, system, user string) string {
	if s.gen == nil || !s.gen.Configured() {
		return ""
	}
	llmStart := time.Now()
	content, err := s.gen.Complete(ctx, system, user, llm.Options{
		Temperature: s.cfg.Temperature,
		MaxTokens:   200,
	})
	metrics.LLMRequestDuration.Observe(time.Since(llmStart).Seconds())
	if err != nil {
		metrics.LLMRequestsTotal.WithLabelValues("absorbed_failure").Inc()
		s.logger.Debug("narrative generation failed, continuing without", zap.Error(err))
		return ""
	}
	metrics.LLMRequestsTotal.WithLabelValues("success").Inc()
	return content
}

func mentorNarrativePrompt(req match.MentorRequest, matches []match.ScoredCandidate) string {
	var names []string
	for _, m := range matches {
		names = append(names, m.Candidate.(match.Mentor).Name)
	}
	return "Interests: " + strings.Join(req.Interests, ", ") +
		". Matched mentors: " + strings.Join(names, ", ") + "."
}

// mentorSetKey folds the candidate set into the fingerprint so a
// changed roster invalidates the cached ranking.
func mentorSetKey(candidates []match.Mentor) string {
	parts := make([]string, 0, len(candidates))
	for _, m := range candidates {
		parts = append(parts, m.ID+":"+strconv.Itoa(m.Capacity))
	}
	return cache.NormalizeList(parts)
}
