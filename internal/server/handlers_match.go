package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/match"
)

// MentorMatchRequest is the body for POST /api/v1/match/mentors.
type MentorMatchRequest struct {
	Request    match.MentorRequest `json:"request"`
	Candidates []match.Mentor      `json:"candidates"`
}

func (s *Server) handleMentorMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req MentorMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	payload, err := s.service.MentorMatches(r.Context(), identity(r), req.Request, req.Candidates)
	s.respond(w, payload, err)
}

// RoommateMatchRequest is the body for POST /api/v1/match/roommates.
type RoommateMatchRequest struct {
	Profiles []match.RoommateProfile `json:"profiles"`
}

// handleRoommates scores pairs on POST and lists stored matches on
// GET (?profile_id=...).
func (s *Server) handleRoommates(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req RoommateMatchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
			return
		}
		if len(req.Profiles) < 2 {
			http.Error(w, "at least two profiles required", http.StatusBadRequest)
			return
		}
		payload, err := s.service.RoommateMatches(r.Context(), identity(r), req.Profiles)
		s.respond(w, payload, err)

	case http.MethodGet:
		profileID := r.URL.Query().Get("profile_id")
		if profileID == "" {
			http.Error(w, "profile_id query parameter required", http.StatusBadRequest)
			return
		}
		matches, err := s.service.StoredRoommateMatches(r.Context(), profileID)
		if err != nil {
			s.logger.Error("list roommate matches failed", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    matches,
		})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ResearchScoreRequest is the body for POST /api/v1/match/research.
type ResearchScoreRequest struct {
	Project    match.ResearchProject     `json:"project"`
	Applicants []match.ResearchApplicant `json:"applicants"`
}

func (s *Server) handleResearchScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req ResearchScoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	payload, err := s.service.ResearchScores(r.Context(), identity(r), req.Project, req.Applicants)
	s.respond(w, payload, err)
}

// HousingRequest is the body for POST /api/v1/match/housing.
type HousingRequest struct {
	Listings []match.HousingListing `json:"listings"`
}

func (s *Server) handleHousing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req HousingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	payload, err := s.service.HousingAffordability(r.Context(), identity(r), req.Listings)
	s.respond(w, payload, err)
}
