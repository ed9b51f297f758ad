package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/assist"
)

// SummaryRequest is the body for POST /api/v1/assist/summary.
type SummaryRequest struct {
	Text       string `json:"text"`
	MaxBullets int    `json:"max_bullets,omitempty"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req SummaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Text == "" {
		http.Error(w, "text cannot be empty", http.StatusBadRequest)
		return
	}
	payload, err := s.service.Summarize(r.Context(), identity(r), req.Text, req.MaxBullets)
	s.respond(w, payload, err)
}

// ResumeRequest is the body for POST /api/v1/assist/resume.
type ResumeRequest struct {
	Resume string `json:"resume"`
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req ResumeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Resume == "" {
		http.Error(w, "resume cannot be empty", http.StatusBadRequest)
		return
	}
	payload, err := s.service.ResumeFeedback(r.Context(), identity(r), req.Resume)
	s.respond(w, payload, err)
}

// WellnessRequest is the body for POST /api/v1/assist/wellness.
type WellnessRequest struct {
	Focus []string `json:"focus,omitempty"`
}

func (s *Server) handleWellness(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req WellnessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request: "+err.Error(), http.StatusBadRequest)
		return
	}
	payload, err := s.service.WellnessTips(r.Context(), identity(r), req.Focus)
	s.respond(w, payload, err)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":         "healthy",
		"redis":          s.cfg.Redis.Addr != "",
		"llm_configured": s.cfg.OpenAI.APIKey != "",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}

// respond maps service results and errors onto HTTP. Rate-limit
// rejections and generation exhaustion are the only caller-visible
// error statuses.
func (s *Server) respond(w http.ResponseWriter, payload *assist.Payload, err error) {
	if err != nil {
		if errors.Is(err, assist.ErrRateLimited) {
			http.Error(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
			return
		}
		var unavailable *assist.UnavailableError
		if errors.As(err, &unavailable) {
			if unavailable.Permanent {
				http.Error(w, "Generation request rejected: "+unavailable.Err.Error(), http.StatusBadRequest)
			} else {
				http.Error(w, "Generation temporarily unavailable. Please try again later.", http.StatusServiceUnavailable)
			}
			return
		}
		s.logger.Error("assist request failed", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}
