package assist

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/cache"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/llm"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/metrics"
)

const (
	summarySystemPrompt = "You summarize campus announcements and documents for busy students. " +
		"Respond with a JSON array of short bullet strings and nothing else."
	resumeSystemPrompt = "You are a university career advisor. Give concise, actionable resume " +
		"feedback as a JSON array of suggestion strings and nothing else."
	wellnessSystemPrompt = "You are a campus wellness coach. Offer supportive, practical tips " +
		"as a JSON array of short strings and nothing else. Never give medical advice."
)

// SummaryData is the payload body for summarization features.
type SummaryData struct {
	Bullets []string `json:"bullets,omitempty"`
	Text    string   `json:"text,omitempty"`
}

// Summarize produces bullet points for the given text, serving from
// cache when an equivalent request was answered within the TTL.
func (s *Service) Summarize(ctx context.Context, identity, text string, maxBullets int) (*Payload, error) {
	if maxBullets <= 0 {
		maxBullets = 5
	}
	normalized := cache.NormalizeText(text)
	key := cache.Fingerprint("summary", normalized, s.modelName(), strconv.Itoa(maxBullets))
	user := "Summarize in at most " + strconv.Itoa(maxBullets) + " bullets:\n\n" + text
	fallback := func() SummaryData {
		return SummaryData{Bullets: SplitSentences(text, maxBullets)}
	}
	return s.generate(ctx, "summary", identity, cache.ScopeSummary, key, summarySystemPrompt, user, fallback)
}

// ResumeFeedback reviews resume text.
func (s *Service) ResumeFeedback(ctx context.Context, identity, resume string) (*Payload, error) {
	normalized := cache.NormalizeText(resume)
	key := cache.Fingerprint("resume", normalized, s.modelName())
	fallback := func() SummaryData {
		return SummaryData{Bullets: ResumeChecklist(resume)}
	}
	return s.generate(ctx, "resume", identity, cache.ScopeResume, key, resumeSystemPrompt,
		"Review this resume:\n\n"+resume, fallback)
}

// WellnessTips suggests wellness tips for the stated focus areas.
func (s *Service) WellnessTips(ctx context.Context, identity string, focus []string) (*Payload, error) {
	normalizedFocus := cache.NormalizeList(focus)
	key := cache.Fingerprint("wellness", normalizedFocus, s.modelName())
	fallback := func() SummaryData {
		return SummaryData{Bullets: WellnessFallback(focus)}
	}
	return s.generate(ctx, "wellness", identity, cache.ScopeWellness, key, wellnessSystemPrompt,
		"A student wants wellness tips focused on: "+normalizedFocus, fallback)
}

// generate is the shared pipeline for generation-shaped features:
// rate check, cache lookup, LLM call or deterministic fallback, cache
// write. A configured client that exhausts retries is the only path
// that surfaces an error beyond rate limiting.
func (s *Service) generate(ctx context.Context, feature, identity string, scope cache.Scope, key, system, user string, fallback func() SummaryData) (*Payload, error) {
	started := time.Now()
	requestID := newRequestID()

	if err := s.admit(ctx, identity, feature, requestID); err != nil {
		return nil, err
	}

	if raw, ok := s.cacheGet(ctx, scope, key); ok {
		var data SummaryData
		if err := json.Unmarshal(raw, &data); err == nil {
			s.finish(feature, identity, requestID, "ok", true, started)
			return &Payload{Success: true, Data: data, Meta: Meta{Cached: true, RequestID: requestID}}, nil
		}
		// A corrupt entry falls through to recompute.
	}

	var data SummaryData
	usedFallback := false
	if s.gen != nil && s.gen.Configured() {
		llmStart := time.Now()
		content, err := s.gen.Complete(ctx, system, user, llm.Options{
			Temperature: s.cfg.Temperature,
			MaxTokens:   s.cfg.MaxTokens,
		})
		metrics.LLMRequestDuration.Observe(time.Since(llmStart).Seconds())
		if err != nil {
			var transient *llm.TransientError
			permanent := !errors.As(err, &transient)
			if permanent {
				metrics.LLMRequestsTotal.WithLabelValues("permanent_failure").Inc()
			} else {
				metrics.LLMRequestsTotal.WithLabelValues("transient_failure").Inc()
			}
			s.logger.Error("llm generation failed", zap.String("feature", feature), zap.Error(err))
			s.finish(feature, identity, requestID, "unavailable", false, started)
			return nil, &UnavailableError{Permanent: permanent, Err: err}
		}
		metrics.LLMRequestsTotal.WithLabelValues("success").Inc()
		data = parseBullets(content)
	} else {
		metrics.FallbacksTotal.WithLabelValues(feature, "unconfigured").Inc()
		data = fallback()
		usedFallback = true
	}

	if raw, err := json.Marshal(data); err == nil {
		s.cacheSet(ctx, scope, key, raw)
	}

	s.finish(feature, identity, requestID, "ok", false, started)
	return &Payload{Success: true, Data: data, Meta: Meta{RequestID: requestID, Fallback: usedFallback}}, nil
}

// parseBullets interprets the model output as a JSON string array;
// malformed output degrades to unstructured text rather than erroring.
func parseBullets(content string) SummaryData {
	var bullets []string
	if err := json.Unmarshal([]byte(content), &bullets); err == nil && len(bullets) > 0 {
		return SummaryData{Bullets: bullets}
	}
	return SummaryData{Text: content}
}

func (s *Service) modelName() string {
	if s.cfg.DefaultModel != "" {
		return s.cfg.DefaultModel
	}
	return llm.DefaultModel
}
