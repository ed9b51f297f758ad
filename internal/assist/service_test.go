package assist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/cache"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/llm"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/match"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/ratelimit"
	"github.com/Cade-Cowdrey/Gorilla-Link-sub002/internal/store"
)

type fakeGenerator struct {
	configured bool
	calls      int
	content    string
	err        error
}

func (f *fakeGenerator) Configured() bool { return f.configured }

func (f *fakeGenerator) Complete(_ context.Context, _, _ string, _ llm.Options) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

type fakeMatchStore struct {
	saved []string
	fail  bool
}

func (f *fakeMatchStore) SaveRoommateMatch(_ context.Context, aID, bID string, _ match.RoommateScore) error {
	if f.fail {
		return errors.New("disk full")
	}
	f.saved = append(f.saved, match.PairKey(aID, bID))
	return nil
}

func (f *fakeMatchStore) ListRoommateMatches(_ context.Context, _ string) ([]store.RoommateMatch, error) {
	return nil, nil
}

func (f *fakeMatchStore) Close() error { return nil }

func newTestService(gen Generator, matches store.MatchStore) (*Service, *ratelimit.MemoryLimiter) {
	limiter := ratelimit.NewMemoryLimiter(ratelimit.Config{Requests: 100, Window: time.Minute})
	svc := NewService(Config{}, cache.NewMemoryStore(), limiter, gen, matches, nil, nil)
	return svc, limiter
}

func TestSummarizeCachesSemanticallyEqualRequests(t *testing.T) {
	gen := &fakeGenerator{configured: true, content: `["point one","point two"]`}
	svc, limiter := newTestService(gen, nil)
	defer limiter.Stop()
	ctx := context.Background()

	first, err := svc.Summarize(ctx, "user-1", "Hello   world", 5)
	require.NoError(t, err)
	assert.False(t, first.Meta.Cached)
	assert.Equal(t, 1, gen.calls)

	// Differs only in whitespace and case: must hit the same cache
	// entry without another external call.
	second, err := svc.Summarize(ctx, "user-1", "hello world", 5)
	require.NoError(t, err)
	assert.True(t, second.Meta.Cached)
	assert.Equal(t, 1, gen.calls)

	data, ok := second.Data.(SummaryData)
	require.True(t, ok)
	assert.Equal(t, []string{"point one", "point two"}, data.Bullets)
}

func TestSummarizeUnconfiguredUsesSentenceSplit(t *testing.T) {
	svc, limiter := newTestService(&fakeGenerator{configured: false}, nil)
	defer limiter.Stop()

	payload, err := svc.Summarize(context.Background(), "user-1", "First point. Second point. Third point.", 2)
	require.NoError(t, err)
	assert.True(t, payload.Meta.Fallback)

	data := payload.Data.(SummaryData)
	assert.Equal(t, []string{"First point.", "Second point."}, data.Bullets)
}

func TestSummarizeMalformedModelOutputDegradesToText(t *testing.T) {
	gen := &fakeGenerator{configured: true, content: "not json at all"}
	svc, limiter := newTestService(gen, nil)
	defer limiter.Stop()

	payload, err := svc.Summarize(context.Background(), "user-1", "Some text.", 3)
	require.NoError(t, err)

	data := payload.Data.(SummaryData)
	assert.Empty(t, data.Bullets)
	assert.Equal(t, "not json at all", data.Text)
}

func TestGenerationSurfacesTransientExhaustion(t *testing.T) {
	gen := &fakeGenerator{
		configured: true,
		err:        &llm.TransientError{Err: errors.New("503 service unavailable")},
	}
	svc, limiter := newTestService(gen, nil)
	defer limiter.Stop()

	_, err := svc.Summarize(context.Background(), "user-1", "text", 3)
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.False(t, unavailable.Permanent)
}

func TestGenerationSurfacesPermanentFailure(t *testing.T) {
	gen := &fakeGenerator{
		configured: true,
		err:        &llm.PermanentError{Err: errors.New("invalid api key")},
	}
	svc, limiter := newTestService(gen, nil)
	defer limiter.Stop()

	_, err := svc.ResumeFeedback(context.Background(), "user-1", "my resume")
	var unavailable *UnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.True(t, unavailable.Permanent)
}

func TestRateLimitRejectionIsHard(t *testing.T) {
	gen := &fakeGenerator{configured: false}
	limiter := ratelimit.NewMemoryLimiter(ratelimit.Config{Requests: 1, Window: time.Minute})
	defer limiter.Stop()
	svc := NewService(Config{}, cache.NewMemoryStore(), limiter, gen, nil, nil, nil)
	ctx := context.Background()

	_, err := svc.WellnessTips(ctx, "user-1", nil)
	require.NoError(t, err)

	_, err = svc.WellnessTips(ctx, "user-1", nil)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestMentorMatchesAbsorbLLMFailure(t *testing.T) {
	gen := &fakeGenerator{
		configured: true,
		err:        &llm.TransientError{Err: errors.New("overloaded")},
	}
	svc, limiter := newTestService(gen, nil)
	defer limiter.Stop()

	payload, err := svc.MentorMatches(context.Background(), "user-1",
		match.MentorRequest{Interests: []string{"go"}},
		[]match.Mentor{{ID: "m1", Skills: []string{"go"}, Capacity: 1}})
	require.NoError(t, err, "matching features never fail on LLM errors")

	data := payload.Data.(MentorMatchData)
	require.Len(t, data.Matches, 1)
	assert.Empty(t, data.Narrative)
}

func TestMentorMatchesCached(t *testing.T) {
	gen := &fakeGenerator{configured: false}
	svc, limiter := newTestService(gen, nil)
	defer limiter.Stop()
	ctx := context.Background()

	req := match.MentorRequest{Interests: []string{"Python", "ML"}}
	candidates := []match.Mentor{{ID: "m1", Skills: []string{"python"}, Capacity: 1}}

	first, err := svc.MentorMatches(ctx, "user-1", req, candidates)
	require.NoError(t, err)
	assert.False(t, first.Meta.Cached)

	// Same interests in a different order fingerprint identically.
	reordered := match.MentorRequest{Interests: []string{"ml", "python"}}
	second, err := svc.MentorMatches(ctx, "user-1", reordered, candidates)
	require.NoError(t, err)
	assert.True(t, second.Meta.Cached)
}

func TestRoommateMatchesMaterializeAboveCutoff(t *testing.T) {
	matches := &fakeMatchStore{}
	svc, limiter := newTestService(&fakeGenerator{}, matches)
	defer limiter.Stop()

	no := false
	compatible := []match.RoommateProfile{
		{ID: "a", SleepSchedule: "early_bird", Smoker: &no, Cleanliness: 5, SocialLevel: "introverted", MaxRent: 600},
		{ID: "b", SleepSchedule: "early_bird", Smoker: &no, Cleanliness: 3, SocialLevel: "introverted", MaxRent: 650},
		{ID: "c", SleepSchedule: "night_owl", Cleanliness: 1, SocialLevel: "outgoing", MaxRent: 3000},
	}

	payload, err := svc.RoommateMatches(context.Background(), "user-1", compatible)
	require.NoError(t, err)

	data := payload.Data.(RoommateMatchData)
	assert.Len(t, data.Pairs, 3)

	stored := map[string]bool{}
	for _, p := range data.Pairs {
		if p.Stored {
			stored[match.PairKey(p.AID, p.BID)] = true
		}
	}
	assert.True(t, stored[match.PairKey("a", "b")], "compatible pair is materialized")
	assert.False(t, stored[match.PairKey("a", "c")], "incompatible pair is not")
	assert.Equal(t, len(stored), len(matches.saved))
}

func TestRoommateMatchesStorageFailureDegrades(t *testing.T) {
	matches := &fakeMatchStore{fail: true}
	svc, limiter := newTestService(&fakeGenerator{}, matches)
	defer limiter.Stop()

	no := false
	profiles := []match.RoommateProfile{
		{ID: "a", SleepSchedule: "early_bird", Smoker: &no, Cleanliness: 4, SocialLevel: "balanced", MaxRent: 500},
		{ID: "b", SleepSchedule: "early_bird", Smoker: &no, Cleanliness: 4, SocialLevel: "balanced", MaxRent: 500},
	}

	payload, err := svc.RoommateMatches(context.Background(), "user-1", profiles)
	require.NoError(t, err, "storage failure never surfaces to the caller")

	data := payload.Data.(RoommateMatchData)
	require.Len(t, data.Pairs, 1)
	assert.False(t, data.Pairs[0].Stored)
}

func TestRoommateMatchesDeduplicatesPairs(t *testing.T) {
	matches := &fakeMatchStore{}
	svc, limiter := newTestService(&fakeGenerator{}, matches)
	defer limiter.Stop()

	// Duplicate profile ids must not produce duplicate pair entries.
	profiles := []match.RoommateProfile{
		{ID: "a", SleepSchedule: "early_bird", Cleanliness: 3},
		{ID: "b", SleepSchedule: "early_bird", Cleanliness: 3},
		{ID: "a", SleepSchedule: "early_bird", Cleanliness: 3},
	}

	payload, err := svc.RoommateMatches(context.Background(), "user-1", profiles)
	require.NoError(t, err)

	data := payload.Data.(RoommateMatchData)
	assert.Len(t, data.Pairs, 1)
}

func TestHousingAffordabilityPayload(t *testing.T) {
	svc, limiter := newTestService(&fakeGenerator{}, nil)
	defer limiter.Stop()

	payload, err := svc.HousingAffordability(context.Background(), "user-1",
		[]match.HousingListing{{ID: "l1", Rent: 700, AvgUtilities: 100}})
	require.NoError(t, err)
	assert.True(t, payload.Success)
	assert.NotEmpty(t, payload.Meta.RequestID)

	scored := payload.Data.([]match.ScoredCandidate)
	require.Len(t, scored, 1)
	assert.Equal(t, 100.0, scored[0].Score)
}
