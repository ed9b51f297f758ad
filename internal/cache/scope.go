package cache

import "time"

// Scope partitions the cache key space, one per assist feature.
// Adding a feature means adding a constant here plus its policy in
// scopePolicies.
type Scope int

const (
	ScopeSummary Scope = iota
	ScopeResume
	ScopeMatch
	ScopeWellness
)

// Policy describes how entries in a scope are stored.
type Policy struct {
	// TTL applies to both the Redis backing (native expiry) and the
	// in-process backing (lazy expiry on read).
	TTL time.Duration

	// Capacity bounds the in-process backing only; Redis relies on TTL.
	Capacity int
}

var scopePolicies = map[Scope]Policy{
	ScopeSummary:  {TTL: 30 * time.Minute, Capacity: 512},
	ScopeResume:   {TTL: 60 * time.Minute, Capacity: 256},
	ScopeMatch:    {TTL: 10 * time.Minute, Capacity: 1024},
	ScopeWellness: {TTL: 60 * time.Minute, Capacity: 128},
}

// String returns the scope's wire name, used as a key prefix and a
// metrics label.
func (s Scope) String() string {
	switch s {
	case ScopeSummary:
		return "summary"
	case ScopeResume:
		return "resume"
	case ScopeMatch:
		return "match"
	case ScopeWellness:
		return "wellness"
	default:
		return "unknown"
	}
}

// PolicyFor returns the storage policy for a scope.
func PolicyFor(s Scope) Policy {
	if p, ok := scopePolicies[s]; ok {
		return p
	}
	// Unknown scopes get the most conservative policy.
	return Policy{TTL: 10 * time.Minute, Capacity: 128}
}

// Scopes returns all defined scopes, used for metrics pre-registration.
func Scopes() []Scope {
	return []Scope{ScopeSummary, ScopeResume, ScopeMatch, ScopeWellness}
}
