package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// NormalizeText lowercases text and collapses all interior whitespace
// runs to a single space, so "Hello   world" and "hello world" produce
// the same fingerprint.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// NormalizeList lowercases, trims, and sorts an unordered list, then
// joins it with commas. Two requests listing the same interests in a
// different order fingerprint identically.
func NormalizeList(items []string) string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(strings.ToLower(it))
		if it != "" {
			out = append(out, it)
		}
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

// Fingerprint builds a deterministic cache key from already-normalized
// semantic parameters. Parts are joined with an unambiguous separator
// and hashed so keys are fixed-size regardless of input text length.
// The exact digest is not load-bearing, only its stability.
func Fingerprint(parts ...string) string {
	h := sha256.New()
	for i, p := range parts {
		if i > 0 {
			h.Write([]byte{0x1f})
		}
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}
