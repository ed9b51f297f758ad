package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "Hello   world", "hello world"},
		{"case folds", "HELLO World", "hello world"},
		{"trims edges", "  hello world \n", "hello world"},
		{"tabs and newlines", "hello\t\nworld", "hello world"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}

func TestNormalizeListOrderIndependent(t *testing.T) {
	a := NormalizeList([]string{"Python", "internships", "ML"})
	b := NormalizeList([]string{"ml", " internships", "python"})
	assert.Equal(t, a, b)
	assert.Equal(t, "internships,ml,python", a)
}

func TestNormalizeListDropsEmpty(t *testing.T) {
	assert.Equal(t, "a,b", NormalizeList([]string{"a", "  ", "b", ""}))
}

func TestFingerprintDeterministic(t *testing.T) {
	k1 := Fingerprint("summary", NormalizeText("Hello   world"))
	k2 := Fingerprint("summary", NormalizeText("hello world"))
	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 64)
}

func TestFingerprintSeparatesParts(t *testing.T) {
	// "ab"+"c" must not collide with "a"+"bc".
	assert.NotEqual(t, Fingerprint("ab", "c"), Fingerprint("a", "bc"))
}
