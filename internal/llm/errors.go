package llm

import "strings"

// TransientError marks a failure where retrying is expected to help
// (provider overload, timeouts, gateway errors).
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string { return "transient llm error: " + e.Err.Error() }
func (e *TransientError) Unwrap() error { return e.Err }

// PermanentError marks a failure retrying cannot fix (bad request,
// invalid key, missing configuration).
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return "permanent llm error: " + e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// transientMarkers is the fixed vocabulary used to classify provider
// failures from their message text. Anything not matching is permanent.
var transientMarkers = []string{
	"rate limit",
	"timeout",
	"temporarily unavailable",
	"overloaded",
	"unavailable",
	"429",
	"502",
	"503",
	"504",
}

// classify wraps a raw provider error as transient or permanent.
func classify(err error) error {
	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return &TransientError{Err: err}
		}
	}
	return &PermanentError{Err: err}
}
