package metrics

import "time"

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Sink receives one notification per dispatch. Implementations must not block.
type Sink interface {
	DispatchCompleted(outcome string, statusCode int, duration time.Duration)
}

// NoopSink discards everything.
type NoopSink struct{}

func (NoopSink) DispatchCompleted(string, int, time.Duration) {}

// StatusClass maps an HTTP status code to "2xx".."5xx", or "none" when no
// response was received.
func StatusClass(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500 && code < 600:
		return "5xx"
	default:
		return "none"
	}
}
