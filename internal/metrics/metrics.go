// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Signup rejection reasons.
const (
	ReasonInvalidJSON   = "invalid_json"
	ReasonMissingFields = "missing_fields"
	ReasonInvalidEmail  = "invalid_email"
	ReasonDuplicate     = "duplicate"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	IncSignupCreated()
	IncSignupRejected(reason string)
	IncRateLimited()
	IncAdminAuthFailure()
	IncExport()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
