package metrics

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncSignupCreated is a no-op.
func (n *NoopRecorder) IncSignupCreated() {}

// IncSignupRejected is a no-op.
func (n *NoopRecorder) IncSignupRejected(reason string) {}

// IncRateLimited is a no-op.
func (n *NoopRecorder) IncRateLimited() {}

// IncAdminAuthFailure is a no-op.
func (n *NoopRecorder) IncAdminAuthFailure() {}

// IncExport is a no-op.
func (n *NoopRecorder) IncExport() {}
