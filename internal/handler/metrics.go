package handler

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/folio/signupd/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "signupd_signups_created_total %d\n", snap.SignupsCreated)

	reasons := make([]string, 0, len(snap.SignupsRejected))
	for reason := range snap.SignupsRejected {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		writeMetric(w, "signupd_signups_rejected_total{reason=%q} %d\n", reason, snap.SignupsRejected[reason])
	}

	writeMetric(w, "signupd_rate_limited_total %d\n", snap.RateLimited)
	writeMetric(w, "signupd_admin_auth_failures_total %d\n", snap.AdminAuthFailures)
	writeMetric(w, "signupd_exports_total %d\n", snap.Exports)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
