package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counter results.
const (
	RequestsTotal        = "app_requests_total"
	PhotoUploadedTotal   = "photo_uploaded_total"
	PhotoMainSetTotal    = "photo_main_set_total"
	PhotoDeletedTotal    = "photo_deleted_total"
	PhotoOrphanedTotal   = "photo_orphaned_total"
	RemoteDeleteFailures = "remote_delete_failed_total"
	PhotoCacheHitTotal   = "photo_cache_hit_total"
	OrphanReconciled     = "orphan_reconciled_total"
)

func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "photomanager",
			Name:      "general_counters",
		},
		[]string{"result"})
}

// NewUnregisteredCounter is the same vector outside the default registry,
// for tests and tools that build more than one App.
func NewUnregisteredCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "photomanager",
			Name:      "general_counters",
		},
		[]string{"result"})
}
