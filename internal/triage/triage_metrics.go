package triage

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds Prometheus metrics for the triage subsystem.
type Metrics struct {
	EmailsTotal     *prometheus.CounterVec
	AlertsTotal     *prometheus.CounterVec
	DraftsTotal     *prometheus.CounterVec
	FolderRoutes    *prometheus.CounterVec
	FollowUpsTotal  prometheus.Counter
	ProcessDuration prometheus.Histogram
	StoreErrors     *prometheus.CounterVec
}

// NewMetrics registers and returns triage metrics on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EmailsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sift_emails_processed_total",
			Help: "Total emails run through the pipeline by assigned category.",
		}, []string{"category"}),
		AlertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sift_alerts_total",
			Help: "Total alerts raised by kind.",
		}, []string{"kind"}),
		DraftsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sift_drafts_total",
			Help: "Total reply drafts generated by detected intent.",
		}, []string{"intent"}),
		FolderRoutes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sift_folder_routes_total",
			Help: "Total simulated folder routings by destination folder.",
		}, []string{"folder"}),
		FollowUpsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sift_followups_flagged_total",
			Help: "Total emails flagged for follow-up.",
		}),
		ProcessDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sift_process_duration_seconds",
			Help:    "Duration of full pipeline passes in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8), // 0.1ms .. ~1.6s
		}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sift_store_errors_total",
			Help: "Total swallowed store errors by operation.",
		}, []string{"op"}),
	}

	reg.MustRegister(
		m.EmailsTotal,
		m.AlertsTotal,
		m.DraftsTotal,
		m.FolderRoutes,
		m.FollowUpsTotal,
		m.ProcessDuration,
		m.StoreErrors,
	)

	return m
}
