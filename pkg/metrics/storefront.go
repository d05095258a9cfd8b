package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Storefront records cart, checkout and HTTP metrics.
type Storefront struct {
	cartOps          *prometheus.CounterVec
	persistFailures  *prometheus.CounterVec
	snapshotDiscards *prometheus.CounterVec
	checkouts        *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	jobRuns          *prometheus.CounterVec
	jobDuration      *prometheus.HistogramVec
}

// NewStorefront registers the storefront metrics on the provided registerer.
// A nil registerer yields a recorder whose methods are no-ops.
func NewStorefront(reg prometheus.Registerer) *Storefront {
	if reg == nil {
		return &Storefront{}
	}
	m := &Storefront{
		cartOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cart_operations_total",
			Help: "Cart mutations applied, by operation.",
		}, []string{"op"}),
		persistFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cart_persist_failures_total",
			Help: "Cart snapshot writes or reads that failed and were swallowed.",
		}, []string{"op"}),
		snapshotDiscards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cart_snapshot_discards_total",
			Help: "Persisted cart snapshots discarded on load, by reason.",
		}, []string{"reason"}),
		checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "checkout_total",
			Help: "Checkout attempts, by outcome.",
		}, []string{"outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduled_job_runs_total",
			Help: "Background job runs, by job and outcome.",
		}, []string{"job", "outcome"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scheduled_job_duration_seconds",
			Help:    "Background job run time.",
			Buckets: prometheus.DefBuckets,
		}, []string{"job"}),
	}
	reg.MustRegister(m.cartOps, m.persistFailures, m.snapshotDiscards, m.checkouts, m.httpDuration, m.jobRuns, m.jobDuration)
	return m
}

func (m *Storefront) CartOp(op string) {
	if m == nil || m.cartOps == nil {
		return
	}
	m.cartOps.WithLabelValues(normalizeLabel(op)).Inc()
}

func (m *Storefront) PersistFailure(op string) {
	if m == nil || m.persistFailures == nil {
		return
	}
	m.persistFailures.WithLabelValues(normalizeLabel(op)).Inc()
}

func (m *Storefront) SnapshotDiscarded(reason string) {
	if m == nil || m.snapshotDiscards == nil {
		return
	}
	m.snapshotDiscards.WithLabelValues(normalizeLabel(reason)).Inc()
}

func (m *Storefront) Checkout(outcome string) {
	if m == nil || m.checkouts == nil {
		return
	}
	m.checkouts.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveHTTP records one served request.
func (m *Storefront) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil || m.httpDuration == nil {
		return
	}
	m.httpDuration.WithLabelValues(method, normalizeLabel(route), strconv.Itoa(status)).Observe(elapsed.Seconds())
}

// ObserveJob records one background job run. A nil err counts as success.
func (m *Storefront) ObserveJob(job string, elapsed time.Duration, err error) {
	if m == nil || m.jobRuns == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.jobRuns.WithLabelValues(normalizeLabel(job), outcome).Inc()
	m.jobDuration.WithLabelValues(normalizeLabel(job)).Observe(elapsed.Seconds())
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
