package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/JonMunkholm/talentdesk/internal/table"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	sessionsActive prometheus.Gauge
	events         *prometheus.CounterVec
	viewStages     *prometheus.CounterVec
	sourceLoad     *prometheus.HistogramVec
	loadErrors     *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
// Pass a private registry so tests can build more than one service.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "talentdesk_sessions_active",
			Help: "Open table sessions.",
		}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talentdesk_events_total",
			Help: "Table events applied, by type.",
		}, []string{"type"}),
		viewStages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talentdesk_view_stage_total",
			Help: "View pipeline stages, by stage and whether the memo was reused.",
		}, []string{"stage", "result"}),
		sourceLoad: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "talentdesk_source_load_seconds",
			Help:    "Time to load a table's records from its source.",
			Buckets: prometheus.DefBuckets,
		}, []string{"table"}),
		loadErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "talentdesk_source_load_errors_total",
			Help: "Failed source loads, by table.",
		}, []string{"table"}),
	}

	reg.MustRegister(m.sessionsActive, m.events, m.viewStages, m.sourceLoad, m.loadErrors)
	return m
}

func (m *Metrics) setSessions(n int) {
	if m == nil {
		return
	}
	m.sessionsActive.Set(float64(n))
}

func (m *Metrics) recordEvent(t EventType) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) recordLoad(tableKey string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.sourceLoad.WithLabelValues(tableKey).Observe(d.Seconds())
	if err != nil {
		m.loadErrors.WithLabelValues(tableKey).Inc()
	}
}

// observer adapts the metrics to table.Observer.
func (m *Metrics) observer() table.Observer {
	if m == nil {
		return nil
	}
	return stageObserver{m.viewStages}
}

type stageObserver struct {
	stages *prometheus.CounterVec
}

func (o stageObserver) Computed(s table.Stage) {
	o.stages.WithLabelValues(string(s), "computed").Inc()
}

func (o stageObserver) Reused(s table.Stage) {
	o.stages.WithLabelValues(string(s), "reused").Inc()
}
