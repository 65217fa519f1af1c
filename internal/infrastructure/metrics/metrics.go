package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SyncMetrics covers the promoter agent: the local queue and the drains
// that push it to the sales service.
type SyncMetrics struct {
	DrainsTotal         *prometheus.CounterVec
	DrainDuration       prometheus.Histogram
	RecordsSyncedTotal  prometheus.Counter
	RecordsFailedTotal  prometheus.Counter
	PendingSales        prometheus.Gauge
	SalesRecordedTotal  prometheus.Counter
	ConnectivityChanges *prometheus.CounterVec
	Online              prometheus.Gauge
}

func NewSyncMetrics(reg prometheus.Registerer) *SyncMetrics {
	f := promauto.With(reg)
	return &SyncMetrics{
		DrainsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agent_drains_total",
				Help: "Drains of the local sale queue by outcome",
			},
			[]string{"outcome"},
		),
		DrainDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "agent_drain_duration_seconds",
				Help:    "Time spent in one drain of the local sale queue",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
		RecordsSyncedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "agent_sales_synced_total",
				Help: "Sales confirmed by the sales service",
			},
		),
		RecordsFailedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "agent_sales_sync_failures_total",
				Help: "Failed sale submissions, each retried on a later drain",
			},
		),
		PendingSales: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "agent_pending_sales",
				Help: "Sales in the local queue not yet confirmed",
			},
		),
		SalesRecordedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "agent_sales_recorded_total",
				Help: "Sales captured on this device",
			},
		),
		ConnectivityChanges: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agent_connectivity_transitions_total",
				Help: "Online/offline transitions seen by the connectivity monitor",
			},
			[]string{"state"},
		),
		Online: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "agent_online",
				Help: "1 when the sales service is reachable",
			},
		),
	}
}

func (m *SyncMetrics) RecordDrain(outcome string, durationSeconds float64, synced, failed int) {
	m.DrainsTotal.WithLabelValues(outcome).Inc()
	m.DrainDuration.Observe(durationSeconds)
	m.RecordsSyncedTotal.Add(float64(synced))
	m.RecordsFailedTotal.Add(float64(failed))
}

func (m *SyncMetrics) SetPending(count int64) {
	m.PendingSales.Set(float64(count))
}

func (m *SyncMetrics) RecordSaleCaptured() {
	m.SalesRecordedTotal.Inc()
}

func (m *SyncMetrics) RecordTransition(online bool) {
	state := "offline"
	value := 0.0
	if online {
		state = "online"
		value = 1
	}
	m.ConnectivityChanges.WithLabelValues(state).Inc()
	m.Online.Set(value)
}

// IngestMetrics covers the sales service side of the sync protocol.
type IngestMetrics struct {
	SalesReceivedTotal *prometheus.CounterVec
	SaleAmountTotal    *prometheus.CounterVec
	BonusAmountTotal   *prometheus.CounterVec
	PublishErrorsTotal prometheus.Counter
	IngestDuration     *prometheus.HistogramVec
	AuthAttemptsTotal  *prometheus.CounterVec
}

func NewIngestMetrics(reg prometheus.Registerer) *IngestMetrics {
	f := promauto.With(reg)
	return &IngestMetrics{
		SalesReceivedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sales_received_total",
				Help: "Sale submissions by result (created, duplicate, rejected)",
			},
			[]string{"result"},
		),
		SaleAmountTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sales_amount_total",
				Help: "Sum of total_amount for newly created sales",
			},
			[]string{"product_id"},
		),
		BonusAmountTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sales_bonus_amount_total",
				Help: "Sum of bonus_amount and bonus_extra for newly created sales",
			},
			[]string{"kind"},
		),
		PublishErrorsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "sales_event_publish_errors_total",
				Help: "SaleRecorded events that could not be published",
			},
		),
		IngestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sales_ingest_duration_seconds",
				Help:    "Time to store one sale submission",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"result"},
		),
		AuthAttemptsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "telegram_auth_attempts_total",
				Help: "Telegram init data verifications by result",
			},
			[]string{"result"},
		),
	}
}

func (m *IngestMetrics) RecordSaleCreated(productID string, amount, bonus, extra float64, durationSeconds float64) {
	m.SalesReceivedTotal.WithLabelValues("created").Inc()
	m.SaleAmountTotal.WithLabelValues(productID).Add(amount)
	m.BonusAmountTotal.WithLabelValues("scheme").Add(bonus)
	m.BonusAmountTotal.WithLabelValues("motivation").Add(extra)
	m.IngestDuration.WithLabelValues("created").Observe(durationSeconds)
}

func (m *IngestMetrics) RecordSaleDuplicate(durationSeconds float64) {
	m.SalesReceivedTotal.WithLabelValues("duplicate").Inc()
	m.IngestDuration.WithLabelValues("duplicate").Observe(durationSeconds)
}

func (m *IngestMetrics) RecordSaleRejected(reason string) {
	m.SalesReceivedTotal.WithLabelValues("rejected_" + reason).Inc()
}

func (m *IngestMetrics) RecordPublishError() {
	m.PublishErrorsTotal.Inc()
}

func (m *IngestMetrics) RecordAuth(result string) {
	m.AuthAttemptsTotal.WithLabelValues(result).Inc()
}
