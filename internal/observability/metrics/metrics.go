package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters for agenda booking flows.
type SchedulingMetrics struct {
	bookingsTotal   *prometheus.CounterVec
	conflictsTotal  prometheus.Counter
	recurrenceSkips prometheus.Counter
	statusTotal     *prometheus.CounterVec
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "psipro",
			Subsystem: "scheduling",
			Name:      "bookings_total",
			Help:      "Total appointments persisted by booking kind",
		}, []string{"kind"}),
		conflictsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "psipro",
			Subsystem: "scheduling",
			Name:      "conflicts_rejected_total",
			Help:      "Total bookings rejected because the slot was taken",
		}),
		recurrenceSkips: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "psipro",
			Subsystem: "scheduling",
			Name:      "recurrence_skipped_total",
			Help:      "Total weekly occurrences skipped during recurrence expansion",
		}),
		statusTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "psipro",
			Subsystem: "scheduling",
			Name:      "status_changes_total",
			Help:      "Total appointment status transitions",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingsTotal, m.conflictsTotal, m.recurrenceSkips, m.statusTotal)
	return m
}

func (m *SchedulingMetrics) ObserveBooking(kind string, count int) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(kind).Add(float64(count))
}

func (m *SchedulingMetrics) ObserveConflict() {
	if m == nil {
		return
	}
	m.conflictsTotal.Inc()
}

func (m *SchedulingMetrics) ObserveRecurrenceSkips(count int) {
	if m == nil || count == 0 {
		return
	}
	m.recurrenceSkips.Add(float64(count))
}

func (m *SchedulingMetrics) ObserveStatusChange(status string) {
	if m == nil {
		return
	}
	m.statusTotal.WithLabelValues(status).Inc()
}

// DocumentMetrics counts generated clinical documents.
type DocumentMetrics struct {
	generatedTotal *prometheus.CounterVec
}

func NewDocumentMetrics(reg prometheus.Registerer) *DocumentMetrics {
	m := &DocumentMetrics{
		generatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "psipro",
			Subsystem: "documents",
			Name:      "generated_total",
			Help:      "Total clinical documents generated by type",
		}, []string{"type"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.generatedTotal)
	return m
}

func (m *DocumentMetrics) ObserveGenerated(docType string) {
	if m == nil {
		return
	}
	m.generatedTotal.WithLabelValues(docType).Inc()
}
