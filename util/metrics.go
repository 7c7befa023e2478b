package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	mutationAppliedCounter prometheus.Counter
	mutationNoopCounter    prometheus.Counter
	undoCounter            prometheus.Counter
	openHandsGauge         prometheus.Gauge
}

func (m *metrics) MutationApplied() {
	m.mutationAppliedCounter.Inc()
}

func (m *metrics) MutationNoop() {
	m.mutationNoopCounter.Inc()
}

func (m *metrics) Undo() {
	m.undoCounter.Inc()
}

func (m *metrics) SetOpenHands(count int) {
	m.openHandsGauge.Set(float64(count))
}

var Metrics = &metrics{
	mutationAppliedCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "hand_mutations_applied_total",
		Help: "Total number of ledger mutations that changed a hand",
	}),
	mutationNoopCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "hand_mutations_noop_total",
		Help: "Total number of ledger mutations that referenced a missing action or decision",
	}),
	undoCounter: promauto.NewCounter(prometheus.CounterOpts{
		Name: "hand_undo_total",
		Help: "Total number of undo operations",
	}),
	openHandsGauge: promauto.NewGauge(prometheus.GaugeOpts{
		Name: "open_hands_count",
		Help: "Count of hands currently open in the recorder",
	}),
}
