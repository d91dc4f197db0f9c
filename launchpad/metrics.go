package launchpad

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus metrics for the launchpad. A nil *Metrics
// disables collection.
type Metrics struct {
	tradesTotal      *prometheus.CounterVec
	reserveSol       *prometheus.GaugeVec
	reserveTokens    *prometheus.GaugeVec
	poolsTotal       prometheus.Gauge
	graduationsTotal prometheus.Counter
	eventsDropped    prometheus.Counter
}

// NewMetrics creates and registers the launchpad metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		tradesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "launchpad_trades_total",
			Help: "Total trades processed, labeled by side and result.",
		}, []string{"side", "result"}),
		reserveSol: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "launchpad_reserve_sol_lamports",
			Help: "Recorded SOL reserve per pool.",
		}, []string{"mint"}),
		reserveTokens: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "launchpad_reserve_tokens",
			Help: "Recorded token reserve per pool.",
		}, []string{"mint"}),
		poolsTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "launchpad_pools_total",
			Help: "Number of pools ever initialized.",
		}),
		graduationsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "launchpad_graduations_total",
			Help: "Number of pools that reached the terminal graduated state.",
		}),
		eventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "launchpad_events_dropped_total",
			Help: "Change notifications dropped because a subscriber was slow.",
		}),
	}
	reg.MustRegister(
		m.tradesTotal,
		m.reserveSol,
		m.reserveTokens,
		m.poolsTotal,
		m.graduationsTotal,
		m.eventsDropped,
	)
	return m
}

func (m *Metrics) observeTrade(side string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.tradesTotal.WithLabelValues(side, result).Inc()
}

func (m *Metrics) observeReserves(mint string, tokens, sol uint64) {
	if m == nil {
		return
	}
	m.reserveTokens.WithLabelValues(mint).Set(float64(tokens))
	m.reserveSol.WithLabelValues(mint).Set(float64(sol))
}

func (m *Metrics) observePool() {
	if m == nil {
		return
	}
	m.poolsTotal.Inc()
}

func (m *Metrics) observeGraduation() {
	if m == nil {
		return
	}
	m.graduationsTotal.Inc()
}

func (m *Metrics) observeDroppedEvent() {
	if m == nil {
		return
	}
	m.eventsDropped.Inc()
}
