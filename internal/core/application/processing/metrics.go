package processing

import (
	"time"

	pkgmetrics "bookstore/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

// metrics collects engine telemetry.
type metrics struct {
	commands      *prometheus.CounterVec
	batchDuration prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	commands := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: pkgmetrics.Namespace,
			Name:      "commands_total",
			Help:      "Commands executed by the processing engine, by outcome (success or error kind).",
		},
		[]string{"type", "data_source", "outcome"},
	)

	batchDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: pkgmetrics.Namespace,
			Name:      "command_batch_duration_seconds",
			Help:      "Time taken to execute one command batch.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~8s
		},
	)

	m := &metrics{}
	var err error
	if m.commands, err = pkgmetrics.Register(reg, commands); err != nil {
		return nil, err
	}
	if m.batchDuration, err = pkgmetrics.Register(reg, batchDuration); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *metrics) observeCommand(cmdType, dataSource, outcome string) {
	m.commands.WithLabelValues(cmdType, dataSource, outcome).Inc()
}

func (m *metrics) observeBatch(started time.Time) {
	m.batchDuration.Observe(time.Since(started).Seconds())
}
