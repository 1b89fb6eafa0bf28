package postgres

import (
	"bookstore/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeCommitted        = "committed"
	outcomeRolledBack       = "rolled_back"
	outcomeImplicitRollback = "implicit_rollback"
	outcomeFailed           = "failed"
)

func newUnitOfWorkCounter(reg prometheus.Registerer) (*prometheus.CounterVec, error) {
	return metrics.Register(reg, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metrics.Namespace,
			Name:      "unit_of_work_total",
			Help:      "Units of work that reached a terminal state, by outcome.",
		},
		[]string{"outcome"},
	))
}
