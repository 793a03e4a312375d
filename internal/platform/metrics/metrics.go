// Package metrics holds the Prometheus instruments for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics is
// safe to use so tests can wire services without a registry.
type Metrics struct {
	AccountsCreated     prometheus.Counter
	TokensIssued        prometheus.Counter
	ChecksCreated       prometheus.Counter
	StorageFailures     prometheus.Counter
	ConsistencyFailures prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "upcheck_accounts_created_total",
			Help: "Total number of accounts created.",
		}),
		TokensIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "upcheck_tokens_issued_total",
			Help: "Total number of bearer tokens issued.",
		}),
		ChecksCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "upcheck_checks_created_total",
			Help: "Total number of checks created.",
		}),
		StorageFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "upcheck_storage_failures_total",
			Help: "Total number of document store I/O failures.",
		}),
		ConsistencyFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "upcheck_consistency_failures_total",
			Help: "Total number of multi-document sequences left needing reconciliation.",
		}),
	}
}

// IncrementAccountsCreated increments the accounts created counter by 1.
func (m *Metrics) IncrementAccountsCreated() {
	if m != nil {
		m.AccountsCreated.Inc()
	}
}

// IncrementTokensIssued increments the tokens issued counter by 1.
func (m *Metrics) IncrementTokensIssued() {
	if m != nil {
		m.TokensIssued.Inc()
	}
}

// IncrementChecksCreated increments the checks created counter by 1.
func (m *Metrics) IncrementChecksCreated() {
	if m != nil {
		m.ChecksCreated.Inc()
	}
}

// IncrementStorageFailures increments the storage failure counter by 1.
func (m *Metrics) IncrementStorageFailures() {
	if m != nil {
		m.StorageFailures.Inc()
	}
}

// IncrementConsistencyFailures increments the consistency failure counter by 1.
func (m *Metrics) IncrementConsistencyFailures() {
	if m != nil {
		m.ConsistencyFailures.Inc()
	}
}
