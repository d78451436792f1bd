package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts provisioning and teardown outcomes. A nil *Metrics is a
// no-op so services stay wireable in tests.
type Metrics struct {
	provisionOutcomes *prometheus.CounterVec
	sitesEnsured      *prometheus.CounterVec
	teardownItems     *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		provisionOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "provisioning_attempts_total",
			Help: "Provisioning attempts by outcome (completed, error, aborted).",
		}, []string{"outcome"}),
		sitesEnsured: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "provisioning_sites_ensured_total",
			Help: "Sites resolved or created by the ensurer, by site type.",
		}, []string{"site_type"}),
		teardownItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "teardown_items_total",
			Help: "Teardown deletions by result (deleted, failed).",
		}, []string{"result"}),
	}
	reg.MustRegister(m.provisionOutcomes, m.sitesEnsured, m.teardownItems)
	return m
}

func (m *Metrics) ProvisionOutcome(outcome string) {
	if m == nil {
		return
	}
	m.provisionOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SiteEnsured(siteType string) {
	if m == nil {
		return
	}
	m.sitesEnsured.WithLabelValues(siteType).Inc()
}

func (m *Metrics) TeardownItem(result string) {
	if m == nil {
		return
	}
	m.teardownItems.WithLabelValues(result).Inc()
}
