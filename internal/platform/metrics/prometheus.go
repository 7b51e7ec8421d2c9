// Package metrics exposes distribution counters and gauges for the
// operations scrape.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"leadflow/contexts/crm-core/distribution-service/ports"
)

const namespace = "leadflow"

// Publisher records distribution metrics on a private Prometheus registry.
// The registry is private so repeated construction in tests never collides
// with the default registerer.
type Publisher struct {
	registry *prometheus.Registry

	registrations *prometheus.CounterVec
	operatorLoad  *prometheus.GaugeVec
}

var _ ports.MetricsPublisher = (*Publisher)(nil)

func NewPublisher() *Publisher {
	registry := prometheus.NewRegistry()

	p := &Publisher{
		registry: registry,

		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contact_registrations_total",
			Help:      "Total contact registrations, partitioned by source and assignment outcome",
		}, []string{"source", "assigned"}),
		operatorLoad: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "operator_active_contacts",
			Help:      "Active contacts currently assigned to each operator",
		}, []string{"operator"}),
	}

	registry.MustRegister(
		p.registrations,
		p.operatorLoad,
	)

	return p
}

// Handler serves the registry in the Prometheus exposition format.
func (p *Publisher) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *Publisher) RecordRegistration(sourceName string, assigned bool) {
	p.registrations.WithLabelValues(sourceName, strconv.FormatBool(assigned)).Inc()
}

func (p *Publisher) SetOperatorLoad(operatorName string, activeContacts int64) {
	p.operatorLoad.WithLabelValues(operatorName).Set(float64(activeContacts))
}
