package metrics

import "github.com/prometheus/client_golang/prometheus"

// Option configures a Manager.
type Option func(*Manager)

func WithNamespace(namespace string) Option {
	return func(m *Manager) { m.namespace = namespace }
}

func WithSubsystem(subsystem string) Option {
	return func(m *Manager) { m.subsystem = subsystem }
}

func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.histogramBuckets = buckets
		}
	}
}

// WithPrometheusRegistry sets the registerer the collectors are attached to.
func WithPrometheusRegistry(registry prometheus.Registerer) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}
