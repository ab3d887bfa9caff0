package diagnostics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus exposes every reported value as a gauge named
// <namespace>_<name with non-alphanumerics replaced by '_'> on its own
// registry, so several runs in one process never collide on the default
// registry.
type Prometheus struct {
	namespace string
	labels    prometheus.Labels
	registry  *prometheus.Registry

	mu     sync.Mutex
	gauges map[string]prometheus.Gauge
}

// NewPrometheus returns a sink with the given metric namespace and constant
// labels (for example the run id).
func NewPrometheus(namespace string, constLabels map[string]string) *Prometheus {
	return &Prometheus{
		namespace: namespace,
		labels:    constLabels,
		registry:  prometheus.NewRegistry(),
		gauges:    make(map[string]prometheus.Gauge),
	}
}

// Report implements Sink.
func (p *Prometheus) Report(name string, value float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	g, ok := p.gauges[name]
	if !ok {
		g = promauto.With(p.registry).NewGauge(prometheus.GaugeOpts{
			Namespace:   p.namespace,
			Name:        MetricName(name),
			Help:        "MSM build diagnostic " + name,
			ConstLabels: p.labels,
		})
		p.gauges[name] = g
	}
	g.Set(value)
}

// Registry returns the registry holding the gauges.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// WriteTextfile writes all gauges in the Prometheus text format, for the
// node-exporter textfile collector.
func (p *Prometheus) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, p.registry)
}

// MetricName converts a dotted diagnostic name to a Prometheus metric name.
func MetricName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
