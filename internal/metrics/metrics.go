// Package metrics holds the Prometheus collectors of the landscape service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// layoutTicks counts simulation ticks.
	layoutTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "landscape_layout_ticks_total",
		Help: "Total layout simulation ticks",
	})

	// layoutAlpha is the alpha of the running simulation.
	layoutAlpha = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "landscape_layout_alpha",
		Help: "Current layout simulation alpha",
	})

	// frameDuration tracks how long a frame takes to paint and encode.
	frameDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "landscape_frame_duration_seconds",
		Help:    "Frame paint and encode duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~2s
	})

	// frameBytes tracks encoded frame sizes.
	frameBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "landscape_frame_bytes",
		Help:    "Encoded PNG frame size in bytes",
		Buckets: prometheus.ExponentialBuckets(4096, 2, 10),
	})

	// commandsTotal counts session commands by name.
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "landscape_commands_total",
		Help: "Total session commands by name and result",
	}, []string{"command", "result"})

	// loadsTotal counts document loads by source and result.
	loadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "landscape_document_loads_total",
		Help: "Total document loads by source and result",
	}, []string{"source", "result"})

	// documentNodes is the node count of the loaded document.
	documentNodes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "landscape_document_nodes",
		Help: "Nodes in the loaded document by scope (total, visible)",
	}, []string{"scope"})

	// insightDuration tracks insight query latency.
	insightDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "landscape_insight_duration_seconds",
		Help:    "Insight query duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~1.6s
	}, []string{"query"})

	// subscribers is the number of connected frame subscribers.
	subscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "landscape_frame_subscribers",
		Help: "Connected frame subscribers",
	})
)

// Result labels.
const (
	OK    = "ok"
	Error = "error"
)

func result(err error) string {
	if err != nil {
		return Error
	}
	return OK
}

// Tick records one simulation tick at the given alpha.
func Tick(alpha float64) {
	layoutTicks.Inc()
	layoutAlpha.Set(alpha)
}

// Frame records a painted frame.
func Frame(d time.Duration, size int) {
	frameDuration.Observe(d.Seconds())
	frameBytes.Observe(float64(size))
}

// Command records a session command.
func Command(name string, err error) {
	commandsTotal.WithLabelValues(name, result(err)).Inc()
}

// Load records a document load attempt.
func Load(source string, err error) {
	loadsTotal.WithLabelValues(source, result(err)).Inc()
}

// Nodes records the total and visible node counts.
func Nodes(total, visible int) {
	documentNodes.WithLabelValues("total").Set(float64(total))
	documentNodes.WithLabelValues("visible").Set(float64(visible))
}

// Insight records the duration of an insight query started at start.
func Insight(query string, start time.Time) {
	insightDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}

// Subscribers sets the number of connected subscribers.
func Subscribers(n int) {
	subscribers.Set(float64(n))
}
