package prometheus

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(prometheus.Labels{"service": "dailyquestion"}, registry)

var (
	// Latency buckets in milliseconds
	latencyBuckets = []float64{
		5, 10, 25,
		50, 100, 250,
		500, 1000, 2500,
		5000, 10000, 30000,
	}

	scoreBuckets = prometheus.LinearBuckets(0, 10, 11)

	RequestTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "dailyquestion_requests_total",
			Help: "Total number of API requests processed",
		},
		[]string{"method", "route", "status"},
	)

	RequestLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dailyquestion_latency_ms",
			Help:    "API request latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"method", "route"},
	)

	EmbeddingLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dailyquestion_embedding_latency_ms",
			Help:    "Embedding backend latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"provider"},
	)

	EmbeddingFailures = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "dailyquestion_embedding_failures_total",
			Help: "Embedding calls that ended in an error",
		},
		[]string{"provider", "kind"}, // kind: unavailable, request
	)

	SemanticScores = promauto.With(registerer).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dailyquestion_semantic_score",
			Help:    "Distribution of reported semantic scores",
			Buckets: scoreBuckets,
		},
	)

	UnscoredTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "dailyquestion_unscored_total",
			Help: "Answers left without a semantic score, by reason",
		},
		[]string{"reason"},
	)

	UpstreamLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dailyquestion_upstream_latency_ms",
			Help:    "Latency of collaborating services in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"upstream"},
	)

	EventPublishFailures = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "dailyquestion_event_publish_failures_total",
			Help: "Score update events that could not be delivered",
		},
		[]string{"topic"},
	)
)

type MetricsConfig struct {
	EnableLatency  bool // API latency histograms
	EnableScores   bool // Semantic score distribution and unscored reasons
	EnableUpstream bool // Embedding and collaborator latency
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		EnableLatency:  true,
		EnableScores:   true,
		EnableUpstream: false,
	}
}

var Config = DefaultMetricsConfig()

func Initialize(cfg MetricsConfig) {
	Config = cfg
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
}

// Gatherer exposes the private registry to the metrics endpoint.
func Gatherer() prometheus.Gatherer {
	return registry
}

func ObserveScore(value float64) {
	if Config.EnableScores {
		SemanticScores.Observe(value)
	}
}

func CountUnscored(reason string) {
	if Config.EnableScores {
		UnscoredTotal.WithLabelValues(reason).Inc()
	}
}

func ObserveUpstream(name string, ms float64) {
	if Config.EnableUpstream {
		UpstreamLatency.WithLabelValues(name).Observe(ms)
	}
}
