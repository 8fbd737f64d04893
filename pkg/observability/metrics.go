package observability

import (
	"net/http"
	"time"

	// Packages
	prometheus "github.com/prometheus/client_golang/prometheus"
	collectors "github.com/prometheus/client_golang/prometheus/collectors"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const namespace = "weatherbot"

// Status label values
const (
	StatusOK       = "ok"
	StatusError    = "error"
	StatusNotFound = "not_found"
	StatusBusy     = "busy"
)

var (
	registry *prometheus.Registry

	// Chat messages handled, by kind (text, command) and status
	MessagesTotal *prometheus.CounterVec

	// Time from receiving a message to sending the reply
	ReplyDuration prometheus.Histogram

	// Language model round trips, by status
	ModelCallsTotal *prometheus.CounterVec

	// Tool invocations made by the agent, by tool name and status
	ToolCallsTotal *prometheus.CounterVec

	// Open-Meteo calls, by endpoint (geocoding, forecast) and status
	WeatherAPICallsTotal *prometheus.CounterVec

	// Open-Meteo latency per request, by endpoint
	WeatherAPIDuration *prometheus.HistogramVec

	// Chats with a running worker
	ActiveChats prometheus.Gauge
)

func init() {
	registry = prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	MessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Total number of chat messages handled",
		},
		[]string{"kind", "status"},
	)
	ReplyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reply_duration_seconds",
			Help:      "Time taken to answer a chat message",
			Buckets:   []float64{.25, .5, 1, 2.5, 5, 10, 30},
		},
	)
	ModelCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_calls_total",
			Help:      "Total number of language model requests",
		},
		[]string{"status"},
	)
	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tool_calls_total",
			Help:      "Total number of tool calls requested by the model",
		},
		[]string{"tool", "status"},
	)
	WeatherAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_api_calls_total",
			Help:      "Total number of Open-Meteo API calls",
		},
		[]string{"endpoint", "status"},
	)
	WeatherAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "weather_api_duration_seconds",
			Help:      "Open-Meteo API latency in seconds",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"endpoint"},
	)
	ActiveChats = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_chats",
			Help:      "Number of chats with a running worker",
		},
	)

	registry.MustRegister(
		MessagesTotal, ReplyDuration,
		ModelCallsTotal, ToolCallsTotal,
		WeatherAPICallsTotal, WeatherAPIDuration,
		ActiveChats,
	)
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// ObserveWeatherAPI records one call to an Open-Meteo endpoint which
// started at the given time
func ObserveWeatherAPI(endpoint, status string, start time.Time) {
	WeatherAPICallsTotal.WithLabelValues(endpoint, status).Inc()
	WeatherAPIDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// Status returns StatusOK when err is nil and StatusError otherwise
func Status(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}

// Handler returns an http.Handler that serves application and runtime metrics
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
