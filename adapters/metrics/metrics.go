// Package metrics provides Prometheus metrics collection.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/artpar/themedesigner/domain/field"
	"github.com/artpar/themedesigner/domain/settings"
)

const namespace = "themedesigner"

// Collector holds all Prometheus metrics for the service.
type Collector struct {
	// Request metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	// Admin auth
	AuthFailures *prometheus.CounterVec

	// Field managers
	FieldChanges *prometheus.CounterVec

	// Settings
	SettingsSaves     *prometheus.CounterVec
	SettingsConflicts *prometheus.CounterVec

	// Config metrics
	ConfigReloads      prometheus.Counter
	ConfigReloadErrors prometheus.Counter
	ConfigLastReload   prometheus.Gauge
}

// NewWithRegistry creates a collector registered with reg.
func NewWithRegistry(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of requests processed",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "path", "status"},
		),
		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "requests_in_flight",
				Help:      "Number of requests currently being processed",
			},
		),
		AuthFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_failures_total",
				Help:      "Total number of admin authentication failures",
			},
			[]string{"reason"},
		),
		FieldChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "field_changes_total",
				Help:      "Field save outcomes by manager, field and change",
			},
			[]string{"manager", "field", "change"},
		),
		SettingsSaves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "settings_saves_total",
				Help:      "Settings save attempts by result",
			},
			[]string{"result"},
		),
		SettingsConflicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "settings_conflicts_total",
				Help:      "Permalink conflict rules applied during validation",
			},
			[]string{"rule"},
		),
		ConfigReloads: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reloads_total",
				Help:      "Total number of successful config reloads",
			},
		),
		ConfigReloadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "config_reload_errors_total",
				Help:      "Total number of config reload errors",
			},
		),
		ConfigLastReload: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "config_last_reload_timestamp",
				Help:      "Unix timestamp of last successful config reload",
			},
		),
	}
}

// FieldChanged counts one field save outcome.
func (c *Collector) FieldChanged(manager, fieldName string, change field.Change) {
	c.FieldChanges.WithLabelValues(manager, fieldName, change.String()).Inc()
}

// SettingsSaved counts a settings save attempt.
func (c *Collector) SettingsSaved(result string) {
	c.SettingsSaves.WithLabelValues(result).Inc()
}

// ConflictResolved counts a fired permalink conflict rule.
func (c *Collector) ConflictResolved(rule settings.Rule) {
	c.SettingsConflicts.WithLabelValues(string(rule)).Inc()
}

// StatusClass buckets an HTTP status code into 2xx, 4xx, etc.
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}

// NormalizePath reduces label cardinality by keeping only the first two
// path segments, e.g. /admin/records/42/fields/theme -> /admin/records.
func NormalizePath(path string) string {
	parts := strings.SplitN(strings.Trim(path, "/"), "/", 3)
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return "/" + strings.Join(parts, "/")
}
