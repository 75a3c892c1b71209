// Package metrics defines the Prometheus collectors for the event console.
// The process is not networked, so collectors are exported by writing a
// node_exporter textfile on save instead of serving /metrics.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "event_console"

// ── User metrics ──────────────────────────────────────────────────────────────

// UsersCreatedTotal counts accounts created.
// Label:
//   - user_type: REGULAR, ADMIN or TRIAL
var UsersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_created_total",
		Help:      "Total number of user accounts created, by user type.",
	},
	[]string{"user_type"},
)

// UsersDeletedTotal counts accounts deleted, cascades included.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of user accounts deleted.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "ok", "temp_password", "invalid", "not_found"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// SuspensionFlipsTotal counts lazy expiry flips applied by refresh.
// Label:
//   - to: "suspended" or "active"
var SuspensionFlipsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "suspension_flips_total",
		Help:      "Total number of scheduled suspension changes applied.",
	},
	[]string{"to"},
)

// ── Event metrics ─────────────────────────────────────────────────────────────

// EventsDeletedTotal counts event deletions on the relationship side.
var EventsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_deleted_total",
		Help:      "Total number of events deleted.",
	},
)

// EventDeleteFanout observes how many attendee lists an event deletion touched.
var EventDeleteFanout = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_delete_fanout_attendees",
		Help:      "Number of attending lists an event was removed from on deletion.",
		Buckets:   []float64{0, 1, 2, 5, 10, 25, 50, 100},
	},
)

// ── Persistence metrics ───────────────────────────────────────────────────────

// SavesTotal counts gateway saves.
// Labels:
//   - collection: "users" or "events"
//   - result: "ok" or "error"
var SavesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "saves_total",
		Help:      "Total number of full-collection saves, by collection and result.",
	},
	[]string{"collection", "result"},
)

// SaveDuration measures one full-collection save.
var SaveDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "save_duration_seconds",
		Help:      "Duration of a full-collection save through the gateway.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"collection"},
)

// Result maps an error to the "ok"/"error" label value.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// WriteTextfile dumps every registered collector to path in the text
// exposition format. The file is replaced atomically.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
