// Package metrics exposes prometheus counters for the API.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Mutations counts create/update/delete/post/edit attempts per kind,
	// split by whether they were applied.
	Mutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studentdev",
		Name:      "mutations_total",
		Help:      "Mutation attempts by entity kind, operation and outcome.",
	}, []string{"kind", "op", "applied"})

	// Logins counts completed logins and signups by resolved role.
	Logins = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studentdev",
		Name:      "logins_total",
		Help:      "Completed logins by method and role.",
	}, []string{"method", "role"})

	// EventsPublished counts activity events handed to the broker.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "studentdev",
		Name:      "events_published_total",
		Help:      "Activity events by outcome.",
	}, []string{"outcome"})
)

// Mutation records one mutation attempt.
func Mutation(kind, op string, applied bool) {
	Mutations.WithLabelValues(kind, op, strconv.FormatBool(applied)).Inc()
}
