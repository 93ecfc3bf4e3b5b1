package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Booking outcomes used as the outcome label on BookingAttempts.
const (
	OutcomeBooked     = "booked"
	OutcomeConflict   = "conflict"
	OutcomeValidation = "validation_failed"
	OutcomeLostRace   = "lost_race"
	OutcomeError      = "error"
)

var (
	// BookingAttempts counts booking attempts by final outcome.
	BookingAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clinic",
		Name:      "booking_attempts_total",
		Help:      "Booking attempts by outcome.",
	}, []string{"outcome"})

	// BulkEditDates counts individual dates touched by bulk edits.
	BulkEditDates = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "clinic",
		Name:      "bulk_edit_dates_total",
		Help:      "Dates processed by bulk schedule edits, by operation and result.",
	}, []string{"operation", "result"})

	// SlotsMaterialized counts materialized time slot rows written.
	SlotsMaterialized = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "clinic",
		Name:      "slots_materialized_total",
		Help:      "Time slot rows inserted by slot materialization.",
	})

	// HTTPRequestDuration observes handler latency by route and method.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "clinic",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
)
