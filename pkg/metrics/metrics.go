// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_events_total",
		Help: "Authentication events by kind and outcome.",
	}, []string{"event", "outcome"})

	MailDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "mail_deliveries_total",
		Help: "Mail delivery attempts by provider and outcome.",
	}, []string{"provider", "outcome"})

	GameResults = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "game_results_total",
		Help: "Accepted game results by game id.",
	}, []string{"game"})
)

// Outcome maps an error to the outcome label.
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}
