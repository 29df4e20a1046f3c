package handler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "story_registrations_total",
		Help: "Total number of successful user registrations.",
	})

	tokenVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_token_verifications_total",
			Help: "Total number of token verification attempts by source and status.",
		},
		[]string{"source", "status"}, // cookie/header; success/failure
	)

	rateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_rate_limited_requests_total",
			Help: "Total number of requests rejected by the rate limiter.",
		},
		[]string{"scope"},
	)
)
