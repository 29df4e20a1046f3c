package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	authOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_auth_operations_total",
			Help: "Total number of authentication operations by result.",
		},
		[]string{"operation", "status"}, // register/login/logout/verify; success/failure
	)
	storyOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_operations_total",
			Help: "Total number of story operations by result.",
		},
		[]string{"operation", "status"},
	)
	publicFeedCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_public_feed_cache_total",
			Help: "Public feed cache lookups.",
		},
		[]string{"result"}, // hit, miss
	)
)

func observeOp(vec *prometheus.CounterVec, operation string, err error) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	vec.With(prometheus.Labels{"operation": operation, "status": status}).Inc()
}
