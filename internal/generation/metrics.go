package generation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_pipeline_runs_total",
			Help: "Total number of story generation pipeline runs by final state.",
		},
		[]string{"outcome"}, // done, failed_validation, failed_text
	)
	pipelineStateTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_pipeline_state_transitions_total",
			Help: "Total number of pipeline state entries.",
		},
		[]string{"state"},
	)
	pipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "story_pipeline_stage_duration_seconds",
			Help:    "Histogram of pipeline stage durations.",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"stage"},
	)

	textRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_text_requests_total",
			Help: "Total number of requests to the text generation provider.",
		},
		[]string{"provider", "model", "status"},
	)
	textRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "story_text_request_duration_seconds",
			Help:    "Histogram of text generation request durations.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "model"},
	)
	textTokens = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "story_text_tokens",
			Help:    "Histogram of token counts per text generation request.",
			Buckets: prometheus.LinearBuckets(250, 250, 12), // 250 ... 3000
		},
		[]string{"provider", "model", "kind"}, // prompt, completion
	)

	imageOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "story_image_outcomes_total",
			Help: "Total number of scene image resolutions by outcome.",
		},
		[]string{"outcome"},
	)
	imageRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "story_image_request_duration_seconds",
			Help:    "Histogram of image prediction durations (create + wait).",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
		},
		[]string{"status"},
	)
)
