// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atelier_pipeline_runs_total",
		Help: "Pipeline runs by terminal state.",
	}, []string{"state"})

	attemptsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atelier_pipeline_attempts_total",
		Help: "Generation attempts across all runs.",
	})

	validationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "atelier_validation_failures_total",
		Help: "Failed validation rounds by stage.",
	}, []string{"stage"})

	criticOutagesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "atelier_critic_outages_total",
		Help: "Critic calls downgraded to an implicit pass.",
	})

	runDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "atelier_pipeline_run_duration_seconds",
		Help:    "Wall-clock duration of one pipeline run.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})
)
