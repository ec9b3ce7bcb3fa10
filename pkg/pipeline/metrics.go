// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patchform_requests_total",
			Help: "Total number of patch requests processed",
		},
		[]string{"status"},
	)

	requestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "patchform_request_duration_seconds",
			Help:    "Patch request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	fragmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "patchform_fragments_total",
			Help: "Total number of patch fragments generated",
		},
		[]string{"kind"},
	)

	patchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "patchform_patches_total",
			Help: "Total number of consolidated patches produced",
		},
	)

	zeroTargetWarnings = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "patchform_zero_target_warnings_total",
			Help: "Total number of intents that matched no resources",
		},
	)
)
