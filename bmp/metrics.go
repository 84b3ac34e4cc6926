/*
Copyright 2024 The go-telemetry Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package bmp

import "github.com/prometheus/client_golang/prometheus"

var (
	MessagesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "collector",
		Name:      "bmp_decoded_messages_total",
		Help:      "Total number of decoded BMP messages per type",
	}, []string{"type"})
	ErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "collector",
		Name:      "bmp_decoder_errors_total",
		Help:      "Total number of errors in BMP decoder",
	})
	TrackedPeers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "collector",
		Name:      "bmp_tracked_peers",
		Help:      "Number of peers with capability context across all sessions",
	})
	DurationMicroseconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "collector",
		Name:      "bmp_decoder_duration_microseconds",
		Help:      "Duration of decoding per message in microseconds",
		Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})
)
