// Package metrics defines and registers the custom Prometheus metrics for
// the addon. It is the single source of truth for metric names, labels and
// help strings; metrics register with the default registry at import time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "streamgate"

// StreamLookupsTotal counts stream lookup requests.
// Labels:
//   - type: "movie" or "series"
//   - outcome: "hit" (at least one stream returned) or "empty"
var StreamLookupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "stream_lookups_total",
		Help:      "Total number of stream lookup requests, by media type and outcome.",
	},
	[]string{"type", "outcome"},
)

// StreamsReturned observes how many streams each lookup produced.
var StreamsReturned = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "streams_returned",
		Help:      "Number of streams returned per lookup.",
		Buckets:   []float64{0, 1, 2, 3, 5, 10},
	},
)

// WebshareRequestsTotal counts calls to the external service.
// Labels:
//   - endpoint: "search", "file_link", "salt", "user_data"
//   - outcome: "ok" or "error" (transport/HTTP failure)
var WebshareRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webshare_requests_total",
		Help:      "Total number of requests to the external file-search service.",
	},
	[]string{"endpoint", "outcome"},
)

// CredentialDerivationsTotal counts session credential derivations.
// Label:
//   - result: "ok", "no_salt", "rejected", "error"
var CredentialDerivationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_derivations_total",
		Help:      "Total number of session credential derivation attempts, by result.",
	},
	[]string{"result"},
)
