package relay

import "expvar"

var (
	metricRequestsTotal = expvar.NewInt("relay_requests_total")
	metricRejectedTotal = expvar.NewInt("relay_rejected_total")
	metricUpstreamError = expvar.NewInt("relay_upstream_error_total")
)
