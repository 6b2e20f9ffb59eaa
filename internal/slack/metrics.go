package slack

import "expvar"

var (
	metricSentTotal       = expvar.NewInt("notipy_sent_total")
	metricFailedTotal     = expvar.NewInt("notipy_failed_total")
	metricSuppressedTotal = expvar.NewInt("notipy_suppressed_total")
)
