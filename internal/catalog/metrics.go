package catalog

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	loadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediabolt_feed_loads_total",
			Help: "Feed page loads by direction and outcome.",
		},
		[]string{"load", "result"},
	)

	itemsCommitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mediabolt_feed_items_committed_total",
			Help: "Media rows committed by feed page loads.",
		},
	)

	refreshSkips = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mediabolt_feed_refresh_skips_total",
			Help: "Initial refreshes skipped because the cache was fresh.",
		},
	)
)

func recordLoad(loadType LoadType, result Result, items int) {
	outcome := "success"
	switch {
	case result.Err != nil:
		outcome = "error"
	case result.EndOfPagination:
		outcome = "end_of_data"
	}
	loadsTotal.WithLabelValues(loadType.String(), outcome).Inc()
	if result.Err == nil {
		itemsCommitted.Add(float64(items))
	}
}
