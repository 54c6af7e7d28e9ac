package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PlaceSearchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "travelmap_place_search_total",
		Help: "Total place search proxy requests",
	}, []string{"mode"})
	PlaceSearchErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "travelmap_place_search_errors_total",
		Help: "Total upstream place search failures",
	})
	PlaceCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "travelmap_place_cache_hits_total",
		Help: "Total place search cache hits",
	})
	PlaceCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "travelmap_place_cache_misses_total",
		Help: "Total place search cache misses",
	})
	MarkerAddsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "travelmap_marker_adds_total",
		Help: "Total map markers created by reconciliation",
	})
	MarkerRemovesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "travelmap_marker_removes_total",
		Help: "Total map markers removed by reconciliation",
	})
	CameraMovesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "travelmap_camera_moves_total",
		Help: "Total camera fly-to animations issued",
	})
	MapSessionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "travelmap_map_sessions_total",
		Help: "Total websocket map sessions opened",
	})
)

var registry = prometheus.NewRegistry()

func init() {
	registry.MustRegister(
		PlaceSearchTotal,
		PlaceSearchErrorsTotal,
		PlaceCacheHitsTotal,
		PlaceCacheMissesTotal,
		MarkerAddsTotal,
		MarkerRemovesTotal,
		CameraMovesTotal,
		MapSessionsTotal,
	)
}

// Handler serves the /metrics scrape endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
