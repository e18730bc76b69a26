package engine

import "github.com/prometheus/client_golang/prometheus"

// Prometheus engine metrics.
var (
	settingsUpdatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "themestudio_settings_updates_total",
			Help: "Total number of committed settings changes, by kind.",
		},
		[]string{"kind"},
	)
	mergeRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "themestudio_merge_rejections_total",
			Help: "Total number of patch leaves dropped by the settings merge.",
		},
		[]string{"branch"},
	)
	themeOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "themestudio_theme_operations_total",
			Help: "Total number of persistence operations issued by the engine.",
		},
		[]string{"op", "result"},
	)
)

func init() {
	prometheus.MustRegister(settingsUpdatesTotal)
	prometheus.MustRegister(mergeRejectionsTotal)
	prometheus.MustRegister(themeOperationsTotal)
}

func observeOp(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	themeOperationsTotal.WithLabelValues(op, result).Inc()
}
