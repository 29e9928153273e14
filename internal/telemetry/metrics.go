package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus instruments a running monitor updates
// once per frame. Labels carry the route and property name so a
// single process checking several routes still yields per-route,
// per-property series.
var (
	// IterationsTotal counts how many times any instance of a
	// (route, property) pair was popped off the work queue.
	IterationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scenemonitor",
		Name:      "iterations_total",
		Help:      "Work-queue iterations per frame, by route and property",
	}, []string{"route", "property"})

	// ViolationsTotal counts recorded violations.
	ViolationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "scenemonitor",
		Name:      "violations_total",
		Help:      "Violations recorded, by route and property",
	}, []string{"route", "property"})

	// LiveInstances reports the number of instances carried forward
	// into the next frame, by route and property.
	LiveInstances = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "scenemonitor",
		Name:      "live_instances",
		Help:      "Instances still live at the end of the last checked frame",
	}, []string{"route", "property"})
)
