package telemetry

// PrometheusRecorder implements monitor.Recorder against the package's
// global Prometheus vectors. It has no state of its own, it is safe
// to share across every Monitor in a process, since the Prometheus
// vectors themselves are what accumulate values, keyed by the
// route/property labels each call supplies.
type PrometheusRecorder struct{}

// RecordIterations implements monitor.Recorder.
func (PrometheusRecorder) RecordIterations(route, property string, n int) {
	IterationsTotal.WithLabelValues(route, property).Add(float64(n))
}

// RecordViolation implements monitor.Recorder.
func (PrometheusRecorder) RecordViolation(route, property string) {
	ViolationsTotal.WithLabelValues(route, property).Inc()
}

// RecordLiveInstances implements monitor.Recorder.
func (PrometheusRecorder) RecordLiveInstances(route, property string, n int) {
	LiveInstances.WithLabelValues(route, property).Set(float64(n))
}
