package timing

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/perf/benchfmt"
)

// WriteBenchfmt writes one benchmark line per sample, named
// HighImpact/engine=<engine>/step=<step>, so runs can be compared with
// benchstat.
func (t *Timer) WriteBenchfmt(w io.Writer) error {
	bw := benchfmt.NewWriter(w)
	for _, s := range t.Samples() {
		res := benchfmt.Result{
			Config:     []benchfmt.Config{{Key: "pkg", Value: []byte("github.com/wdm0006/covidbench"), File: true}},
			Name:       benchfmt.Name(fmt.Sprintf("HighImpact/engine=%s/step=%s", label(s.Engine), label(s.Step))),
			Iters:      1,
			Values:     []benchfmt.Value{{Value: float64(s.Elapsed.Nanoseconds()), Unit: "ns/op"}},
		}
		if err := bw.Write(&res); err != nil {
			return err
		}
	}
	return nil
}

// label keeps benchmark names free of spaces and slashes.
func label(s string) string {
	if s == "" {
		return "none"
	}
	return strings.NewReplacer(" ", "_", "/", "_").Replace(s)
}

// Registry returns a prometheus registry holding the step duration gauge.
// Steps recorded more than once (read_csv) are summed.
func (t *Timer) Registry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "covidbench",
		Name:      "step_duration_seconds",
		Help:      "Wall time spent in each benchmark step.",
	}, []string{"engine", "step"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "covidbench",
		Name:      "step_runs_total",
		Help:      "Number of times each benchmark step ran.",
	}, []string{"engine", "step"})
	reg.MustRegister(g, runs)
	for _, s := range t.Samples() {
		g.WithLabelValues(s.Engine, s.Step).Add(s.Elapsed.Seconds())
		runs.WithLabelValues(s.Engine, s.Step).Inc()
	}
	return reg
}

// WriteMetrics writes the samples to path in the prometheus textfile
// format, for the node exporter textfile collector.
func (t *Timer) WriteMetrics(path string) error {
	return prometheus.WriteToTextfile(path, t.Registry())
}
