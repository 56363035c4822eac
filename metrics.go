package fuzzyjson

import "github.com/prometheus/client_golang/prometheus"

// Recorder observes the outcome of Parse/ParseAs calls. Implementations
// must be safe for concurrent use, since a Parser may be shared across
// goroutines.
type Recorder interface {
	// ObserveParse is called once per Parse/ParseAs call with whether the
	// repair engine produced the text that was parsed (false when the
	// input was already valid or repair failed) and whether the parse
	// succeeded. For ParseAs, a later failure to unmarshal into the target
	// type is not reported.
	ObserveParse(repaired bool, ok bool)
}

// noopRecorder is the default Recorder when none is configured.
type noopRecorder struct{}

func (noopRecorder) ObserveParse(bool, bool) {}

// prometheusRecorder reports parse outcomes as a counter vector labeled
// by repaired ("true"/"false") and result ("ok"/"error").
type prometheusRecorder struct {
	parses *prometheus.CounterVec
}

// NewPrometheusRecorder builds a Recorder backed by a
// fuzzyjson_parses_total counter vector and registers it with reg. reg is
// typically prometheus.DefaultRegisterer, or a dedicated
// prometheus.NewRegistry() in tests.
func NewPrometheusRecorder(reg prometheus.Registerer) Recorder {
	parses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fuzzyjson_parses_total",
		Help: "Total number of Parse/ParseAs calls, labeled by whether the input was repaired and the outcome.",
	}, []string{"repaired", "result"})

	reg.MustRegister(parses)

	return &prometheusRecorder{parses: parses}
}

func (r *prometheusRecorder) ObserveParse(repaired bool, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	r.parses.WithLabelValues(boolLabel(repaired), result).Inc()
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
