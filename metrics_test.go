package fuzzyjson

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPrometheusRecorderCountsByLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := NewPrometheusRecorder(reg)

	rec.ObserveParse(false, true)
	rec.ObserveParse(true, true)
	rec.ObserveParse(true, false)

	metricFamilies, err := reg.Gather()
	if err != nil {
		t.Fatalf("unexpected error gathering metrics: %v", err)
	}

	var found *dto.MetricFamily
	for _, mf := range metricFamilies {
		if mf.GetName() == "fuzzyjson_parses_total" {
			found = mf
		}
	}
	if found == nil {
		t.Fatalf("expected fuzzyjson_parses_total to be registered")
	}
	if len(found.Metric) != 3 {
		t.Errorf("expected 3 distinct label combinations, got %d", len(found.Metric))
	}
}

func TestNoopRecorderDoesNotPanic(t *testing.T) {
	var rec Recorder = noopRecorder{}
	rec.ObserveParse(true, false)
}
