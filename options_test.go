package fuzzyjson

import "testing"

func TestDefaultOptionsAllowRepair(t *testing.T) {
	opts := DefaultOptions()
	if !opts.repairOptions.AutoRepair {
		t.Errorf("expected AutoRepair to default to true")
	}
	if opts.repairOptions.MaxRepairAttempts <= 0 {
		t.Errorf("expected a positive default attempt cap")
	}
}

func TestBuilderOverridesDefaults(t *testing.T) {
	opts := NewBuilder().
		WithAutoRepair(false).
		WithTrailingCommas(false).
		WithSingleQuotes(false).
		WithUnquotedKeys(true).
		WithMaxRepairAttempts(42).
		Build()

	if opts.repairOptions.AutoRepair {
		t.Errorf("expected AutoRepair false")
	}
	if opts.repairOptions.AllowTrailingCommas {
		t.Errorf("expected AllowTrailingCommas false")
	}
	if opts.repairOptions.AllowSingleQuotes {
		t.Errorf("expected AllowSingleQuotes false")
	}
	if !opts.repairOptions.AllowUnquotedKeys {
		t.Errorf("expected AllowUnquotedKeys true")
	}
	if opts.repairOptions.MaxRepairAttempts != 42 {
		t.Errorf("expected MaxRepairAttempts 42, got %d", opts.repairOptions.MaxRepairAttempts)
	}
}

func TestBuilderIgnoresNonPositiveAttemptCap(t *testing.T) {
	opts := NewBuilder().WithMaxRepairAttempts(0).Build()
	if opts.repairOptions.MaxRepairAttempts != DefaultOptions().repairOptions.MaxRepairAttempts {
		t.Errorf("expected non-positive attempt cap to be ignored")
	}
}

func TestBuilderIgnoresNilRecorder(t *testing.T) {
	opts := NewBuilder().WithRecorder(nil).Build()
	if opts.recorder == nil {
		t.Errorf("expected a non-nil default recorder to survive a nil WithRecorder call")
	}
}
