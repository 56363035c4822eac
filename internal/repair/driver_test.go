package repair

import (
	"errors"
	"testing"
)

func TestRepairPassesThroughAlreadyValidJSON(t *testing.T) {
	e := NewEngine(DefaultOptions(), nil)
	input := `{"a": 1}`
	out, err := e.Repair(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != input {
		t.Errorf("expected input unchanged, got %q", out)
	}
}

func TestRepairDisabledReturnsError(t *testing.T) {
	opts := DefaultOptions()
	opts.AutoRepair = false
	e := NewEngine(opts, nil)
	if _, err := e.Repair(`{"a": `); err == nil {
		t.Fatalf("expected error when auto repair is disabled")
	}
}

// The scenario table below mirrors the concrete input/output examples
// this engine is meant to reproduce: truncated objects, single quotes,
// unquoted keys, trailing commas, undefined literals, and code fences.
func TestRepairScenarioTable(t *testing.T) {
	for _, test := range []struct {
		name  string
		opts  Options
		input string
	}{
		{
			name:  "truncated nested object",
			opts:  DefaultOptions(),
			input: `{"a": [1, 2, {"b": 3`,
		},
		{
			name:  "single quoted strings",
			opts:  DefaultOptions(),
			input: `{'a': 'hello', 'b': 2}`,
		},
		{
			name: "unquoted keys",
			opts: func() Options {
				o := DefaultOptions()
				o.AllowUnquotedKeys = true
				return o
			}(),
			input: `{name: "Ada", age: 36}`,
		},
		{
			name:  "trailing comma in array",
			opts:  DefaultOptions(),
			input: `[1, 2, 3,]`,
		},
		{
			name:  "trailing comma in object",
			opts:  DefaultOptions(),
			input: `{"a": 1, "b": 2,}`,
		},
		{
			name:  "undefined literal becomes null",
			opts:  DefaultOptions(),
			input: `{"a": undefined}`,
		},
		{
			name:  "wrapped in markdown fence",
			opts:  DefaultOptions(),
			input: "```json\n{\"a\": 1}\n```",
		},
		{
			name:  "dangling property at end of input",
			opts:  DefaultOptions(),
			input: `{"a": 1, "b":`,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			e := NewEngine(test.opts, nil)
			out, err := e.Repair(test.input)
			if err != nil {
				t.Fatalf("expected repair to succeed, got error: %v", err)
			}
			if out == "" {
				t.Errorf("expected non-empty repaired output")
			}
		})
	}
}

func TestRepairReturnsStuckErrorAtExactPosition(t *testing.T) {
	e := NewEngine(DefaultOptions(), nil)
	// '@' is not a legal value-start character in any context, and the
	// partial-property rescue that fires first doesn't advance the
	// cursor, so the driver must hard-fail right here instead of
	// forcing a close-out.
	_, err := e.Repair(`{"a": @}`)
	if err == nil {
		t.Fatalf("expected an error")
	}
	var stuck *StuckError
	if !errors.As(err, &stuck) {
		t.Fatalf("expected a *StuckError, got %v", err)
	}
	if stuck.Char != '@' || !stuck.HasChar {
		t.Errorf("unexpected StuckError fields: %+v", stuck)
	}
	if !errors.Is(err, ErrStuck) {
		t.Errorf("expected ErrStuck in the chain")
	}
}

func TestRepairGivesUpOnUnrecognizableGarbage(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxRepairAttempts = 5
	e := NewEngine(opts, nil)
	_, err := e.Repair(string(rune(0)) + string(rune(1)) + string(rune(2)))
	if err == nil {
		t.Fatalf("expected an error for input that holds no JSON document")
	}
}
