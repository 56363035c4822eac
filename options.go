package fuzzyjson

import (
	"github.com/sirupsen/logrus"

	"github.com/fuzzyjson/fuzzyjson/internal/repair"
)

// Options controls a Parser's behavior. Build one with NewBuilder rather
// than constructing it directly, since the zero value's MaxRepairAttempts
// is 0 and would reject every malformed document immediately.
type Options struct {
	repairOptions   repair.Options
	log             logrus.FieldLogger
	recorder        Recorder
	extraHandlers   []repair.Handler
	extraStrategies []repair.Strategy
}

// DefaultOptions returns the same defaults NewBuilder().Build() would:
// repair enabled, trailing commas and single quotes tolerated, a 1500
// attempt cap, no logger, and no metrics recorder.
func DefaultOptions() Options {
	return Options{
		repairOptions: repair.DefaultOptions(),
		log:           nil,
		recorder:      noopRecorder{},
	}
}

// Builder assembles an Options value one option at a time. It exists
// because the full surface — repair toggles, custom handlers and
// strategies, logging, metrics — is wider than a single constructor call
// reads comfortably; see NewBuilder.
type Builder struct {
	opts Options
}

// NewBuilder starts a Builder from DefaultOptions.
func NewBuilder() *Builder {
	return &Builder{opts: DefaultOptions()}
}

// WithAutoRepair toggles whether Parse attempts repair at all; false
// makes Parse behave like a strict JSON parser.
func (b *Builder) WithAutoRepair(enabled bool) *Builder {
	b.opts.repairOptions.AutoRepair = enabled
	return b
}

// WithTrailingCommas toggles the strategy that skips a comma whose second
// following character is a closing brace or bracket.
func (b *Builder) WithTrailingCommas(enabled bool) *Builder {
	b.opts.repairOptions.AllowTrailingCommas = enabled
	return b
}

// WithComments sets the reserved AllowComments flag. No handler or
// strategy currently consults it; comment stripping is not implemented.
func (b *Builder) WithComments(enabled bool) *Builder {
	b.opts.repairOptions.AllowComments = enabled
	return b
}

// WithSingleQuotes toggles transcoding '...'-quoted strings to "...".
func (b *Builder) WithSingleQuotes(enabled bool) *Builder {
	b.opts.repairOptions.AllowSingleQuotes = enabled
	return b
}

// WithUnquotedKeys toggles rescuing bare identifier object keys.
func (b *Builder) WithUnquotedKeys(enabled bool) *Builder {
	b.opts.repairOptions.AllowUnquotedKeys = enabled
	return b
}

// WithMaxRepairAttempts overrides the attempt cap the repair loop gives
// up after. Values <= 0 are ignored (the default of 1500 is kept).
func (b *Builder) WithMaxRepairAttempts(max int) *Builder {
	if max > 0 {
		b.opts.repairOptions.MaxRepairAttempts = max
	}
	return b
}

// WithStrictMode sets the reserved StrictMode flag. No handler or
// strategy currently consults it.
func (b *Builder) WithStrictMode(enabled bool) *Builder {
	b.opts.repairOptions.StrictMode = enabled
	return b
}

// WithAggressiveTruncationRepair sets the AggressiveTruncationRepair
// flag. Parse does not consult it: no scope-closing pre-pass runs and the
// truncation strategy behaves the same whatever its value.
func (b *Builder) WithAggressiveTruncationRepair(enabled bool) *Builder {
	b.opts.repairOptions.AggressiveTruncationRepair = enabled
	return b
}

// WithLogger attaches a structured logger; log lines are emitted at
// Debug level for individual repair steps that made no progress.
func (b *Builder) WithLogger(log logrus.FieldLogger) *Builder {
	b.opts.log = log
	return b
}

// WithRecorder attaches a Recorder that observes parse outcomes, e.g.
// NewPrometheusRecorder.
func (b *Builder) WithRecorder(recorder Recorder) *Builder {
	if recorder != nil {
		b.opts.recorder = recorder
	}
	return b
}

// AddHandler appends a user-supplied handler to the end of the default
// handler set, tried only after all built-in handlers have declined.
func (b *Builder) AddHandler(h repair.Handler) *Builder {
	b.opts.extraHandlers = append(b.opts.extraHandlers, h)
	return b
}

// AddStrategy appends a user-supplied strategy. It is merged with the
// built-in strategies and sorted by priority like any other, so it
// competes on equal terms rather than always running last.
func (b *Builder) AddStrategy(s repair.Strategy) *Builder {
	b.opts.extraStrategies = append(b.opts.extraStrategies, s)
	return b
}

// Build finalizes the Options.
func (b *Builder) Build() Options {
	return b.opts
}
