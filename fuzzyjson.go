// Package fuzzyjson parses almost-JSON text — the kind an LLM or a
// hand-edited config file produces — by first trying a strict parse and,
// failing that, running a one-pass repair engine before re-parsing the
// result.
package fuzzyjson

import (
	"encoding/json"
	"errors"

	"github.com/fuzzyjson/fuzzyjson/internal/repair"
	"github.com/fuzzyjson/fuzzyjson/internal/strictjson"
)

// Value is a parsed JSON document. It is an alias for the strict
// parser's value type so downstream code never has to import
// internal/strictjson directly.
type Value = strictjson.Value

// Parser repairs and parses JSON text according to a fixed set of
// Options. The zero value is not ready to use; build one with New.
type Parser struct {
	opts   Options
	engine *repair.Engine
	ids    *attemptIDSource
}

// New builds a Parser from opts.
func New(opts Options) *Parser {
	engine := repair.NewEngine(opts.repairOptions, opts.log)
	if len(opts.extraHandlers) > 0 {
		engine.Handlers = append(engine.Handlers, opts.extraHandlers...)
	}
	if len(opts.extraStrategies) > 0 {
		engine.Strategies = repair.SortStrategies(append(engine.Strategies, opts.extraStrategies...))
	}
	return &Parser{
		opts:   opts,
		engine: engine,
		ids:    newAttemptIDSource(),
	}
}

// Parse parses text using p's Options, repairing it first if needed.
func (p *Parser) Parse(text string) (val *Value, err error) {
	id := p.ids.Next()
	repaired := false

	defer func() {
		p.opts.recorder.ObserveParse(repaired, err == nil)
	}()

	val, strictErr := strictjson.ParseString(text)
	if strictErr == nil {
		return val, nil
	}

	if !p.opts.repairOptions.AutoRepair {
		return nil, newParseError(id, text, strictErr)
	}

	fixed, repairErr := p.engine.Repair(text)
	if repairErr != nil {
		var stuck *repair.StuckError
		if errors.As(repairErr, &stuck) {
			return nil, newStuckParseError(id, text, stuck)
		}
		return nil, newRepairFailedError(id, text, repairErr)
	}
	repaired = true

	val, err = strictjson.ParseString(fixed)
	if err != nil {
		return nil, newRepairFailedError(id, text, err)
	}
	return val, nil
}

// Parse parses text using a Parser built from DefaultOptions, repairing
// it first if it isn't already valid JSON.
func Parse(text string) (*Value, error) {
	return New(DefaultOptions()).Parse(text)
}

// ParseAs parses text with a Parser built from opts and unmarshals the
// result into a value of type T via encoding/json (using Value's
// MarshalJSON). It is a package-level function, rather than a method on
// Parser, because Go methods cannot carry their own type parameters.
func ParseAs[T any](opts Options, text string) (T, error) {
	var zero T

	p := New(opts)
	val, err := p.Parse(text)
	if err != nil {
		return zero, err
	}

	raw, err := val.MarshalJSON()
	if err != nil {
		return zero, newDownstreamError(p.ids.Next(), err)
	}

	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, newDownstreamError(p.ids.Next(), err)
	}
	return out, nil
}

// ParseTextAs parses text with a Parser built from DefaultOptions and
// unmarshals the result into a value of type T.
func ParseTextAs[T any](text string) (T, error) {
	return ParseAs[T](DefaultOptions(), text)
}
