package fuzzyjson

import (
	"errors"
	"fmt"

	"github.com/samber/oops"

	"github.com/fuzzyjson/fuzzyjson/internal/repair"
)

// Sentinel errors callers can match against with errors.Is. The oops
// errors constructed below all wrap one of these.
var (
	// ErrParse is returned when the input fails strict parsing and either
	// repair was never attempted (AutoRepair disabled) or the repair loop
	// hit a defect no handler or strategy recognizes at all, reported as
	// a *ParseError.
	ErrParse = errors.New("fuzzyjson: input is not valid JSON")

	// ErrRepairFailed is returned when the repair engine recognized the
	// input's defects but could not drive it back to a parseable
	// document (attempt cap exceeded, or the repaired text still fails
	// strict parsing).
	ErrRepairFailed = errors.New("fuzzyjson: could not repair input into valid JSON")

	// ErrDownstreamJSON is returned when the repaired text round-trips
	// through encoding/json (via ParseAs) but fails to unmarshal into the
	// caller's target type.
	ErrDownstreamJSON = errors.New("fuzzyjson: repaired JSON does not match the requested type")
)

// ParseError reports where the repair engine gave up because no handler
// or strategy could make progress against the input at all: the rune
// position, the structural context on top of the stack at that point,
// and the character the cursor was on (absent if it was stuck at the
// very end of input).
type ParseError struct {
	Position int
	Context  string
	Char     rune
	HasChar  bool
}

func (e *ParseError) Error() string {
	if e.HasChar {
		return fmt.Sprintf("fuzzyjson: parse error at position %d (context %s) on character %q", e.Position, e.Context, e.Char)
	}
	return fmt.Sprintf("fuzzyjson: parse error at position %d (context %s) at end of input", e.Position, e.Context)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// newParseError builds a structured, loggable error for a parse that
// failed without a specific stuck position to report — AutoRepair was
// disabled, so the strict parser's own rejection is the only detail
// available.
func newParseError(attemptID string, text string, cause error) error {
	return oops.
		Code("FUZZYJSON_NOT_VALID").
		With("attempt_id", attemptID).
		With("input_length", len(text)).
		Wrap(joinWithSentinel(ErrParse, cause))
}

// newStuckParseError builds a *ParseError from the repair engine's
// *repair.StuckError and wraps it the same structured way newParseError
// does, so both failure modes of "input is not valid JSON" surface
// consistently.
func newStuckParseError(attemptID string, text string, stuck *repair.StuckError) error {
	perr := &ParseError{
		Position: stuck.Position,
		Context:  stuck.Context.String(),
		Char:     stuck.Char,
		HasChar:  stuck.HasChar,
	}
	return oops.
		Code("FUZZYJSON_NOT_VALID").
		With("attempt_id", attemptID).
		With("input_length", len(text)).
		With("position", stuck.Position).
		With("context", stuck.Context.String()).
		Wrap(joinWithSentinel(ErrParse, perr))
}

// newRepairFailedError builds a structured error for a repair attempt
// that never reached a parseable document.
func newRepairFailedError(attemptID string, text string, cause error) error {
	return oops.
		Code("FUZZYJSON_REPAIR_FAILED").
		With("attempt_id", attemptID).
		With("input_length", len(text)).
		Wrap(joinWithSentinel(ErrRepairFailed, cause))
}

// newDownstreamError builds a structured error for a ParseAs call whose
// repaired JSON didn't fit the caller's target type.
func newDownstreamError(attemptID string, cause error) error {
	return oops.
		Code("FUZZYJSON_DOWNSTREAM_TYPE_MISMATCH").
		With("attempt_id", attemptID).
		Wrap(joinWithSentinel(ErrDownstreamJSON, cause))
}

// joinWithSentinel lets errors.Is(err, sentinel) succeed on the oops
// error returned above while still preserving cause's own message and
// chain.
func joinWithSentinel(sentinel, cause error) error {
	if cause == nil {
		return sentinel
	}
	return errors.Join(sentinel, cause)
}
