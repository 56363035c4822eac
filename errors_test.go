package fuzzyjson

import (
	"errors"
	"testing"

	"github.com/fuzzyjson/fuzzyjson/internal/repair"
)

func TestNewParseErrorWrapsSentinel(t *testing.T) {
	err := newParseError("01ATTEMPT", `{bad`, errors.New("unexpected end of input"))
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse in the chain")
	}
}

func TestNewStuckParseErrorWrapsSentinelAndType(t *testing.T) {
	stuck := &repair.StuckError{Position: 4, Context: repair.Object, Char: '#', HasChar: true}
	err := newStuckParseError("01ATTEMPT", `{#`, stuck)

	if !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse in the chain")
	}

	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected a *ParseError in the chain")
	}
	if perr.Position != 4 || perr.Context != "object" || perr.Char != '#' || !perr.HasChar {
		t.Errorf("unexpected ParseError fields: %+v", perr)
	}
}

func TestNewRepairFailedErrorWrapsSentinel(t *testing.T) {
	err := newRepairFailedError("01ATTEMPT", `{bad`, errors.New("still broken"))
	if !errors.Is(err, ErrRepairFailed) {
		t.Errorf("expected ErrRepairFailed in the chain")
	}
}

func TestNewDownstreamErrorWrapsSentinel(t *testing.T) {
	err := newDownstreamError("01ATTEMPT", errors.New("cannot unmarshal number into string"))
	if !errors.Is(err, ErrDownstreamJSON) {
		t.Errorf("expected ErrDownstreamJSON in the chain")
	}
}

func TestJoinWithSentinelHandlesNilCause(t *testing.T) {
	err := joinWithSentinel(ErrParse, nil)
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected sentinel preserved when cause is nil")
	}
}
