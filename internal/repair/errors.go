package repair

import (
	"errors"
	"fmt"
)

// ErrRepairFailed is wrapped into the error Engine.Repair returns when the
// repair loop could not drive the cursor back to Root within the
// configured attempt budget, or when the text it produced still fails
// strict parsing.
var ErrRepairFailed = errors.New("repair: could not produce valid JSON")

// ErrNotRepaired is wrapped into the error Engine.Repair returns when the
// input fails strict parsing and Options.AutoRepair is false, so no
// repair was attempted at all.
var ErrNotRepaired = errors.New("repair: input is not valid JSON and repair is disabled")

// ErrStuck is wrapped by StuckError. It identifies the specific failure
// mode where, at some position before input was exhausted, no registered
// handler and no registered strategy recognized the defect at all — as
// opposed to recognizing it but failing to resolve it.
var ErrStuck = errors.New("repair: no handler or strategy could make progress")

// StuckError reports exactly where the repair loop gave up: the rune
// position, the topmost structural context at that point, and the
// character the cursor was on (if any — the cursor can be stuck at the
// very end of input with no current character).
type StuckError struct {
	Position int
	Context  Context
	Char     rune
	HasChar  bool
}

func (e *StuckError) Error() string {
	if e.HasChar {
		return fmt.Sprintf("repair: stuck at position %d (context %s) on character %q", e.Position, e.Context, e.Char)
	}
	return fmt.Sprintf("repair: stuck at position %d (context %s) at end of input", e.Position, e.Context)
}

func (e *StuckError) Unwrap() error { return ErrStuck }
