// Package repair implements the fuzzy JSON repair engine: a one-pass,
// character-driven state machine paired with a prioritized set of repair
// strategies that rewrites almost-JSON text into a string a strict JSON
// parser will accept.
package repair

import "strings"

// Context is one frame of the parser's structural stack, indicating what
// kind of token is expected next.
type Context int8

// The eight context variants. Root is the sentinel bottom of the stack and
// is never popped.
const (
	Root Context = iota
	Object
	Array
	Colon
	DoubleQuoteProperty
	SingleQuoteProperty
	DoubleQuoteValue
	SingleQuoteValue
)

// IsKey reports whether c is one of the property-key contexts.
func (c Context) IsKey() bool {
	return c == DoubleQuoteProperty || c == SingleQuoteProperty
}

// IsValue reports whether c is one of the quoted-value contexts.
func (c Context) IsValue() bool {
	return c == DoubleQuoteValue || c == SingleQuoteValue
}

// IsKeyOrValue reports whether c is any of the four quoted contexts.
func (c Context) IsKeyOrValue() bool {
	return c.IsKey() || c.IsValue()
}

// String names a context frame for diagnostics (log fields, StuckError).
func (c Context) String() string {
	switch c {
	case Root:
		return "root"
	case Object:
		return "object"
	case Array:
		return "array"
	case Colon:
		return "colon"
	case DoubleQuoteProperty:
		return "double_quote_property"
	case SingleQuoteProperty:
		return "single_quote_property"
	case DoubleQuoteValue:
		return "double_quote_value"
	case SingleQuoteValue:
		return "single_quote_value"
	default:
		return "unknown"
	}
}

// State is the sole mutable object during one repair attempt: the input
// cursor, the context stack, and the accumulating strict-JSON output
// buffer.
//
// The input is indexed by Unicode scalar (rune), not byte, and is
// precomputed into a slice once so cursor advances are O(1) rather than
// repeatedly re-walking a string — the single most important performance
// property of this type (a naive `nth(position)` over a string is O(n) per
// call and O(n^2) over a whole parse).
type State struct {
	input  []rune
	pos    int
	stack  []Context
	output []rune
}

// NewState builds a fresh repair State over text. The bottom of the
// context stack is always Root.
func NewState(text string) *State {
	return &State{
		input: []rune(text),
		stack: []Context{Root},
	}
}

// CurrentChar returns the rune at the cursor, or false if the cursor is
// past the end of input.
func (s *State) CurrentChar() (rune, bool) {
	if s.pos >= len(s.input) {
		return 0, false
	}
	return s.input[s.pos], true
}

// PeekChars returns up to count runes starting at the cursor, without
// advancing it.
func (s *State) PeekChars(count int) string {
	end := s.pos + count
	if end > len(s.input) {
		end = len(s.input)
	}
	if s.pos >= end {
		return ""
	}
	return string(s.input[s.pos:end])
}

// Advance moves the cursor forward by count runes and returns the runes
// skipped over.
func (s *State) Advance(count int) string {
	end := s.pos + count
	if end > len(s.input) {
		end = len(s.input)
	}
	skipped := string(s.input[s.pos:end])
	s.pos = end
	return skipped
}

// Remaining returns the not-yet-consumed suffix of the input.
func (s *State) Remaining() string {
	if s.pos >= len(s.input) {
		return ""
	}
	return string(s.input[s.pos:])
}

// Position returns the current cursor position (in runes).
func (s *State) Position() int {
	return s.pos
}

// IsFinished reports whether the cursor has reached the end of input.
func (s *State) IsFinished() bool {
	return s.pos >= len(s.input)
}

// CurrentContext returns the top of the context stack.
func (s *State) CurrentContext() Context {
	if len(s.stack) == 0 {
		return Root
	}
	return s.stack[len(s.stack)-1]
}

// PushContext pushes a new context frame.
func (s *State) PushContext(c Context) {
	s.stack = append(s.stack, c)
}

// PopContext pops the top context frame. Root is never popped: invariant 1
// (stack[0] == Root, pops never remove Root) holds unconditionally here,
// so callers can pop without separately checking depth.
func (s *State) PopContext() Context {
	if len(s.stack) <= 1 {
		return Root
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return top
}

// Stack returns the context stack, bottom first. Callers must not mutate
// the returned slice.
func (s *State) Stack() []Context {
	return s.stack
}

// Emit appends a rune to the output buffer.
func (s *State) Emit(r rune) {
	s.output = append(s.output, r)
}

// EmitString appends a string to the output buffer.
func (s *State) EmitString(str string) {
	s.output = append(s.output, []rune(str)...)
}

// Output returns the accumulated output buffer as a string.
func (s *State) Output() string {
	return string(s.output)
}

// OutputEndsWith reports whether the output buffer, ignoring trailing ASCII
// whitespace, ends with suffix.
func (s *State) OutputEndsWith(suffix string) bool {
	return strings.HasSuffix(strings.TrimRight(s.Output(), " \t\r\n"), suffix)
}

// TrimTrailingComma removes one trailing comma from the output buffer, if
// present after trimming trailing whitespace. This is the single bounded
// right-trim strategies are allowed to perform (invariant: strategies
// cannot reorder already-emitted output except for this).
func (s *State) TrimTrailingComma() {
	trimmed := strings.TrimRight(s.Output(), " \t\r\n")
	if strings.HasSuffix(trimmed, ",") {
		s.output = []rune(trimmed[:len(trimmed)-1])
	}
}

// UnescapedQuoteCountOdd reports whether the output buffer contains an odd
// number of `"` characters that are not escaped by a preceding backslash —
// i.e. whether the output currently has an unterminated string.
func (s *State) UnescapedQuoteCountOdd() bool {
	count := 0
	escaped := false
	for _, r := range s.output {
		if escaped {
			escaped = false
			continue
		}
		if r == '\\' {
			escaped = true
			continue
		}
		if r == '"' {
			count++
		}
	}
	return count%2 != 0
}

// LastOutputRune returns the final rune of the output buffer, or false if
// it is empty.
func (s *State) LastOutputRune() (rune, bool) {
	if len(s.output) == 0 {
		return 0, false
	}
	return s.output[len(s.output)-1], true
}
