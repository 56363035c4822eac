package repair

import (
	"strings"
	"unicode"
)

// Strategy recognizes a defect — either from the strict parser's error
// text or from the cursor's local view — and patches input or output.
// Strategies are tried in priority order (higher first); ties are broken
// by registration order, which matters for TrimStrayBefore/TrimStrayAfter
// (see spec section 9's note on that pair).
type Strategy struct {
	Name     string
	Priority int
	// CanRepair reports whether this strategy recognizes the current
	// defect. error is the strict parser's error text (only its substrings
	// are consulted — see errorHints below); it may be empty when the
	// strategy is running from the cursor's local view alone.
	CanRepair func(s *State, err string) bool
	Repair    func(s *State, err string) error
}

// errorHints are the only substrings of a downstream error message any
// strategy inspects. This keeps the coupling to the strict parser's
// wording explicit and narrow: every structural decision above these
// hints is derivable from State alone.
type errorHints struct {
	ExpectedQuote bool // error mentions "expected" and "quote"
	UnexpectedEnd bool // error mentions "unexpected end" or "unclosed"
	MissingBrace  bool // error mentions "missing" and "}"
	MissingBrack  bool // error mentions "missing" and "]"
}

func hintsFrom(err string) errorHints {
	lower := strings.ToLower(err)
	return errorHints{
		ExpectedQuote: strings.Contains(lower, "expected") && strings.Contains(lower, "quote"),
		UnexpectedEnd: strings.Contains(lower, "unexpected end") || strings.Contains(lower, "unclosed"),
		MissingBrace:  strings.Contains(lower, "missing") && strings.Contains(err, "}"),
		MissingBrack:  strings.Contains(lower, "missing") && strings.Contains(err, "]"),
	}
}

// DefaultStrategies returns the ten built-in strategies, gated by opts
// where spec section 4.5 says a flag controls one (trailing commas,
// single quotes). The caller (Engine) is responsible for sorting by
// priority with a stable sort so registration order survives ties.
func DefaultStrategies(opts Options) []Strategy {
	strategies := []Strategy{truncationRepair()}
	if opts.AllowSingleQuotes {
		strategies = append(strategies, singleQuotesStrategy())
	}
	strategies = append(strategies, codeBlockMarkersStrategy())
	strategies = append(strategies, incompletePropertyStrategy())
	strategies = append(strategies, incompleteArrayStrategy())
	if opts.AllowTrailingCommas {
		strategies = append(strategies, trailingCommaStrategy())
	}
	strategies = append(strategies,
		missingQuotesStrategy(),
		missingBracketsStrategy(),
		trimStrayBeforeStrategy(),
		trimStrayAfterStrategy(),
	)
	return strategies
}

// truncationRepair is the highest-priority strategy (95): it closes every
// open scope once the cursor is finished, the error talks about an
// unexpected end, or the input is exhausted with a non-Root stack.
func truncationRepair() Strategy {
	return Strategy{
		Name:     "truncation_repair",
		Priority: 95,
		CanRepair: func(s *State, err string) bool {
			if s.IsFinished() {
				return true
			}
			hints := hintsFrom(err)
			if hints.UnexpectedEnd {
				return true
			}
			return strings.TrimSpace(s.Remaining()) == "" && s.CurrentContext() != Root
		},
		Repair: func(s *State, _ string) error {
			closeAllScopes(s)
			return nil
		},
	}
}

// closeAllScopes implements spec section 4.3.1's close-out: walk the
// context stack top to bottom, emitting the right-hand side that makes
// each frame well-formed.
func closeAllScopes(s *State) {
	s.TrimTrailingComma()

	if s.UnescapedQuoteCountOdd() {
		s.Emit('"')
	}

	stack := s.Stack()
	for i := len(stack) - 1; i >= 0; i-- {
		switch stack[i] {
		case Object:
			s.Emit('}')
		case Array:
			s.Emit(']')
		case DoubleQuoteProperty, SingleQuoteProperty:
			if last, ok := s.LastOutputRune(); (!ok || last != '"') && s.UnescapedQuoteCountOdd() {
				s.Emit('"')
			}
			s.EmitString(":0")
		case Colon:
			s.Emit('0')
		case DoubleQuoteValue, SingleQuoteValue:
			if last, ok := s.LastOutputRune(); ok && last == '"' && s.UnescapedQuoteCountOdd() {
				s.Emit('"')
			}
		case Root:
			// never emit for Root
		}
	}

	for len(s.Stack()) > 1 {
		s.PopContext()
	}
}

// codeBlockMarkersStrategy (90) advances past a Markdown fence the cursor
// sits on.
func codeBlockMarkersStrategy() Strategy {
	return Strategy{
		Name:     "code_block_markers",
		Priority: 90,
		CanRepair: func(s *State, _ string) bool {
			r := s.Remaining()
			return strings.HasPrefix(r, "```") || strings.HasPrefix(r, "json```")
		},
		Repair: func(s *State, _ string) error {
			r := s.Remaining()
			switch {
			case strings.HasPrefix(r, "json```"), strings.HasPrefix(r, "```json"):
				s.Advance(7)
			case strings.HasPrefix(r, "```"):
				s.Advance(3)
			}
			return nil
		},
	}
}

// singleQuotesStrategy (85) transcodes a single-quoted run into a
// double-quoted one, escaping any embedded `"`.
func singleQuotesStrategy() Strategy {
	return Strategy{
		Name:     "single_quotes",
		Priority: 85,
		CanRepair: func(s *State, _ string) bool {
			ch, ok := s.CurrentChar()
			return ok && ch == '\''
		},
		Repair: func(s *State, _ string) error {
			s.Emit('"')
			s.Advance(1)
			for {
				ch, ok := s.CurrentChar()
				if !ok {
					break
				}
				if ch == '\'' {
					s.Advance(1)
					break
				}
				if ch == '"' {
					s.Emit('\\')
				}
				s.Emit(ch)
				s.Advance(1)
			}
			if s.CurrentContext() == Colon {
				s.PopContext()
			}
			s.Emit('"')
			return nil
		},
	}
}

// incompletePropertyStrategy (85) rescues a dangling `"key":` (or `"key"`
// immediately followed by a stray `:`) by supplying a null value.
func incompletePropertyStrategy() Strategy {
	return Strategy{
		Name:     "incomplete_property",
		Priority: 85,
		CanRepair: func(s *State, _ string) bool {
			out := strings.TrimRight(s.Output(), " \t\r\n")
			return strings.HasSuffix(out, ":") ||
				(strings.HasSuffix(out, `"`) && strings.HasPrefix(strings.TrimSpace(s.Remaining()), ":"))
		},
		Repair: func(s *State, _ string) error {
			out := strings.TrimRight(s.Output(), " \t\r\n")
			if strings.HasSuffix(out, ":") {
				s.EmitString(" null")
				return nil
			}
			s.EmitString(": null")
			for {
				ch, ok := s.CurrentChar()
				if !ok {
					break
				}
				if ch == ':' {
					s.Advance(1)
					break
				}
				if !isASCIIWhitespace(ch) {
					break
				}
				s.Advance(1)
			}
			return nil
		},
	}
}

// incompleteArrayStrategy (80) closes a trailing-comma array that ran out
// of input.
func incompleteArrayStrategy() Strategy {
	return Strategy{
		Name:     "incomplete_array",
		Priority: 80,
		CanRepair: func(s *State, _ string) bool {
			return s.CurrentContext() == Array &&
				strings.HasSuffix(strings.TrimRight(s.Output(), " \t\r\n"), ",") &&
				strings.TrimSpace(s.Remaining()) == ""
		},
		Repair: func(s *State, _ string) error {
			s.TrimTrailingComma()
			s.Emit(']')
			s.PopContext()
			return nil
		},
	}
}

// trailingCommaStrategy (80) skips a comma whose second following
// character is a closing brace/bracket, as in `, ]`.
func trailingCommaStrategy() Strategy {
	return Strategy{
		Name:     "trailing_comma",
		Priority: 80,
		CanRepair: func(s *State, _ string) bool {
			ch, ok := s.CurrentChar()
			if !ok || ch != ',' {
				return false
			}
			next := s.PeekChars(3)
			nextRunes := []rune(next)
			return len(nextRunes) == 3 && (nextRunes[2] == '}' || nextRunes[2] == ']')
		},
		Repair: func(s *State, _ string) error {
			s.Advance(1)
			return nil
		},
	}
}

// missingQuotesStrategy (70) wraps a bare alphabetic run in quotes,
// copying until a delimiter.
func missingQuotesStrategy() Strategy {
	return Strategy{
		Name:     "missing_quotes",
		Priority: 70,
		CanRepair: func(s *State, err string) bool {
			if hintsFrom(err).ExpectedQuote {
				return true
			}
			ch, ok := s.CurrentChar()
			return ok && s.CurrentContext().IsKey() && unicode.IsLetter(ch)
		},
		Repair: func(s *State, _ string) error {
			quote := byte('"')
			if s.CurrentContext() == SingleQuoteProperty {
				quote = '\''
			}
			s.Emit(rune(quote))
			for {
				ch, ok := s.CurrentChar()
				if !ok {
					break
				}
				if isASCIIWhitespace(ch) || ch == ':' || ch == ',' || ch == '}' || ch == ']' {
					break
				}
				s.Emit(ch)
				s.Advance(1)
			}
			s.Emit(rune(quote))
			return nil
		},
	}
}

// trimStrayBeforeStrategy (70) advances past leading prose until the
// first `{` or `[`. It is registered before trimStrayAfterStrategy so
// that, at the same priority, it wins the tie on a fresh Root document —
// see spec section 9.
func trimStrayBeforeStrategy() Strategy {
	return Strategy{
		Name:     "trim_stray_before",
		Priority: 70,
		CanRepair: func(s *State, _ string) bool {
			if s.CurrentContext() != Root {
				return false
			}
			ch, ok := s.CurrentChar()
			return !ok || (ch != '{' && ch != '[')
		},
		Repair: func(s *State, _ string) error {
			for {
				ch, ok := s.CurrentChar()
				if !ok || ch == '{' || ch == '[' {
					break
				}
				s.Advance(1)
			}
			return nil
		},
	}
}

// trimStrayAfterStrategy (70) advances to the end of input once back at
// Root (i.e. after a complete document, or — see trimStrayBeforeStrategy
// above — before one has been seen, which the registration-order
// tie-break rescues).
func trimStrayAfterStrategy() Strategy {
	return Strategy{
		Name:     "trim_stray_after",
		Priority: 70,
		CanRepair: func(s *State, _ string) bool {
			return s.CurrentContext() == Root
		},
		Repair: func(s *State, _ string) error {
			for !s.IsFinished() {
				s.Advance(1)
			}
			return nil
		},
	}
}

// missingBracketsStrategy (60) emits the bracket an error says is
// missing. Per spec section 9, this pops context unconditionally even if
// the top context is not the matching opener — a known quirk preserved
// for compatibility with the concrete scenario table, contained by
// State.PopContext never removing Root.
func missingBracketsStrategy() Strategy {
	return Strategy{
		Name:     "missing_brackets",
		Priority: 60,
		CanRepair: func(s *State, err string) bool {
			hints := hintsFrom(err)
			return hints.MissingBrace || hints.MissingBrack
		},
		Repair: func(s *State, err string) error {
			hints := hintsFrom(err)
			if hints.MissingBrace {
				s.Emit('}')
			} else if hints.MissingBrack {
				s.Emit(']')
			}
			s.PopContext()
			return nil
		},
	}
}
