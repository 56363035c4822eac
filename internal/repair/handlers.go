package repair

import "unicode"

// Handler recognizes a structural token at the cursor and rewrites it,
// possibly adjusting context. Handlers are tried in registration order;
// the first whose CanHandle predicate matches handles the token.
//
// This mirrors the original design's StateHandler trait
// (CanHandle/Handle), restructured per this project's preference for a
// slice of named, closure-backed values over dynamically dispatched
// interface implementations — there is never more than one concrete
// behavior per handler, so a vtable buys nothing a struct literal
// doesn't already give for free.
type Handler struct {
	Name string
	// CanHandle reports whether this handler recognizes the token at the
	// cursor given the current context.
	CanHandle func(s *State) bool
	// Handle consumes the token, mutating State. It returns stop=true if
	// the driver should end the repair loop successfully right away (used
	// by user-supplied handlers; none of the defaults need it), and an
	// error if the token turned out not to be well-formed after all (the
	// driver will fall back to repair strategies).
	Handle func(s *State) (stop bool, err error)
}

func isASCIIWhitespace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v'
}

// DefaultHandlers returns the nine built-in handlers in their fixed
// registration/priority order, gated by opts where the configuration
// flags say so (only UnquotedKey is currently optional).
func DefaultHandlers(opts Options) []Handler {
	handlers := []Handler{
		whitespaceHandler(),
		literalHandler(),
		colonHandler(),
		commaHandler(),
		stringHandler(),
		numberHandler(),
		objectHandler(),
		arrayHandler(),
	}
	if opts.AllowUnquotedKeys {
		handlers = append(handlers, unquotedKeyHandler())
	}
	return handlers
}

// whitespaceHandler consumes runs of ASCII whitespace, plus the literal
// two-character `\n` digraph some LLM producers emit in place of a real
// newline, discarding both.
func startsWithNewlineDigraph(s *State) bool {
	r := s.Remaining()
	return len(r) >= 2 && r[:2] == `\n`
}

func whitespaceHandler() Handler {
	return Handler{
		Name: "whitespace",
		CanHandle: func(s *State) bool {
			if ch, ok := s.CurrentChar(); ok && isASCIIWhitespace(ch) {
				return true
			}
			return startsWithNewlineDigraph(s)
		},
		Handle: func(s *State) (bool, error) {
			skipWhitespaceDigraph(s)
			return false, nil
		},
	}
}

// literalHandler recognizes true/false/null/undefined in an array, right
// after a colon, or while reading a key — i.e. anywhere a bare literal
// value token can legally start.
func literalHandler() Handler {
	starts := func(remaining, lit string) bool {
		return len(remaining) >= len(lit) && remaining[:len(lit)] == lit
	}
	return Handler{
		Name: "literal",
		CanHandle: func(s *State) bool {
			cc := s.CurrentContext()
			if cc != Array && cc != Colon && !cc.IsKey() {
				return false
			}
			r := s.Remaining()
			return starts(r, "true") || starts(r, "false") || starts(r, "null") || starts(r, "undefined")
		},
		Handle: func(s *State) (bool, error) {
			r := s.Remaining()
			switch {
			case starts(r, "true"):
				s.EmitString("true")
				s.Advance(4)
			case starts(r, "false"):
				s.EmitString("false")
				s.Advance(5)
			case starts(r, "null"):
				s.EmitString("null")
				s.Advance(4)
			case starts(r, "undefined"):
				s.EmitString("null")
				s.Advance(9)
			}
			if s.CurrentContext() != Array {
				s.PopContext()
			}
			return false, nil
		},
	}
}

// colonHandler fires on `:`, promoting an open key context to Colon,
// emitting the token, and skipping the whitespace that follows it.
func colonHandler() Handler {
	return Handler{
		Name: "colon",
		CanHandle: func(s *State) bool {
			ch, ok := s.CurrentChar()
			return ok && ch == ':'
		},
		Handle: func(s *State) (bool, error) {
			if s.CurrentContext().IsKey() {
				s.PopContext()
				s.PushContext(Colon)
			}
			s.Emit(':')
			s.Advance(1)
			skipWhitespaceDigraph(s)
			return false, nil
		},
	}
}

// skipWhitespaceDigraph advances over ASCII whitespace and the literal
// `\n` digraph without emitting anything.
func skipWhitespaceDigraph(s *State) {
	for {
		if ch, ok := s.CurrentChar(); ok && isASCIIWhitespace(ch) {
			s.Advance(1)
			continue
		}
		if startsWithNewlineDigraph(s) {
			s.Advance(2)
			continue
		}
		break
	}
}

// commaHandler consumes a comma and any following whitespace. If what
// comes next is a closing brace, it swallows the trailing comma and closes
// the object outright; otherwise it emits a literal comma.
func commaHandler() Handler {
	return Handler{
		Name: "comma",
		CanHandle: func(s *State) bool {
			ch, ok := s.CurrentChar()
			return ok && ch == ','
		},
		Handle: func(s *State) (bool, error) {
			s.Advance(1)
			skipWhitespaceDigraph(s)

			if ch, ok := s.CurrentChar(); ok && ch == '}' {
				s.Emit('}')
				s.Advance(1)
				s.PopContext()
				return false, nil
			}
			s.Emit(',')
			return false, nil
		},
	}
}

// stringHandler fires when the cursor sits on a quote character matching
// (or free to start) the active string context. It copies the string body
// verbatim, honoring backslash-escape pairs, always emitting `"` in the
// output regardless of which quote style opened it.
func stringHandler() Handler {
	return Handler{
		Name: "string",
		CanHandle: func(s *State) bool {
			ch, ok := s.CurrentChar()
			if !ok || (ch != '"' && ch != '\'') {
				return false
			}
			cc := s.CurrentContext()
			switch cc {
			case SingleQuoteValue, SingleQuoteProperty:
				return ch == '\''
			case DoubleQuoteValue, DoubleQuoteProperty:
				return ch == '"'
			default:
				return true
			}
		},
		Handle: func(s *State) (bool, error) {
			quote, _ := s.CurrentChar()
			s.Emit('"')
			s.Advance(1)

			switch {
			case s.CurrentContext() == Colon:
				s.PopContext()
				s.PushContext(valueContextFor(quote))
			case s.CurrentContext().IsKey():
				// Already mid-key (shouldn't normally recur since a string
				// token is consumed start-to-finish in one call); leave the
				// context alone.
			case s.CurrentContext() == Array:
				s.PushContext(valueContextFor(quote))
			default:
				s.PushContext(propertyContextFor(quote))
			}

			for {
				ch, ok := s.CurrentChar()
				if !ok {
					break
				}
				if ch == quote {
					s.Emit('"')
					s.Advance(1)
					if s.CurrentContext().IsValue() {
						s.PopContext()
					}
					break
				}
				if ch == '\\' {
					s.Advance(1)
					if escaped, ok := s.CurrentChar(); ok {
						s.Emit('\\')
						s.Emit(escaped)
						s.Advance(1)
					}
					continue
				}
				if ch == '"' {
					// A literal double quote embedded in a single-quoted run
					// must be escaped, since the output always uses `"`.
					s.Emit('\\')
				}
				s.Emit(ch)
				s.Advance(1)
			}
			return false, nil
		},
	}
}

func valueContextFor(quote rune) Context {
	if quote == '"' {
		return DoubleQuoteValue
	}
	return SingleQuoteValue
}

func propertyContextFor(quote rune) Context {
	if quote == '"' {
		return DoubleQuoteProperty
	}
	return SingleQuoteProperty
}

// numberHandler fires on an ASCII digit or a leading `-`. It handles the
// two legal positions a number can appear in (after a colon, inside an
// array) plus two rescue cases: a number read while a key is still open
// (a `:` is emitted before it) and a bare number where a key is expected
// (it is emitted as a quoted key).
func numberHandler() Handler {
	return Handler{
		Name: "number",
		CanHandle: func(s *State) bool {
			ch, ok := s.CurrentChar()
			return ok && (unicode.IsDigit(ch) || ch == '-')
		},
		Handle: func(s *State) (bool, error) {
			switch s.CurrentContext() {
			case Colon:
				s.PopContext()
				s.PushContext(DoubleQuoteValue)
			case DoubleQuoteProperty, SingleQuoteProperty:
				s.PopContext()
				s.PushContext(DoubleQuoteValue)
				s.Emit(':')
			case Array:
				s.PushContext(DoubleQuoteValue)
			default:
				s.PushContext(DoubleQuoteProperty)
				s.Emit('"')
			}

			for {
				ch, ok := s.CurrentChar()
				if !ok || !isNumberLexemeRune(ch) {
					break
				}
				s.Emit(ch)
				s.Advance(1)
			}

			switch s.CurrentContext() {
			case DoubleQuoteValue:
				s.PopContext()
			case DoubleQuoteProperty:
				if ch, ok := s.CurrentChar(); !ok || isASCIIWhitespace(ch) || ch == ':' || ch == '}' {
					s.Emit('"')
				}
			}
			return false, nil
		},
	}
}

func isNumberLexemeRune(r rune) bool {
	return unicode.IsDigit(r) || r == '-' || r == '+' || r == '.' || r == 'e' || r == 'E'
}

// objectHandler opens/closes `{`/`}`.
func objectHandler() Handler {
	return Handler{
		Name: "object",
		CanHandle: func(s *State) bool {
			ch, ok := s.CurrentChar()
			if !ok {
				return false
			}
			if ch == '{' {
				return true
			}
			return ch == '}' && s.CurrentContext() != Root
		},
		Handle: func(s *State) (bool, error) {
			if s.CurrentContext() == Colon {
				s.PopContext()
			}
			ch, _ := s.CurrentChar()
			if ch == '{' {
				s.Emit('{')
				s.PushContext(Object)
				s.Advance(1)
			} else if ch == '}' {
				s.Emit('}')
				s.PopContext()
				s.Advance(1)
			}
			return false, nil
		},
	}
}

// arrayHandler opens/closes `[`/`]`.
func arrayHandler() Handler {
	return Handler{
		Name: "array",
		CanHandle: func(s *State) bool {
			ch, ok := s.CurrentChar()
			return ok && (ch == '[' || ch == ']')
		},
		Handle: func(s *State) (bool, error) {
			if s.CurrentContext() == Colon {
				s.PopContext()
			}
			ch, _ := s.CurrentChar()
			if ch == '[' {
				s.Emit('[')
				s.PushContext(Array)
				s.Advance(1)
			} else if ch == ']' {
				s.Emit(']')
				s.PopContext()
				s.Advance(1)
			}
			return false, nil
		},
	}
}

// unquotedKeyHandler rescues an identifier-shaped bare key (only active
// when Options.AllowUnquotedKeys is set).
func unquotedKeyHandler() Handler {
	isIdentStart := func(r rune) bool {
		return r == '_' || unicode.IsLetter(r)
	}
	isIdentRest := func(r rune) bool {
		return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	return Handler{
		Name: "unquoted_key",
		CanHandle: func(s *State) bool {
			if s.CurrentContext() != Object {
				return false
			}
			ch, ok := s.CurrentChar()
			return ok && isIdentStart(ch)
		},
		Handle: func(s *State) (bool, error) {
			s.PushContext(DoubleQuoteProperty)
			s.Emit('"')
			for {
				ch, ok := s.CurrentChar()
				if !ok || !isIdentRest(ch) {
					break
				}
				s.Emit(ch)
				s.Advance(1)
			}
			s.Emit('"')
			return false, nil
		},
	}
}
