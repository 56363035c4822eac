package repair

import "testing"

func runHandlers(t *testing.T, handlers []Handler, input string) *State {
	t.Helper()
	s := NewState(input)
	for i := 0; i < 1000 && !s.IsFinished(); i++ {
		matched := false
		for _, h := range handlers {
			if h.CanHandle(s) {
				if _, err := h.Handle(s); err != nil {
					t.Fatalf("handler %s returned error: %v", h.Name, err)
				}
				matched = true
				break
			}
		}
		if !matched {
			break
		}
	}
	return s
}

func TestDefaultHandlersCountGatedByOptions(t *testing.T) {
	withoutUnquoted := DefaultHandlers(Options{AllowUnquotedKeys: false})
	withUnquoted := DefaultHandlers(Options{AllowUnquotedKeys: true})
	if len(withUnquoted) != len(withoutUnquoted)+1 {
		t.Fatalf("expected exactly one extra handler when unquoted keys are allowed")
	}
}

func TestWholeObjectRoundTrip(t *testing.T) {
	// Handlers don't preserve source formatting: colonHandler and
	// commaHandler both discard the whitespace they skip rather than
	// re-emitting it, so the output is the same document minus its
	// original spacing.
	handlers := DefaultHandlers(DefaultOptions())
	s := runHandlers(t, handlers, `{"a": 1, "b": [true, false, null], "c": "hi"}`)
	expected := `{"a":1,"b":[true,false,null],"c":"hi"}`
	if s.Output() != expected {
		t.Errorf("expected %q got %q", expected, s.Output())
	}
	if s.CurrentContext() != Root {
		t.Errorf("expected Root at end, got %v", s.CurrentContext())
	}
}

func TestLiteralHandlerTranslatesUndefinedToNull(t *testing.T) {
	handlers := DefaultHandlers(DefaultOptions())
	s := runHandlers(t, handlers, `[undefined, null]`)
	expected := `[null,null]`
	if s.Output() != expected {
		t.Errorf("expected %q got %q", expected, s.Output())
	}
}

func TestStringHandlerTranscodesEmbeddedDoubleQuoteInSingleQuoted(t *testing.T) {
	s := NewState(`'he said "hi"'`)
	h := stringHandler()
	if !h.CanHandle(s) {
		t.Fatalf("expected string handler to fire")
	}
	if _, err := h.Handle(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := `"he said \"hi\""`
	if s.Output() != expected {
		t.Errorf("expected %q got %q", expected, s.Output())
	}
}

func TestNumberHandlerRescuesBareNumericKey(t *testing.T) {
	s := NewState("123")
	s.PushContext(Object)
	h := numberHandler()
	if !h.CanHandle(s) {
		t.Fatalf("expected number handler to fire")
	}
	if _, err := h.Handle(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Output() != `"123"` {
		t.Errorf(`expected quoted key "123", got %q`, s.Output())
	}
}

func TestUnquotedKeyHandlerQuotesIdentifierKey(t *testing.T) {
	s := NewState("key")
	s.PushContext(Object)
	h := unquotedKeyHandler()
	if !h.CanHandle(s) {
		t.Fatalf("expected handler to recognize identifier-shaped key")
	}
	if _, err := h.Handle(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Output() != `"key"` {
		t.Errorf("expected quoted key, got %q", s.Output())
	}
}

func TestCommaHandlerSwallowsTrailingCommaBeforeBrace(t *testing.T) {
	s := NewState(", }")
	s.PushContext(Object)
	h := commaHandler()
	if _, err := h.Handle(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Output() != "}" {
		t.Errorf("expected '}', got %q", s.Output())
	}
	if s.CurrentContext() != Root {
		t.Errorf("expected context popped back to Root, got %v", s.CurrentContext())
	}
}
