package repair

import "testing"

func TestStateAdvanceAndCurrentChar(t *testing.T) {
	s := NewState("ab€c")
	ch, ok := s.CurrentChar()
	if !ok || ch != 'a' {
		t.Fatalf("expected 'a', got %q (%v)", ch, ok)
	}
	skipped := s.Advance(2)
	if skipped != "ab" {
		t.Errorf("expected %q got %q", "ab", skipped)
	}
	ch, ok = s.CurrentChar()
	if !ok || ch != '€' {
		t.Fatalf("expected '€', got %q (%v)", ch, ok)
	}
}

func TestStateAdvancePastEndClamps(t *testing.T) {
	s := NewState("ab")
	s.Advance(10)
	if !s.IsFinished() {
		t.Fatalf("expected finished cursor")
	}
	if _, ok := s.CurrentChar(); ok {
		t.Errorf("expected no current char past end")
	}
}

func TestStateContextStackNeverPopsRoot(t *testing.T) {
	s := NewState("")
	if s.CurrentContext() != Root {
		t.Fatalf("expected Root at start")
	}
	s.PopContext()
	s.PopContext()
	if s.CurrentContext() != Root {
		t.Errorf("expected Root to survive extra pops")
	}
}

func TestStateContextStackPushPop(t *testing.T) {
	s := NewState("")
	s.PushContext(Object)
	s.PushContext(DoubleQuoteProperty)
	if s.CurrentContext() != DoubleQuoteProperty {
		t.Fatalf("expected DoubleQuoteProperty on top")
	}
	top := s.PopContext()
	if top != DoubleQuoteProperty {
		t.Errorf("expected popped frame to be DoubleQuoteProperty, got %v", top)
	}
	if s.CurrentContext() != Object {
		t.Errorf("expected Object on top after pop")
	}
}

func TestStateTrimTrailingComma(t *testing.T) {
	s := NewState("")
	s.EmitString(`"a", "b",  `)
	s.TrimTrailingComma()
	if s.Output() != `"a", "b"` {
		t.Errorf("unexpected output: %q", s.Output())
	}
}

func TestStateTrimTrailingCommaNoop(t *testing.T) {
	s := NewState("")
	s.EmitString(`"a", "b"`)
	s.TrimTrailingComma()
	if s.Output() != `"a", "b"` {
		t.Errorf("unexpected output: %q", s.Output())
	}
}

func TestStateUnescapedQuoteCountOdd(t *testing.T) {
	for _, test := range []struct {
		name   string
		output string
		odd    bool
	}{
		{"none", `abc`, false},
		{"one unterminated", `"abc`, true},
		{"balanced", `"abc"`, false},
		{"escaped quote doesn't count", `"abc\"def`, true},
		{"escaped quote balanced", `"abc\"def"`, false},
	} {
		t.Run(test.name, func(t *testing.T) {
			s := NewState("")
			s.EmitString(test.output)
			if got := s.UnescapedQuoteCountOdd(); got != test.odd {
				t.Errorf("expected %v got %v", test.odd, got)
			}
		})
	}
}

func TestStateOutputEndsWith(t *testing.T) {
	s := NewState("")
	s.EmitString(`{"a": 1,   `)
	if !s.OutputEndsWith(",") {
		t.Errorf("expected output to end with comma, ignoring trailing whitespace")
	}
}
