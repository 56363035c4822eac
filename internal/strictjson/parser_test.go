package strictjson

import (
	"fmt"
	"math"
	"testing"
)

func TestParseStringBasic(t *testing.T) {
	for _, test := range []struct {
		input   string
		wantErr bool
	}{
		{`null`, false},
		{`true`, false},
		{`false`, false},
		{`42`, false},
		{`-17`, false},
		{`3.14`, false},
		{`"hello"`, false},
		{`[1, 2, 3]`, false},
		{`{"a": 1, "b": [true, false, null]}`, false},
		{``, true},
		{`{`, true},
		{`[1, 2,]`, true},
		{`{"a": }`, true},
		{`undefined`, true},
	} {
		t.Run(test.input, func(t *testing.T) {
			_, err := ParseString(test.input)
			if test.wantErr && err == nil {
				t.Errorf("expected error, got none")
			}
			if !test.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}

func TestParseStringIntegerOverflowCoercesToNumber(t *testing.T) {
	val, err := ParseString("99999999999999999999999999")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if val.Type() != Number {
		t.Fatalf("expected overflowed integer to coerce to Number, got %v", val.Type())
	}
	num, err := val.AsNumber()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if num <= 0 || math.IsInf(num, 0) {
		t.Errorf("expected a finite positive float, got %v", num)
	}
}

func TestParseStringIntegerInRangeStaysInteger(t *testing.T) {
	val, err := ParseString("42")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if val.Type() != Integer {
		t.Fatalf("expected Integer, got %v", val.Type())
	}
	n, err := val.AsInteger()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if n != 42 {
		t.Errorf("expected 42, got %v", n)
	}
}

func TestValueMarshalJSON(t *testing.T) {
	for _, test := range []struct {
		input    string
		expected string
	}{
		{`null`, `null`},
		{`42`, `42`},
		{`"hi"`, `"hi"`},
		{`true`, `true`},
		{`[1,2,3]`, `[1,2,3]`},
		{`{"a":1,"b":2}`, `{"a":1,"b":2}`},
	} {
		t.Run(fmt.Sprintf("%v", test.input), func(t *testing.T) {
			val, err := ParseString(test.input)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			out, err := val.MarshalJSON()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if string(out) != test.expected {
				t.Errorf("expected %v got %v", test.expected, string(out))
			}
		})
	}
}

func TestValueMarshalJSONPreservesObjectKeyOrder(t *testing.T) {
	val, err := ParseString(`{"z": 1, "a": 2, "m": 3}`)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	out, err := val.MarshalJSON()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	expected := `{"z":1,"a":2,"m":3}`
	if string(out) != expected {
		t.Errorf("expected %v got %v", expected, string(out))
	}
}
