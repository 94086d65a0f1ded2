package utils

import "testing"

func TestDecimalFromAny_AcceptsFormattedStrings(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"20000", "20000"},
		{"20,000", "20000"},
		{"Rs 20,000", "20000"},
		{"₹ -500", "-500"},
		{"  1,234.50  ", "1234.5"},
	}
	for _, tc := range cases {
		d := DecimalFromAny(tc.in)
		if d.String() != tc.expected {
			t.Fatalf("DecimalFromAny(%q) expected %s, got %s", tc.in, tc.expected, d.String())
		}
	}
}

func TestDecimalFromAny_InvalidInputYieldsZero(t *testing.T) {
	cases := []interface{}{
		nil,
		"not a number",
		"",
		true,
		[]string{"1"},
		map[string]interface{}{"x": 1},
	}
	for _, in := range cases {
		if d := DecimalFromAny(in); !d.IsZero() {
			t.Fatalf("DecimalFromAny(%v) expected zero, got %s", in, d.String())
		}
	}
}

func TestDecimalFromAny_NumericTypes(t *testing.T) {
	if d := DecimalFromAny(float64(12.5)); d.String() != "12.5" {
		t.Fatalf("float64 expected 12.5, got %s", d.String())
	}
	if d := DecimalFromAny(7); d.String() != "7" {
		t.Fatalf("int expected 7, got %s", d.String())
	}
}

func TestIntFromAny_TruncatesFraction(t *testing.T) {
	if n := IntFromAny("12.9"); n != 12 {
		t.Fatalf("expected 12, got %d", n)
	}
	if n := IntFromAny(nil); n != 0 {
		t.Fatalf("expected 0, got %d", n)
	}
}
