package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{" 2.50 ", "2.5", true},
		{"-7.5", "-7.5", true},
		{"0", "0", true},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1,2.3", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || !got.Equal(decimal.RequireFromString(tc.out)) {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParseMagnitude(t *testing.T) {
	if _, err := ParseMagnitude("-1"); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount for negative, got %v", err)
	}
	got, err := ParseMagnitude("10,5")
	if err != nil || got.String() != "10.5" {
		t.Fatalf("unexpected magnitude: %s (err=%v)", got, err)
	}
}

func TestFormatAmount(t *testing.T) {
	if got := FormatAmount(decimal.RequireFromString("120")); got != "120.00" {
		t.Fatalf("FormatAmount = %q", got)
	}
	if got := FormatAmount(decimal.RequireFromString("-0.5")); got != "-0.50" {
		t.Fatalf("FormatAmount = %q", got)
	}
}
