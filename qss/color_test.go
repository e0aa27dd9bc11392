package qss

import (
	"errors"
	"strings"
	"testing"
)

func TestApplyFunctions_Lighten(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		// every channel moves strictly toward 255 by pct of the remaining distance
		{"background: lighten(#1f1f1f, 8%);", "background: #313131;"},
		{"background: lighten(#1f1f1f, 8);", "background: #313131;"},
		{"background: lighten(#000000, 100%);", "background: #FFFFFF;"},
		{"background: lighten(#FFFFFF, 50%);", "background: #FFFFFF;"},
		{"background: lighten(#abc, 0%);", "background: #aabbcc;"},
		// case-insensitive function names
		{"background: LIGHTEN(#1f1f1f, 8%);", "background: #313131;"},
	}
	for _, tc := range tests {
		got, err := applyFunctions(tc.in)
		if err != nil {
			t.Fatalf("applyFunctions(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("applyFunctions(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestApplyFunctions_Darken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"color: darken(#1f1f1f, 6%);", "color: #1d1d1d;"},
		{"color: darken(#ABCDEF, 50%);", "color: #566778;"},
		{"color: darken(#ffffff, 100%);", "color: #000000;"},
		{"color: darken(#000000, 10%);", "color: #000000;"},
	}
	for _, tc := range tests {
		got, err := applyFunctions(tc.in)
		if err != nil {
			t.Fatalf("applyFunctions(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("applyFunctions(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestApplyFunctions_Alpha(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"border: 1px solid alpha(#000000, 0.5);", "border: 1px solid rgba(0, 0, 0, 0.5);"},
		{"border: alpha(#EAEAEA, 1);", "border: rgba(234, 234, 234, 1);"},
		{"border: alpha(#ff0000, 25%);", "border: rgba(255, 0, 0, 0.25);"},
		{"border: alpha(#102030, 0);", "border: rgba(16, 32, 48, 0);"},
	}
	for _, tc := range tests {
		got, err := applyFunctions(tc.in)
		if err != nil {
			t.Fatalf("applyFunctions(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("applyFunctions(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestApplyFunctions_Nested(t *testing.T) {
	got, err := applyFunctions("background: lighten(darken(#808080, 50%), 0%);")
	if err != nil {
		t.Fatalf("applyFunctions() error = %v", err)
	}
	if got != "background: #404040;" {
		t.Errorf("nested call = %q, want %q", got, "background: #404040;")
	}
}

func TestApplyFunctions_MultipleCalls(t *testing.T) {
	got, err := applyFunctions("color: lighten(#000000, 100%); background: darken(#ffffff, 100%);")
	if err != nil {
		t.Fatalf("applyFunctions() error = %v", err)
	}
	want := "color: #FFFFFF; background: #000000;"
	if got != want {
		t.Errorf("multiple calls = %q, want %q", got, want)
	}
}

func TestApplyFunctions_LeavesUnrelatedTextAlone(t *testing.T) {
	tests := []string{
		"QPushButton { padding: 4px; }",
		"background: rgb(10, 20, 30);",
		"qproperty-icon: url(lighten.png);",
		`content: "lighten(#000, 5%)";`,
		"/* lighten(#000000, 5%) in a comment */",
	}
	for _, in := range tests {
		got, err := applyFunctions(in)
		if err != nil {
			t.Fatalf("applyFunctions(%q) error = %v", in, err)
		}
		if got != in {
			t.Errorf("applyFunctions(%q) = %q, want input unchanged", in, got)
		}
	}
}

func TestApplyFunctions_Errors(t *testing.T) {
	tests := []struct {
		in     string
		reason string
	}{
		{"color: lighten(#12345, 10%);", "invalid color literal"},
		{"color: darken(not-a-color, 10%);", "invalid color literal"},
		{"color: lighten(#1f1f1f, 101%);", "out of range"},
		{"color: darken(#1f1f1f, -5%);", "out of range"},
		{"color: lighten(#1f1f1f, huge);", "invalid percentage"},
		{"color: alpha(#1f1f1f, 1.5);", "out of range"},
		{"color: alpha(#1f1f1f, -0.1);", "out of range"},
		{"color: lighten(#1f1f1f);", "expected 2 arguments"},
		{"color: alpha(#1f1f1f, 0.5, 1);", "expected 2 arguments"},
	}
	for _, tc := range tests {
		_, err := applyFunctions(tc.in)
		if err == nil {
			t.Errorf("applyFunctions(%q) expected error", tc.in)
			continue
		}
		var cerr *InvalidColorExpressionError
		if !errors.As(err, &cerr) {
			t.Errorf("applyFunctions(%q) error type = %T, want *InvalidColorExpressionError", tc.in, err)
			continue
		}
		if !strings.Contains(cerr.Reason, tc.reason) {
			t.Errorf("applyFunctions(%q) reason = %q, want substring %q", tc.in, cerr.Reason, tc.reason)
		}
	}
}

func TestParseColorLiteral_CasingStyle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		// output preserves the input casing style
		{"color: lighten(#a0b0c0, 0%);", "color: #a0b0c0;"},
		{"color: lighten(#A0B0C0, 0%);", "color: #A0B0C0;"},
		{"color: lighten(#102030, 0%);", "color: #102030;"},
	}
	for _, tc := range tests {
		got, err := applyFunctions(tc.in)
		if err != nil {
			t.Fatalf("applyFunctions(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("applyFunctions(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
