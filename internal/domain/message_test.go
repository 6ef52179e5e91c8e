package domain

import "testing"

func TestNormalizeSender(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"name and email", "John Doe <John@Example.COM>", "john@example.com"},
		{"bare email", "john@example.com", "john@example.com"},
		{"uppercase bare email", "JOHN@EXAMPLE.COM", "john@example.com"},
		{"quoted name", `"Jane Doe" <Jane@example.com>`, "jane@example.com"},
		{"unparseable header", "Totally Not An Address", "totally not an address"},
		{"surrounding whitespace", "  <sales@shop.example>  ", "sales@shop.example"},
		{"empty header", "", UnknownSender},
		{"whitespace only", "   ", UnknownSender},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSender(tt.input)
			if got != tt.want {
				t.Errorf("NormalizeSender(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeSender_Idempotent(t *testing.T) {
	inputs := []string{
		"John Doe <John@Example.COM>",
		"Totally Not An Address",
		"",
		"john@example.com",
	}
	for _, in := range inputs {
		once := NormalizeSender(in)
		twice := NormalizeSender(once)
		if once != twice {
			t.Errorf("NormalizeSender not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestParseAction(t *testing.T) {
	tests := []struct {
		input string
		want  Action
	}{
		{"keep", ActionKeep},
		{"trash", ActionTrash},
		{"review", ActionReview},
		{"delete", ActionReview},
		{"", ActionReview},
		{"KEEP", ActionReview},
	}
	for _, tt := range tests {
		if got := ParseAction(tt.input); got != tt.want {
			t.Errorf("ParseAction(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDefaultDecision(t *testing.T) {
	d := DefaultDecision("msg1")
	if d.ID != "msg1" {
		t.Errorf("ID = %q, want %q", d.ID, "msg1")
	}
	if d.Action != ActionReview {
		t.Errorf("Action = %q, want %q", d.Action, ActionReview)
	}
	if d.Category != "other" {
		t.Errorf("Category = %q, want %q", d.Category, "other")
	}
	if d.Summary != "" {
		t.Errorf("Summary = %q, want empty", d.Summary)
	}
	if d.Reason != "no decision" {
		t.Errorf("Reason = %q, want %q", d.Reason, "no decision")
	}
}
