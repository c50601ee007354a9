package bunnings

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestBuildSearchQuery(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips litre quantity and dash",
			input:    "2L Wood Stain - Walnut",
			expected: "Wood Stain Walnut",
		},
		{
			name:     "strips millilitres with space",
			input:    "500 ml Clear Varnish",
			expected: "Clear Varnish",
		},
		{
			name:     "strips millimetres",
			input:    "Plywood 12mm",
			expected: "Plywood",
		},
		{
			name:     "strips sheets and packs case-insensitively",
			input:    "Sandpaper 5 Sheets 2 PACKS",
			expected: "Sandpaper",
		},
		{
			name:     "strips rolls",
			input:    "Masking Tape 3 rolls",
			expected: "Masking Tape",
		},
		{
			name:     "replaces em and en dashes",
			input:    "Chalk Paint — Duck Egg – Matte",
			expected: "Chalk Paint Duck Egg Matte",
		},
		{
			name:     "collapses whitespace",
			input:    "  Drawer    Handles \t Brass  ",
			expected: "Drawer Handles Brass",
		},
		{
			name:     "collapses no-break spaces",
			input:    "Sanding Paper\u00a0\u00a0120 grit",
			expected: "Sanding Paper 120 grit",
		},
		{
			name:     "no-break spaces around a dash",
			input:    "Deck Oil\u00a0-\u202fMerbau",
			expected: "Deck Oil Merbau",
		},
		{
			name:     "keeps numbers without units",
			input:    "Grit 120 Sanding Block",
			expected: "Grit 120 Sanding Block",
		},
		{
			name:     "keeps unit letters inside words",
			input:    "5 metres of Rope",
			expected: "5 metres of Rope",
		},
		{
			name:     "all units and dashes",
			input:    "2L - 5m",
			expected: "",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BuildSearchQuery(tt.input); got != tt.expected {
				t.Errorf("BuildSearchQuery(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestBuildSearchQuery_CleanInputUnchanged(t *testing.T) {
	inputs := []string{"Wood Stain Walnut", "Furniture Wax", "Cabinet Hinge Soft Close"}
	for _, input := range inputs {
		if got := BuildSearchQuery(input); got != input {
			t.Errorf("BuildSearchQuery(%q) = %q, want unchanged", input, got)
		}
	}
}

func TestBuildSearchQuery_Idempotent(t *testing.T) {
	inputs := []string{"2L Wood Stain - Walnut", "Sandpaper 5 sheets - 240 grit", strings.Repeat("Oak Veneer ", 12)}
	for _, input := range inputs {
		once := BuildSearchQuery(input)
		if twice := BuildSearchQuery(once); twice != once {
			t.Errorf("not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestBuildSearchQuery_MaxLength(t *testing.T) {
	inputs := []string{
		strings.Repeat("a", 200),
		strings.Repeat("Exterior Timber Decking Oil ", 10),
		strings.Repeat("é", 100),
		"Short",
	}
	for _, input := range inputs {
		got := BuildSearchQuery(input)
		if n := utf8.RuneCountInString(got); n > maxQueryLength {
			t.Errorf("BuildSearchQuery() length = %d, want <= %d", n, maxQueryLength)
		}
		if !utf8.ValidString(got) {
			t.Errorf("BuildSearchQuery() produced invalid UTF-8: %q", got)
		}
	}
}

func TestBuildSearchQuery_CutAfterTrim(t *testing.T) {
	input := strings.Repeat("a", 59) + " bcd"

	got := BuildSearchQuery(input)
	if want := strings.Repeat("a", 59) + " "; got != want {
		t.Errorf("BuildSearchQuery() = %q (%d chars), want %q", got, utf8.RuneCountInString(got), want)
	}
}
