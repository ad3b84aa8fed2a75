package sanitizer

import "testing"

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims and collapses whitespace", "  Jordan   Smith  ", "Jordan Smith"},
		{"strips control characters", "Jordan\x00Smith", "JordanSmith"},
		{"newlines become spaces", "Jordan\nSmith", "Jordan Smith"},
		{"tabs become spaces", "Jordan\tSmith", "Jordan Smith"},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSanitizeFreeText(t *testing.T) {
	got := SanitizeFreeText("line one  \nline   two\x7f")
	want := "line one\nline two"
	if got != want {
		t.Errorf("SanitizeFreeText() = %q, want %q", got, want)
	}
}

func TestSanitizeEmail(t *testing.T) {
	if got := SanitizeEmail("  Jordan@Example.COM "); got != "jordan@example.com" {
		t.Errorf("SanitizeEmail() = %q", got)
	}
}

func TestSanitizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"e164 passes through", "+14155550123", "+14155550123"},
		{"formatting stripped", "+1 (415) 555-0123", "+14155550123"},
		{"uk number with spaces", "+44 7911 123456", "+447911123456"},
		{"national uk mobile resolved via fallback region", "07911 123456", "+447911123456"},
		{"words are not phone numbers", "call me maybe", ""},
		{"empty input", "", ""},
		{"too short", "12345", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizePhone(tt.input); got != tt.want {
				t.Errorf("SanitizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
