package sanitizer

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trim spaces", input: "  Maria Santos  ", want: "Maria Santos"},
		{name: "multiple spaces between words", input: "Maria    Santos", want: "Maria Santos"},
		{name: "tabs and newlines", input: "Maria\t\nSantos", want: "Maria Santos"},
		{name: "empty string", input: "", want: ""},
		{name: "only whitespace", input: "   \t\n  ", want: ""},
		{name: "preserve accents and punctuation", input: " José O'Neil ", want: "José O'Neil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeName(tt.input); got != tt.want {
				t.Errorf("NormalizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{" Guest@Example.COM ", "guest@example.com"},
		{"guest@example.com", "guest@example.com"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeEmail(tt.input); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	got := NormalizeText("  window   seat please \n\n  birthday   cake  ")
	want := "window seat please\n\nbirthday cake"
	if got != want {
		t.Errorf("NormalizeText() = %q, want %q", got, want)
	}
	if NormalizeText(NormalizeText(got)) != want {
		t.Error("NormalizeText should be idempotent")
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{" karaoke_room ", "KARAOKE_ROOM"},
		{"karaoke  room", "KARAOKE_ROOM"},
		{"TABLE", "TABLE"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeCode(tt.input); got != tt.want {
			t.Errorf("NormalizeCode(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
