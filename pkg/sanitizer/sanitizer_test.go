package sanitizer

import "testing"

func TestTrimAndNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "only whitespace", input: "  \t\n ", want: ""},
		{name: "surrounding whitespace", input: "  band practice  ", want: "band practice"},
		{name: "internal runs collapsed", input: "weekly   committee\t\tmeeting", want: "weekly committee meeting"},
		{name: "newlines collapsed", input: "hall\nevent", want: "hall event"},
		{name: "already clean", input: "movie night", want: "movie night"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TrimAndNormalize(tt.input); got != tt.want {
				t.Errorf("TrimAndNormalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeDescription(t *testing.T) {
	if got := NormalizeDescription(" study  session "); got != "study session" {
		t.Errorf("NormalizeDescription() = %q", got)
	}
}
