package models

import "testing"

func TestNormalizeEmail(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		value string
		want  string
	}{
		{"already normal", "chef@moustache.bar", "chef@moustache.bar"},
		{"mixed case", "Chef@Moustache.Bar", "chef@moustache.bar"},
		{"padded", "  chef@moustache.bar\t", "chef@moustache.bar"},
		{"empty", "", ""},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeEmail(tt.value); got != tt.want {
				t.Fatalf("NormalizeEmail(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
