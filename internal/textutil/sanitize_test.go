package textutil

import "testing"

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Symphony No.5", "Symphony No.5"},
		{"slash becomes dash", "AC/DC Medley", "AC-DC Medley"},
		{"backslash becomes dash", "a\\b", "a-b"},
		{"colon becomes dash", "Suite: Allegro", "Suite- Allegro"},
		{"quotes removed", `The "Great" Gate`, "The Great Gate"},
		{"angle and pipe removed", "a<b>c|d", "abcd"},
		{"question mark removed", "Who?", "Who"},
		{"whitespace trimmed", "  Nocturne  ", "Nocturne"},
		{"leading dots dropped", "..hidden", "hidden"},
		{"control chars dropped", "Air\x00\x1f on G", "Air on G"},
		{"diacritics preserved", "Années de pèlerinage", "Années de pèlerinage"},
		{"empty", "   ", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitizeFileName(tc.in); got != tc.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestSanitizeFileNameIdempotent(t *testing.T) {
	inputs := []string{"Symphony No.5", "AC/DC Medley", "Suite: Allegro", "Études"}
	for _, in := range inputs {
		once := SanitizeFileName(in)
		if twice := SanitizeFileName(once); twice != once {
			t.Fatalf("sanitize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
