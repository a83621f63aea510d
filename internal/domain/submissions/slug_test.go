package submissions

import "testing"

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Sneaky Dee's", "sneaky-dees"},
		{"The Cave", "the-cave"},
		{"  Bar   Neon  ", "bar-neon"},
		{"Apt. 200!", "apt-200"},
		{"CODA", "coda"},
		{"Lost & Found", "lost-found"},
		{"!!!", ""},
	}

	for _, tc := range cases {
		if got := GenerateSlug(tc.in); got != tc.want {
			t.Fatalf("GenerateSlug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
