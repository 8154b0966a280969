package media

import "testing"

func TestParseProbedDuration(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"700.123456\n", 700.123456},
		{"  42.0  ", 42.0},
		{"N/A\n", 0},
		{"", 0},
		{"-3.5", 0},
	}
	for _, c := range cases {
		if got := parseProbedDuration(c.in); got != c.want {
			t.Fatalf("parseProbedDuration(%q) = %g, want %g", c.in, got, c.want)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	if got := formatSeconds(300); got != "300.000" {
		t.Fatalf("formatSeconds(300) = %q", got)
	}
	if got := formatSeconds(99.5); got != "99.500" {
		t.Fatalf("formatSeconds(99.5) = %q", got)
	}
}

func TestSliceExtension(t *testing.T) {
	if got := sliceExtension("/tmp/in.mp3"); got != ".mp3" {
		t.Fatalf("sliceExtension mp3 = %q", got)
	}
	if got := sliceExtension("/tmp/noext"); got != ".wav" {
		t.Fatalf("sliceExtension default = %q", got)
	}
}
