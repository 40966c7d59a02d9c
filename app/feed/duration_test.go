package feed

import (
	"testing"
)

func TestParseDurationSeconds(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"", 0},
		{"   ", 0},
		{"90", 90},
		{"0", 0},
		{"1:30", 90},
		{"1:30:15", 5415},
		{"00:45:10", 2710},
		{"PT1H30M15S", 5415},
		{"PT45M", 2700},
		{"PT90S", 90},
		{"pt1h", 3600},
		{"1H30M", 5400},
		{"not-a-duration", 0},
		{"PTXYZ", 0},
		{"-5", 0},
		{"12:xx", 720},
	}

	for _, tt := range tests {
		got := ParseDurationSeconds(tt.input)
		if got != tt.expected {
			t.Errorf("ParseDurationSeconds(%q) = %d, expected %d", tt.input, got, tt.expected)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input    int
		expected string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{90, "1:30"},
		{600, "10:00"},
		{3600, "1:00:00"},
		{5415, "1:30:15"},
		{-10, "0:00"},
	}

	for _, tt := range tests {
		got := FormatDuration(tt.input)
		if got != tt.expected {
			t.Errorf("FormatDuration(%d) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestDurationRoundTrip(t *testing.T) {
	for _, seconds := range []int{0, 1, 59, 60, 61, 599, 600, 3599, 3600, 5415, 86399, 360000} {
		formatted := FormatDuration(seconds)
		parsed := ParseDurationSeconds(formatted)
		if parsed != seconds {
			t.Errorf("Round trip failed for %d: formatted %q, parsed back %d", seconds, formatted, parsed)
		}
	}
}
