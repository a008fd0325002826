package moderation

import (
	"errors"
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input  string
		wantMS int64
	}{
		{"1h", 3_600_000},
		{"90s", 90_000},
		{"2d", 172_800_000},
		{"30m", 1_800_000},
		{"1w", 604_800_000},
		{"0s", 0},
		{"5MIN", 300_000},
		{"  10 ", -1},
		{" 3hrs ", 10_800_000},
		{"2weeks", 1_209_600_000},
		{"45secs", 45_000},
		{"1day", 86_400_000},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDuration(tt.input)
			if tt.wantMS < 0 {
				if err == nil {
					t.Errorf("ParseDuration(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDuration(%q) returned error: %v", tt.input, err)
			}
			if got.Milliseconds() != tt.wantMS {
				t.Errorf("ParseDuration(%q) = %v ms, want %v ms", tt.input, got.Milliseconds(), tt.wantMS)
			}
		})
	}
}

func TestParseDurationInvalid(t *testing.T) {
	inputs := []string{
		"tomorrow",
		"-5m",
		"",
		"5",
		"m5",
		"5 m",
		"1.5h",
		"10y",
		"3fortnights",
		"99999999999999999999s",
		"9999999999999w",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			got, err := ParseDuration(input)
			if err == nil {
				t.Fatalf("ParseDuration(%q) = %v, want error", input, got)
			}
			if !errors.Is(err, ErrInvalidDuration) {
				t.Errorf("ParseDuration(%q) error = %v, want ErrInvalidDuration", input, err)
			}
		})
	}
}

func TestParseDurationDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		got, err := ParseDuration("1h")
		if err != nil || got != time.Hour {
			t.Fatalf("ParseDuration(\"1h\") = %v, %v, want %v", got, err, time.Hour)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{time.Second, "1 second"},
		{45 * time.Second, "45 seconds"},
		{90 * time.Second, "1 minute 30 seconds"},
		{time.Hour, "1 hour"},
		{2*time.Hour + time.Minute, "2 hours 1 minute"},
		{26 * time.Hour, "1 day 2 hours"},
		{28 * 24 * time.Hour, "28 days"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatDuration(tt.d); got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}
