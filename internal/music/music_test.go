package music

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/PancyStudios/SentryBot/pkg/lavalink"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr error
	}{
		{"90", 90 * time.Second, nil},
		{"0", 0, nil},
		{"1:30", 90 * time.Second, nil},
		{"75:00", 75 * time.Minute, nil},
		{"1:02:03", time.Hour + 2*time.Minute + 3*time.Second, nil},
		{" 2:05 ", 125 * time.Second, nil},
		{"1:60", 0, ErrTimestampFormat},
		{"1:60:00", 0, ErrTimestampFormat},
		{"1:2:3:4", 0, ErrTimestampFormat},
		{"a:10", 0, ErrTimestampFormat},
		{"-5", 0, ErrTimestampValue},
		{"abc", 0, ErrTimestampValue},
		{"", 0, ErrTimestampValue},
	}

	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		if err != tt.wantErr || got != tt.want {
			t.Errorf("ParseTimestamp(%q) = %v, %v; want %v, %v", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0:00"},
		{65 * time.Second, "1:05"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
		{1500 * time.Millisecond, "0:01"},
		{-time.Second, "0:00"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.in); got != tt.want {
			t.Errorf("FormatDuration(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if got := FormatMillis(213000); got != "3:33" {
		t.Errorf("FormatMillis(213000) = %v, want 3:33", got)
	}
}

func TestTotalDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{42 * time.Second, "42s"},
		{2*time.Minute + 5*time.Second, "2m 5s"},
		{time.Hour + 5*time.Second, "1h 0m 5s"},
	}

	for _, tt := range tests {
		if got := TotalDuration(tt.in); got != tt.want {
			t.Errorf("TotalDuration(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		pos, length time.Duration
		want        string
	}{
		{0, 10 * time.Second, "[>         ]"},
		{5 * time.Second, 10 * time.Second, "[=====>    ]"},
		{10 * time.Second, 10 * time.Second, "[=========>]"},
		{0, 0, "[==========]"},
	}

	for _, tt := range tests {
		if got := ProgressBar(tt.pos, tt.length, 10); got != tt.want {
			t.Errorf("ProgressBar(%v, %v) = %q, want %q", tt.pos, tt.length, got, tt.want)
		}
	}
}

func makeQueue(n int) []*lavalink.Track {
	q := make([]*lavalink.Track, n)
	for i := range q {
		q[i] = &lavalink.Track{Info: lavalink.TrackInfo{Title: fmt.Sprintf("Song %d", i+1), URI: "https://x/" + fmt.Sprint(i+1), Length: 60000}}
	}
	q[0].Requester = "ana#0001"
	return q
}

func TestPaginate(t *testing.T) {
	q := makeQueue(23)

	page, err := Paginate(q, 1)
	if err != nil {
		t.Fatalf("Paginate(1) error = %v", err)
	}
	if page.TotalPages != 3 || len(page.Lines) != 10 {
		t.Errorf("Paginate(1) = %d pages, %d lines", page.TotalPages, len(page.Lines))
	}
	if page.Lines[0] != "1. [Song 1](https://x/1) - 1:00 - Requested by ana#0001" {
		t.Errorf("first line = %q", page.Lines[0])
	}

	last, _ := Paginate(q, 3)
	if len(last.Lines) != 3 || !strings.HasPrefix(last.Lines[0], "21. ") {
		t.Errorf("Paginate(3) lines = %v", last.Lines)
	}

	if _, err := Paginate(q, 4); err == nil || err.Error() != "Invalid page number. The queue has 3 pages." {
		t.Errorf("Paginate(4) error = %v", err)
	}
	if _, err := Paginate(makeQueue(1), 2); err == nil || !strings.HasSuffix(err.Error(), "1 page.") {
		t.Errorf("Paginate(single page) error = %v", err)
	}
}

func TestQueueLength(t *testing.T) {
	q := makeQueue(3)
	q[2].Info.IsStream = true
	if got := QueueLength(q); got != 2*time.Minute {
		t.Errorf("QueueLength() = %v, want %v", got, 2*time.Minute)
	}
}

func TestLoopModeName(t *testing.T) {
	if LoopModeName(lavalink.LoopQueue) != "Queue" || LoopModeName(lavalink.LoopTrack) != "Track" || LoopModeName(lavalink.LoopOff) != "Off" {
		t.Error("LoopModeName() mismatch")
	}
}
