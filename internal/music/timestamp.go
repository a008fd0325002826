// Package music holds the formatting and parsing helpers shared by the music
// commands.
package music

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrTimestampFormat = errors.New("Invalid timestamp format! Please use HH:MM:SS, MM:SS or number of seconds.")
	ErrTimestampValue  = errors.New("Invalid timestamp! Please provide a valid number of seconds.")
)

// ParseTimestamp accepts SS, MM:SS or HH:MM:SS. Minutes and seconds after
// the first component must be below 60.
func ParseTimestamp(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ":") {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0, ErrTimestampValue
		}
		return time.Duration(n) * time.Second, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, ErrTimestampFormat
	}

	total := 0
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || (i > 0 && n >= 60) {
			return 0, ErrTimestampFormat
		}
		total = total*60 + n
	}
	return time.Duration(total) * time.Second, nil
}

// FormatDuration renders m:ss, or h:mm:ss past an hour.
func FormatDuration(d time.Duration) string {
	total := int64(d / time.Second)
	if total < 0 {
		total = 0
	}
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// FormatMillis is FormatDuration for Lavalink millisecond lengths.
func FormatMillis(ms int64) string {
	return FormatDuration(time.Duration(ms) * time.Millisecond)
}

// TotalDuration renders a queue length as "1h 2m 3s".
func TotalDuration(d time.Duration) string {
	total := int64(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60

	var parts []string
	if h > 0 {
		parts = append(parts, fmt.Sprintf("%dh", h))
	}
	if m > 0 || h > 0 {
		parts = append(parts, fmt.Sprintf("%dm", m))
	}
	parts = append(parts, fmt.Sprintf("%ds", s))
	return strings.Join(parts, " ")
}

// ProgressBar draws position/length as [====>     ] of the given width.
func ProgressBar(position, length time.Duration, width int) string {
	if length <= 0 {
		return "[" + strings.Repeat("=", width) + "]"
	}
	filled := int(int64(width) * int64(position) / int64(length))
	if filled < 0 {
		filled = 0
	}
	if filled > width-1 {
		filled = width - 1
	}
	return "[" + strings.Repeat("=", filled) + ">" + strings.Repeat(" ", width-filled-1) + "]"
}
