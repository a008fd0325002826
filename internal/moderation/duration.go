package moderation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidDuration is returned for input outside the <digits><unit> grammar.
var ErrInvalidDuration = errors.New("invalid duration")

var durationPattern = regexp.MustCompile(`^(\d+)([a-z]+)$`)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

var durationUnits = map[string]time.Duration{
	"s": time.Second, "sec": time.Second, "secs": time.Second, "second": time.Second, "seconds": time.Second,
	"m": time.Minute, "min": time.Minute, "mins": time.Minute, "minute": time.Minute, "minutes": time.Minute,
	"h": time.Hour, "hr": time.Hour, "hrs": time.Hour, "hour": time.Hour, "hours": time.Hour,
	"d": day, "day": day, "days": day,
	"w": week, "week": week, "weeks": week,
}

// ParseDuration converts strings such as "30m" or "2days" into a duration.
// Matching is case-insensitive and surrounding whitespace is ignored. No upper
// bound is applied beyond what fits in a time.Duration.
func ParseDuration(input string) (time.Duration, error) {
	s := strings.ToLower(strings.TrimSpace(input))

	m := durationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, input)
	}

	unit, ok := durationUnits[m[2]]
	if !ok {
		return 0, fmt.Errorf("%w: unknown unit %q", ErrInvalidDuration, m[2])
	}

	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || n > math.MaxInt64/int64(unit) {
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidDuration, input)
	}
	return time.Duration(n) * unit, nil
}

// FormatDuration renders d using its two most significant units,
// e.g. "1 day 2 hours" or "5 minutes".
func FormatDuration(d time.Duration) string {
	seconds := int64(d / time.Second)
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return joinUnits(days, "day", hours%24, "hour")
	case hours > 0:
		return joinUnits(hours, "hour", minutes%60, "minute")
	case minutes > 0:
		return joinUnits(minutes, "minute", seconds%60, "second")
	default:
		return plural(seconds, "second")
	}
}

func joinUnits(major int64, majorUnit string, minor int64, minorUnit string) string {
	if minor == 0 {
		return plural(major, majorUnit)
	}
	return plural(major, majorUnit) + " " + plural(minor, minorUnit)
}

func plural(n int64, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
