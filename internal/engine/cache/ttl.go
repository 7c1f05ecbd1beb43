package cache

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TTL bounds and defaults.
const (
	// DefaultTTL is how long an entry stays fresh (24 hours).
	DefaultTTL = 24 * time.Hour

	// MinTTL is the smallest accepted TTL.
	MinTTL = time.Minute

	// MaxTTL is the largest accepted TTL (30 days).
	MaxTTL = 30 * 24 * time.Hour

	// minutesPerHour is used for duration formatting calculations.
	minutesPerHour = 60

	// hoursPerDay is used for duration formatting calculations.
	hoursPerDay = 24
)

// ErrInvalidTTL is returned for a TTL outside [MinTTL, MaxTTL].
var ErrInvalidTTL = fmt.Errorf("TTL must be between %s and %s", MinTTL, MaxTTL)

// ValidateTTL checks that d is within the accepted range.
func ValidateTTL(d time.Duration) error {
	if d < MinTTL || d > MaxTTL {
		return fmt.Errorf("%w: got %s", ErrInvalidTTL, d)
	}
	return nil
}

// ParseTTL parses a TTL string in any of these formats:
// - Integer seconds: "86400".
// - Duration string: "24h", "90m", "1h30m".
// - Day prefix, as printed by FormatDuration: "1d", "2d4h".
func ParseTTL(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)

	if seconds, err := strconv.Atoi(s); err == nil {
		d := time.Duration(seconds) * time.Second
		return d, ValidateTTL(d)
	}

	var days time.Duration
	if m := dayPrefix.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		days = time.Duration(n) * hoursPerDay * time.Hour
		s = m[2]
		if s == "" {
			return days, ValidateTTL(days)
		}
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid TTL format: %w", err)
	}
	d += days
	return d, ValidateTTL(d)
}

var dayPrefix = regexp.MustCompile(`^(\d{1,4})d(.*)$`)

// FormatDuration formats a duration in a human-readable way.
// Examples: "45s", "30m", "5h30m", "2d4h".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	if d < hoursPerDay*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % minutesPerHour
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if hours == 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd%dh", days, hours)
}
