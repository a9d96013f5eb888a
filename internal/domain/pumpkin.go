package domain

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// pumpkinPattern matches a 24-hour HHMM clock time.
var pumpkinPattern = regexp.MustCompile(`^([01][0-9]|2[0-3])[0-5][0-9]$`)

// DefaultPumpkinTime is the daily reset time used until one is configured.
var DefaultPumpkinTime = PumpkinTime{Hour: 4, Minute: 0}

// PumpkinTime is the local time of day at which the to-do list is cleared.
type PumpkinTime struct {
	Hour   int
	Minute int
}

// ParsePumpkinTime parses a 4-digit 24-hour string such as "0400".
func ParsePumpkinTime(hhmm string) (PumpkinTime, error) {
	v := strings.TrimSpace(hhmm)
	err := validation.Validate(v,
		validation.Required,
		validation.Length(4, 4),
		validation.Match(pumpkinPattern),
	)
	if err != nil {
		return PumpkinTime{}, fmt.Errorf("%w: %q", ErrInvalidPumpkinTime, hhmm)
	}
	var p PumpkinTime
	// The pattern guarantees two 2-digit integers.
	_, _ = fmt.Sscanf(v, "%02d%02d", &p.Hour, &p.Minute)
	return p, nil
}

// String returns the HHMM form.
func (p PumpkinTime) String() string {
	return fmt.Sprintf("%02d%02d", p.Hour, p.Minute)
}

// Display returns the HH:MM form.
func (p PumpkinTime) Display() string {
	return fmt.Sprintf("%02d:%02d", p.Hour, p.Minute)
}

// MostRecent returns the latest pumpkin instant at or before now,
// in now's location.
func (p PumpkinTime) MostRecent(now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), p.Hour, p.Minute, 0, 0, now.Location())
	if today.After(now) {
		return today.AddDate(0, 0, -1)
	}
	return today
}

// ShouldReset reports whether a pumpkin instant has elapsed since
// lastInit. A zero lastInit never resets, since there is nothing to clear.
func (p PumpkinTime) ShouldReset(lastInit, now time.Time) bool {
	if lastInit.IsZero() {
		return false
	}
	return lastInit.Before(p.MostRecent(now))
}
