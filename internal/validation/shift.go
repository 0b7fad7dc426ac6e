package validation

import (
	"fmt"
	"regexp"
	"time"
)

// DateLayout is the wire format of shift dates.
const DateLayout = "2006-01-02"

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidateShiftDate checks that date is a real calendar day in YYYY-MM-DD form.
func ValidateShiftDate(date string) error {
	if len(date) != len(DateLayout) {
		return fmt.Errorf("date must be in YYYY-MM-DD format")
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("date must be in YYYY-MM-DD format")
	}
	return nil
}

// ValidateClock checks a 24-hour HH:MM time of day.
func ValidateClock(clock string) error {
	if !clockRegex.MatchString(clock) {
		return fmt.Errorf("time must be in HH:MM format")
	}
	return nil
}

// ValidateHorizon rejects dates more than forwardDays after today. A zero
// horizon disables the check. Dates in the past are allowed.
func ValidateHorizon(date string, now time.Time, forwardDays int) error {
	if forwardDays <= 0 {
		return nil
	}
	day, err := time.Parse(DateLayout, date)
	if err != nil {
		return fmt.Errorf("date must be in YYYY-MM-DD format")
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	limit := today.AddDate(0, 0, forwardDays)
	if day.After(limit) {
		return fmt.Errorf("shifts can be posted at most %d days ahead (latest %s)", forwardDays, limit.Format(DateLayout))
	}
	return nil
}
