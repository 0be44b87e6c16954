package model

import (
	"time"

	"github.com/medcita/clinic-api/internal/apperror"
)

// Inputs arrive from datetime-local widgets as "YYYY-MM-DDTHH:MM",
// occasionally with seconds. Outputs always render seconds.
const (
	dateTimeMinuteLayout = "2006-01-02T15:04"
	dateTimeSecondLayout = "2006-01-02T15:04:05"

	DisplayTimeLayout = "2006-01-02 15:04:05"
)

// ParseDateTimeInput parses a date-and-minute string, defaulting seconds
// to zero. Any other shape is a Validation error.
func ParseDateTimeInput(s string) (time.Time, error) {
	if t, err := time.Parse(dateTimeMinuteLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dateTimeSecondLayout, s); err == nil {
		return t, nil
	}
	return time.Time{}, apperror.Newf(apperror.Validation, "invalid date/time format: %q", s)
}

// FormatDisplayTime renders a timestamp in the fixed textual
// representation used by summary and history views.
func FormatDisplayTime(t time.Time) string {
	return t.Format(DisplayTimeLayout)
}
