package timeutil

import (
	"fmt"
	"time"
)

// location is the business timezone. Month boundaries and "today" are always
// evaluated here, never in server-local time or UTC.
var location *time.Location

func init() {
	location = mustLoad("America/Sao_Paulo", -3*60*60)
}

// Init switches the business timezone to the configured zone name.
// Called once at startup before any request is served.
func Init(name string) error {
	if name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fmt.Errorf("invalid business timezone %q: %w", name, err)
	}
	location = loc
	return nil
}

func mustLoad(name string, fallbackOffset int) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		// Fallback: fixed zone if the tz database is unavailable
		return time.FixedZone(name, fallbackOffset)
	}
	return loc
}

// Location returns the business timezone.
func Location() *time.Location {
	return location
}

// Now returns the current time in the business timezone.
func Now() time.Time {
	return time.Now().In(location)
}

// Common layouts.
const (
	DateLayout    = "2006-01-02"
	MonthLayout   = "2006-01"
	DisplayLayout = "02/01/2006"
)

// CurrentMonth returns the current month as "YYYY-MM" in the business timezone.
func CurrentMonth() string {
	return Now().Format(MonthLayout)
}

// ParseMonth validates a "YYYY-MM" month string.
func ParseMonth(month string) (time.Time, error) {
	t, err := time.ParseInLocation(MonthLayout, month, location)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (want YYYY-MM): %w", month, err)
	}
	return t, nil
}

// MonthRange returns the inclusive "YYYY-MM-DD" date bounds of a month.
// The end is day 0 of the next month, so true calendar length (28/29/30/31)
// is respected. The zero-padded ISO form keeps lexicographic date comparison
// correct in SQL.
func MonthRange(month string) (start, end string, err error) {
	t, err := ParseMonth(month)
	if err != nil {
		return "", "", err
	}
	start = month + "-01"
	lastDay := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, location)
	end = lastDay.Format(DateLayout)
	return start, end, nil
}

// LastDayOfMonth returns the calendar length of t's month in the business
// timezone.
func LastDayOfMonth(t time.Time) int {
	t = t.In(location)
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, location).Day()
}

// IsLastDayOfMonth reports whether t falls on its month's last calendar day
// in the business timezone.
func IsLastDayOfMonth(t time.Time) bool {
	return t.In(location).Day() == LastDayOfMonth(t)
}

// PreviousMonth returns the "YYYY-MM" month before the given one.
func PreviousMonth(month string) (string, error) {
	t, err := ParseMonth(month)
	if err != nil {
		return "", err
	}
	return t.AddDate(0, -1, 0).Format(MonthLayout), nil
}

// FormatDisplayDate converts "YYYY-MM-DD" to "DD/MM/YYYY". The input is
// split as a string on purpose: parsing through time.Time in another zone
// could shift the calendar day.
func FormatDisplayDate(isoDate string) string {
	if len(isoDate) != 10 {
		return isoDate
	}
	return isoDate[8:10] + "/" + isoDate[5:7] + "/" + isoDate[0:4]
}
