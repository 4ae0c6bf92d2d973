package model

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar day in ISO format ("2006-01-02").  It is a plain
// string so it marshals naturally, compares lexicographically in the
// same order as chronologically, and maps onto a SQL DATE column.
type Day string

// ParseDay validates s as an ISO calendar day.
func ParseDay(s string) (Day, error) {
	if _, err := time.Parse(dayLayout, s); err != nil {
		return "", fmt.Errorf("invalid day %q: %w", s, err)
	}
	return Day(s), nil
}

// DayOf truncates t to its UTC calendar day.
func DayOf(t time.Time) Day {
	return Day(t.UTC().Format(dayLayout))
}

// Valid reports whether d holds a parseable ISO day.
func (d Day) Valid() bool {
	_, err := time.Parse(dayLayout, string(d))
	return err == nil
}

// Time returns the midnight UTC instant of the day.  The zero time
// is returned for an invalid value.
func (d Day) Time() time.Time {
	t, _ := time.Parse(dayLayout, string(d))
	return t
}
