package domain

import (
	"time"
)

const dateLayout = "2006-01-02"

// RentalInterval is a half-open date interval [Pickup, Return).
// A return on day N does not conflict with a pickup on day N.
type RentalInterval struct {
	Pickup time.Time `json:"pickup_date"`
	Return time.Time `json:"return_date"`
}

// NewRentalInterval builds an interval from calendar dates. Ordering is a
// policy rule, so a reversed pair comes back as a PolicyViolation rather
// than a plain input error.
func NewRentalInterval(pickup, ret time.Time) (RentalInterval, error) {
	interval := RentalInterval{
		Pickup: truncateToDay(pickup),
		Return: truncateToDay(ret),
	}
	if !interval.Return.After(interval.Pickup) {
		return RentalInterval{}, newPolicyViolation(ReasonInvalidOrdering,
			"return date must be after pickup date")
	}
	return interval, nil
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidInput
	}
	return t, nil
}

// Days returns the number of whole rental days the interval spans.
func (i RentalInterval) Days() int {
	return int(i.Return.Sub(i.Pickup).Hours() / 24)
}

// Overlaps reports whether two intervals share at least one rental day.
// Symmetric, and true for an interval against itself.
func (i RentalInterval) Overlaps(other RentalInterval) bool {
	return i.Pickup.Before(other.Return) && other.Pickup.Before(i.Return)
}

func (i RentalInterval) String() string {
	return i.Pickup.Format(dateLayout) + ".." + i.Return.Format(dateLayout)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
