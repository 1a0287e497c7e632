package domain

import "time"

const (
	DefaultMaxRentalDays  = 7
	DefaultMaxAdvanceDays = 7
)

// Policy holds the per-deployment reservation window limits.
type Policy struct {
	MaxRentalDays  int
	MaxAdvanceDays int
}

func DefaultPolicy() Policy {
	return Policy{
		MaxRentalDays:  DefaultMaxRentalDays,
		MaxAdvanceDays: DefaultMaxAdvanceDays,
	}
}

// Validate applies the reservation rules in order; the first broken rule
// wins. A pickup in the past is accepted on purpose: only the upper bound
// of the advance window is policed.
func (p Policy) Validate(interval RentalInterval, today time.Time) error {
	if !interval.Return.After(interval.Pickup) {
		return newPolicyViolation(ReasonInvalidOrdering,
			"return date must be after pickup date")
	}

	if interval.Days() > p.MaxRentalDays {
		return newPolicyViolation(ReasonRentalTooLong,
			"rental period cannot exceed %d days", p.MaxRentalDays)
	}

	advanceDays := int(interval.Pickup.Sub(truncateToDay(today)).Hours() / 24)
	if advanceDays > p.MaxAdvanceDays {
		return newPolicyViolation(ReasonTooFarInAdvance,
			"cannot book more than %d days in advance", p.MaxAdvanceDays)
	}

	return nil
}
