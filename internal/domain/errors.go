package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUserNotFound    = errors.New("user not found")
	ErrVehicleNotFound = errors.New("vehicle not found")
	ErrConflict        = errors.New("vehicle not available for selected dates")
	ErrBusy            = errors.New("could not serialize booking, retry later")
	ErrStorageFailure  = errors.New("storage failure")
)

// PolicyReason identifies which reservation policy rule a request broke.
type PolicyReason string

const (
	ReasonInvalidOrdering PolicyReason = "invalid_ordering"
	ReasonRentalTooLong   PolicyReason = "rental_too_long"
	ReasonTooFarInAdvance PolicyReason = "too_far_in_advance"
)

type PolicyViolation struct {
	Reason  PolicyReason
	Message string
}

func newPolicyViolation(reason PolicyReason, format string, args ...interface{}) *PolicyViolation {
	return &PolicyViolation{
		Reason:  reason,
		Message: fmt.Sprintf(format, args...),
	}
}

func (v *PolicyViolation) Error() string {
	return v.Message
}

// AsPolicyViolation unwraps err into a PolicyViolation if there is one.
func AsPolicyViolation(err error) (*PolicyViolation, bool) {
	var violation *PolicyViolation
	if errors.As(err, &violation) {
		return violation, true
	}
	return nil, false
}
