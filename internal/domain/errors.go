package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrForbiddenRole      = errors.New("only client users can book flights")
	ErrTooLateToBook      = errors.New("booking window for this flight has closed")
	ErrFlightUnavailable  = errors.New("flight is not open for booking")
	ErrOverlappingBooking = errors.New("flight overlaps an existing booking")
	ErrFlightFull         = errors.New("no available seats on this flight")
	ErrAlreadyBooked      = errors.New("you already have a booking for this flight")
	ErrAlreadyCancelled   = errors.New("booking is already cancelled")
	ErrUnauthorized       = errors.New("not allowed to access this resource")
	ErrValidation         = errors.New("validation failed")
)

// OverlapError carries the flight that blocked a booking. It matches
// ErrOverlappingBooking under errors.Is.
type OverlapError struct {
	Flight Flight
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("%s: flight %d departing %s", ErrOverlappingBooking, e.Flight.ID, e.Flight.FlightDate.Format("2006-01-02 15:04"))
}

func (e *OverlapError) Is(target error) bool {
	return target == ErrOverlappingBooking
}

type ValidationError struct {
	Field  string
	Reason string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
