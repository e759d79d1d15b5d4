package domain

import "time"

// BookingCutoff is how long before departure booking closes.
const BookingCutoff = 24 * time.Hour

// EligibilityInput is everything the booking rules look at. Existing holds
// the user's live bookings in a stable order; FlightLiveCount is the number
// of live bookings on the target flight across all users.
type EligibilityInput struct {
	User            User
	Flight          *Flight
	Now             time.Time
	Existing        []BookedFlight
	FlightLiveCount int
	Cutoff          time.Duration
}

// CheckEligibility evaluates the booking rules in order and returns the
// first one that fails, or nil when the booking may be created.
func CheckEligibility(in EligibilityInput) error {
	if !in.User.IsClient() {
		return ErrForbiddenRole
	}
	if in.Flight == nil {
		return ErrNotFound
	}
	flight := *in.Flight

	cutoff := in.Cutoff
	if cutoff <= 0 {
		cutoff = BookingCutoff
	}
	deadline := flight.FlightDate.Add(-cutoff)
	if !in.Now.Before(deadline) {
		return ErrTooLateToBook
	}

	if flight.Status != FlightStatusAvailable {
		return ErrFlightUnavailable
	}

	if conflict, ok := FindOverlap(flight, in.Existing); ok {
		return &OverlapError{Flight: conflict}
	}

	if in.FlightLiveCount >= flight.PassengerCapacity {
		return ErrFlightFull
	}

	for _, b := range in.Existing {
		if b.Flight.ID == flight.ID {
			return ErrAlreadyBooked
		}
	}
	return nil
}

// FindOverlap returns the first booked flight whose interval overlaps the
// candidate. Bookings on the candidate flight itself are skipped; those are
// duplicates, not overlaps.
func FindOverlap(candidate Flight, existing []BookedFlight) (Flight, bool) {
	window := candidate.Interval()
	for _, b := range existing {
		if b.Flight.ID == candidate.ID {
			continue
		}
		if window.Overlaps(b.Flight.Interval()) {
			return b.Flight, true
		}
	}
	return Flight{}, false
}
