package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Live bookings occupy a seat and take part in overlap checks.
func (s BookingStatus) Live() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

type Booking struct {
	ID               int64         `json:"id"`
	UserID           int64         `json:"user_id"`
	FlightID         int64         `json:"flight_id"`
	Status           BookingStatus `json:"status"`
	BookingReference string        `json:"booking_reference"`
	SeatNumber       *int          `json:"seat_number,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (b Booking) OwnedBy(u User) bool {
	return b.UserID == u.ID
}

// BookedFlight is one of a user's live bookings joined with its flight.
type BookedFlight struct {
	BookingID int64
	Flight    Flight
}

// BookingDetail is a booking with its flight loaded, as listed to its owner.
type BookingDetail struct {
	Booking
	Flight Flight `json:"flight"`
}
