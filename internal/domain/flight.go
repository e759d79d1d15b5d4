package domain

import "time"

type FlightStatus string

const (
	FlightStatusAvailable   FlightStatus = "available"
	FlightStatusUnavailable FlightStatus = "unavailable"
	FlightStatusCanceled    FlightStatus = "canceled"
)

// FlightState is derived from the clock and never persisted.
type FlightState string

const (
	FlightStatePreparing FlightState = "preparing"
	FlightStateFlying    FlightState = "flying"
	FlightStateOutdated  FlightState = "outdated"
)

type Flight struct {
	ID                int64        `json:"id"`
	AirlineID         int64        `json:"airline_id"`
	AirlineName       string       `json:"airline_name,omitempty"`
	Origin            string       `json:"origin"`
	Destination       string       `json:"destination"`
	AirplanePlate     *string      `json:"airplane_plate,omitempty"`
	Duration          int          `json:"duration"`
	FlightDate        time.Time    `json:"flight_date"`
	PassengerCapacity int          `json:"passenger_capacity"`
	Status            FlightStatus `json:"status"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// Arrival is the departure instant plus the duration in minutes.
func (f Flight) Arrival() time.Time {
	return f.FlightDate.Add(time.Duration(f.Duration) * time.Minute)
}

func (f Flight) Interval() Interval {
	return Interval{Start: f.FlightDate, End: f.Arrival()}
}

func (f Flight) StateAt(now time.Time) FlightState {
	switch {
	case now.Before(f.FlightDate):
		return FlightStatePreparing
	case f.Interval().Contains(now):
		return FlightStateFlying
	default:
		return FlightStateOutdated
	}
}

// FlightView is a flight annotated with its state at read time.
type FlightView struct {
	Flight
	State FlightState `json:"state"`
}

func NewFlightView(f Flight, now time.Time) FlightView {
	return FlightView{Flight: f, State: f.StateAt(now)}
}
