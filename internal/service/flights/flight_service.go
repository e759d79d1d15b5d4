package flights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/validation"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.FlightView, error)
	GetByID(ctx context.Context, id int64) (*domain.FlightView, error)
	ListByAirline(ctx context.Context, airlineID int64) ([]domain.FlightView, error)
	Create(ctx context.Context, actor domain.User, input CreateFlightInput) (*domain.Flight, error)
	Update(ctx context.Context, actor domain.User, id int64, input UpdateFlightInput) (*domain.Flight, error)
	Delete(ctx context.Context, actor domain.User, id int64) error
}

// FlightCache holds the raw flight list between mutations.
type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type FlightService struct {
	repo      repository.FlightRepository
	airlines  repository.AirlineRepository
	airports  repository.AirportRepository
	airplanes repository.AirplaneRepository
	cache     FlightCache
	log       *logger.Logger
	now       func() time.Time
}

// CreateFlightInput leaves PassengerCapacity at zero to take the airplane's.
type CreateFlightInput struct {
	AirlineID         int64               `json:"airline_id" binding:"required,gt=0"`
	Origin            string              `json:"origin" binding:"required,len=3,alpha"`
	Destination       string              `json:"destination" binding:"required,len=3,alpha"`
	AirplanePlate     *string             `json:"airplane_plate,omitempty" binding:"omitnil,min=1,max=10"`
	Duration          int                 `json:"duration" binding:"required,min=1"`
	FlightDate        time.Time           `json:"flight_date" binding:"required"`
	PassengerCapacity int                 `json:"passenger_capacity" binding:"omitempty,min=1"`
	Status            domain.FlightStatus `json:"status,omitempty" binding:"omitempty,oneof=available unavailable canceled"`
}

// UpdateFlightInput changes only the fields that are set. An empty
// airplane_plate detaches the airplane.
type UpdateFlightInput struct {
	Origin            *string              `json:"origin,omitempty" binding:"omitnil,len=3,alpha"`
	Destination       *string              `json:"destination,omitempty" binding:"omitnil,len=3,alpha"`
	AirplanePlate     *string              `json:"airplane_plate,omitempty" binding:"omitnil,max=10"`
	Duration          *int                 `json:"duration,omitempty" binding:"omitnil,min=1"`
	FlightDate        *time.Time           `json:"flight_date,omitempty"`
	PassengerCapacity *int                 `json:"passenger_capacity,omitempty" binding:"omitnil,min=1"`
	Status            *domain.FlightStatus `json:"status,omitempty" binding:"omitnil,oneof=available unavailable canceled"`
}

type FlightServiceOption func(*FlightService)

func WithClock(now func() time.Time) FlightServiceOption {
	return func(s *FlightService) { s.now = now }
}

func WithLogger(log *logger.Logger) FlightServiceOption {
	return func(s *FlightService) { s.log = log }
}

func NewFlightService(
	repo repository.FlightRepository,
	airlines repository.AirlineRepository,
	airports repository.AirportRepository,
	airplanes repository.AirplaneRepository,
	cache FlightCache,
	opts ...FlightServiceOption,
) *FlightService {
	s := &FlightService{repo: repo, airlines: airlines, airports: airports, airplanes: airplanes, cache: cache, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *FlightService) List(ctx context.Context) ([]domain.FlightView, error) {
	flights, err := s.cachedList(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(flights), nil
}

func (s *FlightService) cachedList(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			s.log.Warn("CACHE", "flights cache read failed: "+err.Error())
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.log.Warn("CACHE", "flights cache write failed: "+err.Error())
		}
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.FlightView, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := domain.NewFlightView(*f, s.now())
	return &view, nil
}

func (s *FlightService) ListByAirline(ctx context.Context, airlineID int64) ([]domain.FlightView, error) {
	if _, err := s.airlines.GetByID(ctx, airlineID); err != nil {
		return nil, err
	}
	flights, err := s.repo.ListByAirline(ctx, airlineID)
	if err != nil {
		return nil, err
	}
	return s.views(flights), nil
}

func (s *FlightService) views(flights []domain.Flight) []domain.FlightView {
	now := s.now()
	views := make([]domain.FlightView, 0, len(flights))
	for _, f := range flights {
		views = append(views, domain.NewFlightView(f, now))
	}
	return views
}

func (s *FlightService) Create(ctx context.Context, actor domain.User, in CreateFlightInput) (*domain.Flight, error) {
	if !actor.IsEnterprise() {
		return nil, domain.ErrForbiddenRole
	}
	in.Origin = normalizeCode(in.Origin)
	in.Destination = normalizeCode(in.Destination)
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	airline, err := s.ownedAirline(ctx, actor, in.AirlineID)
	if err != nil {
		return nil, err
	}

	f := &domain.Flight{
		AirlineID:         airline.ID,
		AirlineName:       airline.Name,
		Origin:            in.Origin,
		Destination:       in.Destination,
		AirplanePlate:     in.AirplanePlate,
		Duration:          in.Duration,
		FlightDate:        in.FlightDate.UTC(),
		PassengerCapacity: in.PassengerCapacity,
		Status:            in.Status,
	}
	if f.Status == "" {
		f.Status = domain.FlightStatusAvailable
	}
	if f.FlightDate.IsZero() || !f.FlightDate.After(s.now()) {
		return nil, domain.NewValidationError("flight_date", "must be in the future")
	}
	if err := s.resolve(ctx, f); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log.LogDatabase("insert", "flights", fmt.Sprintf("flight %d %s-%s", f.ID, f.Origin, f.Destination))
	return f, nil
}

func (s *FlightService) Update(ctx context.Context, actor domain.User, id int64, in UpdateFlightInput) (*domain.Flight, error) {
	f, err := s.ownedFlight(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	in = in.normalized()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	if in.Origin != nil {
		f.Origin = *in.Origin
	}
	if in.Destination != nil {
		f.Destination = *in.Destination
	}
	if in.AirplanePlate != nil {
		f.AirplanePlate = in.AirplanePlate
		if *in.AirplanePlate == "" {
			f.AirplanePlate = nil
		}
	}
	if in.Duration != nil {
		f.Duration = *in.Duration
	}
	if in.FlightDate != nil {
		if !in.FlightDate.After(s.now()) {
			return nil, domain.NewValidationError("flight_date", "must be in the future")
		}
		f.FlightDate = in.FlightDate.UTC()
	}
	if in.PassengerCapacity != nil {
		f.PassengerCapacity = *in.PassengerCapacity
	}
	if in.Status != nil {
		f.Status = *in.Status
	}
	if err := s.resolve(ctx, f); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return f, nil
}

// Delete removes the flight together with its bookings.
func (s *FlightService) Delete(ctx context.Context, actor domain.User, id int64) error {
	if _, err := s.ownedFlight(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.log.LogDatabase("delete", "flights", fmt.Sprintf("flight %d", id))
	return nil
}

func (s *FlightService) ownedAirline(ctx context.Context, actor domain.User, airlineID int64) (*domain.Airline, error) {
	if !actor.IsEnterprise() {
		return nil, domain.ErrForbiddenRole
	}
	airline, err := s.airlines.GetByID(ctx, airlineID)
	if err != nil {
		return nil, err
	}
	if !airline.OwnedBy(actor) {
		return nil, domain.ErrUnauthorized
	}
	return airline, nil
}

func (s *FlightService) ownedFlight(ctx context.Context, actor domain.User, id int64) (*domain.Flight, error) {
	if !actor.IsEnterprise() {
		return nil, domain.ErrForbiddenRole
	}
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.ownedAirline(ctx, actor, f.AirlineID); err != nil {
		return nil, err
	}
	return f, nil
}

// resolve checks f against the reference data and fills the capacity from
// the airplane when none is given. Field shapes are already validated.
func (s *FlightService) resolve(ctx context.Context, f *domain.Flight) error {
	if f.Origin == f.Destination {
		return domain.NewValidationError("destination", "must differ from origin")
	}
	if err := s.knownAirport(ctx, "origin", f.Origin); err != nil {
		return err
	}
	if err := s.knownAirport(ctx, "destination", f.Destination); err != nil {
		return err
	}

	if f.AirplanePlate != nil {
		plane, err := s.airplanes.GetByPlate(ctx, *f.AirplanePlate)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewValidationError("airplane_plate", "unknown airplane")
		}
		if err != nil {
			return err
		}
		if f.PassengerCapacity == 0 {
			f.PassengerCapacity = plane.Capacity
		}
	}
	if f.PassengerCapacity < 1 {
		return domain.NewValidationError("passenger_capacity", "is required without an airplane")
	}
	return nil
}

func (s *FlightService) knownAirport(ctx context.Context, field, code string) error {
	_, err := s.airports.GetByCode(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError(field, "unknown airport")
	}
	return err
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Warn("CACHE", "flights cache invalidation failed: "+err.Error())
	}
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (in UpdateFlightInput) normalized() UpdateFlightInput {
	if in.Origin != nil {
		origin := normalizeCode(*in.Origin)
		in.Origin = &origin
	}
	if in.Destination != nil {
		dest := normalizeCode(*in.Destination)
		in.Destination = &dest
	}
	return in
}

var _ FlightUseCase = (*FlightService)(nil)
