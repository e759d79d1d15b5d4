package booking

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/validation"
	"github.com/google/uuid"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, user domain.User, input CreateBookingInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, user domain.User, id int64) (*domain.Booking, error)
	GetBooking(ctx context.Context, user domain.User, id int64) (*domain.Booking, error)
	ListBookings(ctx context.Context, user domain.User) ([]domain.BookingDetail, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value any) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	producer           Producer
	log                *logger.Logger
	refs               *domain.ReferenceGenerator
	now                func() time.Time
	cutoff             time.Duration
	bookingTopic       string
	notificationsTopic string
}

type CreateBookingInput struct {
	FlightID   int64 `json:"flight_id" binding:"required,gt=0"`
	SeatNumber *int  `json:"seat_number,omitempty" binding:"omitnil,min=1"`
}

type BookingServiceOption func(*BookingService)

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) { s.now = now }
}

func WithCutoff(cutoff time.Duration) BookingServiceOption {
	return func(s *BookingService) { s.cutoff = cutoff }
}

func WithTopics(bookingTopic, notificationsTopic string) BookingServiceOption {
	return func(s *BookingService) {
		s.bookingTopic = bookingTopic
		s.notificationsTopic = notificationsTopic
	}
}

func WithLogger(log *logger.Logger) BookingServiceOption {
	return func(s *BookingService) { s.log = log }
}

func NewBookingService(bookings repository.BookingRepository, producer Producer, opts ...BookingServiceOption) *BookingService {
	service := &BookingService{
		bookings: bookings,
		producer: producer,
		now:      time.Now,
		cutoff:   domain.BookingCutoff,
	}
	for _, opt := range opts {
		opt(service)
	}
	service.refs = domain.NewReferenceGenerator(service.now)
	return service
}

// CreateBooking books a seat for a client. The eligibility rules are
// evaluated inside the repository transaction against the locked flight.
func (s *BookingService) CreateBooking(ctx context.Context, user domain.User, input CreateBookingInput) (*domain.Booking, error) {
	if !user.IsClient() {
		return nil, domain.ErrForbiddenRole
	}
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	now := s.now()
	var flight domain.Flight
	booking, err := s.bookings.Create(ctx, repository.CreateBookingParams{
		UserID:     user.ID,
		FlightID:   input.FlightID,
		SeatNumber: input.SeatNumber,
		Status:     domain.BookingStatusConfirmed,
		Check: func(snap repository.BookingSnapshot) error {
			flight = snap.Flight
			return domain.CheckEligibility(domain.EligibilityInput{
				User:            user,
				Flight:          &snap.Flight,
				Now:             now,
				Existing:        snap.Existing,
				FlightLiveCount: snap.FlightLiveCount,
				Cutoff:          s.cutoff,
			})
		},
		Reference: func(f domain.Flight) string {
			return s.refs.Generate(f.AirlineName)
		},
	})
	if err != nil {
		s.log.Debug("BOOKING", fmt.Sprintf("user %d flight %d rejected: %v", user.ID, input.FlightID, err))
		return nil, err
	}

	s.log.LogBooking("created", booking.ID, booking.BookingReference)
	s.publish(ctx, kafka.EventBookingCreated, user, booking, &flight)
	return booking, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, user domain.User, id int64) (*domain.Booking, error) {
	current, err := s.GetBooking(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if current.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrAlreadyCancelled
	}

	updated, err := s.bookings.Cancel(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.LogBooking("cancelled", updated.ID, updated.BookingReference)
	s.publish(ctx, kafka.EventBookingCancelled, user, updated, nil)
	return updated, nil
}

func (s *BookingService) GetBooking(ctx context.Context, user domain.User, id int64) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.OwnedBy(user) {
		s.log.LogSecurity("booking_access_denied", fmt.Sprintf("user %d booking %d", user.ID, id))
		return nil, domain.ErrUnauthorized
	}
	return booking, nil
}

func (s *BookingService) ListBookings(ctx context.Context, user domain.User) ([]domain.BookingDetail, error) {
	return s.bookings.ListByUser(ctx, user.ID)
}

// publish is best effort: the booking is already committed, so failures
// are logged and swallowed.
func (s *BookingService) publish(ctx context.Context, eventType string, user domain.User, booking *domain.Booking, flight *domain.Flight) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		BookingID:  booking.ID,
		Reference:  booking.BookingReference,
		UserID:     user.ID,
		Email:      user.Email,
		FlightID:   booking.FlightID,
		Status:     string(booking.Status),
		OccurredAt: s.now().UTC(),
	}
	if flight != nil {
		event.FlightDate = flight.FlightDate
		event.Origin = flight.Origin
		event.Dest = flight.Destination
	}

	key := strconv.FormatInt(booking.ID, 10)
	for _, topic := range []string{s.bookingTopic, s.notificationsTopic} {
		if topic == "" {
			continue
		}
		if err := s.producer.Publish(ctx, topic, key, event); err != nil {
			s.log.Warn("KAFKA", fmt.Sprintf("failed to publish %s for booking %d to %s: %v", eventType, booking.ID, topic, err))
		}
	}
}

var _ BookingUseCase = (*BookingService)(nil)
