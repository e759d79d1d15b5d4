package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/logger"
)

// Sender turns booking events into customer notifications. There is no
// mail provider behind it; messages go to the log.
type Sender struct {
	log *logger.Logger
}

func NewSender(log *logger.Logger) *Sender {
	return &Sender{log: log}
}

// Send skips event types it has no template for so one stray message
// cannot stall the consumer.
func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	subject, err := Subject(event)
	if err != nil {
		s.log.Warn("EMAIL", "skipping event "+event.ID+": "+err.Error())
		return nil
	}
	s.log.Info("EMAIL", fmt.Sprintf("to=%s subject=%q booking=%d", event.Email, subject, event.BookingID))
	return nil
}

func Subject(event kafka.BookingEvent) (string, error) {
	switch event.Type {
	case kafka.EventBookingCreated:
		return fmt.Sprintf("Booking %s confirmed: %s to %s", event.Reference, event.Origin, event.Dest), nil
	case kafka.EventBookingCancelled:
		return fmt.Sprintf("Booking %s cancelled", event.Reference), nil
	default:
		return "", fmt.Errorf("unknown event type %q", event.Type)
	}
}
