package api

import (
	"errors"
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/Domenick1991/flightbooking/internal/service/users"
	"github.com/Domenick1991/flightbooking/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// gin validates `binding` tags on bind; report those failures by JSON field
// name, the same way the services do.
func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.Configure(v)
	}
}

type errorResponse struct {
	Error             string         `json:"error"`
	Message           string         `json:"message"`
	Field             string         `json:"field,omitempty"`
	ConflictingFlight *domain.Flight `json:"conflicting_flight,omitempty"`
}

var errorKinds = []struct {
	err    error
	status int
	kind   string
}{
	{domain.ErrTooLateToBook, http.StatusBadRequest, "too_late_to_book"},
	{domain.ErrFlightUnavailable, http.StatusBadRequest, "flight_unavailable"},
	{domain.ErrOverlappingBooking, http.StatusBadRequest, "overlapping_booking"},
	{domain.ErrFlightFull, http.StatusBadRequest, "flight_full"},
	{domain.ErrAlreadyBooked, http.StatusBadRequest, "already_booked"},
	{domain.ErrAlreadyCancelled, http.StatusBadRequest, "already_cancelled"},
	{domain.ErrValidation, http.StatusBadRequest, "validation_error"},
	{domain.ErrForbiddenRole, http.StatusForbidden, "forbidden_role"},
	{domain.ErrUnauthorized, http.StatusForbidden, "unauthorized"},
	{domain.ErrNotFound, http.StatusNotFound, "not_found"},
	{users.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{repository.ErrDuplicate, http.StatusConflict, "duplicate"},
	{repository.ErrConflict, http.StatusConflict, "conflict"},
	{repository.ErrContention, http.StatusServiceUnavailable, "contention"},
}

// writeError maps service errors onto a status code and a stable kind.
// Anything unrecognised is a 500 and its text is not echoed.
func writeError(c *gin.Context, err error) {
	status, body := describe(err)
	switch status {
	case http.StatusInternalServerError:
		_ = c.Error(err)
	case http.StatusServiceUnavailable:
		c.Header("Retry-After", "1")
	}
	c.AbortWithStatusJSON(status, body)
}

func describe(err error) (int, errorResponse) {
	err = validation.Translate(err)
	for _, k := range errorKinds {
		if !errors.Is(err, k.err) {
			continue
		}
		body := errorResponse{Error: k.kind, Message: err.Error()}

		var overlap *domain.OverlapError
		if errors.As(err, &overlap) {
			flight := overlap.Flight
			body.ConflictingFlight = &flight
		}
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			body.Field = verr.Field
		}
		return k.status, body
	}
	return http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: "internal server error"}
}

// bindJSON decodes the body into dst and runs its binding rules. Field
// rule failures become validation_error; malformed JSON is bad_request.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		writeError(c, err)
	} else {
		badRequest(c, err.Error())
	}
	return false
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "bad_request", Message: message})
}
