package api

import (
	"net/http"

	"github.com/Domenick1991/flightbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

// Register mounts the booking routes on an authenticated group. limit
// guards creation only.
func (h *BookingHandler) Register(router *gin.RouterGroup, limit gin.HandlerFunc) {
	router.GET("/bookings", h.list)
	router.POST("/bookings", limit, h.create)
	router.GET("/bookings/:id", h.get)
	router.POST("/bookings/:id/cancel", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req booking.CreateBookingInput
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.service.CreateBooking(c.Request.Context(), currentUser(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *BookingHandler) list(c *gin.Context) {
	bookings, err := h.service.ListBookings(c.Request.Context(), currentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func (h *BookingHandler) get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b, err := h.service.GetBooking(c.Request.Context(), currentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookingHandler) cancel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b, err := h.service.CancelBooking(c.Request.Context(), currentUser(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}
