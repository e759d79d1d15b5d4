package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/service/flights"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockFlightUseCase is a mock implementation of flights.FlightUseCase
type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) List(ctx context.Context) ([]domain.FlightView, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.FlightView), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id int64) (*domain.FlightView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FlightView), args.Error(1)
}

func (m *MockFlightUseCase) ListByAirline(ctx context.Context, airlineID int64) ([]domain.FlightView, error) {
	args := m.Called(ctx, airlineID)
	return args.Get(0).([]domain.FlightView), args.Error(1)
}

func (m *MockFlightUseCase) Create(ctx context.Context, actor domain.User, input flights.CreateFlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Update(ctx context.Context, actor domain.User, id int64, input flights.UpdateFlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Delete(ctx context.Context, actor domain.User, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

var testEnterprise = domain.User{ID: 9, Role: domain.RoleEnterprise}

func TestFlightHandler_list(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)
	c, w := newTestContext("GET", "/api/flights", domain.User{}, nil)

	views := []domain.FlightView{
		{Flight: domain.Flight{ID: 1, Origin: "MAD", Destination: "JFK"}, State: domain.FlightStatePreparing},
	}
	mockService.On("List", c.Request.Context()).Return(views, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var response []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, "preparing", response[0]["state"])
	assert.Equal(t, "MAD", response[0]["origin"])

	mockService.AssertExpectations(t)
}

func TestFlightHandler_get(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)
	c, w := newTestContext("GET", "/api/flights/2", domain.User{}, nil)
	c.Params = gin.Params{{Key: "id", Value: "2"}}

	mockService.On("GetByID", c.Request.Context(), int64(2)).Return(nil, domain.ErrNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decodeError(t, w).Error)
}

func TestFlightHandler_create(t *testing.T) {
	date := time.Date(2030, 1, 2, 10, 0, 0, 0, time.UTC)
	input := flights.CreateFlightInput{AirlineID: 3, Origin: "MAD", Destination: "JFK", Duration: 480, FlightDate: date, PassengerCapacity: 100}

	t.Run("created", func(t *testing.T) {
		mockService := &MockFlightUseCase{}
		handler := NewFlightHandler(mockService)
		c, w := newTestContext("POST", "/api/enterprise/flights", testEnterprise, input)

		mockService.On("Create", c.Request.Context(), testEnterprise, input).Return(&domain.Flight{ID: 4, AirlineID: 3}, nil)

		handler.create(c)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("validation", func(t *testing.T) {
		mockService := &MockFlightUseCase{}
		handler := NewFlightHandler(mockService)
		c, w := newTestContext("POST", "/api/enterprise/flights", testEnterprise, input)

		mockService.On("Create", c.Request.Context(), testEnterprise, input).Return(nil, domain.NewValidationError("destination", "must differ from origin"))

		handler.create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeError(t, w)
		assert.Equal(t, "validation_error", resp.Error)
		assert.Equal(t, "destination", resp.Field)
	})

	t.Run("not the owner", func(t *testing.T) {
		mockService := &MockFlightUseCase{}
		handler := NewFlightHandler(mockService)
		c, w := newTestContext("POST", "/api/enterprise/flights", testEnterprise, input)

		mockService.On("Create", c.Request.Context(), testEnterprise, input).Return(nil, domain.ErrUnauthorized)

		handler.create(c)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestFlightHandler_delete(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)
	c, _ := newTestContext("DELETE", "/api/enterprise/flights/4", testEnterprise, nil)
	c.Params = gin.Params{{Key: "id", Value: "4"}}

	mockService.On("Delete", c.Request.Context(), testEnterprise, int64(4)).Return(nil)

	handler.delete(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	mockService.AssertExpectations(t)
}
