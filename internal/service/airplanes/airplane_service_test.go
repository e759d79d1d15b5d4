package airplanes

import (
	"context"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAirplaneRepository struct {
	mock.Mock
}

func (m *MockAirplaneRepository) List(ctx context.Context) ([]domain.Airplane, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Airplane), args.Error(1)
}

func (m *MockAirplaneRepository) GetByPlate(ctx context.Context, plate string) (*domain.Airplane, error) {
	args := m.Called(ctx, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airplane), args.Error(1)
}

func (m *MockAirplaneRepository) Create(ctx context.Context, a *domain.Airplane) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAirplaneRepository) Update(ctx context.Context, a *domain.Airplane) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAirplaneRepository) Delete(ctx context.Context, plate string) error {
	return m.Called(ctx, plate).Error(0)
}

var enterprise = domain.User{ID: 5, Role: domain.RoleEnterprise}

func TestAirplaneService_Create(t *testing.T) {
	repo := &MockAirplaneRepository{}
	service := NewAirplaneService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, &domain.Airplane{Plate: "EC-ABC", Model: "A320", Capacity: 180}).Return(nil)

	plane, err := service.Create(ctx, enterprise, AirplaneInput{Plate: "ec-abc", Model: " A320", Capacity: 180})
	require.NoError(t, err)
	assert.Equal(t, "EC-ABC", plane.Plate)

	invalid := []AirplaneInput{
		{Model: "A320", Capacity: 1},
		{Plate: "EC-ABCDEFGHI", Model: "A320", Capacity: 1},
		{Plate: "EC-X", Capacity: 1},
		{Plate: "EC-X", Model: "A320"},
	}
	for _, in := range invalid {
		_, err := service.Create(ctx, enterprise, in)
		assert.ErrorIs(t, err, domain.ErrValidation)
	}

	_, err = service.Create(ctx, domain.User{ID: 1, Role: domain.RoleClient}, AirplaneInput{Plate: "EC-X", Model: "A320", Capacity: 1})
	assert.ErrorIs(t, err, domain.ErrForbiddenRole)
	repo.AssertNumberOfCalls(t, "Create", 1)
}

func TestAirplaneService_UpdateAndDelete(t *testing.T) {
	repo := &MockAirplaneRepository{}
	service := NewAirplaneService(repo)
	ctx := context.Background()

	repo.On("Update", ctx, &domain.Airplane{Plate: "EC-ABC", Model: "A321", Capacity: 200}).Return(nil)
	repo.On("Delete", ctx, "EC-ABC").Return(repository.ErrConflict)
	repo.On("Delete", ctx, "EC-ZZZ").Return(domain.ErrNotFound)

	plane, err := service.Update(ctx, enterprise, "ec-abc", AirplaneInput{Plate: "ignored", Model: "A321", Capacity: 200})
	require.NoError(t, err)
	assert.Equal(t, 200, plane.Capacity)

	assert.ErrorIs(t, service.Delete(ctx, enterprise, "EC-ABC"), repository.ErrConflict)
	assert.ErrorIs(t, service.Delete(ctx, enterprise, "ec-zzz"), domain.ErrNotFound)
}
