package airports

import (
	"context"
	"testing"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAirportRepository struct {
	mock.Mock
}

func (m *MockAirportRepository) List(ctx context.Context) ([]domain.Airport, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Airport), args.Error(1)
}

func (m *MockAirportRepository) GetByCode(ctx context.Context, code string) (*domain.Airport, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airport), args.Error(1)
}

func (m *MockAirportRepository) Create(ctx context.Context, a *domain.Airport) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAirportRepository) Delete(ctx context.Context, code string) error {
	return m.Called(ctx, code).Error(0)
}

var enterprise = domain.User{ID: 5, Role: domain.RoleEnterprise}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"mad", "MAD", false},
		{" jfk ", "JFK", false},
		{"MA", "", true},
		{"MADR", "", true},
		{"M4D", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := NormalizeCode(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, domain.ErrValidation, tt.in)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestAirportService_Create(t *testing.T) {
	repo := &MockAirportRepository{}
	service := NewAirportService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(a *domain.Airport) bool { return a.Code == "BIO" })).Return(nil)
	repo.On("Create", ctx, mock.MatchedBy(func(a *domain.Airport) bool { return a.Code == "MAD" })).Return(repository.ErrDuplicate)

	airport, err := service.Create(ctx, enterprise, AirportInput{Code: "bio", Name: "Bilbao Airport", Country: "Spain"})
	require.NoError(t, err)
	assert.Equal(t, "BIO", airport.Code)

	_, err = service.Create(ctx, enterprise, AirportInput{Code: "MAD", Name: "Barajas", Country: "Spain"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = service.Create(ctx, enterprise, AirportInput{Code: "VLC", Country: "Spain"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = service.Create(ctx, domain.User{ID: 1, Role: domain.RoleClient}, AirportInput{Code: "VLC"})
	assert.ErrorIs(t, err, domain.ErrForbiddenRole)
}

func TestAirportService_GetAndDelete(t *testing.T) {
	repo := &MockAirportRepository{}
	service := NewAirportService(repo)
	ctx := context.Background()

	repo.On("GetByCode", ctx, "MAD").Return(&domain.Airport{Code: "MAD"}, nil)
	repo.On("Delete", ctx, "JFK").Return(repository.ErrConflict)

	got, err := service.GetByCode(ctx, "mad")
	require.NoError(t, err)
	assert.Equal(t, "MAD", got.Code)

	_, err = service.GetByCode(ctx, "toolong")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, service.Delete(ctx, enterprise, "jfk"), repository.ErrConflict)
}
