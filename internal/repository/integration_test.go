package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Domenick1991/flightbooking/internal/database"
	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type fixture struct {
	pool     *pgxpool.Pool
	users    UserRepository
	airlines AirlineRepository
	airports AirportRepository
	planes   AirplaneRepository
	flights  FlightRepository
	bookings BookingRepository
}

// startPostgres runs a throwaway postgres with the schema migrated.
func startPostgres(t *testing.T) *fixture {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping postgres integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "flightbooking",
				"POSTGRES_PASSWORD": "flightbooking",
				"POSTGRES_DB":       "flightbooking",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	url := fmt.Sprintf("postgres://flightbooking:flightbooking@%s:%s/flightbooking?sslmode=disable", host, port.Port())

	sqlDB, err := database.OpenSQL(url)
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.NewRunner(sqlDB, logger.New(io.Discard)).Up())

	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return &fixture{
		pool:     pool,
		users:    NewUserRepository(pool),
		airlines: NewAirlineRepository(pool),
		airports: NewAirportRepository(pool),
		planes:   NewAirplaneRepository(pool),
		flights:  NewFlightRepository(pool),
		bookings: NewBookingRepository(pool),
	}
}

func (f *fixture) user(t *testing.T, email string, role domain.Role) domain.User {
	t.Helper()
	u := domain.User{Name: email, Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, f.users.Create(context.Background(), &u))
	return u
}

func (f *fixture) flight(t *testing.T, airline domain.Airline, date time.Time, capacity int) domain.Flight {
	t.Helper()
	fl := domain.Flight{
		AirlineID:         airline.ID,
		Origin:            "JFK",
		Destination:       "LAX",
		Duration:          300,
		FlightDate:        date,
		PassengerCapacity: capacity,
		Status:            domain.FlightStatusAvailable,
	}
	require.NoError(t, f.flights.Create(context.Background(), &fl))
	return fl
}

func eligibility(user domain.User, now time.Time) func(BookingSnapshot) error {
	return func(s BookingSnapshot) error {
		return domain.CheckEligibility(domain.EligibilityInput{
			User:            user,
			Flight:          &s.Flight,
			Now:             now,
			Existing:        s.Existing,
			FlightLiveCount: s.FlightLiveCount,
		})
	}
}

func sequence(refs ...string) func(domain.Flight) string {
	i := 0
	return func(domain.Flight) string {
		ref := refs[min(i, len(refs)-1)]
		i++
		return ref
	}
}

func TestPostgresRepositories(t *testing.T) {
	f := startPostgres(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	enterprise := f.user(t, "ops@air.test", domain.RoleEnterprise)
	airline := domain.Airline{Name: "Iberia", EnterpriseID: enterprise.ID}
	require.NoError(t, f.airlines.Create(ctx, &airline))

	t.Run("users", func(t *testing.T) {
		got, err := f.users.GetByEmail(ctx, "OPS@air.test")
		require.NoError(t, err)
		assert.Equal(t, enterprise.ID, got.ID)
		assert.Equal(t, domain.RoleEnterprise, got.Role)

		dup := domain.User{Name: "dup", Email: "ops@air.test", PasswordHash: "x", Role: domain.RoleClient}
		assert.ErrorIs(t, f.users.Create(ctx, &dup), ErrDuplicate)

		assert.ErrorIs(t, f.users.Delete(ctx, enterprise.ID), ErrConflict)

		_, err = f.users.GetByID(ctx, 999999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("airports and airplanes", func(t *testing.T) {
		mad, err := f.airports.GetByCode(ctx, "MAD")
		require.NoError(t, err)
		assert.Equal(t, "Spain", mad.Country)

		plane := domain.Airplane{Plate: "EC-ABC", Model: "A320", Capacity: 180}
		require.NoError(t, f.planes.Create(ctx, &plane))
		plane.Capacity = 170
		require.NoError(t, f.planes.Update(ctx, &plane))

		got, err := f.planes.GetByPlate(ctx, "EC-ABC")
		require.NoError(t, err)
		assert.Equal(t, 170, got.Capacity)

		fl := f.flight(t, airline, now.Add(72*time.Hour), 10)
		fl.AirplanePlate = &plane.Plate
		require.NoError(t, f.flights.Update(ctx, &fl))

		assert.ErrorIs(t, f.planes.Delete(ctx, "EC-ABC"), ErrConflict)
		assert.ErrorIs(t, f.airports.Delete(ctx, "JFK"), ErrConflict)
		require.NoError(t, f.flights.Delete(ctx, fl.ID))
		require.NoError(t, f.planes.Delete(ctx, "EC-ABC"))
	})

	t.Run("capacity holds under concurrent booking", func(t *testing.T) {
		fl := f.flight(t, airline, now.Add(96*time.Hour), 3)

		const clients = 10
		errs := make([]error, clients)
		var wg sync.WaitGroup
		for i := 0; i < clients; i++ {
			u := f.user(t, fmt.Sprintf("rush%d@client.test", i), domain.RoleClient)
			wg.Add(1)
			go func(i int, u domain.User) {
				defer wg.Done()
				_, errs[i] = f.bookings.Create(ctx, CreateBookingParams{
					UserID:    u.ID,
					FlightID:  fl.ID,
					Status:    domain.BookingStatusConfirmed,
					Check:     eligibility(u, now),
					Reference: sequence(fmt.Sprintf("RUSH%02d", i)),
				})
			}(i, u)
		}
		wg.Wait()

		var booked, full int
		for _, err := range errs {
			switch {
			case err == nil:
				booked++
			case errors.Is(err, domain.ErrFlightFull):
				full++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 3, booked)
		assert.Equal(t, clients-3, full)

		var live int
		require.NoError(t, f.pool.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE flight_id=$1 AND status <> 'cancelled'`, fl.ID).Scan(&live))
		assert.Equal(t, 3, live)
	})

	t.Run("every seat sells under contention with default retries", func(t *testing.T) {
		const clients = 24
		fl := f.flight(t, airline, now.Add(120*time.Hour), clients)

		errs := make([]error, clients)
		start := make(chan struct{})
		var wg sync.WaitGroup
		for i := 0; i < clients; i++ {
			u := f.user(t, fmt.Sprintf("crowd%d@client.test", i), domain.RoleClient)
			wg.Add(1)
			go func(i int, u domain.User) {
				defer wg.Done()
				<-start
				_, errs[i] = f.bookings.Create(ctx, CreateBookingParams{
					UserID:    u.ID,
					FlightID:  fl.ID,
					Status:    domain.BookingStatusConfirmed,
					Check:     eligibility(u, now),
					Reference: sequence(fmt.Sprintf("CRWD%02d", i)),
				})
			}(i, u)
		}
		close(start)
		wg.Wait()

		for i, err := range errs {
			assert.NoError(t, err, "client %d", i)
		}
		var live int
		require.NoError(t, f.pool.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE flight_id=$1 AND status <> 'cancelled'`, fl.ID).Scan(&live))
		assert.Equal(t, clients, live)
	})

	t.Run("duplicate, cancel and rebook", func(t *testing.T) {
		client := f.user(t, "dup@client.test", domain.RoleClient)
		fl := f.flight(t, airline, now.Add(120*time.Hour), 5)
		params := CreateBookingParams{UserID: client.ID, FlightID: fl.ID, Status: domain.BookingStatusConfirmed}

		params.Reference = sequence("DUPA")
		first, err := f.bookings.Create(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, "DUPA", first.BookingReference)
		assert.Equal(t, domain.BookingStatusConfirmed, first.Status)

		params.Reference = sequence("DUPB")
		_, err = f.bookings.Create(ctx, params)
		assert.ErrorIs(t, err, domain.ErrAlreadyBooked)

		cancelled, err := f.bookings.Cancel(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)

		_, err = f.bookings.Cancel(ctx, first.ID)
		assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
		_, err = f.bookings.Cancel(ctx, 999999)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		params.Reference = sequence("DUPC")
		_, err = f.bookings.Create(ctx, params)
		require.NoError(t, err)

		details, err := f.bookings.ListByUser(ctx, client.ID)
		require.NoError(t, err)
		require.Len(t, details, 2)
		assert.Equal(t, "Iberia", details[0].Flight.AirlineName)
		assert.Equal(t, fl.ID, details[0].Flight.ID)
	})

	t.Run("reference collisions are regenerated", func(t *testing.T) {
		fl := f.flight(t, airline, now.Add(150*time.Hour), 5)
		a := f.user(t, "ref-a@client.test", domain.RoleClient)
		b := f.user(t, "ref-b@client.test", domain.RoleClient)
		c := f.user(t, "ref-c@client.test", domain.RoleClient)

		_, err := f.bookings.Create(ctx, CreateBookingParams{UserID: a.ID, FlightID: fl.ID, Status: domain.BookingStatusConfirmed, Reference: sequence("SAME")})
		require.NoError(t, err)

		got, err := f.bookings.Create(ctx, CreateBookingParams{UserID: b.ID, FlightID: fl.ID, Status: domain.BookingStatusConfirmed, Reference: sequence("SAME", "FRESH")})
		require.NoError(t, err)
		assert.Equal(t, "FRESH", got.BookingReference)

		_, err = f.bookings.Create(ctx, CreateBookingParams{UserID: c.ID, FlightID: fl.ID, Status: domain.BookingStatusConfirmed, Reference: sequence("SAME")})
		assert.ErrorIs(t, err, ErrReferenceExhausted)
	})

	t.Run("overlap is rejected inside the transaction", func(t *testing.T) {
		client := f.user(t, "overlap@client.test", domain.RoleClient)
		first := f.flight(t, airline, now.Add(200*time.Hour), 5)
		second := f.flight(t, airline, first.FlightDate.Add(time.Hour), 5)

		_, err := f.bookings.Create(ctx, CreateBookingParams{UserID: client.ID, FlightID: first.ID, Status: domain.BookingStatusConfirmed, Check: eligibility(client, now), Reference: sequence("OVL1")})
		require.NoError(t, err)

		_, err = f.bookings.Create(ctx, CreateBookingParams{UserID: client.ID, FlightID: second.ID, Status: domain.BookingStatusConfirmed, Check: eligibility(client, now), Reference: sequence("OVL2")})
		var overlap *domain.OverlapError
		require.ErrorAs(t, err, &overlap)
		assert.Equal(t, first.ID, overlap.Flight.ID)
	})

	t.Run("flight delete cascades bookings", func(t *testing.T) {
		client := f.user(t, "cascade@client.test", domain.RoleClient)
		fl := f.flight(t, airline, now.Add(300*time.Hour), 5)
		b, err := f.bookings.Create(ctx, CreateBookingParams{UserID: client.ID, FlightID: fl.ID, Status: domain.BookingStatusConfirmed, Reference: sequence("CASC")})
		require.NoError(t, err)

		assert.ErrorIs(t, f.airlines.Delete(ctx, airline.ID), ErrConflict)
		require.NoError(t, f.flights.Delete(ctx, fl.ID))

		_, err = f.bookings.GetByID(ctx, b.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, f.flights.Delete(ctx, fl.ID), domain.ErrNotFound)
	})

	t.Run("user delete cascades bookings", func(t *testing.T) {
		client := f.user(t, "leaving@client.test", domain.RoleClient)
		fl := f.flight(t, airline, now.Add(320*time.Hour), 5)
		b, err := f.bookings.Create(ctx, CreateBookingParams{UserID: client.ID, FlightID: fl.ID, Status: domain.BookingStatusConfirmed, Reference: sequence("GONE")})
		require.NoError(t, err)

		require.NoError(t, f.users.Delete(ctx, client.ID))

		_, err = f.bookings.GetByID(ctx, b.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = f.flights.GetByID(ctx, fl.ID)
		assert.NoError(t, err)
	})

	t.Run("missing flight", func(t *testing.T) {
		client := f.user(t, "ghost@client.test", domain.RoleClient)
		_, err := f.bookings.Create(ctx, CreateBookingParams{UserID: client.ID, FlightID: 999999, Status: domain.BookingStatusConfirmed, Reference: sequence("GHST")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
