package repository

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	List(ctx context.Context) ([]domain.Flight, error)
	ListByAirline(ctx context.Context, airlineID int64) ([]domain.Flight, error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, flight *domain.Flight) error
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, id int64) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `f.id, f.airline_id, a.name, f.origin, f.destination, f.airplane_plate, f.duration, f.flight_date, f.passenger_capacity, f.status, f.created_at, f.updated_at`

const flightSelect = `SELECT ` + flightColumns + ` FROM flights f JOIN airlines a ON a.id = f.airline_id`

func scanFlight(row pgx.Row, f *domain.Flight, extra ...any) error {
	dest := []any{&f.ID, &f.AirlineID, &f.AirlineName, &f.Origin, &f.Destination, &f.AirplanePlate, &f.Duration, &f.FlightDate, &f.PassengerCapacity, &f.Status, &f.CreatedAt, &f.UpdatedAt}
	return row.Scan(append(extra, dest...)...)
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	return r.query(ctx, flightSelect+` ORDER BY f.flight_date, f.id`)
}

func (r *PGFlightRepository) ListByAirline(ctx context.Context, airlineID int64) ([]domain.Flight, error) {
	return r.query(ctx, flightSelect+` WHERE f.airline_id=$1 ORDER BY f.flight_date, f.id`, airlineID)
}

func (r *PGFlightRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	var f domain.Flight
	if err := scanFlight(r.db.QueryRow(ctx, flightSelect+` WHERE f.id=$1`, id), &f); err != nil {
		return nil, translate(err)
	}
	return &f, nil
}

func (r *PGFlightRepository) Create(ctx context.Context, f *domain.Flight) error {
	err := r.db.QueryRow(ctx, `INSERT INTO flights (airline_id, origin, destination, airplane_plate, duration, flight_date, passenger_capacity, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		f.AirlineID, f.Origin, f.Destination, f.AirplanePlate, f.Duration, f.FlightDate, f.PassengerCapacity, f.Status).
		Scan(&f.ID, &f.CreatedAt, &f.UpdatedAt)
	return translate(err)
}

func (r *PGFlightRepository) Update(ctx context.Context, f *domain.Flight) error {
	err := r.db.QueryRow(ctx, `UPDATE flights
		SET origin=$2, destination=$3, airplane_plate=$4, duration=$5, flight_date=$6, passenger_capacity=$7, status=$8, updated_at=now()
		WHERE id=$1
		RETURNING updated_at`,
		f.ID, f.Origin, f.Destination, f.AirplanePlate, f.Duration, f.FlightDate, f.PassengerCapacity, f.Status).
		Scan(&f.UpdatedAt)
	return translate(err)
}

// Delete removes the flight; its bookings go with it (ON DELETE CASCADE).
func (r *PGFlightRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM flights WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ FlightRepository = (*PGFlightRepository)(nil)
