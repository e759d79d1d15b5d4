package repository

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AirportRepository interface {
	List(ctx context.Context) ([]domain.Airport, error)
	GetByCode(ctx context.Context, code string) (*domain.Airport, error)
	Create(ctx context.Context, airport *domain.Airport) error
	Delete(ctx context.Context, code string) error
}

type PGAirportRepository struct {
	db *pgxpool.Pool
}

func NewAirportRepository(db *pgxpool.Pool) AirportRepository {
	return &PGAirportRepository{db: db}
}

const airportColumns = `id, name, country, created_at, updated_at`

func scanAirport(row pgx.Row, a *domain.Airport) error {
	return row.Scan(&a.Code, &a.Name, &a.Country, &a.CreatedAt, &a.UpdatedAt)
}

func (r *PGAirportRepository) List(ctx context.Context) ([]domain.Airport, error) {
	rows, err := r.db.Query(ctx, `SELECT `+airportColumns+` FROM airports ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airports := make([]domain.Airport, 0)
	for rows.Next() {
		var a domain.Airport
		if err := scanAirport(rows, &a); err != nil {
			return nil, err
		}
		airports = append(airports, a)
	}
	return airports, rows.Err()
}

func (r *PGAirportRepository) GetByCode(ctx context.Context, code string) (*domain.Airport, error) {
	var a domain.Airport
	if err := scanAirport(r.db.QueryRow(ctx, `SELECT `+airportColumns+` FROM airports WHERE id=$1`, code), &a); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *PGAirportRepository) Create(ctx context.Context, a *domain.Airport) error {
	err := r.db.QueryRow(ctx, `INSERT INTO airports (id, name, country) VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`, a.Code, a.Name, a.Country).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	return translate(err)
}

// Delete fails with ErrConflict while any flight departs from or lands at
// the airport.
func (r *PGAirportRepository) Delete(ctx context.Context, code string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM airports WHERE id=$1`, code)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ AirportRepository = (*PGAirportRepository)(nil)
