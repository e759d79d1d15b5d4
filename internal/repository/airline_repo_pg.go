package repository

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AirlineRepository interface {
	List(ctx context.Context) ([]domain.Airline, error)
	ListByEnterprise(ctx context.Context, enterpriseID int64) ([]domain.Airline, error)
	GetByID(ctx context.Context, id int64) (*domain.Airline, error)
	Create(ctx context.Context, airline *domain.Airline) error
	Update(ctx context.Context, airline *domain.Airline) error
	Delete(ctx context.Context, id int64) error
}

type PGAirlineRepository struct {
	db *pgxpool.Pool
}

func NewAirlineRepository(db *pgxpool.Pool) AirlineRepository {
	return &PGAirlineRepository{db: db}
}

const airlineColumns = `id, name, enterprise_id, created_at, updated_at`

func scanAirline(row pgx.Row, a *domain.Airline) error {
	return row.Scan(&a.ID, &a.Name, &a.EnterpriseID, &a.CreatedAt, &a.UpdatedAt)
}

func (r *PGAirlineRepository) List(ctx context.Context) ([]domain.Airline, error) {
	return r.query(ctx, `SELECT `+airlineColumns+` FROM airlines ORDER BY name, id`)
}

func (r *PGAirlineRepository) ListByEnterprise(ctx context.Context, enterpriseID int64) ([]domain.Airline, error) {
	return r.query(ctx, `SELECT `+airlineColumns+` FROM airlines WHERE enterprise_id=$1 ORDER BY name, id`, enterpriseID)
}

func (r *PGAirlineRepository) query(ctx context.Context, sql string, args ...any) ([]domain.Airline, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airlines := make([]domain.Airline, 0)
	for rows.Next() {
		var a domain.Airline
		if err := scanAirline(rows, &a); err != nil {
			return nil, err
		}
		airlines = append(airlines, a)
	}
	return airlines, rows.Err()
}

func (r *PGAirlineRepository) GetByID(ctx context.Context, id int64) (*domain.Airline, error) {
	var a domain.Airline
	if err := scanAirline(r.db.QueryRow(ctx, `SELECT `+airlineColumns+` FROM airlines WHERE id=$1`, id), &a); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *PGAirlineRepository) Create(ctx context.Context, a *domain.Airline) error {
	err := r.db.QueryRow(ctx, `INSERT INTO airlines (name, enterprise_id) VALUES ($1, $2)
		RETURNING id, created_at, updated_at`, a.Name, a.EnterpriseID).
		Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt)
	return translate(err)
}

func (r *PGAirlineRepository) Update(ctx context.Context, a *domain.Airline) error {
	err := r.db.QueryRow(ctx, `UPDATE airlines SET name=$2, updated_at=now() WHERE id=$1
		RETURNING updated_at`, a.ID, a.Name).
		Scan(&a.UpdatedAt)
	return translate(err)
}

// Delete fails with ErrConflict while flights still belong to the airline.
func (r *PGAirlineRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM airlines WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ AirlineRepository = (*PGAirlineRepository)(nil)
