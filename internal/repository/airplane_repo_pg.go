package repository

import (
	"context"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AirplaneRepository interface {
	List(ctx context.Context) ([]domain.Airplane, error)
	GetByPlate(ctx context.Context, plate string) (*domain.Airplane, error)
	Create(ctx context.Context, airplane *domain.Airplane) error
	Update(ctx context.Context, airplane *domain.Airplane) error
	Delete(ctx context.Context, plate string) error
}

type PGAirplaneRepository struct {
	db *pgxpool.Pool
}

func NewAirplaneRepository(db *pgxpool.Pool) AirplaneRepository {
	return &PGAirplaneRepository{db: db}
}

const airplaneColumns = `plate, model, capacity, created_at, updated_at`

func scanAirplane(row pgx.Row, a *domain.Airplane) error {
	return row.Scan(&a.Plate, &a.Model, &a.Capacity, &a.CreatedAt, &a.UpdatedAt)
}

func (r *PGAirplaneRepository) List(ctx context.Context) ([]domain.Airplane, error) {
	rows, err := r.db.Query(ctx, `SELECT `+airplaneColumns+` FROM airplanes ORDER BY plate`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	airplanes := make([]domain.Airplane, 0)
	for rows.Next() {
		var a domain.Airplane
		if err := scanAirplane(rows, &a); err != nil {
			return nil, err
		}
		airplanes = append(airplanes, a)
	}
	return airplanes, rows.Err()
}

func (r *PGAirplaneRepository) GetByPlate(ctx context.Context, plate string) (*domain.Airplane, error) {
	var a domain.Airplane
	if err := scanAirplane(r.db.QueryRow(ctx, `SELECT `+airplaneColumns+` FROM airplanes WHERE plate=$1`, plate), &a); err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *PGAirplaneRepository) Create(ctx context.Context, a *domain.Airplane) error {
	err := r.db.QueryRow(ctx, `INSERT INTO airplanes (plate, model, capacity) VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`, a.Plate, a.Model, a.Capacity).
		Scan(&a.CreatedAt, &a.UpdatedAt)
	return translate(err)
}

func (r *PGAirplaneRepository) Update(ctx context.Context, a *domain.Airplane) error {
	err := r.db.QueryRow(ctx, `UPDATE airplanes SET model=$2, capacity=$3, updated_at=now() WHERE plate=$1
		RETURNING updated_at`, a.Plate, a.Model, a.Capacity).
		Scan(&a.UpdatedAt)
	return translate(err)
}

func (r *PGAirplaneRepository) Delete(ctx context.Context, plate string) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM airplanes WHERE plate=$1`, plate)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

var _ AirplaneRepository = (*PGAirplaneRepository)(nil)
