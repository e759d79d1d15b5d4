package repository

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	referenceConstraint = "bookings_booking_reference_key"
	userFlightLiveIndex = "bookings_user_flight_live_key"
)

var ErrReferenceExhausted = errors.New("could not generate a unique booking reference")

// BookingSnapshot is what the booking rules see, read under the flight lock.
type BookingSnapshot struct {
	Flight          domain.Flight
	Existing        []domain.BookedFlight
	FlightLiveCount int
}

// CreateBookingParams drives Create. Check decides whether the booking may
// go ahead; Reference produces a candidate booking reference and is called
// again whenever the previous candidate collides.
type CreateBookingParams struct {
	UserID     int64
	FlightID   int64
	SeatNumber *int
	Status     domain.BookingStatus
	Check      func(BookingSnapshot) error
	Reference  func(domain.Flight) string
}

type BookingRepository interface {
	Create(ctx context.Context, params CreateBookingParams) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.BookingDetail, error)
	Cancel(ctx context.Context, id int64) (*domain.Booking, error)
}

const maxRetryBackoff = 250 * time.Millisecond

type PGBookingRepository struct {
	db                *pgxpool.Pool
	txRetries         int
	retryBackoff      time.Duration
	referenceAttempts int
}

type BookingRepositoryOption func(*PGBookingRepository)

func WithTxRetries(n int) BookingRepositoryOption {
	return func(r *PGBookingRepository) { r.txRetries = n }
}

// WithRetryBackoff sets the first pause between transaction attempts. It
// doubles on every further attempt up to maxRetryBackoff.
func WithRetryBackoff(d time.Duration) BookingRepositoryOption {
	return func(r *PGBookingRepository) { r.retryBackoff = d }
}

func WithReferenceAttempts(n int) BookingRepositoryOption {
	return func(r *PGBookingRepository) { r.referenceAttempts = n }
}

func NewBookingRepository(db *pgxpool.Pool, opts ...BookingRepositoryOption) BookingRepository {
	r := &PGBookingRepository{db: db, txRetries: 3, retryBackoff: 10 * time.Millisecond, referenceAttempts: 5}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

const bookingColumns = `id, user_id, flight_id, status, booking_reference, seat_number, created_at, updated_at`

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.Status, &b.BookingReference, &b.SeatNumber, &b.CreatedAt, &b.UpdatedAt)
}

// Create runs the check and the insert in one serializable transaction.
// Bookings for the same flight queue on a per-flight advisory lock taken
// before the transaction starts, so each one snapshots the bookings its
// predecessor committed and two requests for the last seat cannot both pass
// the capacity check. Serialization failures that still happen (a user
// booking two flights at once) restart the transaction after a jittered
// pause; once retries run out the caller gets ErrContention. A rejection
// from Check is returned as is.
func (r *PGBookingRepository) Create(ctx context.Context, p CreateBookingParams) (*domain.Booking, error) {
	var lastErr error
	for attempt := 0; attempt <= r.txRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, r.backoff(attempt)); err != nil {
				return nil, err
			}
		}
		booking, err := r.createOnce(ctx, p)
		if err == nil {
			return booking, nil
		}
		if !retryable(err) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: booking flight %d: %w", ErrContention, p.FlightID, lastErr)
}

// backoff is the pause before the given retry: retryBackoff doubled per
// attempt, capped, then scaled to a random point in [d/2, d].
func (r *PGBookingRepository) backoff(attempt int) time.Duration {
	d := r.retryBackoff
	for i := 1; i < attempt && d < maxRetryBackoff; i++ {
		d *= 2
	}
	d = min(d, maxRetryBackoff)
	if d <= 0 {
		return 0
	}
	return d/2 + time.Duration(rand.Int63n(int64(d/2+1)))
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *PGBookingRepository) createOnce(ctx context.Context, p CreateBookingParams) (*domain.Booking, error) {
	conn, err := r.db.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	// Session-level lock keyed by flight id; held across the transaction.
	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, p.FlightID); err != nil {
		return nil, err
	}
	defer func() {
		// A connection still holding the lock must not go back to the pool.
		if _, err := conn.Exec(context.WithoutCancel(ctx), `SELECT pg_advisory_unlock($1)`, p.FlightID); err != nil {
			_ = conn.Hijack().Close(context.WithoutCancel(ctx))
		}
	}()

	tx, err := conn.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(context.WithoutCancel(ctx))

	var snap BookingSnapshot
	if err := scanFlight(tx.QueryRow(ctx, flightSelect+` WHERE f.id=$1 FOR UPDATE OF f`, p.FlightID), &snap.Flight); err != nil {
		return nil, translate(err)
	}
	if snap.Existing, err = liveBookedFlights(ctx, tx, p.UserID); err != nil {
		return nil, err
	}
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM bookings WHERE flight_id=$1 AND status <> 'cancelled'`, p.FlightID).Scan(&snap.FlightLiveCount); err != nil {
		return nil, err
	}

	if p.Check != nil {
		if err := p.Check(snap); err != nil {
			return nil, err
		}
	}

	booking, err := r.insert(ctx, tx, p, snap.Flight)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return booking, nil
}

// insert tries fresh references inside savepoints until one is free.
func (r *PGBookingRepository) insert(ctx context.Context, tx pgx.Tx, p CreateBookingParams, flight domain.Flight) (*domain.Booking, error) {
	for i := 0; i < r.referenceAttempts; i++ {
		sp, err := tx.Begin(ctx)
		if err != nil {
			return nil, err
		}

		var b domain.Booking
		err = scanBooking(sp.QueryRow(ctx, `INSERT INTO bookings (user_id, flight_id, status, booking_reference, seat_number)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+bookingColumns,
			p.UserID, p.FlightID, p.Status, p.Reference(flight), p.SeatNumber), &b)
		if err == nil {
			if err := sp.Commit(ctx); err != nil {
				return nil, err
			}
			return &b, nil
		}

		_ = sp.Rollback(ctx)
		switch constraint, _ := constraintOf(err); constraint {
		case referenceConstraint:
			continue
		case userFlightLiveIndex:
			return nil, domain.ErrAlreadyBooked
		default:
			return nil, err
		}
	}
	return nil, ErrReferenceExhausted
}

func liveBookedFlights(ctx context.Context, q pgx.Tx, userID int64) ([]domain.BookedFlight, error) {
	rows, err := q.Query(ctx, `SELECT b.id, `+flightColumns+`
		FROM bookings b
		JOIN flights f ON f.id = b.flight_id
		JOIN airlines a ON a.id = f.airline_id
		WHERE b.user_id=$1 AND b.status IN ('pending', 'confirmed')
		ORDER BY b.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var booked []domain.BookedFlight
	for rows.Next() {
		var bf domain.BookedFlight
		if err := scanFlight(rows, &bf.Flight, &bf.BookingID); err != nil {
			return nil, err
		}
		booked = append(booked, bf)
	}
	return booked, rows.Err()
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := scanBooking(r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id), &b); err != nil {
		return nil, translate(err)
	}
	return &b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID int64) ([]domain.BookingDetail, error) {
	rows, err := r.db.Query(ctx, `SELECT b.id, b.user_id, b.flight_id, b.status, b.booking_reference, b.seat_number, b.created_at, b.updated_at, `+flightColumns+`
		FROM bookings b
		JOIN flights f ON f.id = b.flight_id
		JOIN airlines a ON a.id = f.airline_id
		WHERE b.user_id=$1
		ORDER BY f.flight_date, b.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]domain.BookingDetail, 0)
	for rows.Next() {
		var d domain.BookingDetail
		b := &d.Booking
		if err := scanFlight(rows, &d.Flight, &b.ID, &b.UserID, &b.FlightID, &b.Status, &b.BookingReference, &b.SeatNumber, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// Cancel flips a live booking to cancelled. A booking that is already
// cancelled is left untouched and reported as domain.ErrAlreadyCancelled.
func (r *PGBookingRepository) Cancel(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	err := scanBooking(r.db.QueryRow(ctx, `UPDATE bookings SET status='cancelled', updated_at=now()
		WHERE id=$1 AND status <> 'cancelled'
		RETURNING `+bookingColumns, id), &b)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, domain.ErrAlreadyCancelled
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
