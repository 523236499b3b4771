package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/flexoffice/booking-service/internal/domain"
)

// BookingRepository stores bookings. Create assigns a strictly increasing ID.
// List methods return bookings in insertion order.
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	ListBySpace(ctx context.Context, spaceID string) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error
	// AttachCredential sets the credential only if none is stored yet and
	// reports whether it did.
	AttachCredential(ctx context.Context, id int64, credential domain.AccessCredential) (bool, error)
}

type bookingRepository struct {
	pool *pgxpool.Pool
}

// NewBookingRepository returns a Postgres-backed implementation.
func NewBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &bookingRepository{pool: pool}
}

const bookingColumns = `id, space_id, user_id, start_time, end_time, status,
               credential_payload, credential_image, created_at`

func (r *bookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	const query = `
        INSERT INTO bookings (space_id, user_id, start_time, end_time, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id`

	return r.pool.QueryRow(ctx, query,
		booking.SpaceID,
		booking.UserID,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.CreatedAt,
	).Scan(&booking.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id=$1`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return booking, nil
}

func (r *bookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE user_id=$1 ORDER BY id ASC`
	return r.list(ctx, query, userID)
}

func (r *bookingRepository) ListBySpace(ctx context.Context, spaceID string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE space_id=$1 ORDER BY id ASC`
	return r.list(ctx, query, spaceID)
}

func (r *bookingRepository) list(ctx context.Context, query string, arg any) ([]domain.Booking, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Booking{}
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *booking)
	}
	return result, rows.Err()
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	const query = `UPDATE bookings SET status=$1 WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *bookingRepository) AttachCredential(ctx context.Context, id int64, credential domain.AccessCredential) (bool, error) {
	const query = `
        UPDATE bookings SET credential_payload=$1, credential_image=$2
        WHERE id=$3 AND credential_payload IS NULL`

	cmd, err := r.pool.Exec(ctx, query, credential.Payload, credential.Image, id)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() == 1, nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var (
		booking domain.Booking
		payload *string
		image   *string
	)
	if err := row.Scan(
		&booking.ID,
		&booking.SpaceID,
		&booking.UserID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&payload,
		&image,
		&booking.CreatedAt,
	); err != nil {
		return nil, err
	}
	if payload != nil {
		booking.Credential = &domain.AccessCredential{Payload: *payload}
		if image != nil {
			booking.Credential.Image = *image
		}
	}
	return &booking, nil
}
