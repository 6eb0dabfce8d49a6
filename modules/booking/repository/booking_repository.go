package repository

import (
	"context"
	"database/sql"
	"time"

	"woki-api/core/database"
	"woki-api/core/logger"
	"woki-api/core/params"
	"woki-api/modules/booking/entity"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// BookingRepository persists bookings and waitlist entries. Each method is a
// single statement, satisfying the storage contract's atomicity at call
// granularity.
type BookingRepository struct {
	db database.IDatabase
}

func NewBookingRepository(db database.IDatabase) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) CreateBooking(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, venue_id, sector_id, table_ids, party_size, starts_at, ends_at, status, reference, created_at, updated_at)
		VALUES (:id, :venue_id, :sector_id, :table_ids, :party_size, :starts_at, :ends_at, :status, :reference, :created_at, :updated_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, booking)
	if err != nil {
		logger.Error("BookingRepository:CreateBooking:Error", "error", err)
		return err
	}
	return nil
}

func (r *BookingRepository) GetBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	var booking entity.Booking
	err := r.db.GetContext(ctx, &booking, `SELECT * FROM bookings WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		logger.Error("BookingRepository:GetBooking:Error", "error", err, "booking_id", id)
		return nil, err
	}
	return &booking, nil
}

func (r *BookingRepository) UpdateBookingStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus, updatedAt time.Time) error {
	err := r.db.ExecContext(ctx, `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`, status, updatedAt, id)
	if err != nil {
		logger.Error("BookingRepository:UpdateBookingStatus:Error", "error", err, "booking_id", id)
		return err
	}
	return nil
}

func (r *BookingRepository) DeleteBooking(ctx context.Context, id uuid.UUID) error {
	err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		logger.Error("BookingRepository:DeleteBooking:Error", "error", err, "booking_id", id)
		return err
	}
	return nil
}

func (r *BookingRepository) GetConfirmedBookingsForTables(ctx context.Context, tableIDs []string, from, to time.Time) ([]entity.Booking, error) {
	if len(tableIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT * FROM bookings
		WHERE status = $1
		  AND table_ids && $2
		  AND starts_at < $3 AND ends_at > $4
		ORDER BY starts_at
	`
	var bookings []entity.Booking
	err := r.db.SelectContext(ctx, &bookings, query, entity.BookingStatusConfirmed, pq.StringArray(tableIDs), to, from)
	if err != nil {
		logger.Error("BookingRepository:GetConfirmedBookingsForTables:Error", "error", err)
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) ListBookingsForSector(ctx context.Context, sectorID uuid.UUID, from, to time.Time, p params.QueryParams) ([]entity.Booking, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM bookings WHERE sector_id = $1 AND starts_at < $2 AND ends_at > $3`
	if err := r.db.GetContext(ctx, &total, countQuery, sectorID, to, from); err != nil {
		logger.Error("BookingRepository:ListBookingsForSector:Count:Error", "error", err)
		return nil, 0, err
	}

	query := `
		SELECT * FROM bookings
		WHERE sector_id = $1 AND starts_at < $2 AND ends_at > $3
		ORDER BY starts_at, id
		LIMIT $4 OFFSET $5
	`
	var bookings []entity.Booking
	err := r.db.SelectContext(ctx, &bookings, query, sectorID, to, from, p.PageSize, p.Offset())
	if err != nil {
		logger.Error("BookingRepository:ListBookingsForSector:Select:Error", "error", err)
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *BookingRepository) CreateWaitlistEntry(ctx context.Context, e *entity.WaitlistEntry) error {
	query := `
		INSERT INTO waitlist_entries (id, venue_id, sector_id, placeholder_booking_id, party_size, duration_minutes, date, window_start, window_end, created_at, expires_at)
		VALUES (:id, :venue_id, :sector_id, :placeholder_booking_id, :party_size, :duration_minutes, :date, :window_start, :window_end, :created_at, :expires_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, e)
	if err != nil {
		logger.Error("BookingRepository:CreateWaitlistEntry:Error", "error", err)
		return err
	}
	return nil
}

func (r *BookingRepository) ListUnexpiredWaitlistEntries(ctx context.Context, sectorID uuid.UUID, date string, now time.Time) ([]entity.WaitlistEntry, error) {
	query := `
		SELECT * FROM waitlist_entries
		WHERE sector_id = $1 AND date = $2 AND expires_at > $3
		ORDER BY created_at
	`
	var entries []entity.WaitlistEntry
	err := r.db.SelectContext(ctx, &entries, query, sectorID, date, now)
	if err != nil {
		logger.Error("BookingRepository:ListUnexpiredWaitlistEntries:Error", "error", err)
		return nil, err
	}
	return entries, nil
}

func (r *BookingRepository) DeleteWaitlistEntry(ctx context.Context, id uuid.UUID) error {
	err := r.db.ExecContext(ctx, `DELETE FROM waitlist_entries WHERE id = $1`, id)
	if err != nil {
		logger.Error("BookingRepository:DeleteWaitlistEntry:Error", "error", err, "entry_id", id)
		return err
	}
	return nil
}

// DeleteExpiredWaitlistEntries removes expired entries and returns them, so
// the caller can also clean up their placeholder bookings.
func (r *BookingRepository) DeleteExpiredWaitlistEntries(ctx context.Context, now time.Time) ([]entity.WaitlistEntry, error) {
	var expired []entity.WaitlistEntry
	err := r.db.SelectContext(ctx, &expired, `DELETE FROM waitlist_entries WHERE expires_at <= $1 RETURNING *`, now)
	if err != nil {
		logger.Error("BookingRepository:DeleteExpiredWaitlistEntries:Error", "error", err)
		return nil, err
	}
	return expired, nil
}
