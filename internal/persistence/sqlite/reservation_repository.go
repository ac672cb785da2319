package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/roombooking/internal/booking"
	"github.com/example/roombooking/internal/persistence"
)

// ReservationRepository implements persistence.ReservationRepository. The
// overlap check and the write always share one transaction, which closes the
// check-then-act race between concurrent bookings of the same room.
type ReservationRepository struct {
	pool *Pool
}

// NewReservationRepository creates a SQLite reservation repository.
func NewReservationRepository(pool *Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

// conflictQuery counts non-cancelled reservations for the room whose
// [start,end) interval overlaps the candidate. Touching endpoints do not
// count: [s1,e1) and [s2,e2) overlap iff s1 < e2 AND s2 < e1.
const conflictQuery = `
	SELECT COUNT(*) FROM reservations
	WHERE room_id = ? AND status != ? AND id != ?
	  AND start_time < ? AND ? < end_time
`

func hasConflictTx(tx *sql.Tx, roomID string, start, end time.Time, excludeID string) (bool, error) {
	var count int
	err := tx.QueryRow(conflictQuery,
		roomID,
		string(booking.ReservationCancelled),
		excludeID,
		formatTime(end),
		formatTime(start),
	).Scan(&count)
	if err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}

// HasConflict runs the overlap test outside a write transaction. The UI uses
// it to pre-check a proposed interval; Create and Update repeat the check
// inside their own transaction, so this result is advisory only.
func (r *ReservationRepository) HasConflict(ctx context.Context, roomID string, start, end time.Time, excludeID string) (bool, error) {
	var count int
	err := r.pool.db.QueryRowContext(ctx, conflictQuery,
		roomID,
		string(booking.ReservationCancelled),
		excludeID,
		formatTime(end),
		formatTime(start),
	).Scan(&count)
	if err != nil {
		return false, mapError(err)
	}
	return count > 0, nil
}

// CreateReservation inserts the reservation unless its interval overlaps an
// existing non-cancelled reservation for the room.
func (r *ReservationRepository) CreateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if reservation.ID == "" {
		return persistence.ErrConstraintViolation
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		conflict, err := hasConflictTx(tx, reservation.RoomID, reservation.Start, reservation.End, "")
		if err != nil {
			return err
		}
		if conflict {
			return persistence.ErrConflict
		}

		_, err = tx.Exec(`
			INSERT INTO reservations (id, user_id, room_id, subject, description, start_time, end_time, status, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			reservation.ID,
			reservation.UserID,
			reservation.RoomID,
			reservation.Subject,
			reservation.Description,
			formatTime(reservation.Start),
			formatTime(reservation.End),
			string(reservation.Status),
			formatTime(reservation.CreatedAt),
			formatTime(reservation.UpdatedAt),
		)
		return mapError(err)
	})
}

// UpdateReservation rewrites the mutable fields of an existing reservation,
// excluding its own row from the overlap check so an unchanged interval can
// be resaved. The owning user and room are fixed at creation and are not
// touched here.
func (r *ReservationRepository) UpdateReservation(ctx context.Context, reservation persistence.Reservation) error {
	if reservation.ID == "" {
		return persistence.ErrNotFound
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		var roomID string
		if err := tx.QueryRow("SELECT room_id FROM reservations WHERE id = ?", reservation.ID).Scan(&roomID); err != nil {
			return mapError(err)
		}

		conflict, err := hasConflictTx(tx, roomID, reservation.Start, reservation.End, reservation.ID)
		if err != nil {
			return err
		}
		if conflict {
			return persistence.ErrConflict
		}

		result, err := tx.Exec(`
			UPDATE reservations
			SET subject = ?, description = ?, start_time = ?, end_time = ?, status = ?, updated_at = ?
			WHERE id = ?
		`,
			reservation.Subject,
			reservation.Description,
			formatTime(reservation.Start),
			formatTime(reservation.End),
			string(reservation.Status),
			formatTime(reservation.UpdatedAt),
			reservation.ID,
		)
		if err != nil {
			return mapError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return persistence.ErrNotFound
		}
		return nil
	})
}

const reservationColumns = `
	r.id, r.user_id, r.room_id, m.name, r.subject, r.description,
	r.start_time, r.end_time, r.status, r.created_at, r.updated_at
`

func scanReservation(scan func(dest ...any) error) (persistence.Reservation, error) {
	var (
		res                          persistence.Reservation
		status                       string
		start, end, created, updated string
	)
	err := scan(
		&res.ID, &res.UserID, &res.RoomID, &res.RoomName, &res.Subject, &res.Description,
		&start, &end, &status, &created, &updated,
	)
	if err != nil {
		return persistence.Reservation{}, mapError(err)
	}

	res.Status = booking.ReservationStatus(status)
	if res.Start, err = parseTime(start); err != nil {
		return persistence.Reservation{}, err
	}
	if res.End, err = parseTime(end); err != nil {
		return persistence.Reservation{}, err
	}
	if res.CreatedAt, err = parseTime(created); err != nil {
		return persistence.Reservation{}, err
	}
	if res.UpdatedAt, err = parseTime(updated); err != nil {
		return persistence.Reservation{}, err
	}
	return res, nil
}

// GetReservation retrieves one reservation with its room name joined in.
func (r *ReservationRepository) GetReservation(ctx context.Context, id string) (persistence.Reservation, error) {
	if id == "" {
		return persistence.Reservation{}, persistence.ErrNotFound
	}
	row := r.pool.db.QueryRowContext(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations r JOIN rooms m ON r.room_id = m.id
		WHERE r.id = ?
	`, id)
	return scanReservation(row.Scan)
}

// ListReservationsByUser returns the user's reservations, most recent start
// time first.
func (r *ReservationRepository) ListReservationsByUser(ctx context.Context, userID string) ([]persistence.Reservation, error) {
	return r.queryReservations(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations r JOIN rooms m ON r.room_id = m.id
		WHERE r.user_id = ?
		ORDER BY r.start_time DESC, r.id ASC
	`, userID)
}

// ListReservationsByRoom returns every reservation for the room ordered by
// start time, for occupancy displays and the status aggregation.
func (r *ReservationRepository) ListReservationsByRoom(ctx context.Context, roomID string) ([]persistence.Reservation, error) {
	return r.queryReservations(ctx, `
		SELECT `+reservationColumns+`
		FROM reservations r JOIN rooms m ON r.room_id = m.id
		WHERE r.room_id = ?
		ORDER BY r.start_time ASC, r.id ASC
	`, roomID)
}

func (r *ReservationRepository) queryReservations(ctx context.Context, query string, args ...any) ([]persistence.Reservation, error) {
	rows, err := r.pool.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var reservations []persistence.Reservation
	for rows.Next() {
		res, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, res)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}
	return reservations, nil
}

// UpdateReservationStatus rewrites only the status column, used for explicit
// cancellation.
func (r *ReservationRepository) UpdateReservationStatus(ctx context.Context, id string, status booking.ReservationStatus, updatedAt time.Time) error {
	result, err := r.pool.db.ExecContext(ctx,
		"UPDATE reservations SET status = ?, updated_at = ? WHERE id = ?",
		string(status), formatTime(updatedAt), id,
	)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// CountReservationsForDate counts non-cancelled reservations starting on the
// given calendar day, in the day's own location.
func (r *ReservationRepository) CountReservationsForDate(ctx context.Context, date time.Time) (int, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	var count int
	err := r.pool.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM reservations
		WHERE status != ? AND start_time >= ? AND start_time < ?
	`,
		string(booking.ReservationCancelled),
		formatTime(dayStart),
		formatTime(dayEnd),
	).Scan(&count)
	if err != nil {
		return 0, mapError(err)
	}
	return count, nil
}

// MarkCompleted transitions confirmed reservations whose end time has passed.
func (r *ReservationRepository) MarkCompleted(ctx context.Context, reference time.Time) (int, error) {
	result, err := r.pool.db.ExecContext(ctx, `
		UPDATE reservations SET status = ?, updated_at = ?
		WHERE status = ? AND end_time <= ?
	`,
		string(booking.ReservationCompleted),
		formatTime(reference),
		string(booking.ReservationConfirmed),
		formatTime(reference),
	)
	if err != nil {
		return 0, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}
