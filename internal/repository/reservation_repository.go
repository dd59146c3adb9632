package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/marlett/reservations/internal/model"
)

// ReservationRepo stores reservations in the `reservations` table.  Field
// names are the snake_case forms of the JSON record; list-valued fields and
// the price breakdown live in JSON columns.  All timestamps are UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationColumns = `id, owner_id, is_anonymous, name, email, phone, real_name, real_email, real_phone,
    date, time, duration, event_type, event_type_id, variant, status, guests,
    rooms, total_price, price_breakdown, catering_selection, decoration_selection,
    audiovisual_selection, notes, avatar, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanReservation reads one row selected with reservationColumns.
func scanReservation(s rowScanner) (model.Reservation, error) {
	var (
		res                                     model.Reservation
		ownerID, realName, realEmail, realPhone sql.NullString
		eventTypeID, avatar                     sql.NullString
		rooms, breakdown, catering              []byte
		decoration, av, notes                   []byte
		variant, status                         string
	)
	err := s.Scan(
		&res.ID, &ownerID, &res.IsAnonymous, &res.Name, &res.Email, &res.Phone,
		&realName, &realEmail, &realPhone,
		&res.Date, &res.Time, &res.Duration, &res.EventType, &eventTypeID, &variant, &status, &res.Guests,
		&rooms, &res.TotalPrice, &breakdown, &catering, &decoration,
		&av, &notes, &avatar, &res.CreatedAt,
	)
	if err != nil {
		return model.Reservation{}, err
	}
	res.OwnerID = ownerID.String
	res.RealName = realName.String
	res.RealEmail = realEmail.String
	res.RealPhone = realPhone.String
	res.EventTypeID = eventTypeID.String
	res.Avatar = avatar.String
	res.Variant = model.Variant(variant)
	res.Status = model.Status(status)

	for _, col := range []struct {
		raw []byte
		dst any
	}{
		{rooms, &res.Rooms},
		{breakdown, &res.PriceBreakdown},
		{catering, &res.CateringSelection},
		{decoration, &res.DecorationSelection},
		{av, &res.AudioVisualSelection},
		{notes, &res.Notes},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return model.Reservation{}, fmt.Errorf("decode reservation %s: %w", res.ID, err)
		}
	}
	return res, nil
}

// jsonArgs encodes the JSON columns in reservationColumns order.
func jsonArgs(r model.Reservation) (rooms, breakdown, catering, decoration, av, notes []byte, err error) {
	enc := func(v any) []byte {
		if err != nil {
			return nil
		}
		var b []byte
		b, err = json.Marshal(v)
		return b
	}
	rooms = enc(nonNil(r.Rooms))
	breakdown = enc(r.PriceBreakdown)
	catering = enc(nonNil(r.CateringSelection))
	decoration = enc(nonNil(r.DecorationSelection))
	av = enc(nonNil(r.AudioVisualSelection))
	notes = enc(nonNil(r.Notes))
	return
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// List returns every reservation, newest first.
func (r *ReservationRepo) List(ctx context.Context) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

// ListByOwner returns the reservations booked by one anonymous client.
func (r *ReservationRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE owner_id = ? ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows *sql.Rows) ([]model.Reservation, error) {
	out := []model.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Get fetches a reservation by id.  ErrNotFound is returned when no row matches.
func (r *ReservationRepo) Get(ctx context.Context, id string) (model.Reservation, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+reservationColumns+" FROM reservations WHERE id = ? LIMIT 1", id)
	res, err := scanReservation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrNotFound
	}
	return res, err
}

// Insert stores a new reservation.  CreatedAt is set when zero.
func (r *ReservationRepo) Insert(ctx context.Context, res model.Reservation) error {
	if res.CreatedAt.IsZero() {
		res.CreatedAt = time.Now().UTC()
	}
	rooms, breakdown, catering, decoration, av, notes, err := jsonArgs(res)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO reservations (`+reservationColumns+`)
         VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		res.ID, nullable(res.OwnerID), res.IsAnonymous, res.Name, res.Email, res.Phone,
		nullable(res.RealName), nullable(res.RealEmail), nullable(res.RealPhone),
		res.Date, res.Time, res.Duration, res.EventType, nullable(res.EventTypeID),
		string(res.Variant), string(res.Status), res.Guests,
		rooms, res.TotalPrice, breakdown, catering, decoration,
		av, notes, res.Avatar, res.CreatedAt.UTC(),
	)
	return err
}

// Update overwrites every mutable column of an existing reservation.
func (r *ReservationRepo) Update(ctx context.Context, res model.Reservation) error {
	rooms, breakdown, catering, decoration, av, notes, err := jsonArgs(res)
	if err != nil {
		return err
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE reservations SET is_anonymous=?, name=?, email=?, phone=?, real_name=?, real_email=?, real_phone=?,
            date=?, time=?, duration=?, event_type=?, event_type_id=?, variant=?, status=?, guests=?,
            rooms=?, total_price=?, price_breakdown=?, catering_selection=?, decoration_selection=?,
            audiovisual_selection=?, notes=?, avatar=?
         WHERE id=?`,
		res.IsAnonymous, res.Name, res.Email, res.Phone,
		nullable(res.RealName), nullable(res.RealEmail), nullable(res.RealPhone),
		res.Date, res.Time, res.Duration, res.EventType, nullable(res.EventTypeID),
		string(res.Variant), string(res.Status), res.Guests,
		rooms, res.TotalPrice, breakdown, catering, decoration,
		av, notes, res.Avatar,
		res.ID,
	)
	if err != nil {
		return err
	}
	return expectRow(result)
}

// UpdateStatus changes only the status column.
func (r *ReservationRepo) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE reservations SET status=? WHERE id=?", string(status), id)
	if err != nil {
		return err
	}
	return expectRow(result)
}

// Delete removes a reservation by id.
func (r *ReservationRepo) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM reservations WHERE id=?", id)
	if err != nil {
		return err
	}
	return expectRow(result)
}

// DeleteBefore removes every reservation dated before day and returns the
// number of rows removed.
func (r *ReservationRepo) DeleteBefore(ctx context.Context, day model.Date) (int, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM reservations WHERE date < ?", day)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

// CountOnDate counts non-cancelled reservations on day, ignoring excludeID
// (used when an edit moves a reservation between days).
func (r *ReservationRepo) CountOnDate(ctx context.Context, day model.Date, excludeID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations WHERE date = ? AND status <> ? AND id <> ?",
		day, string(model.StatusCancelled), excludeID).Scan(&n)
	return n, err
}

// MarkInProgress moves confirmed reservations dated day to in-progress and
// returns how many rows changed.
func (r *ReservationRepo) MarkInProgress(ctx context.Context, day model.Date) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE reservations SET status=? WHERE date = ? AND status = ?",
		string(model.StatusInProgress), day, string(model.StatusConfirmed))
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	return int(n), err
}

func expectRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
