package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// ReservationRepo provides persistence for reservations.  A reservation
// claims a room over a half-open range of calendar days; only PENDING
// and CONFIRMED rows participate in the overlap invariant.  Rows are
// never deleted; cancellation flips the status and keeps the audit
// trail so occupancy and revenue history stay accurate.
//
// All mutating operations are offered as ...Tx methods so handlers can
// compose the conflict re-check, the insert and the status compare-and-
// swap into a single transaction.  The row-level lock taken in
// RoomRepo.GetBookingInfoTx plus the CAS on status are the only
// synchronization primitives; no in-process mutex is involved.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need to begin
// transactions spanning multiple repositories.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

// activeStatuses is inlined into queries that implement the overlap
// invariant.  Keep in sync with booking.Status.Active.
const activeStatuses = `'PENDING', 'CONFIRMED'`

// ConflictingRoomIDs returns the DISTINCT, ascending ids of rooms in the
// hotel that have at least one active reservation overlapping the
// half-open range.  Boundary touching does not count: a stay may start
// the day another ends.
func (r *ReservationRepo) ConflictingRoomIDs(ctx context.Context, hotelID uint64, rng booking.DateRange) ([]uint64, error) {
	const q = `SELECT DISTINCT res.room_id
	           FROM reservations res
	           JOIN rooms rm ON rm.id = res.room_id
	           WHERE rm.hotel_id = ?
	             AND res.status IN (` + activeStatuses + `)
	             AND res.check_in < ? AND res.check_out > ?
	           ORDER BY res.room_id`
	rows, err := r.db.QueryContext(ctx, q, hotelID,
		rng.CheckOut.Format(booking.DateLayout), rng.CheckIn.Format(booking.DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RoomConflictExistsTx reports whether the room already has an active
// reservation overlapping the range.  It must run inside the same
// transaction that holds the room row lock and performs the insert;
// that closes the race window between check and write.
func (r *ReservationRepo) RoomConflictExistsTx(ctx context.Context, tx *sql.Tx, roomID uint64, rng booking.DateRange) (bool, error) {
	const q = `SELECT EXISTS (
	             SELECT 1 FROM reservations
	             WHERE room_id = ?
	               AND status IN (` + activeStatuses + `)
	               AND check_in < ? AND check_out > ?
	           )`
	var exists bool
	err := tx.QueryRowContext(ctx, q, roomID,
		rng.CheckOut.Format(booking.DateLayout), rng.CheckIn.Format(booking.DateLayout)).Scan(&exists)
	return exists, err
}

// reservationColumns is the canonical select list for reservation rows.
const reservationColumns = `id, room_id, guest_user_id, check_in, check_out, guest_count,
	guest_name, guest_email, guest_phone, emergency_contact, status,
	confirmed_at, confirmed_by, cancelled_at, cancelled_by, cancellation_reason,
	created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }, res *model.Reservation) error {
	var status string
	err := row.Scan(&res.ID, &res.RoomID, &res.GuestUserID, &res.CheckIn, &res.CheckOut, &res.GuestCount,
		&res.GuestName, &res.GuestEmail, &res.GuestPhone, &res.EmergencyContact, &status,
		&res.ConfirmedAt, &res.ConfirmedBy, &res.CancelledAt, &res.CancelledBy, &res.CancellationReason,
		&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return err
	}
	res.Status = booking.Status(status)
	return nil
}

// CreateTx inserts a new PENDING reservation within the caller's
// transaction and populates the generated ID and DB-default fields on
// the provided record.  The caller is responsible for the conflict
// re-check before calling this and for committing or rolling back.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations
	           (room_id, guest_user_id, check_in, check_out, guest_count,
	            guest_name, guest_email, guest_phone, emergency_contact, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		res.RoomID, res.GuestUserID,
		res.CheckIn.Format(booking.DateLayout), res.CheckOut.Format(booking.DateLayout),
		res.GuestCount, res.GuestName, res.GuestEmail, res.GuestPhone, res.EmergencyContact,
		string(booking.StatusPending))
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	const sel = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	return scanReservation(tx.QueryRowContext(ctx, sel, res.ID), res)
}

// TransitionFacts is the slice of a reservation the lifecycle guards
// need, loaded under lock so a concurrent transition cannot slip in
// between the read and the status update.
type TransitionFacts struct {
	ID         uint64
	GuestID    uint64
	RoomID     uint64
	HotelID    uint64
	HotelName  string
	RoomName   string
	OperatorID uint64
	CheckIn    time.Time
	Status     booking.Status
}

// GetFactsTx loads the transition facts for a reservation inside the
// caller's transaction with FOR UPDATE on the reservation row.  Returns
// ErrReservationNotFound when no row exists.
func (r *ReservationRepo) GetFactsTx(ctx context.Context, tx *sql.Tx, id uint64) (*TransitionFacts, error) {
	const q = `SELECT res.id, res.guest_user_id, res.room_id, rm.hotel_id, h.name, rm.name,
	                  h.operator_id, res.check_in, res.status
	           FROM reservations res
	           JOIN rooms rm ON rm.id = res.room_id
	           JOIN hotels h ON h.id = rm.hotel_id
	           WHERE res.id = ?
	           FOR UPDATE`
	var f TransitionFacts
	var status string
	err := tx.QueryRowContext(ctx, q, id).Scan(
		&f.ID, &f.GuestID, &f.RoomID, &f.HotelID, &f.HotelName, &f.RoomName,
		&f.OperatorID, &f.CheckIn, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	f.Status = booking.Status(status)
	return &f, nil
}

// UpdateStatusTx applies a status change as a compare-and-swap: the
// UPDATE only matches while the row still carries the expected previous
// status, so a transition that raced with another one affects zero rows
// and surfaces as ErrConflict.  Audit columns are set according to the
// target status.
func (r *ReservationRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, id uint64, from, to booking.Status, actorID uint64, reason *string) error {
	var (
		res sql.Result
		err error
	)
	switch to {
	case booking.StatusConfirmed:
		res, err = tx.ExecContext(ctx,
			`UPDATE reservations SET status = ?, confirmed_at = UTC_TIMESTAMP(), confirmed_by = ? WHERE id = ? AND status = ?`,
			string(to), actorID, id, string(from))
	case booking.StatusCancelled:
		res, err = tx.ExecContext(ctx,
			`UPDATE reservations SET status = ?, cancelled_at = UTC_TIMESTAMP(), cancelled_by = ?, cancellation_reason = ? WHERE id = ? AND status = ?`,
			string(to), actorID, reason, id, string(from))
	default:
		res, err = tx.ExecContext(ctx,
			`UPDATE reservations SET status = ? WHERE id = ? AND status = ?`,
			string(to), id, string(from))
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// The row left the expected status between our read and this
		// write; the caller reports it as a concurrent conflict.
		return ErrConflict
	}
	return nil
}

// ReservationDetail is a reservation joined with its room and hotel for
// display.  Dates are formatted as YYYY-MM-DD and timestamps as RFC3339.
type ReservationDetail struct {
	ID                 uint64  `json:"id"`
	RoomID             uint64  `json:"room_id"`
	RoomName           string  `json:"room_name"`
	HotelID            uint64  `json:"hotel_id"`
	HotelName          string  `json:"hotel_name"`
	GuestUserID        uint64  `json:"guest_user_id"`
	CheckIn            string  `json:"check_in"`
	CheckOut           string  `json:"check_out"`
	Nights             int     `json:"nights"`
	GuestCount         uint32  `json:"guest_count"`
	GuestName          string  `json:"guest_name"`
	GuestEmail         string  `json:"guest_email"`
	GuestPhone         string  `json:"guest_phone"`
	EmergencyContact   *string `json:"emergency_contact,omitempty"`
	Status             string  `json:"status"`
	ConfirmedAt        *string `json:"confirmed_at,omitempty"`
	ConfirmedBy        *uint64 `json:"confirmed_by,omitempty"`
	CancelledAt        *string `json:"cancelled_at,omitempty"`
	CancelledBy        *uint64 `json:"cancelled_by,omitempty"`
	CancellationReason *string `json:"cancellation_reason,omitempty"`
	CreatedAt          string  `json:"created_at"`
}

const detailQuery = `SELECT res.id, res.room_id, rm.name, rm.hotel_id, h.name,
	       res.guest_user_id, res.check_in, res.check_out, res.guest_count,
	       res.guest_name, res.guest_email, res.guest_phone, res.emergency_contact,
	       res.status, res.confirmed_at, res.confirmed_by,
	       res.cancelled_at, res.cancelled_by, res.cancellation_reason, res.created_at
	FROM reservations res
	JOIN rooms rm ON rm.id = res.room_id
	JOIN hotels h ON h.id = rm.hotel_id`

func scanDetail(row interface{ Scan(...any) error }) (*ReservationDetail, error) {
	var (
		d                      ReservationDetail
		checkIn, checkOut      time.Time
		confirmedAt, cancelled sql.NullTime
		createdAt              time.Time
	)
	err := row.Scan(&d.ID, &d.RoomID, &d.RoomName, &d.HotelID, &d.HotelName,
		&d.GuestUserID, &checkIn, &checkOut, &d.GuestCount,
		&d.GuestName, &d.GuestEmail, &d.GuestPhone, &d.EmergencyContact,
		&d.Status, &confirmedAt, &d.ConfirmedBy,
		&cancelled, &d.CancelledBy, &d.CancellationReason, &createdAt)
	if err != nil {
		return nil, err
	}
	d.CheckIn = checkIn.Format(booking.DateLayout)
	d.CheckOut = checkOut.Format(booking.DateLayout)
	d.Nights = booking.DateRange{CheckIn: checkIn, CheckOut: checkOut}.Nights()
	if confirmedAt.Valid {
		iso := confirmedAt.Time.UTC().Format(time.RFC3339)
		d.ConfirmedAt = &iso
	}
	if cancelled.Valid {
		iso := cancelled.Time.UTC().Format(time.RFC3339)
		d.CancelledAt = &iso
	}
	d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	return &d, nil
}

// GetDetail returns a single reservation with room and hotel context.
// Callers enforce visibility (guest owns it, or operator owns the
// hotel) using the GuestUserID/HotelID fields of the result together
// with a hotel lookup.  Returns ErrReservationNotFound when absent.
func (r *ReservationRepo) GetDetail(ctx context.Context, id uint64) (*ReservationDetail, error) {
	d, err := scanDetail(r.db.QueryRowContext(ctx, detailQuery+` WHERE res.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *ReservationRepo) listDetails(ctx context.Context, q string, args ...any) ([]*ReservationDetail, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := make([]*ReservationDetail, 0)
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// ListByGuest returns all reservations created by the guest, newest first.
func (r *ReservationRepo) ListByGuest(ctx context.Context, guestID uint64) ([]*ReservationDetail, error) {
	return r.listDetails(ctx, detailQuery+` WHERE res.guest_user_id = ? ORDER BY res.created_at DESC, res.id DESC`, guestID)
}

// ListByHotel returns all reservations for a hotel when accessed by its
// operator, newest first.  It verifies ownership first and returns
// ErrHotelNotFound or ErrForbidden accordingly.
func (r *ReservationRepo) ListByHotel(ctx context.Context, hotelID, operatorID uint64) ([]*ReservationDetail, error) {
	var owner uint64
	err := r.db.QueryRowContext(ctx, `SELECT operator_id FROM hotels WHERE id = ?`, hotelID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHotelNotFound
	}
	if err != nil {
		return nil, err
	}
	if owner != operatorID {
		return nil, ErrForbidden
	}
	return r.listDetails(ctx, detailQuery+` WHERE rm.hotel_id = ? ORDER BY res.created_at DESC, res.id DESC`, hotelID)
}

// PortfolioFilter narrows an operator's cross-hotel reservation listing.
// HotelID of zero means all hotels; zero From/To skip the window filter,
// which otherwise keeps stays intersecting [From, To] inclusive.
type PortfolioFilter struct {
	HotelID uint64
	From    time.Time
	To      time.Time
}

// ListForOperator returns reservations across every hotel the operator
// manages, optionally narrowed by hotel and by an inclusive date
// window, newest first.
func (r *ReservationRepo) ListForOperator(ctx context.Context, operatorID uint64, f PortfolioFilter) ([]*ReservationDetail, error) {
	q := detailQuery + ` WHERE h.operator_id = ?`
	args := []any{operatorID}
	if f.HotelID != 0 {
		q += ` AND rm.hotel_id = ?`
		args = append(args, f.HotelID)
	}
	if !f.From.IsZero() && !f.To.IsZero() {
		q += ` AND res.check_in <= ? AND res.check_out >= ?`
		args = append(args, f.To.Format(booking.DateLayout), f.From.Format(booking.DateLayout))
	}
	q += ` ORDER BY res.created_at DESC, res.id DESC`
	return r.listDetails(ctx, q, args...)
}

// ConfirmedStays returns the date range and pricing of every CONFIRMED
// reservation in the hotel, the raw material for the occupancy and
// revenue aggregations.  Window filtering happens in the pure layer so
// total and period figures come from one scan.
func (r *ReservationRepo) ConfirmedStays(ctx context.Context, hotelID uint64) ([]booking.Stay, error) {
	const q = `SELECT res.check_in, res.check_out, rm.base_price_cents, rm.tax_rate_percent
	           FROM reservations res
	           JOIN rooms rm ON rm.id = res.room_id
	           WHERE rm.hotel_id = ? AND res.status = 'CONFIRMED'
	           ORDER BY res.id`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stays := make([]booking.Stay, 0)
	for rows.Next() {
		var s booking.Stay
		if err := rows.Scan(&s.Range.CheckIn, &s.Range.CheckOut, &s.BasePriceCents, &s.TaxRatePercent); err != nil {
			return nil, err
		}
		stays = append(stays, s)
	}
	return stays, rows.Err()
}
