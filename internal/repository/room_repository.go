package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

const roomColumns = `id, hotel_id, name, description, guest_capacity, base_price_cents, tax_rate_percent, taxes_cents, is_available, created_at, updated_at`

// RoomRepo manages persistence for rooms.  Rooms are the unit of
// booking; the reservation engine reads pricing and capacity from here
// and never mutates a room outside the operator catalog endpoints.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the given DB handle.
func NewRoomRepo(db *sql.DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// DB exposes the underlying sql.DB.  It allows callers to begin
// transactions spanning multiple repositories.
func (r *RoomRepo) DB() *sql.DB {
	return r.db
}

func scanRoom(row interface{ Scan(...any) error }, rm *model.Room) error {
	return row.Scan(&rm.ID, &rm.HotelID, &rm.Name, &rm.Description, &rm.GuestCapacity,
		&rm.BasePriceCents, &rm.TaxRatePercent, &rm.TaxesCents, &rm.IsAvailable,
		&rm.CreatedAt, &rm.UpdatedAt)
}

// Create inserts a new room into the given hotel after verifying the
// hotel belongs to the operator.  ErrHotelNotFound is returned when the
// hotel does not exist and ErrForbidden when it is managed by someone
// else.  On success the generated ID and DB-default fields are
// populated on the given room.
func (r *RoomRepo) Create(ctx context.Context, operatorID uint64, rm *model.Room) error {
	var owner uint64
	err := r.db.QueryRowContext(ctx, `SELECT operator_id FROM hotels WHERE id = ?`, rm.HotelID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrHotelNotFound
	}
	if err != nil {
		return err
	}
	if owner != operatorID {
		return ErrForbidden
	}

	const q = `INSERT INTO rooms (hotel_id, name, description, guest_capacity, base_price_cents, tax_rate_percent, taxes_cents, is_available)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, rm.HotelID, rm.Name, rm.Description, rm.GuestCapacity,
		rm.BasePriceCents, rm.TaxRatePercent, rm.TaxesCents, rm.IsAvailable)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)

	return scanRoom(r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, rm.ID), rm)
}

// GetByID retrieves a room by its ID.  It returns ErrRoomNotFound if
// there is no matching row.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	var rm model.Room
	err := scanRoom(r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id), &rm)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &rm, nil
}

// BookingInfo is the catalog snapshot the reservation engine needs when
// creating or transitioning a booking: the room itself plus the owning
// hotel's identity.
type BookingInfo struct {
	Room       model.Room
	HotelID    uint64
	HotelName  string
	OperatorID uint64
}

// GetBookingInfoTx loads a room together with its hotel inside the
// caller's transaction, locking the room row with FOR UPDATE.  The lock
// serializes concurrent reservation attempts on the same room: the
// second transaction blocks here until the first commits, and then sees
// its freshly inserted reservation in the conflict re-check.  Returns
// ErrRoomNotFound when the room does not exist.
func (r *RoomRepo) GetBookingInfoTx(ctx context.Context, tx *sql.Tx, roomID uint64) (*BookingInfo, error) {
	const q = `SELECT rm.id, rm.hotel_id, rm.name, rm.description, rm.guest_capacity,
	                  rm.base_price_cents, rm.tax_rate_percent, rm.taxes_cents, rm.is_available,
	                  rm.created_at, rm.updated_at,
	                  h.id, h.name, h.operator_id
	           FROM rooms rm
	           JOIN hotels h ON h.id = rm.hotel_id
	           WHERE rm.id = ?
	           FOR UPDATE`
	var info BookingInfo
	rm := &info.Room
	err := tx.QueryRowContext(ctx, q, roomID).Scan(
		&rm.ID, &rm.HotelID, &rm.Name, &rm.Description, &rm.GuestCapacity,
		&rm.BasePriceCents, &rm.TaxRatePercent, &rm.TaxesCents, &rm.IsAvailable,
		&rm.CreatedAt, &rm.UpdatedAt,
		&info.HotelID, &info.HotelName, &info.OperatorID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &info, nil
}

// ListByHotel returns all rooms in a hotel ordered by id.  When
// availableOnly is true, rooms flagged unavailable are filtered out;
// public browsing uses that form.
func (r *RoomRepo) ListByHotel(ctx context.Context, hotelID uint64, availableOnly bool) ([]*model.Room, error) {
	q := `SELECT ` + roomColumns + ` FROM rooms WHERE hotel_id = ?`
	if availableOnly {
		q += ` AND is_available = 1`
	}
	q += ` ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Room
	for rows.Next() {
		rm := new(model.Room)
		if err := scanRoom(rows, rm); err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}

// CountByHotel returns the total number of rooms in the hotel; the
// occupancy denominator.
func (r *RoomRepo) CountByHotel(ctx context.Context, hotelID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms WHERE hotel_id = ?`, hotelID).Scan(&n)
	return n, err
}

// Update modifies the mutable catalog fields of a room after verifying
// that it belongs to a hotel of the operator.  ErrRoomNotFound is
// returned when the room is missing, ErrForbidden when the hotel is
// managed by someone else.
func (r *RoomRepo) Update(ctx context.Context, operatorID uint64, rm *model.Room) error {
	var owner uint64
	err := r.db.QueryRowContext(ctx,
		`SELECT h.operator_id FROM rooms rm JOIN hotels h ON h.id = rm.hotel_id WHERE rm.id = ?`,
		rm.ID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRoomNotFound
	}
	if err != nil {
		return err
	}
	if owner != operatorID {
		return ErrForbidden
	}

	const q = `UPDATE rooms
	           SET name = ?, description = ?, guest_capacity = ?, base_price_cents = ?,
	               tax_rate_percent = ?, taxes_cents = ?, is_available = ?
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, rm.Name, rm.Description, rm.GuestCapacity,
		rm.BasePriceCents, rm.TaxRatePercent, rm.TaxesCents, rm.IsAvailable, rm.ID); err != nil {
		return err
	}
	return scanRoom(r.db.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, rm.ID), rm)
}
