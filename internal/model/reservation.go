package model

import (
	"time"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
)

// Reservation records a guest's exclusive claim on a room over a
// half-open range of calendar days [CheckIn, CheckOut).  At most one
// active (PENDING or CONFIRMED) reservation may overlap another active
// reservation's range on the same room.  Rows are never deleted;
// cancellation is a status change so occupancy and revenue history
// stay accurate.
//
// Guest contact details are denormalized onto the row at booking time
// and do not follow later profile edits.
//
// Fields:
//  ID                 – primary key identifier.
//  RoomID             – room being booked.
//  GuestUserID        – user who owns the booking.
//  CheckIn, CheckOut  – calendar dates, CheckIn < CheckOut always.
//  GuestCount         – number of guests, bounded by room capacity at creation.
//  GuestName/Email/Phone/EmergencyContact – contact snapshot.
//  Status             – lifecycle state (see booking.Status).
//  ConfirmedAt/By     – audit fields set on confirmation.
//  CancelledAt/By     – audit fields set on cancellation.
//  CancellationReason – free-text reason supplied by the canceller.
//  CreatedAt/UpdatedAt – row timestamps.
type Reservation struct {
	ID                 uint64         // reservations.id
	RoomID             uint64         // reservations.room_id
	GuestUserID        uint64         // reservations.guest_user_id
	CheckIn            time.Time      // reservations.check_in (DATE)
	CheckOut           time.Time      // reservations.check_out (DATE)
	GuestCount         uint32         // reservations.guest_count
	GuestName          string         // reservations.guest_name
	GuestEmail         string         // reservations.guest_email
	GuestPhone         string         // reservations.guest_phone
	EmergencyContact   *string        // reservations.emergency_contact (nullable)
	Status             booking.Status // reservations.status
	ConfirmedAt        *time.Time     // reservations.confirmed_at (nullable)
	ConfirmedBy        *uint64        // reservations.confirmed_by (nullable)
	CancelledAt        *time.Time     // reservations.cancelled_at (nullable)
	CancelledBy        *uint64        // reservations.cancelled_by (nullable)
	CancellationReason *string        // reservations.cancellation_reason (nullable)
	CreatedAt          time.Time      // reservations.created_at
	UpdatedAt          time.Time      // reservations.updated_at
}

// Range returns the reservation's half-open date range for interval math.
func (r Reservation) Range() booking.DateRange {
	return booking.DateRange{CheckIn: r.CheckIn, CheckOut: r.CheckOut}
}
