package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

// MessageRepo stores the message thread attached to each reservation.
// Messages are immutable; there is no edit or delete path.
type MessageRepo struct {
	db *sql.DB
}

// NewMessageRepo returns a new MessageRepo bound to the given database.
func NewMessageRepo(db *sql.DB) *MessageRepo { return &MessageRepo{db: db} }

// ThreadAccess identifies the two legitimate participants of a
// reservation thread and the reservation's current status, which
// gates whether new messages may still be posted.
type ThreadAccess struct {
	ReservationID uint64
	GuestID       uint64
	OperatorID    uint64
	Status        booking.Status
}

// Participant reports whether the user is one of the thread's two
// parties, the booking guest or the hotel's operator.
func (t ThreadAccess) Participant(userID uint64) bool {
	return userID == t.GuestID || userID == t.OperatorID
}

// GetThreadAccess resolves who may use the reservation's thread.
// Returns ErrReservationNotFound when the reservation does not exist.
func (r *MessageRepo) GetThreadAccess(ctx context.Context, reservationID uint64) (*ThreadAccess, error) {
	const q = `SELECT res.id, res.guest_user_id, h.operator_id, res.status
	           FROM reservations res
	           JOIN rooms rm ON rm.id = res.room_id
	           JOIN hotels h ON h.id = rm.hotel_id
	           WHERE res.id = ?`
	var (
		t      ThreadAccess
		status string
	)
	err := r.db.QueryRowContext(ctx, q, reservationID).Scan(&t.ReservationID, &t.GuestID, &t.OperatorID, &status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	t.Status = booking.Status(status)
	return &t, nil
}

// Create appends a message to the reservation's thread and populates
// the generated ID and timestamp.  The caller checks participation and
// the status gate first.
func (r *MessageRepo) Create(ctx context.Context, m *model.ReservationMessage) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO reservation_messages (reservation_id, sender_id, body) VALUES (?, ?, ?)`,
		m.ReservationID, m.SenderID, m.Body)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at FROM reservation_messages WHERE id = ?`, m.ID).Scan(&m.CreatedAt)
}

// ListByReservation returns the full thread in chronological order.
func (r *MessageRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.ReservationMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, reservation_id, sender_id, body, created_at
		 FROM reservation_messages WHERE reservation_id = ?
		 ORDER BY created_at ASC, id ASC`, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := make([]model.ReservationMessage, 0)
	for rows.Next() {
		var m model.ReservationMessage
		if err := rows.Scan(&m.ID, &m.ReservationID, &m.SenderID, &m.Body, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
