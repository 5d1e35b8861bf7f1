package model

import "time"

// ReservationMessage is a timestamped note on a reservation's
// conversation thread between the guest and the hotel's operator.
// Messages are immutable once created and listed oldest first.
//
// Fields:
//  ID            – primary key identifier.
//  ReservationID – thread the message belongs to.
//  SenderID      – user who wrote the message.
//  Body          – message text.
//  CreatedAt     – creation timestamp; defines thread ordering.
type ReservationMessage struct {
	ID            uint64    // reservation_messages.id
	ReservationID uint64    // reservation_messages.reservation_id
	SenderID      uint64    // reservation_messages.sender_id
	Body          string    // reservation_messages.body
	CreatedAt     time.Time // reservation_messages.created_at
}
