// Package queue defines message payloads exchanged over the message broker
// and the background consumer that turns them into guest notifications.
package queue

// Durable queue names shared by the publisher and the consumer.
const (
	QueueReservationCreated   = "reservation.created"
	QueueReservationConfirmed = "reservation.confirmed"
)

// ReservationCreatedEvent is published when a guest books a room and a
// new PENDING reservation is recorded. Downstream consumers send the
// booking-received notice to the guest and alert the hotel's operator
// that a confirmation is waiting.
type ReservationCreatedEvent struct {
	ReservationID    uint64 `json:"reservation_id"`
	GuestUserID      uint64 `json:"guest_user_id"`
	GuestName        string `json:"guest_name"`
	GuestEmail       string `json:"guest_email"`
	RoomID           uint64 `json:"room_id"`
	RoomName         string `json:"room_name"`
	HotelID          uint64 `json:"hotel_id"`
	HotelName        string `json:"hotel_name"`
	CheckIn          string `json:"check_in"`
	CheckOut         string `json:"check_out"`
	Nights           int    `json:"nights"`
	GuestCount       uint32 `json:"guest_count"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	CreatedAt        string `json:"created_at"`
}

// ReservationConfirmedEvent is published when an operator confirms a
// reservation. It carries enough context for downstream consumers to
// notify the guest or feed analytics without querying the primary
// database.
type ReservationConfirmedEvent struct {
	ReservationID    uint64 `json:"reservation_id"`
	GuestUserID      uint64 `json:"guest_user_id"`
	GuestName        string `json:"guest_name"`
	GuestEmail       string `json:"guest_email"`
	RoomID           uint64 `json:"room_id"`
	RoomName         string `json:"room_name"`
	HotelID          uint64 `json:"hotel_id"`
	HotelName        string `json:"hotel_name"`
	CheckIn          string `json:"check_in"`
	CheckOut         string `json:"check_out"`
	Nights           int    `json:"nights"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	ConfirmedAt      string `json:"confirmed_at"`
}
