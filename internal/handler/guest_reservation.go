package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/queue"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	queuepublisher "github.com/iliyamo/hotel-room-reservation/internal/service"
)

// GuestHandler serves the reservation endpoints available to guests:
// booking a room, listing and inspecting their own reservations, and
// cancelling ahead of the deadline. The creation path runs inside one
// transaction holding the room row lock, so two guests racing for the
// same dates cannot both pass the conflict check.
type GuestHandler struct {
	RoomRepo        *repository.RoomRepo
	ReservationRepo *repository.ReservationRepo
	Log             *logrus.Logger
}

func NewGuestHandler(rooms *repository.RoomRepo, reservations *repository.ReservationRepo, log *logrus.Logger) *GuestHandler {
	if rooms == nil || reservations == nil || log == nil {
		panic("nil dependency passed to NewGuestHandler")
	}
	return &GuestHandler{RoomRepo: rooms, ReservationRepo: reservations, Log: log}
}

type createReservationReq struct {
	RoomID           uint64  `json:"room_id"`
	CheckIn          string  `json:"check_in"`
	CheckOut         string  `json:"check_out"`
	GuestCount       uint32  `json:"guest_count"`
	GuestName        string  `json:"guest_name"`
	GuestEmail       string  `json:"guest_email"`
	GuestPhone       string  `json:"guest_phone"`
	EmergencyContact *string `json:"emergency_contact"`
}

// Create handles POST /v1/reservations. The new reservation starts
// PENDING and waits for operator confirmation. Dates are half-open, so
// a stay may begin on the day another ends with no conflict.
func (h *GuestHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createReservationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id is required"})
	}
	rng, err := booking.ParseDateRange(req.CheckIn, req.CheckOut)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if rng.CheckIn.Before(today) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_in must not be in the past"})
	}
	req.GuestName = strings.TrimSpace(req.GuestName)
	req.GuestEmail = strings.TrimSpace(req.GuestEmail)
	req.GuestPhone = strings.TrimSpace(req.GuestPhone)
	if req.GuestName == "" || req.GuestEmail == "" || req.GuestPhone == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest_name, guest_email and guest_phone are required"})
	}
	if req.GuestCount == 0 {
		req.GuestCount = 1
	}

	ctx := c.Request().Context()
	tx, err := h.RoomRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Locks the room row until commit; concurrent creates for the same
	// room serialize here.
	info, err := h.RoomRepo.GetBookingInfoTx(ctx, tx, req.RoomID)
	if err != nil {
		return repoError(c, err)
	}
	if !info.Room.IsAvailable {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room is not open for booking"})
	}
	if req.GuestCount > info.Room.GuestCapacity {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest_count exceeds room capacity"})
	}

	conflict, err := h.ReservationRepo.RoomConflictExistsTx(ctx, tx, req.RoomID, rng)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "availability check failed"})
	}
	if conflict {
		return c.JSON(http.StatusConflict, echo.Map{"error": "room is already booked for these dates"})
	}

	res := &model.Reservation{
		RoomID:           req.RoomID,
		GuestUserID:      userID,
		CheckIn:          rng.CheckIn,
		CheckOut:         rng.CheckOut,
		GuestCount:       req.GuestCount,
		GuestName:        req.GuestName,
		GuestEmail:       req.GuestEmail,
		GuestPhone:       req.GuestPhone,
		EmergencyContact: req.EmergencyContact,
	}
	if err := h.ReservationRepo.CreateTx(ctx, tx, res); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	h.Log.WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"room_id":        res.RoomID,
		"guest_user_id":  userID,
		"check_in":       rng.CheckIn.Format(booking.DateLayout),
		"check_out":      rng.CheckOut.Format(booking.DateLayout),
	}).Info("reservation created")

	detail, err := h.ReservationRepo.GetDetail(ctx, res.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservation failed"})
	}

	stay := booking.Stay{Range: rng, BasePriceCents: info.Room.BasePriceCents, TaxRatePercent: info.Room.TaxRatePercent}
	event := queue.ReservationCreatedEvent{
		ReservationID:    res.ID,
		GuestUserID:      userID,
		GuestName:        res.GuestName,
		GuestEmail:       res.GuestEmail,
		RoomID:           res.RoomID,
		RoomName:         info.Room.Name,
		HotelID:          info.HotelID,
		HotelName:        info.HotelName,
		CheckIn:          rng.CheckIn.Format(booking.DateLayout),
		CheckOut:         rng.CheckOut.Format(booking.DateLayout),
		Nights:           rng.Nights(),
		GuestCount:       res.GuestCount,
		TotalAmountCents: stay.AmountCents(),
		CreatedAt:        detail.CreatedAt,
	}
	// Best effort; a broker outage must not fail the booking.
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queuepublisher.PublishReservationCreated(pubCtx, h.Log, event)
	}()

	return c.JSON(http.StatusCreated, detail)
}

// ListMine handles GET /v1/reservations.
func (h *GuestHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	details, err := h.ReservationRepo.ListByGuest(c.Request().Context(), userID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": details})
}

// Get handles GET /v1/reservations/:id for the owning guest.
func (h *GuestHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	detail, err := h.ReservationRepo.GetDetail(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	if detail.GuestUserID != userID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, detail)
}

type cancelReq struct {
	Reason *string `json:"reason"`
}

// Cancel handles POST /v1/reservations/:id/cancel. Guests may cancel
// their own active reservations up to three days before check-in;
// after that only the hotel's operator can release the booking.
func (h *GuestHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req cancelReq
	_ = c.Bind(&req)

	ctx := c.Request().Context()
	tx, err := h.ReservationRepo.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	facts, err := h.ReservationRepo.GetFactsTx(ctx, tx, id)
	if err != nil {
		return repoError(c, err)
	}
	actor := booking.Actor{UserID: userID, Role: booking.RoleGuest}
	next, err := booking.Transition(facts.Status, booking.EventCancel, actor,
		booking.Facts{GuestID: facts.GuestID, CheckIn: facts.CheckIn},
		false, time.Now().UTC())
	if err != nil {
		return transitionError(c, err)
	}
	if err := h.ReservationRepo.UpdateStatusTx(ctx, tx, id, facts.Status, next, userID, req.Reason); err != nil {
		return repoError(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	h.Log.WithFields(logrus.Fields{
		"reservation_id": id,
		"guest_user_id":  userID,
	}).Info("reservation cancelled by guest")

	detail, err := h.ReservationRepo.GetDetail(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservation failed"})
	}
	return c.JSON(http.StatusOK, detail)
}

// transitionError maps lifecycle guard failures onto HTTP responses.
func transitionError(c echo.Context, err error) error {
	var te *booking.TransitionError
	switch {
	case errors.Is(err, booking.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, booking.ErrCancelDeadline):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "cancellation deadline has passed"})
	case errors.As(err, &te):
		return c.JSON(http.StatusConflict, echo.Map{"error": te.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "transition failed"})
}
