package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/queue"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
	queuepublisher "github.com/iliyamo/hotel-room-reservation/internal/service"
)

// Confirm handles POST /v1/operator/reservations/:id/confirm. Only an
// operator of the owning hotel may confirm, and only from PENDING. On
// success a ReservationConfirmedEvent is published fire-and-forget so a
// broker outage never blocks the confirmation.
func (h *OperatorHandler) Confirm(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

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
	actor := booking.Actor{UserID: operatorID, Role: booking.RoleOperator}
	next, err := booking.Transition(facts.Status, booking.EventConfirm, actor,
		booking.Facts{GuestID: facts.GuestID, CheckIn: facts.CheckIn},
		facts.OperatorID == operatorID, time.Now().UTC())
	if err != nil {
		return transitionError(c, err)
	}
	if err := h.ReservationRepo.UpdateStatusTx(ctx, tx, id, facts.Status, next, operatorID, nil); err != nil {
		return repoError(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	h.Log.WithFields(logrus.Fields{
		"reservation_id": id,
		"operator_id":    operatorID,
		"hotel_id":       facts.HotelID,
	}).Info("reservation confirmed")

	detail, err := h.ReservationRepo.GetDetail(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservation failed"})
	}

	h.publishConfirmed(facts, detail)

	return c.JSON(http.StatusOK, detail)
}

// publishConfirmed emits the confirmation event in the background. The
// total is recomputed from the room's current pricing, matching what
// the revenue report will attribute to the stay.
func (h *OperatorHandler) publishConfirmed(facts *repository.TransitionFacts, detail *repository.ReservationDetail) {
	room, err := h.RoomRepo.GetByID(context.Background(), facts.RoomID)
	if err != nil {
		h.Log.WithError(err).Warn("confirmation event: load room failed")
		return
	}
	rng, err := booking.ParseDateRange(detail.CheckIn, detail.CheckOut)
	if err != nil {
		h.Log.WithError(err).Warn("confirmation event: bad stored dates")
		return
	}
	stay := booking.Stay{Range: rng, BasePriceCents: room.BasePriceCents, TaxRatePercent: room.TaxRatePercent}

	ev := queue.ReservationConfirmedEvent{
		ReservationID:    detail.ID,
		GuestUserID:      detail.GuestUserID,
		GuestName:        detail.GuestName,
		GuestEmail:       detail.GuestEmail,
		RoomID:           facts.RoomID,
		RoomName:         facts.RoomName,
		HotelID:          facts.HotelID,
		HotelName:        facts.HotelName,
		CheckIn:          detail.CheckIn,
		CheckOut:         detail.CheckOut,
		Nights:           detail.Nights,
		TotalAmountCents: stay.AmountCents(),
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queuepublisher.PublishReservationConfirmed(ctx, h.Log, ev)
	}()
}

// CancelReservation handles POST /v1/operator/reservations/:id/cancel.
// Operators of the owning hotel may cancel any active reservation with
// no deadline restriction.
func (h *OperatorHandler) CancelReservation(c echo.Context) error {
	operatorID, err := getUserID(c)
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
	actor := booking.Actor{UserID: operatorID, Role: booking.RoleOperator}
	next, err := booking.Transition(facts.Status, booking.EventCancel, actor,
		booking.Facts{GuestID: facts.GuestID, CheckIn: facts.CheckIn},
		facts.OperatorID == operatorID, time.Now().UTC())
	if err != nil {
		return transitionError(c, err)
	}
	if err := h.ReservationRepo.UpdateStatusTx(ctx, tx, id, facts.Status, next, operatorID, req.Reason); err != nil {
		return repoError(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	h.Log.WithFields(logrus.Fields{
		"reservation_id": id,
		"operator_id":    operatorID,
	}).Info("reservation cancelled by operator")

	detail, err := h.ReservationRepo.GetDetail(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservation failed"})
	}
	return c.JSON(http.StatusOK, detail)
}

type statusReq struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /v1/operator/reservations/:id/status, the
// generic transition endpoint. The target must be a legal move from the
// current state; PENDING can never be re-entered.
func (h *OperatorHandler) UpdateStatus(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req statusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	target, ok := booking.ParseStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
	}

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
	if facts.OperatorID != operatorID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if err := booking.ValidateStatusChange(facts.Status, target); err != nil {
		return transitionError(c, err)
	}
	if err := h.ReservationRepo.UpdateStatusTx(ctx, tx, id, facts.Status, target, operatorID, nil); err != nil {
		return repoError(c, err)
	}
	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	detail, err := h.ReservationRepo.GetDetail(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load reservation failed"})
	}

	if target == booking.StatusConfirmed {
		h.publishConfirmed(facts, detail)
	}

	return c.JSON(http.StatusOK, detail)
}

// GetReservation handles GET /v1/operator/reservations/:id for an
// operator of the owning hotel.
func (h *OperatorHandler) GetReservation(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	detail, err := h.ReservationRepo.GetDetail(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	if _, err := h.HotelRepo.GetByIDAndOperator(ctx, detail.HotelID, operatorID); err != nil {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return c.JSON(http.StatusOK, detail)
}

// ListHotelReservations handles GET /v1/operator/hotels/:id/reservations.
func (h *OperatorHandler) ListHotelReservations(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	details, err := h.ReservationRepo.ListByHotel(c.Request().Context(), hotelID, operatorID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": details})
}

// ListPortfolio handles GET /v1/operator/reservations: every reservation
// across the operator's hotels, optionally narrowed by hotel_id, from
// and to query parameters (inclusive window).
func (h *OperatorHandler) ListPortfolio(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var f repository.PortfolioFilter
	if raw := c.QueryParam("hotel_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel_id"})
		}
		f.HotelID = id
	}
	from, to := c.QueryParam("from"), c.QueryParam("to")
	if (from == "") != (to == "") {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "from and to must be provided together"})
	}
	if from != "" {
		start, err := booking.ParseDate(from)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid from date"})
		}
		end, err := booking.ParseDate(to)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid to date"})
		}
		if end.Before(start) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "to must not be before from"})
		}
		f.From, f.To = start, end
	}

	details, err := h.ReservationRepo.ListForOperator(c.Request().Context(), operatorID, f)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": details})
}
