package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// MessageHandler serves the per-reservation message thread shared by
// the booking guest and the hotel's operator. Anyone else gets 403
// regardless of reservation state. Reading is always allowed for the
// participants; posting is gated on the reservation still being active,
// so a cancelled or completed stay keeps its history readable but
// frozen.
type MessageHandler struct {
	MessageRepo *repository.MessageRepo
}

func NewMessageHandler(messages *repository.MessageRepo) *MessageHandler {
	if messages == nil {
		panic("nil repository passed to NewMessageHandler")
	}
	return &MessageHandler{MessageRepo: messages}
}

type postMessageReq struct {
	Body string `json:"body"`
}

type messageResp struct {
	ID            uint64 `json:"id"`
	ReservationID uint64 `json:"reservation_id"`
	SenderID      uint64 `json:"sender_id"`
	Body          string `json:"body"`
	CreatedAt     string `json:"created_at"`
}

func toMessageResp(m model.ReservationMessage) messageResp {
	return messageResp{
		ID:            m.ID,
		ReservationID: m.ReservationID,
		SenderID:      m.SenderID,
		Body:          m.Body,
		CreatedAt:     m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Post handles POST /v1/reservations/:id/messages.
func (h *MessageHandler) Post(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req postMessageReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Body = strings.TrimSpace(req.Body)
	if req.Body == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "body is required"})
	}

	ctx := c.Request().Context()
	access, err := h.MessageRepo.GetThreadAccess(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	if !access.Participant(userID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	if !access.Status.Active() {
		return c.JSON(http.StatusConflict, echo.Map{"error": "thread is closed for new messages"})
	}

	msg := &model.ReservationMessage{ReservationID: id, SenderID: userID, Body: req.Body}
	if err := h.MessageRepo.Create(ctx, msg); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create message failed"})
	}
	return c.JSON(http.StatusCreated, toMessageResp(*msg))
}

// List handles GET /v1/reservations/:id/messages.
func (h *MessageHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}

	ctx := c.Request().Context()
	access, err := h.MessageRepo.GetThreadAccess(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	if !access.Participant(userID) {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	msgs, err := h.MessageRepo.ListByReservation(ctx, id)
	if err != nil {
		return repoError(c, err)
	}
	out := make([]messageResp, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResp(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"messages": out})
}
