package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

type roomReq struct {
	Name           string  `json:"name"`
	Description    *string `json:"description"`
	GuestCapacity  uint32  `json:"guest_capacity"`
	BasePriceCents int64   `json:"base_price_cents"`
	TaxRatePercent int64   `json:"tax_rate_percent"`
	TaxesCents     int64   `json:"taxes_cents"`
	IsAvailable    *bool   `json:"is_available"`
}

// opRoomResp exposes the full room record including the pricing fields
// the public listing hides.
type opRoomResp struct {
	ID             uint64  `json:"id"`
	HotelID        uint64  `json:"hotel_id"`
	Name           string  `json:"name"`
	Description    *string `json:"description,omitempty"`
	GuestCapacity  uint32  `json:"guest_capacity"`
	BasePriceCents int64   `json:"base_price_cents"`
	TaxRatePercent int64   `json:"tax_rate_percent"`
	TaxesCents     int64   `json:"taxes_cents"`
	IsAvailable    bool    `json:"is_available"`
}

func toOpRoomResp(rm *model.Room) opRoomResp {
	return opRoomResp{
		ID:             rm.ID,
		HotelID:        rm.HotelID,
		Name:           rm.Name,
		Description:    rm.Description,
		GuestCapacity:  rm.GuestCapacity,
		BasePriceCents: rm.BasePriceCents,
		TaxRatePercent: rm.TaxRatePercent,
		TaxesCents:     rm.TaxesCents,
		IsAvailable:    rm.IsAvailable,
	}
}

func (req *roomReq) validate() string {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return "name is required"
	}
	if req.GuestCapacity == 0 {
		return "guest_capacity must be positive"
	}
	if req.BasePriceCents < 0 || req.TaxRatePercent < 0 || req.TaxesCents < 0 {
		return "prices must not be negative"
	}
	return ""
}

// CreateRoom handles POST /v1/operator/hotels/:id/rooms.
func (h *OperatorHandler) CreateRoom(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	room := &model.Room{
		HotelID:        hotelID,
		Name:           req.Name,
		Description:    req.Description,
		GuestCapacity:  req.GuestCapacity,
		BasePriceCents: req.BasePriceCents,
		TaxRatePercent: req.TaxRatePercent,
		TaxesCents:     req.TaxesCents,
		IsAvailable:    available,
	}
	if err := h.RoomRepo.Create(c.Request().Context(), operatorID, room); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, toOpRoomResp(room))
}

// ListRooms handles GET /v1/operator/hotels/:id/rooms. Unlike the
// public listing it includes rooms closed for booking.
func (h *OperatorHandler) ListRooms(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotelID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx := c.Request().Context()
	if _, err := h.HotelRepo.GetByIDAndOperator(ctx, hotelID, operatorID); err != nil {
		return repoError(c, err)
	}
	rooms, err := h.RoomRepo.ListByHotel(ctx, hotelID, false)
	if err != nil {
		return repoError(c, err)
	}
	out := make([]opRoomResp, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, toOpRoomResp(rm))
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": out})
}

// UpdateRoom handles PUT /v1/operator/rooms/:id.
func (h *OperatorHandler) UpdateRoom(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	roomID, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	room := &model.Room{
		ID:             roomID,
		Name:           req.Name,
		Description:    req.Description,
		GuestCapacity:  req.GuestCapacity,
		BasePriceCents: req.BasePriceCents,
		TaxRatePercent: req.TaxRatePercent,
		TaxesCents:     req.TaxesCents,
		IsAvailable:    available,
	}
	if err := h.RoomRepo.Update(c.Request().Context(), operatorID, room); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toOpRoomResp(room))
}
