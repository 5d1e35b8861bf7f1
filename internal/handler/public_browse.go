package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/booking"
	"github.com/iliyamo/hotel-room-reservation/internal/model"
	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// PublicHandler serves the unauthenticated browse endpoints: hotel and
// room listings and the availability check guests use before booking.
type PublicHandler struct {
	HotelRepo       *repository.HotelRepo
	RoomRepo        *repository.RoomRepo
	ReservationRepo *repository.ReservationRepo
}

func NewPublicHandler(h *repository.HotelRepo, r *repository.RoomRepo, res *repository.ReservationRepo) *PublicHandler {
	if h == nil || r == nil || res == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{HotelRepo: h, RoomRepo: r, ReservationRepo: res}
}

type hotelResp struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
}

type roomResp struct {
	ID                 uint64  `json:"id"`
	HotelID            uint64  `json:"hotel_id"`
	Name               string  `json:"name"`
	Description        *string `json:"description,omitempty"`
	GuestCapacity      uint32  `json:"guest_capacity"`
	PricePerNightCents int64   `json:"price_per_night_cents"`
	IsAvailable        bool    `json:"is_available"`
}

func toHotelResp(h *model.Hotel) hotelResp {
	return hotelResp{ID: h.ID, Name: h.Name, City: h.City, Address: h.Address}
}

func toRoomResp(rm *model.Room) roomResp {
	return roomResp{
		ID:                 rm.ID,
		HotelID:            rm.HotelID,
		Name:               rm.Name,
		Description:        rm.Description,
		GuestCapacity:      rm.GuestCapacity,
		PricePerNightCents: rm.DisplayPriceCents(),
		IsAvailable:        rm.IsAvailable,
	}
}

// ListHotels handles GET /v1/hotels.
func (h *PublicHandler) ListHotels(c echo.Context) error {
	hotels, err := h.HotelRepo.ListAll(c.Request().Context())
	if err != nil {
		return repoError(c, err)
	}
	out := make([]hotelResp, 0, len(hotels))
	for _, ht := range hotels {
		out = append(out, toHotelResp(ht))
	}
	return c.JSON(http.StatusOK, echo.Map{"hotels": out})
}

// GetHotel handles GET /v1/hotels/:id.
func (h *PublicHandler) GetHotel(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ht, err := h.HotelRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toHotelResp(ht))
}

// ListRooms handles GET /v1/hotels/:id/rooms. Only rooms the operator
// marked available are shown to the public.
func (h *PublicHandler) ListRooms(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	ctx := c.Request().Context()
	if _, err := h.HotelRepo.GetByID(ctx, id); err != nil {
		return repoError(c, err)
	}
	rooms, err := h.RoomRepo.ListByHotel(ctx, id, true)
	if err != nil {
		return repoError(c, err)
	}
	out := make([]roomResp, 0, len(rooms))
	for _, rm := range rooms {
		out = append(out, toRoomResp(rm))
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": out})
}

// CheckAvailability handles GET /v1/hotels/:id/availability. Query
// parameters check_in and check_out bound the half-open stay range; a
// room conflicts when an active reservation overlaps the range. An
// optional room_id narrows the check to one room. The response lists
// rooms that remain bookable plus the conflicting ids so clients can
// grey them out.
func (h *PublicHandler) CheckAvailability(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	rng, err := booking.ParseDateRange(c.QueryParam("check_in"), c.QueryParam("check_out"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var roomID uint64
	if raw := c.QueryParam("room_id"); raw != "" {
		roomID, err = strconv.ParseUint(raw, 10, 64)
		if err != nil || roomID == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room_id"})
		}
	}

	ctx := c.Request().Context()
	if _, err := h.HotelRepo.GetByID(ctx, id); err != nil {
		return repoError(c, err)
	}
	rooms, err := h.RoomRepo.ListByHotel(ctx, id, true)
	if err != nil {
		return repoError(c, err)
	}
	conflicting, err := h.ReservationRepo.ConflictingRoomIDs(ctx, id, rng)
	if err != nil {
		return repoError(c, err)
	}

	taken := make(map[uint64]struct{}, len(conflicting))
	for _, rid := range conflicting {
		taken[rid] = struct{}{}
	}
	available := make([]roomResp, 0, len(rooms))
	for _, rm := range rooms {
		if roomID != 0 && rm.ID != roomID {
			continue
		}
		if _, bad := taken[rm.ID]; !bad {
			available = append(available, toRoomResp(rm))
		}
	}
	if roomID != 0 {
		filtered := make([]uint64, 0, 1)
		for _, rid := range conflicting {
			if rid == roomID {
				filtered = append(filtered, rid)
			}
		}
		conflicting = filtered
	}
	return c.JSON(http.StatusOK, echo.Map{
		"check_in":             rng.CheckIn.Format(booking.DateLayout),
		"check_out":            rng.CheckOut.Format(booking.DateLayout),
		"available":            len(available) > 0,
		"available_rooms":      available,
		"conflicting_room_ids": conflicting,
	})
}
