package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-room-reservation/internal/model"
)

type hotelReq struct {
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
}

type opHotelResp struct {
	ID         uint64 `json:"id"`
	OperatorID uint64 `json:"operator_id"`
	Name       string `json:"name"`
	City       string `json:"city"`
	Address    string `json:"address"`
}

func toOpHotelResp(h *model.Hotel) opHotelResp {
	return opHotelResp{ID: h.ID, OperatorID: h.OperatorID, Name: h.Name, City: h.City, Address: h.Address}
}

// CreateHotel handles POST /v1/operator/hotels.
func (h *OperatorHandler) CreateHotel(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req hotelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.City = strings.TrimSpace(req.City)
	req.Address = strings.TrimSpace(req.Address)
	if req.Name == "" || req.City == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city are required"})
	}

	hotel := &model.Hotel{OperatorID: operatorID, Name: req.Name, City: req.City, Address: req.Address}
	if err := h.HotelRepo.Create(c.Request().Context(), hotel); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusCreated, toOpHotelResp(hotel))
}

// ListMyHotels handles GET /v1/operator/hotels.
func (h *OperatorHandler) ListMyHotels(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	hotels, err := h.HotelRepo.ListByOperator(c.Request().Context(), operatorID)
	if err != nil {
		return repoError(c, err)
	}
	out := make([]opHotelResp, 0, len(hotels))
	for _, ht := range hotels {
		out = append(out, toOpHotelResp(ht))
	}
	return c.JSON(http.StatusOK, echo.Map{"hotels": out})
}

// GetHotel handles GET /v1/operator/hotels/:id.
func (h *OperatorHandler) GetHotel(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	hotel, err := h.HotelRepo.GetByIDAndOperator(c.Request().Context(), id, operatorID)
	if err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toOpHotelResp(hotel))
}

// UpdateHotel handles PUT /v1/operator/hotels/:id.
func (h *OperatorHandler) UpdateHotel(c echo.Context) error {
	operatorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
	}
	var req hotelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.City = strings.TrimSpace(req.City)
	req.Address = strings.TrimSpace(req.Address)
	if req.Name == "" || req.City == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and city are required"})
	}

	hotel := &model.Hotel{ID: id, OperatorID: operatorID, Name: req.Name, City: req.City, Address: req.Address}
	if err := h.HotelRepo.Update(c.Request().Context(), hotel); err != nil {
		return repoError(c, err)
	}
	return c.JSON(http.StatusOK, toOpHotelResp(hotel))
}
