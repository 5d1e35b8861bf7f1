package handler

import (
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// OperatorHandler bundles the repositories operators need to manage
// their hotels, rooms and the reservations made against them.
type OperatorHandler struct {
	HotelRepo       *repository.HotelRepo
	RoomRepo        *repository.RoomRepo
	ReservationRepo *repository.ReservationRepo
	Log             *logrus.Logger
}

func NewOperatorHandler(hotels *repository.HotelRepo, rooms *repository.RoomRepo, reservations *repository.ReservationRepo, log *logrus.Logger) *OperatorHandler {
	if hotels == nil || rooms == nil || reservations == nil || log == nil {
		panic("nil dependency passed to NewOperatorHandler")
	}
	return &OperatorHandler{
		HotelRepo:       hotels,
		RoomRepo:        rooms,
		ReservationRepo: reservations,
		Log:             log,
	}
}
