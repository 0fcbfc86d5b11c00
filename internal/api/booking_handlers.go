package api

import (
	"encoding/json"
	"net/http"

	"autolanka/internal/auth"
	"autolanka/internal/entities"
	"autolanka/internal/service"
)

type BookingHandler struct {
	Bookings *service.BookingService
}

func NewBookingHandler(bookings *service.BookingService) *BookingHandler {
	return &BookingHandler{Bookings: bookings}
}

func (h *BookingHandler) BookService(w http.ResponseWriter, r *http.Request) {
	var req entities.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	userID := auth.UserIDFromContext(r.Context())
	resp, err := h.Bookings.BookServices(r.Context(), userID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *BookingHandler) MaintenanceHistory(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	records, err := h.Bookings.MaintenanceHistory(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if records == nil {
		records = []entities.MaintenanceRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *BookingHandler) CurrentServiceStatus(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	statuses, err := h.Bookings.CurrentServiceStatus(userID)
	if err != nil {
		writeError(w, err)
		return
	}
	if statuses == nil {
		statuses = []entities.ServiceStatus{}
	}
	writeJSON(w, http.StatusOK, statuses)
}
