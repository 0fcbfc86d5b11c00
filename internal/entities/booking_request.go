package entities

// BookingRequest is the body of POST /user/book-service. Services are
// processed in the order supplied; the whole request is admitted or none
// of it is.
type BookingRequest struct {
	VehicleNumber string   `json:"vehicleNumber"`
	Services      []string `json:"services"`
	PreferredDate string   `json:"preferredDate"`
	PreferredTime string   `json:"preferredTime"`
	Notes         string   `json:"notes"`
}

// AcceptedReservation reports one admitted service window.
type AcceptedReservation struct {
	ReservationID int    `json:"reservation_id"`
	ServiceName   string `json:"service_name"`
	ReserveDate   string `json:"reserve_date"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
}

type BookingResponse struct {
	Message      string                `json:"message"`
	Reservations []AcceptedReservation `json:"reservations"`
}
