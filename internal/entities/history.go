package entities

// MaintenanceRecord is one row of a vehicle's service history.
type MaintenanceRecord struct {
	LicensePlate       string  `json:"license_plate"`
	ServiceRecordID    int     `json:"service_record_id"`
	ServiceDescription string  `json:"service_description"`
	FinalAmount        float64 `json:"final_amount"`
	CreatedDatetime    string  `json:"created_datetime"`
	IsPaid             bool    `json:"is_paid"`
	ReserveDate        string  `json:"reserve_date"`
	StartTime          string  `json:"start_time"`
	EndTime            string  `json:"end_time"`
	Notes              string  `json:"notes"`
	ServiceName        string  `json:"service_name"`
}

// ServiceStatus is one in-flight reservation with its record info, shown on
// the customer's current-status screen.
type ServiceStatus struct {
	ReservationID   int     `json:"reservation_id"`
	LicensePlate    string  `json:"license_plate"`
	ServiceName     string  `json:"service_name"`
	ReserveDate     string  `json:"reserve_date"`
	StartTime       string  `json:"start_time"`
	EndTime         string  `json:"end_time"`
	Duration        int     `json:"duration"`
	StatusName      string  `json:"status_name"`
	FinalAmount     float64 `json:"final_amount"`
	IsPaid          bool    `json:"is_paid"`
	ServiceRecordID int     `json:"service_record_id"`
}
