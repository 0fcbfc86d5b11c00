package db

import (
	"database/sql"
	"time"
)

type User struct {
	UserID          string
	FirstName       string
	LastName        string
	Email           string
	PasswordHash    string
	MobileID        int
	RegisteredDate  time.Time
	UserTypeID      int
	NICNo           string
	AddressID       int
	Status          bool
	IsEmailVerified bool
}

type MobileNumber struct {
	MobileID      int
	MobileNo      string
	OTPHash       string
	OTPDatetime   time.Time
	IsOTPVerified bool
}

type Address struct {
	AddressID    int
	AddressLine1 string
	AddressLine2 sql.NullString
	AddressLine3 sql.NullString
}

type Vehicle struct {
	LicensePlate   string
	UserID         string
	VehicleTypeID  int
	VehicleBrandID int
	Model          string
	Color          string
	MakeYear       int
	Status         bool
	FuelTypeID     int
	TransmissionID int
	ImagePath      sql.NullString
}

type ServiceType struct {
	ServiceTypeID int
	ServiceName   string
	Description   string
	// Duration is the booked window length in minutes.
	Duration int
}

type Reservation struct {
	ReservationID int
	VehicleID     string
	ServiceTypeID int
	ReserveDate   string // YYYY-MM-DD
	StartTime     string // HH:MM:SS
	EndTime       string // HH:MM:SS
	EndDate       string
	Status        int
	Notes         sql.NullString
}

type ServiceRecord struct {
	ServiceRecordID    int
	ReservationID      int
	ServiceDescription sql.NullString
	FinalAmount        sql.NullFloat64
	CreatedDatetime    time.Time
	IsPaid             bool
}

// Reservation status values as stored in reservation_status.
const (
	ReservationStatusPending    = 1
	ReservationStatusConfirmed  = 2
	ReservationStatusInProgress = 3
	ReservationStatusCompleted  = 4
	ReservationStatusCancelled  = 5
)
