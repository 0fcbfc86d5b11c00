package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"autolanka/internal/apperrors"
	"autolanka/internal/db"
	"autolanka/internal/entities"
	"autolanka/internal/repository"
)

const reserveDateLayout = "2006-01-02"

// BookingService admits service reservations. A request carries one vehicle,
// one date, one preferred time and one or more services; either every service
// gets its reservation row or none does.
type BookingService struct {
	Reservations *repository.ReservationRepository
	Catalog      *repository.CatalogRepository
	Vehicles     *repository.VehicleRepository
}

func NewBookingService(reservations *repository.ReservationRepository, catalog *repository.CatalogRepository, vehicles *repository.VehicleRepository) *BookingService {
	return &BookingService{
		Reservations: reservations,
		Catalog:      catalog,
		Vehicles:     vehicles,
	}
}

// BookServices runs the admission check and inserts the accepted
// reservations. The overlap check and the inserts share one serializable
// transaction so concurrent bookings for the same vehicle and date cannot
// both slip through, and a conflict rolls back every row from this request.
func (s *BookingService) BookServices(ctx context.Context, userID string, req entities.BookingRequest) (*entities.BookingResponse, error) {
	if req.VehicleNumber == "" || len(req.Services) == 0 || req.PreferredDate == "" || req.PreferredTime == "" {
		return nil, apperrors.Validation("All booking fields are required")
	}
	if _, err := time.Parse(reserveDateLayout, req.PreferredDate); err != nil {
		return nil, apperrors.Validation("Invalid preferred date format")
	}

	owned, err := s.Vehicles.OwnedActive(req.VehicleNumber, userID)
	if err != nil {
		return nil, apperrors.Internal("Internal Server Error", err)
	}
	if !owned {
		return nil, apperrors.Validation("Vehicle not found or not registered to this user")
	}

	startMinutes, err := ParsePreferredTime(req.PreferredTime)
	if err != nil {
		return nil, apperrors.Validation("Invalid preferred time format")
	}

	// Resolve durations and build every window up front, in caller order.
	// The request can conflict with itself before it ever reaches the
	// database; the first offending service aborts the whole booking.
	type plannedService struct {
		serviceType *db.ServiceType
		window      TimeWindow
	}
	planned := make([]plannedService, 0, len(req.Services))
	for _, serviceName := range req.Services {
		st, err := s.Catalog.GetServiceTypeByName(serviceName)
		if err != nil {
			if errors.Is(err, repository.ErrServiceTypeNotFound) {
				return nil, apperrors.NotFound(fmt.Sprintf("Service '%s' not found", serviceName))
			}
			return nil, apperrors.Internal("Internal Server Error", err)
		}
		window, err := ComputeWindow(startMinutes, st.Duration)
		if err != nil {
			return nil, apperrors.Validation("Requested service window crosses midnight")
		}
		for _, earlier := range planned {
			if window.Overlaps(earlier.window) {
				return nil, apperrors.Conflict(fmt.Sprintf(
					"Time slot unavailable for %s on %s from %s to %s",
					st.ServiceName, req.PreferredDate, window.StartClock(), window.EndClock()))
			}
		}
		planned = append(planned, plannedService{serviceType: st, window: window})
	}

	tx, err := s.Reservations.BeginSerializable(ctx)
	if err != nil {
		return nil, apperrors.Internal("Internal Server Error", err)
	}
	defer tx.Rollback()

	var accepted []entities.AcceptedReservation
	for _, p := range planned {
		overlapping, err := s.Reservations.FindOverlapping(
			tx, req.VehicleNumber, req.PreferredDate, p.window.StartClock(), p.window.EndClock())
		if err != nil {
			return nil, apperrors.Internal("Internal Server Error", err)
		}
		if len(overlapping) > 0 {
			return nil, apperrors.Conflict(fmt.Sprintf(
				"Time slot unavailable for %s on %s from %s to %s",
				p.serviceType.ServiceName, req.PreferredDate, p.window.StartClock(), p.window.EndClock()))
		}

		reservation := &db.Reservation{
			VehicleID:     req.VehicleNumber,
			ServiceTypeID: p.serviceType.ServiceTypeID,
			ReserveDate:   req.PreferredDate,
			StartTime:     p.window.StartClock(),
			EndTime:       p.window.EndClock(),
			EndDate:       req.PreferredDate,
			Status:        db.ReservationStatusPending,
			Notes:         toNullString(req.Notes),
		}
		if err := s.Reservations.InsertReservation(tx, reservation); err != nil {
			return nil, apperrors.Internal("Internal Server Error", err)
		}
		accepted = append(accepted, entities.AcceptedReservation{
			ReservationID: reservation.ReservationID,
			ServiceName:   p.serviceType.ServiceName,
			ReserveDate:   req.PreferredDate,
			StartTime:     p.window.StartClock(),
			EndTime:       p.window.EndClock(),
		})
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Booking commit failed for vehicle %s on %s: %v", req.VehicleNumber, req.PreferredDate, err)
		return nil, apperrors.Internal("Internal Server Error", err)
	}

	return &entities.BookingResponse{
		Message:      "Service booking registered successfully",
		Reservations: accepted,
	}, nil
}

// MaintenanceHistory returns the user's full service record history.
func (s *BookingService) MaintenanceHistory(userID string) ([]entities.MaintenanceRecord, error) {
	records, err := s.Reservations.MaintenanceHistory(userID)
	if err != nil {
		return nil, apperrors.Internal("Internal Server Error", err)
	}
	return records, nil
}

// CurrentServiceStatus returns the user's reservations still in flight.
func (s *BookingService) CurrentServiceStatus(userID string) ([]entities.ServiceStatus, error) {
	statuses, err := s.Reservations.CurrentServiceStatus(userID)
	if err != nil {
		return nil, apperrors.Internal("Internal Server Error", err)
	}
	return statuses, nil
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
