package service

import (
	"strconv"

	"autolanka/internal/apperrors"
	"autolanka/internal/db"
	"autolanka/internal/entities"
	"autolanka/internal/repository"
)

// VehicleService registers and lists customer vehicles and serves the
// catalog lookups.
type VehicleService struct {
	Vehicles *repository.VehicleRepository
	Catalog  *repository.CatalogRepository
}

func NewVehicleService(vehicles *repository.VehicleRepository, catalog *repository.CatalogRepository) *VehicleService {
	return &VehicleService{Vehicles: vehicles, Catalog: catalog}
}

var (
	validFuelTypes     = map[string]int{"1": 1, "2": 2, "3": 3}
	validTransmissions = map[string]int{"1": 1, "2": 2}
)

// Register validates and inserts a vehicle for the user. License plates are
// globally unique.
func (s *VehicleService) Register(userID string, req entities.RegisterVehicleRequest) error {
	if req.LicensePlate == "" || req.VehicleType == "" || req.Make == "" || req.Model == "" ||
		req.Color == "" || req.Year == "" || req.Transmission == "" || req.FuelType == "" {
		return apperrors.Validation("All vehicle fields are required")
	}

	exists, err := s.Vehicles.Exists(req.LicensePlate)
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	if exists {
		return apperrors.Validation("License plate already registered")
	}

	fuelTypeID, okFuel := validFuelTypes[req.FuelType]
	transmissionID, okTrans := validTransmissions[req.Transmission]
	if !okFuel || !okTrans {
		return apperrors.Validation("Invalid fuel type or transmission")
	}

	vehicleTypeID, err := strconv.Atoi(req.VehicleType)
	if err != nil {
		return apperrors.Validation("Invalid vehicle type")
	}
	brandID, err := strconv.Atoi(req.Make)
	if err != nil {
		return apperrors.Validation("Invalid vehicle brand")
	}
	year, err := strconv.Atoi(req.Year)
	if err != nil {
		return apperrors.Validation("Invalid make year")
	}

	vehicle := &db.Vehicle{
		LicensePlate:   req.LicensePlate,
		UserID:         userID,
		VehicleTypeID:  vehicleTypeID,
		VehicleBrandID: brandID,
		Model:          req.Model,
		Color:          req.Color,
		MakeYear:       year,
		FuelTypeID:     fuelTypeID,
		TransmissionID: transmissionID,
		ImagePath:      toNullString(req.ImageURL),
	}
	if err := s.Vehicles.Insert(vehicle); err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	return nil
}

// UpdateImage swaps the stored image URL for a vehicle the user owns.
func (s *VehicleService) UpdateImage(userID, licensePlate, imageURL string) error {
	if licensePlate == "" {
		return apperrors.Validation("License plate is required")
	}
	updated, err := s.Vehicles.UpdateImage(licensePlate, userID, imageURL)
	if err != nil {
		return apperrors.Internal("Internal Server Error", err)
	}
	if !updated {
		return apperrors.Validation("Vehicle not found or not registered to this user")
	}
	return nil
}

func (s *VehicleService) ListByUser(userID string) ([]entities.VehicleResponse, error) {
	vehicles, err := s.Vehicles.ListByUser(userID)
	if err != nil {
		return nil, apperrors.Internal("Internal Server Error", err)
	}
	return vehicles, nil
}

func (s *VehicleService) ListVehicleTypes() ([]entities.VehicleTypeResponse, error) {
	types, err := s.Catalog.ListVehicleTypes()
	if err != nil {
		return nil, apperrors.Internal("Internal Server Error", err)
	}
	return types, nil
}

func (s *VehicleService) ListVehicleBrands() ([]entities.VehicleBrandResponse, error) {
	brands, err := s.Catalog.ListVehicleBrands()
	if err != nil {
		return nil, apperrors.Internal("Internal Server Error", err)
	}
	return brands, nil
}

func (s *VehicleService) ListServiceTypes() ([]entities.ServiceTypeResponse, error) {
	types, err := s.Catalog.ListServiceTypes()
	if err != nil {
		return nil, apperrors.Internal("Internal Server Error", err)
	}
	return types, nil
}
