package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"autolanka/internal/db"
	"autolanka/internal/entities"
)

// CatalogRepository serves the immutable reference data: service types,
// vehicle types and brands.
type CatalogRepository struct {
	DB *sql.DB
}

func NewCatalogRepository(database *sql.DB) *CatalogRepository {
	return &CatalogRepository{DB: database}
}

var ErrServiceTypeNotFound = errors.New("service type not found")

// GetServiceTypeByName resolves a service name to its id and duration.
func (r *CatalogRepository) GetServiceTypeByName(serviceName string) (*db.ServiceType, error) {
	var st db.ServiceType
	err := r.DB.QueryRow(
		`SELECT service_type_id, service_name, duration FROM service_type WHERE service_name = $1`,
		serviceName,
	).Scan(&st.ServiceTypeID, &st.ServiceName, &st.Duration)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrServiceTypeNotFound
		}
		return nil, fmt.Errorf("error querying service type %q: %w", serviceName, err)
	}
	return &st, nil
}

func (r *CatalogRepository) ListServiceTypes() ([]entities.ServiceTypeResponse, error) {
	rows, err := r.DB.Query(
		`SELECT service_type_id, service_name, COALESCE(description, '') FROM service_type ORDER BY service_name ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying service types: %w", err)
	}
	defer rows.Close()

	var types []entities.ServiceTypeResponse
	for rows.Next() {
		var st entities.ServiceTypeResponse
		if err := rows.Scan(&st.ServiceTypeID, &st.ServiceName, &st.Description); err != nil {
			return nil, fmt.Errorf("error scanning service type: %w", err)
		}
		types = append(types, st)
	}
	return types, rows.Err()
}

func (r *CatalogRepository) ListVehicleTypes() ([]entities.VehicleTypeResponse, error) {
	rows, err := r.DB.Query(
		`SELECT vehicle_type_id, vehicle_type FROM vehicle_type ORDER BY vehicle_type ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying vehicle types: %w", err)
	}
	defer rows.Close()

	var types []entities.VehicleTypeResponse
	for rows.Next() {
		var vt entities.VehicleTypeResponse
		if err := rows.Scan(&vt.VehicleTypeID, &vt.VehicleType); err != nil {
			return nil, fmt.Errorf("error scanning vehicle type: %w", err)
		}
		types = append(types, vt)
	}
	return types, rows.Err()
}

func (r *CatalogRepository) ListVehicleBrands() ([]entities.VehicleBrandResponse, error) {
	rows, err := r.DB.Query(
		`SELECT vehicle_brand_id, vehicle_brand FROM vehicle_brand ORDER BY vehicle_brand ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying vehicle brands: %w", err)
	}
	defer rows.Close()

	var brands []entities.VehicleBrandResponse
	for rows.Next() {
		var vb entities.VehicleBrandResponse
		if err := rows.Scan(&vb.VehicleBrandID, &vb.VehicleBrand); err != nil {
			return nil, fmt.Errorf("error scanning vehicle brand: %w", err)
		}
		brands = append(brands, vb)
	}
	return brands, rows.Err()
}
