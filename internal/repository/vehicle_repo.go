package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"autolanka/internal/db"
	"autolanka/internal/entities"
)

type VehicleRepository struct {
	DB *sql.DB
}

func NewVehicleRepository(database *sql.DB) *VehicleRepository {
	return &VehicleRepository{DB: database}
}

func (r *VehicleRepository) Exists(licensePlate string) (bool, error) {
	var plate string
	err := r.DB.QueryRow(`SELECT license_plate FROM vehicles WHERE license_plate = $1`, licensePlate).Scan(&plate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking vehicle existence: %w", err)
	}
	return true, nil
}

// OwnedActive reports whether the plate belongs to the user and is active.
// Admission refuses to book someone else's vehicle.
func (r *VehicleRepository) OwnedActive(licensePlate, userID string) (bool, error) {
	var plate string
	err := r.DB.QueryRow(
		`SELECT license_plate FROM vehicles WHERE license_plate = $1 AND user_id = $2 AND status = true`,
		licensePlate, userID,
	).Scan(&plate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking vehicle ownership: %w", err)
	}
	return true, nil
}

func (r *VehicleRepository) Insert(v *db.Vehicle) error {
	_, err := r.DB.Exec(
		`INSERT INTO vehicles
		 (license_plate, user_id, vehicle_type_id, vehicle_brand_id, model, color, make_year, status, fuel_type, transmission_type, imgpath)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, true, $8, $9, $10)`,
		v.LicensePlate, v.UserID, v.VehicleTypeID, v.VehicleBrandID,
		v.Model, v.Color, v.MakeYear, v.FuelTypeID, v.TransmissionID, v.ImagePath,
	)
	if err != nil {
		return fmt.Errorf("error inserting vehicle: %w", err)
	}
	return nil
}

func (r *VehicleRepository) UpdateImage(licensePlate, userID, imageURL string) (bool, error) {
	result, err := r.DB.Exec(
		`UPDATE vehicles SET imgpath = $1 WHERE license_plate = $2 AND user_id = $3`,
		imageURL, licensePlate, userID,
	)
	if err != nil {
		return false, fmt.Errorf("error updating vehicle image: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error reading rows affected: %w", err)
	}
	return rows > 0, nil
}

// ListByUser returns the user's active vehicles with the lookup names
// resolved, unknown references collapsing to "Unknown".
func (r *VehicleRepository) ListByUser(userID string) ([]entities.VehicleResponse, error) {
	query := `
		SELECT
			v.license_plate,
			v.model,
			v.color,
			v.make_year,
			COALESCE(v.imgpath, ''),
			COALESCE(vt.vehicle_type, 'Unknown'),
			COALESCE(vb.vehicle_brand, 'Unknown'),
			COALESCE(ft.fuel_type, 'Unknown'),
			COALESCE(tt.transmission_type, 'Unknown')
		FROM vehicles v
		LEFT JOIN vehicle_type vt ON v.vehicle_type_id = vt.vehicle_type_id
		LEFT JOIN vehicle_brand vb ON v.vehicle_brand_id = vb.vehicle_brand_id
		LEFT JOIN fuel_type ft ON v.fuel_type = ft.fuel_type_id
		LEFT JOIN transmission_type tt ON v.transmission_type = tt.transmission_type_id
		WHERE v.user_id = $1 AND v.status = true
		ORDER BY v.license_plate ASC`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []entities.VehicleResponse
	for rows.Next() {
		var v entities.VehicleResponse
		if err := rows.Scan(&v.LicensePlate, &v.Model, &v.Color, &v.MakeYear, &v.ImagePath,
			&v.VehicleType, &v.VehicleBrand, &v.FuelType, &v.TransmissionType); err != nil {
			return nil, fmt.Errorf("error scanning vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}
