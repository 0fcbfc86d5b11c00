package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"autolanka/internal/db"
	"autolanka/internal/entities"
)

type ReservationRepository struct {
	DB *sql.DB
}

func NewReservationRepository(database *sql.DB) *ReservationRepository {
	return &ReservationRepository{DB: database}
}

// BeginSerializable opens the transaction the admission check runs in.
// Serializable isolation closes the race between two bookings that both see
// an empty slot: one of the two commits, the other aborts and surfaces an
// error to retry.
func (r *ReservationRepository) BeginSerializable(ctx context.Context) (*sql.Tx, error) {
	return r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
}

// FindOverlapping returns reservations for the vehicle and date whose window
// collides with [start, end]. The three-clause predicate is inclusive on both
// boundaries, so a back-to-back booking counts as a collision.
func (r *ReservationRepository) FindOverlapping(tx *sql.Tx, vehicleID, reserveDate, startTime, endTime string) ([]db.Reservation, error) {
	query := `
		SELECT reservation_id, vehicle_id, service_type_id, reserve_date, start_time, end_time
		FROM reservations
		WHERE vehicle_id = $1
		  AND reserve_date = $2
		  AND (
		    (start_time <= $3 AND end_time >= $3) OR
		    (start_time <= $4 AND end_time >= $4) OR
		    (start_time >= $3 AND end_time <= $4)
		  )`
	rows, err := tx.Query(query, vehicleID, reserveDate, startTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("error querying overlapping reservations: %w", err)
	}
	defer rows.Close()

	var reservations []db.Reservation
	for rows.Next() {
		var res db.Reservation
		if err := rows.Scan(&res.ReservationID, &res.VehicleID, &res.ServiceTypeID,
			&res.ReserveDate, &res.StartTime, &res.EndTime); err != nil {
			return nil, fmt.Errorf("error scanning reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating reservations: %w", err)
	}
	return reservations, nil
}

// InsertReservation inserts one reservation row inside the admission
// transaction and fills in the generated id.
func (r *ReservationRepository) InsertReservation(tx *sql.Tx, res *db.Reservation) error {
	query := `
		INSERT INTO reservations
		(vehicle_id, service_type_id, reserve_date, start_time, end_time, end_date, reservation_status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING reservation_id`
	return tx.QueryRow(query,
		res.VehicleID,
		res.ServiceTypeID,
		res.ReserveDate,
		res.StartTime,
		res.EndTime,
		res.EndDate,
		res.Status,
		res.Notes,
	).Scan(&res.ReservationID)
}

// GetChargeAmount looks up the reservation's service name and the resolved
// final amount. A reservation without a service record yields a zero amount,
// which the payment service treats as "not yet priced".
func (r *ReservationRepository) GetChargeAmount(reservationID int) (string, float64, error) {
	query := `
		SELECT st.service_name, COALESCE(sr.final_amount, 0)::numeric(12,2)
		FROM reservations r
		JOIN service_type st ON r.service_type_id = st.service_type_id
		LEFT JOIN service_records sr ON r.reservation_id = sr.reservation_id
		WHERE r.reservation_id = $1
		LIMIT 1`
	var serviceName string
	var amount float64
	err := r.DB.QueryRow(query, reservationID).Scan(&serviceName, &amount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", 0, fmt.Errorf("reservation %d not found: %w", reservationID, err)
		}
		return "", 0, fmt.Errorf("error querying charge amount: %w", err)
	}
	return serviceName, amount, nil
}

// CustomerForReservation resolves the owning customer's contact details for
// the gateway checkout form.
func (r *ReservationRepository) CustomerForReservation(reservationID int) (firstName, lastName, email, phone string, err error) {
	query := `
		SELECT u.first_name, u.last_name, u.email, m.mobile_no
		FROM reservations r
		JOIN vehicles v ON r.vehicle_id = v.license_plate
		JOIN users u ON v.user_id = u.user_id
		JOIN mobile_number m ON u.mobile_id = m.mobile_id
		WHERE r.reservation_id = $1`
	err = r.DB.QueryRow(query, reservationID).Scan(&firstName, &lastName, &email, &phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", "", "", fmt.Errorf("no customer for reservation %d: %w", reservationID, err)
		}
		return "", "", "", "", fmt.Errorf("error querying reservation customer: %w", err)
	}
	return firstName, lastName, email, phone, nil
}

// MarkPaid flips the service record's payment flag. The update is a no-op
// when the flag is already set, so duplicate gateway notifications are safe.
func (r *ReservationRepository) MarkPaid(reservationID int) error {
	_, err := r.DB.Exec(`UPDATE service_records SET is_paid = true WHERE reservation_id = $1`, reservationID)
	if err != nil {
		return fmt.Errorf("error marking reservation %d paid: %w", reservationID, err)
	}
	return nil
}

// MaintenanceHistory lists every service record for vehicles owned by the
// user, newest first.
func (r *ReservationRepository) MaintenanceHistory(userID string) ([]entities.MaintenanceRecord, error) {
	query := `
		SELECT
			v.license_plate,
			sr.service_record_id,
			COALESCE(sr.service_description, ''),
			COALESCE(sr.final_amount, 0),
			TO_CHAR(sr.created_datetime, 'YYYY-MM-DD HH24:MI:SS'),
			sr.is_paid,
			TO_CHAR(r.reserve_date, 'YYYY-MM-DD'),
			TO_CHAR(r.start_time, 'HH24:MI:SS'),
			TO_CHAR(r.end_time, 'HH24:MI:SS'),
			COALESCE(r.notes, ''),
			st.service_name
		FROM service_records sr
		INNER JOIN reservations r ON sr.reservation_id = r.reservation_id
		INNER JOIN vehicles v ON r.vehicle_id = v.license_plate
		INNER JOIN service_type st ON r.service_type_id = st.service_type_id
		WHERE v.user_id = $1
		ORDER BY r.reserve_date DESC, r.start_time DESC`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying maintenance history: %w", err)
	}
	defer rows.Close()

	var records []entities.MaintenanceRecord
	for rows.Next() {
		var rec entities.MaintenanceRecord
		if err := rows.Scan(&rec.LicensePlate, &rec.ServiceRecordID, &rec.ServiceDescription,
			&rec.FinalAmount, &rec.CreatedDatetime, &rec.IsPaid,
			&rec.ReserveDate, &rec.StartTime, &rec.EndTime, &rec.Notes, &rec.ServiceName); err != nil {
			return nil, fmt.Errorf("error scanning maintenance record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CurrentServiceStatus lists the user's reservations still in flight
// (pending, confirmed or in progress).
func (r *ReservationRepository) CurrentServiceStatus(userID string) ([]entities.ServiceStatus, error) {
	query := `
		SELECT
			r.reservation_id,
			v.license_plate,
			st.service_name,
			TO_CHAR(r.reserve_date, 'YYYY-MM-DD'),
			TO_CHAR(r.start_time, 'HH24:MI:SS'),
			TO_CHAR(r.end_time, 'HH24:MI:SS'),
			st.duration,
			rs.status_name,
			COALESCE(sr.final_amount, 0),
			COALESCE(sr.is_paid, false),
			COALESCE(sr.service_record_id, 0)
		FROM reservations r
		INNER JOIN vehicles v ON r.vehicle_id = v.license_plate
		INNER JOIN service_type st ON r.service_type_id = st.service_type_id
		INNER JOIN reservation_status rs ON r.reservation_status = rs.reservation_status_id
		LEFT JOIN service_records sr ON r.reservation_id = sr.reservation_id
		WHERE v.user_id = $1
		  AND rs.reservation_status_id IN (1, 2, 3)
		ORDER BY r.reserve_date DESC, r.start_time DESC`
	rows, err := r.DB.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying current service status: %w", err)
	}
	defer rows.Close()

	var statuses []entities.ServiceStatus
	for rows.Next() {
		var st entities.ServiceStatus
		if err := rows.Scan(&st.ReservationID, &st.LicensePlate, &st.ServiceName,
			&st.ReserveDate, &st.StartTime, &st.EndTime, &st.Duration,
			&st.StatusName, &st.FinalAmount, &st.IsPaid, &st.ServiceRecordID); err != nil {
			return nil, fmt.Errorf("error scanning service status: %w", err)
		}
		statuses = append(statuses, st)
	}
	return statuses, rows.Err()
}
