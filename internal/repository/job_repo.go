package repository

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/lib/pq"

	"autolanka/internal/db"
)

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(database *sql.DB) *JobRepository {
	return &JobRepository{DB: database}
}

// GetInProgressReservationIDsPastEndTime finds in-progress reservations whose
// booked window has already ended.
func (r *JobRepository) GetInProgressReservationIDsPastEndTime() ([]int, error) {
	query := `
		SELECT reservation_id FROM reservations
		WHERE reservation_status = $1
		  AND (reserve_date < CURRENT_DATE
		       OR (reserve_date = CURRENT_DATE AND end_time < CURRENT_TIME))`
	rows, err := r.DB.Query(query, db.ReservationStatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("error querying in-progress reservations past end time: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning reservation id: %w", err)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return ids, nil
}

// UpdateReservationStatuses moves a batch of reservations to a new status.
func (r *JobRepository) UpdateReservationStatuses(ids []int, newStatus int) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE reservations SET reservation_status = $1 WHERE reservation_id = ANY($2)`
	result, err := r.DB.Exec(query, newStatus, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error updating reservation statuses: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Printf("Could not get rows affected: %v", err)
	} else {
		log.Printf("Updated status for %d reservations to %d", rowsAffected, newStatus)
	}
	return nil
}

// DeletePendingReservationsOlderThan removes pending reservations booked for
// dates before the cutoff that were never confirmed.
func (r *JobRepository) DeletePendingReservationsOlderThan(before time.Time) (int64, error) {
	result, err := r.DB.Exec(
		`DELETE FROM reservations WHERE reservation_status = $1 AND reserve_date < $2`,
		db.ReservationStatusPending, before.Format("2006-01-02"),
	)
	if err != nil {
		return 0, fmt.Errorf("error deleting stale pending reservations: %w", err)
	}
	return result.RowsAffected()
}
