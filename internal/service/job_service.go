package service

import (
	"fmt"
	"log"
	"time"

	"autolanka/internal/db"
	"autolanka/internal/repository"
)

// JobService hosts the cron-driven maintenance sweeps.
type JobService struct {
	Repo *repository.JobRepository
}

func NewJobService(repo *repository.JobRepository) *JobService {
	return &JobService{Repo: repo}
}

// CompleteFinishedReservations moves in-progress reservations whose window
// has ended to the completed status.
func (s *JobService) CompleteFinishedReservations() error {
	ids, err := s.Repo.GetInProgressReservationIDsPastEndTime()
	if err != nil {
		return fmt.Errorf("cron job: failed to get reservations past end time: %w", err)
	}
	if len(ids) == 0 {
		return nil
	}
	log.Printf("Cron Job: marking %d reservations completed. IDs: %v", len(ids), ids)
	if err := s.Repo.UpdateReservationStatuses(ids, db.ReservationStatusCompleted); err != nil {
		return fmt.Errorf("cron job: failed to update reservation statuses: %w", err)
	}
	return nil
}

// DeleteOldPendingReservations drops pending reservations booked for dates
// before the given cutoff.
func (s *JobService) DeleteOldPendingReservations(before time.Time) (int64, error) {
	return s.Repo.DeletePendingReservationsOlderThan(before)
}
