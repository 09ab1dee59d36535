package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
)

type statsRepository struct {
	BaseRepository
}

func NewStatsRepository(base BaseRepository) repository.StatsRepository {
	return &statsRepository{base}
}

type totalsRow struct {
	Services     int `db:"services"`
	Experts      int `db:"experts"`
	Customers    int `db:"customers"`
	Appointments int `db:"appointments"`
	Today        int `db:"today"`
}

type statusRow struct {
	Status model.AppointmentStatus `db:"status"`
	Count  int                     `db:"count"`
}

// Snapshot reads every dashboard figure inside one read-only transaction so
// the numbers are mutually consistent.
func (r *statsRepository) Snapshot(ctx context.Context, q model.StatsQuery) (*model.StatsSnapshot, error) {
	snapshot := &model.StatsSnapshot{StatusCounts: map[model.AppointmentStatus]int{}}

	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	err := r.WithTx(ctx, opts, func(tx *sqlx.Tx) error {
		var totals totalsRow
		err := tx.GetContext(ctx, &totals, `
			SELECT
				(SELECT COUNT(*) FROM services) AS services,
				(SELECT COUNT(*) FROM experts) AS experts,
				(SELECT COUNT(*) FROM customers) AS customers,
				(SELECT COUNT(*) FROM appointments) AS appointments,
				(SELECT COUNT(*) FROM appointments WHERE appointment_date = $1) AS today
		`, q.Today)
		if err != nil {
			return fmt.Errorf("failed to count totals: %w", err)
		}
		snapshot.TotalServices = totals.Services
		snapshot.TotalExperts = totals.Experts
		snapshot.TotalCustomers = totals.Customers
		snapshot.TotalAppointments = totals.Appointments
		snapshot.TodayCount = totals.Today

		var statuses []statusRow
		err = tx.SelectContext(ctx, &statuses, `
			SELECT status, COUNT(*) AS count
			FROM appointments
			GROUP BY status
		`)
		if err != nil {
			return fmt.Errorf("failed to count statuses: %w", err)
		}
		for _, s := range statuses {
			snapshot.StatusCounts[s.Status] = s.Count
		}

		err = tx.SelectContext(ctx, &snapshot.Monthly, `
			SELECT EXTRACT(YEAR FROM appointment_date)::int AS year,
				   EXTRACT(MONTH FROM appointment_date)::int AS month,
				   status, COUNT(*) AS count
			FROM appointments
			WHERE appointment_date >= $1
			GROUP BY 1, 2, status
			ORDER BY 1, 2
		`, q.Since)
		if err != nil {
			return fmt.Errorf("failed to count monthly appointments: %w", err)
		}

		err = tx.SelectContext(ctx, &snapshot.TopServices, `
			SELECT s.id, s.name, COUNT(a.id) AS count
			FROM services s
			JOIN appointments a ON a.service_id = s.id
			GROUP BY s.id, s.name
			ORDER BY count DESC, s.id ASC
			LIMIT $1
		`, q.TopLimit)
		if err != nil {
			return fmt.Errorf("failed to rank services: %w", err)
		}

		err = tx.SelectContext(ctx, &snapshot.TopExperts, `
			SELECT e.id, e.name, COUNT(a.id) AS count
			FROM experts e
			JOIN appointments a ON a.expert_id = e.id
			GROUP BY e.id, e.name
			ORDER BY count DESC, e.id ASC
			LIMIT $1
		`, q.TopLimit)
		if err != nil {
			return fmt.Errorf("failed to rank experts: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snapshot, nil
}
