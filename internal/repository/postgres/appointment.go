package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
)

const appointmentSelect = `
	SELECT a.id, a.appointment_date, a.appointment_time, a.status,
		   a.customer_id, a.service_id, a.expert_id, a.created_at, a.updated_at,
		   c.name AS customer_name, c.phone AS customer_phone, c.email AS customer_email,
		   c.created_at AS customer_created_at, c.updated_at AS customer_updated_at,
		   s.name AS service_name, s.price AS service_price, s.description AS service_description,
		   s.created_at AS service_created_at, s.updated_at AS service_updated_at,
		   e.name AS expert_name, e.specialty AS expert_specialty, e.work_days AS expert_work_days,
		   e.created_at AS expert_created_at, e.updated_at AS expert_updated_at
	FROM appointments a
	JOIN customers c ON c.id = a.customer_id
	JOIN services s ON s.id = a.service_id
	JOIN experts e ON e.id = a.expert_id
`

// appointmentRow is the flat shape of a joined appointment read.
type appointmentRow struct {
	model.Appointment

	CustomerName      string    `db:"customer_name"`
	CustomerPhone     string    `db:"customer_phone"`
	CustomerEmail     string    `db:"customer_email"`
	CustomerCreatedAt time.Time `db:"customer_created_at"`
	CustomerUpdatedAt time.Time `db:"customer_updated_at"`

	ServiceName        string          `db:"service_name"`
	ServicePrice       decimal.Decimal `db:"service_price"`
	ServiceDescription string          `db:"service_description"`
	ServiceCreatedAt   time.Time       `db:"service_created_at"`
	ServiceUpdatedAt   time.Time       `db:"service_updated_at"`

	ExpertName      string         `db:"expert_name"`
	ExpertSpecialty string         `db:"expert_specialty"`
	ExpertWorkDays  pq.StringArray `db:"expert_work_days"`
	ExpertCreatedAt time.Time      `db:"expert_created_at"`
	ExpertUpdatedAt time.Time      `db:"expert_updated_at"`
}

func (row *appointmentRow) toModel() *model.Appointment {
	a := row.Appointment
	a.Customer = &model.Customer{
		Base:  model.Base{ID: a.CustomerID, CreatedAt: row.CustomerCreatedAt, UpdatedAt: row.CustomerUpdatedAt},
		Name:  row.CustomerName,
		Phone: row.CustomerPhone,
		Email: row.CustomerEmail,
	}
	a.Service = &model.Service{
		Base:        model.Base{ID: a.ServiceID, CreatedAt: row.ServiceCreatedAt, UpdatedAt: row.ServiceUpdatedAt},
		Name:        row.ServiceName,
		Price:       row.ServicePrice,
		Description: row.ServiceDescription,
	}
	a.Expert = &model.Expert{
		Base:      model.Base{ID: a.ExpertID, CreatedAt: row.ExpertCreatedAt, UpdatedAt: row.ExpertUpdatedAt},
		Name:      row.ExpertName,
		Specialty: row.ExpertSpecialty,
		WorkDays:  row.ExpertWorkDays,
	}
	return &a
}

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(base BaseRepository) repository.AppointmentRepository {
	return &appointmentRepository{base}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			appointment_date, appointment_time, status,
			customer_id, service_id, expert_id
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		appointment.Date,
		appointment.Time,
		appointment.Status,
		appointment.CustomerID,
		appointment.ServiceID,
		appointment.ExpertID,
	).Scan(&appointment.ID, &appointment.CreatedAt, &appointment.UpdatedAt)
	return translate(err, model.KindAppointment, "create")
}

func (r *appointmentRepository) Get(ctx context.Context, id int64) (*model.Appointment, error) {
	var row appointmentRow
	if err := r.db.GetContext(ctx, &row, appointmentSelect+` WHERE a.id = $1`, id); err != nil {
		return nil, translate(err, model.KindAppointment, "get")
	}
	return row.toModel(), nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET appointment_date = $1, appointment_time = $2, status = $3,
			customer_id = $4, service_id = $5, expert_id = $6, updated_at = now()
		WHERE id = $7
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		appointment.Date,
		appointment.Time,
		appointment.Status,
		appointment.CustomerID,
		appointment.ServiceID,
		appointment.ExpertID,
		appointment.ID,
	).Scan(&appointment.CreatedAt, &appointment.UpdatedAt)
	return translate(err, model.KindAppointment, "update")
}

func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return translate(err, model.KindAppointment, "delete")
	}
	return rowsAffected(result, model.KindAppointment, "delete")
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if filters != nil {
		if filters.ExpertID != 0 {
			conditions = append(conditions, fmt.Sprintf("a.expert_id = $%d", argPos))
			args = append(args, filters.ExpertID)
			argPos++
		}
		if filters.CustomerID != 0 {
			conditions = append(conditions, fmt.Sprintf("a.customer_id = $%d", argPos))
			args = append(args, filters.CustomerID)
			argPos++
		}
		if filters.ServiceID != 0 {
			conditions = append(conditions, fmt.Sprintf("a.service_id = $%d", argPos))
			args = append(args, filters.ServiceID)
			argPos++
		}
		if filters.Status != "" {
			conditions = append(conditions, fmt.Sprintf("a.status = $%d", argPos))
			args = append(args, filters.Status)
			argPos++
		}
		if !filters.Date.IsZero() {
			conditions = append(conditions, fmt.Sprintf("a.appointment_date = $%d", argPos))
			args = append(args, filters.Date)
			argPos++
		}
	}

	query := appointmentSelect
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.appointment_date DESC, a.appointment_time ASC, a.id ASC"

	var rows []appointmentRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, translate(err, model.KindAppointment, "list")
	}

	appointments := make([]*model.Appointment, 0, len(rows))
	for i := range rows {
		appointments = append(appointments, rows[i].toModel())
	}
	return appointments, nil
}

func (r *appointmentRepository) FindConfirmed(ctx context.Context, slot model.SlotKey, excludeID int64) (*model.Appointment, error) {
	query := `
		SELECT id, appointment_date, appointment_time, status,
			   customer_id, service_id, expert_id, created_at, updated_at
		FROM appointments
		WHERE appointment_date = $1 AND appointment_time = $2 AND expert_id = $3
		  AND status = 'confirmed' AND id <> $4
		LIMIT 1
	`
	var appointments []model.Appointment
	if err := r.db.SelectContext(ctx, &appointments, query, slot.Date, slot.Time, slot.ExpertID, excludeID); err != nil {
		return nil, translate(err, model.KindAppointment, "check slot of")
	}
	if len(appointments) == 0 {
		return nil, nil
	}
	return &appointments[0], nil
}

func (r *appointmentRepository) ConfirmedTimes(ctx context.Context, expertID int64, date model.Date) ([]string, error) {
	query := `
		SELECT appointment_time
		FROM appointments
		WHERE expert_id = $1 AND appointment_date = $2 AND status = 'confirmed'
		ORDER BY appointment_time ASC
	`
	times := []string{}
	if err := r.db.SelectContext(ctx, &times, query, expertID, date); err != nil {
		return nil, translate(err, model.KindAppointment, "list booked times of")
	}
	return times, nil
}

var referenceColumns = map[model.EntityKind]string{
	model.KindService:  "service_id",
	model.KindExpert:   "expert_id",
	model.KindCustomer: "customer_id",
}

func (r *appointmentRepository) CountByReference(ctx context.Context, kind model.EntityKind, id int64) (int, error) {
	column, ok := referenceColumns[kind]
	if !ok {
		return 0, fmt.Errorf("appointments do not reference %s", kind)
	}

	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM appointments WHERE %s = $1`, column)
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, translate(err, model.KindAppointment, "count")
	}
	return count, nil
}
