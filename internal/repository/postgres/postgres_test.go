package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	apperrors "github.com/jwalitptl/salon-api/pkg/errors"
)

func newMockStore(t *testing.T) (*repository.Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(sqlx.NewDb(db, "sqlmock")), mock
}

func TestServiceCreate(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO services")).
		WithArgs("Saç Kesimi", "150.5", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(7, now, now))

	service := &model.Service{Name: "Saç Kesimi", Price: decimal.RequireFromString("150.5")}
	require.NoError(t, store.Services.Create(context.Background(), service))
	assert.Equal(t, int64(7), service.ID)
	assert.Equal(t, now, service.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestServiceGetNotFound(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM services")).
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	_, err := store.Services.Get(context.Background(), 99)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestServiceDeleteReferenced(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM services")).
		WithArgs(int64(3)).
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation, Constraint: "appointments_service_id_fkey"})

	err := store.Services.Delete(context.Background(), 3)
	assert.True(t, apperrors.Is(err, apperrors.ErrDeleteBlocked))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerDeleteMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM customers")).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Customers.Delete(context.Background(), 4)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestExpertUpdatePassesWorkDays(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE experts")).
		WithArgs("Ayşe", "Saç", `{"Monday","Tuesday"}`, int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	expert := &model.Expert{
		Base:      model.Base{ID: 2},
		Name:      "Ayşe",
		Specialty: "Saç",
		WorkDays:  pq.StringArray{"Monday", "Tuesday"},
	}
	require.NoError(t, store.Experts.Update(context.Background(), expert))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppointmentCreateSlotTaken(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WillReturnError(&pq.Error{Code: pqUniqueViolation, Constraint: confirmedSlotConstraint})

	err := store.Appointments.Create(context.Background(), &model.Appointment{
		Date:       model.Date{Year: 2024, Month: time.May, Day: 10},
		Time:       "10:00",
		Status:     model.AppointmentStatusConfirmed,
		CustomerID: 1,
		ServiceID:  1,
		ExpertID:   1,
	})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
	assert.Equal(t, model.SlotConflictMessage, appErr.Message)
}

func TestAppointmentCreateUnknownReference(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO appointments")).
		WillReturnError(&pq.Error{Code: pqForeignKeyViolation})

	err := store.Appointments.Create(context.Background(), &model.Appointment{Time: "10:00"})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
}

func TestAppointmentGetJoinsReferences(t *testing.T) {
	store, mock := newMockStore(t)
	now := time.Now()

	columns := []string{
		"id", "appointment_date", "appointment_time", "status",
		"customer_id", "service_id", "expert_id", "created_at", "updated_at",
		"customer_name", "customer_phone", "customer_email", "customer_created_at", "customer_updated_at",
		"service_name", "service_price", "service_description", "service_created_at", "service_updated_at",
		"expert_name", "expert_specialty", "expert_work_days", "expert_created_at", "expert_updated_at",
	}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.id = $1")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(
			5, time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), "14:30", "confirmed",
			1, 2, 3, now, now,
			"Zeynep", "05321234567", "z@example.com", now, now,
			"Manikür", "200.00", "", now, now,
			"Elif", "Tırnak", "{Monday,Friday}", now, now,
		))

	appointment, err := store.Appointments.Get(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-10", appointment.Date.String())
	assert.Equal(t, "14:30", appointment.Time)
	require.NotNil(t, appointment.Customer)
	assert.Equal(t, "Zeynep", appointment.Customer.Name)
	assert.Equal(t, int64(1), appointment.Customer.ID)
	require.NotNil(t, appointment.Service)
	assert.True(t, appointment.Service.Price.Equal(decimal.NewFromInt(200)))
	require.NotNil(t, appointment.Expert)
	assert.Equal(t, []string{"Monday", "Friday"}, []string(appointment.Expert.WorkDays))
}

func TestAppointmentListFilters(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.expert_id = $1 AND a.status = $2 AND a.appointment_date = $3")).
		WithArgs(int64(3), model.AppointmentStatusConfirmed, "2024-05-10").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	appointments, err := store.Appointments.List(context.Background(), &model.AppointmentFilters{
		ExpertID: 3,
		Status:   model.AppointmentStatusConfirmed,
		Date:     model.Date{Year: 2024, Month: time.May, Day: 10},
	})
	require.NoError(t, err)
	assert.Empty(t, appointments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindConfirmed(t *testing.T) {
	store, mock := newMockStore(t)
	slot := model.SlotKey{Date: model.Date{Year: 2024, Month: time.May, Day: 10}, Time: "10:00", ExpertID: 3}

	mock.ExpectQuery(regexp.QuoteMeta("status = 'confirmed' AND id <> $4")).
		WithArgs("2024-05-10", "10:00", int64(3), int64(0)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	found, err := store.Appointments.FindConfirmed(context.Background(), slot, 0)
	require.NoError(t, err)
	assert.Nil(t, found)

	mock.ExpectQuery(regexp.QuoteMeta("status = 'confirmed' AND id <> $4")).
		WithArgs("2024-05-10", "10:00", int64(3), int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(11, "confirmed"))

	found, err = store.Appointments.FindConfirmed(context.Background(), slot, 8)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, int64(11), found.ID)
}

func TestCountByReference(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM appointments WHERE expert_id = $1")).
		WithArgs(int64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := store.Appointments.CountByReference(context.Background(), model.KindExpert, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	_, err = store.Appointments.CountByReference(context.Background(), model.KindAppointment, 2)
	assert.Error(t, err)
}

func TestStatsSnapshot(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("AS today")).
		WithArgs("2024-05-10").
		WillReturnRows(sqlmock.NewRows([]string{"services", "experts", "customers", "appointments", "today"}).
			AddRow(4, 2, 9, 12, 1))
	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY status")).
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("confirmed", 5).AddRow("cancelled", 7))
	mock.ExpectQuery(regexp.QuoteMeta("EXTRACT(YEAR FROM appointment_date)")).
		WithArgs("2023-12-01").
		WillReturnRows(sqlmock.NewRows([]string{"year", "month", "status", "count"}).
			AddRow(2024, 5, "confirmed", 5))
	mock.ExpectQuery(regexp.QuoteMeta("FROM services s")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "count"}).AddRow(1, "Manikür", 8))
	mock.ExpectQuery(regexp.QuoteMeta("FROM experts e")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "count"}).AddRow(2, "Elif", 12))
	mock.ExpectCommit()

	snapshot, err := store.Stats.Snapshot(context.Background(), model.StatsQuery{
		Today:    model.Date{Year: 2024, Month: time.May, Day: 10},
		Since:    model.Date{Year: 2023, Month: time.December, Day: 1},
		TopLimit: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, 12, snapshot.TotalAppointments)
	assert.Equal(t, 1, snapshot.TodayCount)
	assert.Equal(t, 7, snapshot.StatusCounts[model.AppointmentStatusCancelled])
	require.Len(t, snapshot.Monthly, 1)
	assert.Equal(t, 5, snapshot.Monthly[0].Month)
	assert.Equal(t, "Manikür", snapshot.TopServices[0].Name)
	assert.Equal(t, 12, snapshot.TopExperts[0].Count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsSnapshotRollsBackOnError(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("AS today")).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err := store.Stats.Snapshot(context.Background(), model.StatsQuery{TopLimit: 5})
	assert.ErrorIs(t, err, sql.ErrConnDone)
	assert.NoError(t, mock.ExpectationsWereMet())
}
