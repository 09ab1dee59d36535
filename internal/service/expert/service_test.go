package expert

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository/memory"
	"github.com/jwalitptl/salon-api/internal/service/guard"
	apperrors "github.com/jwalitptl/salon-api/pkg/errors"
)

func TestExpertWorkDays(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.Experts, guard.New(store.Appointments))

	created, err := svc.CreateExpert(ctx, &model.ExpertRequest{
		Name:      "Elif",
		Specialty: "Tırnak",
		WorkDays:  []string{"Monday", "Pazartesi", " Friday", "mon", "Cumartesi"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Monday", "Friday", "Cumartesi"}, []string(created.WorkDays))
	assert.True(t, created.WorksOn(time.Saturday))
	assert.False(t, created.WorksOn(time.Sunday))

	_, err = svc.UpdateExpert(ctx, created.ID, &model.ExpertRequest{Name: "Elif", WorkDays: []string{"Someday"}})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	updated, err := svc.UpdateExpert(ctx, created.ID, &model.ExpertRequest{Name: "Elif Y."})
	require.NoError(t, err)
	assert.Empty(t, updated.WorkDays)

	got, err := svc.GetExpert(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Elif Y.", got.Name)
}

func TestDeleteExpertWithAppointments(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.Experts, guard.New(store.Appointments))

	expert, err := svc.CreateExpert(ctx, &model.ExpertRequest{Name: "Elif"})
	require.NoError(t, err)
	customer := &model.Customer{Name: "Zeynep", Phone: "05321234567"}
	service := &model.Service{Name: "Manikür"}
	require.NoError(t, store.Customers.Create(ctx, customer))
	require.NoError(t, store.Services.Create(ctx, service))
	require.NoError(t, store.Appointments.Create(ctx, &model.Appointment{
		Date:       model.Date{Year: 2024, Month: time.May, Day: 10},
		Time:       "10:00",
		Status:     model.AppointmentStatusCompleted,
		CustomerID: customer.ID,
		ServiceID:  service.ID,
		ExpertID:   expert.ID,
	}))

	err = svc.DeleteExpert(ctx, expert.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrDeleteBlocked))

	list, err := svc.ListExperts(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
