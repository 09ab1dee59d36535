package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jwalitptl/salon-api/internal/model"
	apperrors "github.com/jwalitptl/salon-api/pkg/errors"
)

type appointmentRepository struct{ *db }

// check applies the foreign key and confirmed slot constraints. Callers hold
// the write lock.
func (r *appointmentRepository) check(a *model.Appointment) error {
	_, hasCustomer := r.customers[a.CustomerID]
	_, hasService := r.services[a.ServiceID]
	_, hasExpert := r.experts[a.ExpertID]
	if !hasCustomer || !hasService || !hasExpert {
		return apperrors.BadRequest("referenced customer, service or expert does not exist", nil)
	}
	if a.Status == model.AppointmentStatusConfirmed && r.findConfirmed(a.SlotKey(), a.ID) != nil {
		return apperrors.Conflict(model.SlotConflictMessage, nil)
	}
	return nil
}

func (r *appointmentRepository) findConfirmed(slot model.SlotKey, excludeID int64) *model.Appointment {
	for _, a := range r.appointments {
		if a.ID != excludeID && a.Status == model.AppointmentStatusConfirmed && a.SlotKey() == slot {
			a := a
			return &a
		}
	}
	return nil
}

// withReferences returns a copy with customer, service and expert embedded.
func (r *appointmentRepository) withReferences(a model.Appointment) *model.Appointment {
	if c, ok := r.customers[a.CustomerID]; ok {
		a.Customer = &c
	}
	if s, ok := r.services[a.ServiceID]; ok {
		a.Service = &s
	}
	if e, ok := r.experts[a.ExpertID]; ok {
		e = cloneExpert(e)
		a.Expert = &e
	}
	return &a
}

func (r *appointmentRepository) Create(_ context.Context, appointment *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.check(appointment); err != nil {
		return err
	}
	r.stamp(model.KindAppointment, &appointment.Base, true)
	r.appointments[appointment.ID] = bare(*appointment)
	return nil
}

func (r *appointmentRepository) Get(_ context.Context, id int64) (*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appointment, ok := r.appointments[id]
	if !ok {
		return nil, apperrors.NotFound(string(model.KindAppointment), nil)
	}
	return r.withReferences(appointment), nil
}

func (r *appointmentRepository) Update(_ context.Context, appointment *model.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.appointments[appointment.ID]
	if !ok {
		return apperrors.NotFound(string(model.KindAppointment), nil)
	}
	if err := r.check(appointment); err != nil {
		return err
	}
	appointment.CreatedAt = existing.CreatedAt
	r.stamp(model.KindAppointment, &appointment.Base, false)
	r.appointments[appointment.ID] = bare(*appointment)
	return nil
}

func (r *appointmentRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.appointments[id]; !ok {
		return apperrors.NotFound(string(model.KindAppointment), nil)
	}
	delete(r.appointments, id)
	return nil
}

func (r *appointmentRepository) List(_ context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	appointments := make([]*model.Appointment, 0, len(r.appointments))
	for _, a := range r.appointments {
		if !matches(a, filters) {
			continue
		}
		appointments = append(appointments, r.withReferences(a))
	}
	sort.Slice(appointments, func(i, j int) bool {
		a, b := appointments[i], appointments[j]
		if a.Date != b.Date {
			return b.Date.Before(a.Date)
		}
		if a.Time != b.Time {
			return a.Time < b.Time
		}
		return a.ID < b.ID
	})
	return appointments, nil
}

func matches(a model.Appointment, f *model.AppointmentFilters) bool {
	if f == nil {
		return true
	}
	switch {
	case f.ExpertID != 0 && a.ExpertID != f.ExpertID,
		f.CustomerID != 0 && a.CustomerID != f.CustomerID,
		f.ServiceID != 0 && a.ServiceID != f.ServiceID,
		f.Status != "" && a.Status != f.Status,
		!f.Date.IsZero() && a.Date != f.Date:
		return false
	}
	return true
}

func (r *appointmentRepository) FindConfirmed(_ context.Context, slot model.SlotKey, excludeID int64) (*model.Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.findConfirmed(slot, excludeID), nil
}

func (r *appointmentRepository) ConfirmedTimes(_ context.Context, expertID int64, date model.Date) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	times := []string{}
	for _, a := range r.appointments {
		if a.ExpertID == expertID && a.Date == date && a.Status == model.AppointmentStatusConfirmed {
			times = append(times, a.Time)
		}
	}
	sort.Strings(times)
	return times, nil
}

func (r *appointmentRepository) CountByReference(_ context.Context, kind model.EntityKind, id int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ref func(model.Appointment) int64
	switch kind {
	case model.KindService:
		ref = func(a model.Appointment) int64 { return a.ServiceID }
	case model.KindExpert:
		ref = func(a model.Appointment) int64 { return a.ExpertID }
	case model.KindCustomer:
		ref = func(a model.Appointment) int64 { return a.CustomerID }
	default:
		return 0, fmt.Errorf("appointments do not reference %s", kind)
	}

	var count int
	for _, a := range r.appointments {
		if ref(a) == id {
			count++
		}
	}
	return count, nil
}

// bare drops embedded references before storing.
func bare(a model.Appointment) model.Appointment {
	a.Customer, a.Service, a.Expert = nil, nil, nil
	return a
}
