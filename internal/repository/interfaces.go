package repository

import (
	"context"

	"github.com/jwalitptl/salon-api/internal/model"
)

// All repository interfaces in one file
type (
	ServiceRepository interface {
		Create(ctx context.Context, service *model.Service) error
		Get(ctx context.Context, id int64) (*model.Service, error)
		Update(ctx context.Context, service *model.Service) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.Service, error)
	}

	ExpertRepository interface {
		Create(ctx context.Context, expert *model.Expert) error
		Get(ctx context.Context, id int64) (*model.Expert, error)
		Update(ctx context.Context, expert *model.Expert) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.Expert, error)
	}

	CustomerRepository interface {
		Create(ctx context.Context, customer *model.Customer) error
		Get(ctx context.Context, id int64) (*model.Customer, error)
		Update(ctx context.Context, customer *model.Customer) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context) ([]*model.Customer, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		// Get returns the appointment with customer, service and expert embedded.
		Get(ctx context.Context, id int64) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id int64) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		// FindConfirmed returns a confirmed appointment holding the slot, other
		// than excludeID, or nil when the slot is free.
		FindConfirmed(ctx context.Context, slot model.SlotKey, excludeID int64) (*model.Appointment, error)
		// ConfirmedTimes lists the booked times of an expert on a date.
		ConfirmedTimes(ctx context.Context, expertID int64, date model.Date) ([]string, error)
		// CountByReference counts appointments pointing at the entity.
		CountByReference(ctx context.Context, kind model.EntityKind, id int64) (int, error)
	}

	StatsRepository interface {
		Snapshot(ctx context.Context, q model.StatsQuery) (*model.StatsSnapshot, error)
	}
)

// Store bundles the repositories of one backend.
type Store struct {
	Services     ServiceRepository
	Experts      ExpertRepository
	Customers    CustomerRepository
	Appointments AppointmentRepository
	Stats        StatsRepository
}
