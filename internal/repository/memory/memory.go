// Package memory keeps the salon data in process. It enforces the same
// referential and slot rules as the Postgres schema and backs tests and
// single-node demos.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	apperrors "github.com/jwalitptl/salon-api/pkg/errors"
)

type db struct {
	mu sync.RWMutex

	nextID       map[model.EntityKind]int64
	services     map[int64]model.Service
	experts      map[int64]model.Expert
	customers    map[int64]model.Customer
	appointments map[int64]model.Appointment

	now func() time.Time
}

// NewStore returns an empty store.
func NewStore() *repository.Store {
	d := &db{
		nextID:       map[model.EntityKind]int64{},
		services:     map[int64]model.Service{},
		experts:      map[int64]model.Expert{},
		customers:    map[int64]model.Customer{},
		appointments: map[int64]model.Appointment{},
		now:          func() time.Time { return time.Now().UTC() },
	}
	return &repository.Store{
		Services:     &serviceRepository{d},
		Experts:      &expertRepository{d},
		Customers:    &customerRepository{d},
		Appointments: &appointmentRepository{d},
		Stats:        &statsRepository{d},
	}
}

// stamp assigns an id on first write and refreshes the timestamps.
func (d *db) stamp(kind model.EntityKind, base *model.Base, created bool) {
	now := d.now()
	if created {
		d.nextID[kind]++
		base.ID = d.nextID[kind]
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}

func (d *db) referenced(kind model.EntityKind, id int64) bool {
	for _, a := range d.appointments {
		switch {
		case kind == model.KindService && a.ServiceID == id,
			kind == model.KindExpert && a.ExpertID == id,
			kind == model.KindCustomer && a.CustomerID == id:
			return true
		}
	}
	return false
}

type serviceRepository struct{ *db }

func (r *serviceRepository) Create(_ context.Context, service *model.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stamp(model.KindService, &service.Base, true)
	r.services[service.ID] = *service
	return nil
}

func (r *serviceRepository) Get(_ context.Context, id int64) (*model.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	service, ok := r.services[id]
	if !ok {
		return nil, apperrors.NotFound(string(model.KindService), nil)
	}
	return &service, nil
}

func (r *serviceRepository) Update(_ context.Context, service *model.Service) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.services[service.ID]
	if !ok {
		return apperrors.NotFound(string(model.KindService), nil)
	}
	service.CreatedAt = existing.CreatedAt
	r.stamp(model.KindService, &service.Base, false)
	r.services[service.ID] = *service
	return nil
}

func (r *serviceRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.services[id]; !ok {
		return apperrors.NotFound(string(model.KindService), nil)
	}
	if r.referenced(model.KindService, id) {
		return apperrors.NewDeleteBlocked(string(model.KindService), nil)
	}
	delete(r.services, id)
	return nil
}

func (r *serviceRepository) List(_ context.Context) ([]*model.Service, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	services := make([]*model.Service, 0, len(r.services))
	for _, s := range r.services {
		s := s
		services = append(services, &s)
	}
	sort.Slice(services, func(i, j int) bool { return services[i].ID < services[j].ID })
	return services, nil
}

type expertRepository struct{ *db }

func (r *expertRepository) Create(_ context.Context, expert *model.Expert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stamp(model.KindExpert, &expert.Base, true)
	r.experts[expert.ID] = cloneExpert(*expert)
	return nil
}

func (r *expertRepository) Get(_ context.Context, id int64) (*model.Expert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	expert, ok := r.experts[id]
	if !ok {
		return nil, apperrors.NotFound(string(model.KindExpert), nil)
	}
	expert = cloneExpert(expert)
	return &expert, nil
}

func (r *expertRepository) Update(_ context.Context, expert *model.Expert) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.experts[expert.ID]
	if !ok {
		return apperrors.NotFound(string(model.KindExpert), nil)
	}
	expert.CreatedAt = existing.CreatedAt
	r.stamp(model.KindExpert, &expert.Base, false)
	r.experts[expert.ID] = cloneExpert(*expert)
	return nil
}

func (r *expertRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.experts[id]; !ok {
		return apperrors.NotFound(string(model.KindExpert), nil)
	}
	if r.referenced(model.KindExpert, id) {
		return apperrors.NewDeleteBlocked(string(model.KindExpert), nil)
	}
	delete(r.experts, id)
	return nil
}

func (r *expertRepository) List(_ context.Context) ([]*model.Expert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	experts := make([]*model.Expert, 0, len(r.experts))
	for _, e := range r.experts {
		e := cloneExpert(e)
		experts = append(experts, &e)
	}
	sort.Slice(experts, func(i, j int) bool { return experts[i].ID < experts[j].ID })
	return experts, nil
}

func cloneExpert(e model.Expert) model.Expert {
	e.WorkDays = append(e.WorkDays[:0:0], e.WorkDays...)
	return e
}

type customerRepository struct{ *db }

func (r *customerRepository) Create(_ context.Context, customer *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.stamp(model.KindCustomer, &customer.Base, true)
	r.customers[customer.ID] = *customer
	return nil
}

func (r *customerRepository) Get(_ context.Context, id int64) (*model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, ok := r.customers[id]
	if !ok {
		return nil, apperrors.NotFound(string(model.KindCustomer), nil)
	}
	return &customer, nil
}

func (r *customerRepository) Update(_ context.Context, customer *model.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.customers[customer.ID]
	if !ok {
		return apperrors.NotFound(string(model.KindCustomer), nil)
	}
	customer.CreatedAt = existing.CreatedAt
	r.stamp(model.KindCustomer, &customer.Base, false)
	r.customers[customer.ID] = *customer
	return nil
}

func (r *customerRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[id]; !ok {
		return apperrors.NotFound(string(model.KindCustomer), nil)
	}
	if r.referenced(model.KindCustomer, id) {
		return apperrors.NewDeleteBlocked(string(model.KindCustomer), nil)
	}
	delete(r.customers, id)
	return nil
}

func (r *customerRepository) List(_ context.Context) ([]*model.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customers := make([]*model.Customer, 0, len(r.customers))
	for _, c := range r.customers {
		c := c
		customers = append(customers, &c)
	}
	sort.Slice(customers, func(i, j int) bool { return customers[i].ID < customers[j].ID })
	return customers, nil
}
