package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/salon-api/internal/repository"
)

// NewStore wires every repository onto one connection pool.
func NewStore(db *sqlx.DB) *repository.Store {
	base := NewBaseRepository(db)
	return &repository.Store{
		Services:     NewServiceRepository(base),
		Experts:      NewExpertRepository(base),
		Customers:    NewCustomerRepository(base),
		Appointments: NewAppointmentRepository(base),
		Stats:        NewStatsRepository(base),
	}
}
