// Package guard refuses to delete services, experts and customers that
// appointments still point at.
package guard

import (
	"context"
	"fmt"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	apperrors "github.com/jwalitptl/salon-api/pkg/errors"
)

type Guard struct {
	appointments repository.AppointmentRepository
}

func New(appointments repository.AppointmentRepository) *Guard {
	return &Guard{appointments: appointments}
}

// DeleteEntity deletes id with del unless an appointment of any status
// references it. The store's foreign keys reject deletes that race with a
// new booking.
func (g *Guard) DeleteEntity(ctx context.Context, kind model.EntityKind, id int64, del func(context.Context, int64) error) error {
	count, err := g.appointments.CountByReference(ctx, kind, id)
	if err != nil {
		return fmt.Errorf("failed to check %s references: %w", kind, err)
	}
	if count > 0 {
		return apperrors.NewDeleteBlocked(string(kind), nil)
	}
	if err := del(ctx, id); err != nil {
		return fmt.Errorf("failed to delete %s: %w", kind, err)
	}
	return nil
}
