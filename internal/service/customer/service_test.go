package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository/memory"
	"github.com/jwalitptl/salon-api/internal/service/guard"
	apperrors "github.com/jwalitptl/salon-api/pkg/errors"
)

func TestCustomerFlow(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store.Customers, guard.New(store.Appointments))

	created, err := svc.CreateCustomer(ctx, &model.CustomerRequest{Name: " Zeynep ", Phone: "0532 123 45 67"})
	require.NoError(t, err)
	assert.Equal(t, "Zeynep", created.Name)
	assert.Empty(t, created.Email)

	_, err = svc.UpdateCustomer(ctx, created.ID, &model.CustomerRequest{Name: "Zeynep", Phone: " "})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	updated, err := svc.UpdateCustomer(ctx, created.ID, &model.CustomerRequest{Name: "Zeynep", Phone: "05321234567", Email: "z@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "z@example.com", updated.Email)

	list, err := svc.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "05321234567", list[0].Phone)

	require.NoError(t, svc.DeleteCustomer(ctx, created.ID))
	assert.True(t, apperrors.Is(svc.DeleteCustomer(ctx, created.ID), apperrors.ErrNotFound))
}
