package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/salon-api/internal/model"
)

func newValidate(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, RegisterOn(v))
	return v
}

func TestTimeslot(t *testing.T) {
	v := newValidate(t)

	req := model.AppointmentRequest{Time: "09:30", CustomerID: 1, ServiceID: 1, ExpertID: 1}
	assert.NoError(t, v.Struct(req))

	// Any clock time is bookable, not only the slots offered by availability.
	for _, offGrid := range []string{"13:17", "00:00", "23:59"} {
		req.Time = offGrid
		assert.NoError(t, v.Struct(req), offGrid)
	}

	for _, bad := range []string{"9:30", "24:00", "09:60", "0930", "09:30:00"} {
		req.Time = bad
		err := v.Struct(req)
		require.Error(t, err, bad)
		assert.Equal(t, "time must be a time in HH:MM format", Message(err))
	}
}

func TestWeekday(t *testing.T) {
	v := newValidate(t)

	assert.NoError(t, v.Struct(model.ExpertRequest{Name: "Ayşe", WorkDays: []string{"Monday", "Salı", "fri"}}))

	err := v.Struct(model.ExpertRequest{Name: "Ayşe", WorkDays: []string{"Monday", "Someday"}})
	require.Error(t, err)
	assert.Contains(t, Message(err), `unknown weekday "Someday"`)
}

func TestCustomerMessages(t *testing.T) {
	v := newValidate(t)

	assert.NoError(t, v.Struct(model.CustomerRequest{Name: "Zeynep", Phone: "+90 (532) 123-4567"}))

	err := v.Struct(model.CustomerRequest{Phone: "abc", Email: "nope"})
	require.Error(t, err)
	msg := Message(err)
	assert.Contains(t, msg, "name is required")
	assert.Contains(t, msg, "phone must be a valid phone number")
	assert.Contains(t, msg, "email must be a valid email")
}

func TestStatusOneOf(t *testing.T) {
	v := newValidate(t)

	req := model.AppointmentRequest{Time: "10:00", CustomerID: 1, ServiceID: 1, ExpertID: 1, Status: "done"}
	err := v.Struct(req)
	require.Error(t, err)
	assert.Equal(t, "status must be one of: pending confirmed completed cancelled", Message(err))
}

func TestMessagePassesOtherErrors(t *testing.T) {
	assert.Equal(t, assert.AnError.Error(), Message(assert.AnError))
}
