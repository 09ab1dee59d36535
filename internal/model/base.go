package model

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, the way the frontend reads them.
	decimal.MarshalJSONWithoutQuotes = true
}

// Base contains common fields for all models
type Base struct {
	ID        int64     `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// EntityKind names the entities an appointment references.
type EntityKind string

const (
	KindService     EntityKind = "service"
	KindExpert      EntityKind = "expert"
	KindCustomer    EntityKind = "customer"
	KindAppointment EntityKind = "appointment"
)
