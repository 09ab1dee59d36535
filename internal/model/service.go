package model

import (
	"github.com/shopspring/decimal"
)

// Service is a treatment offered by the salon.
type Service struct {
	Base
	Name        string          `db:"name" json:"name"`
	Price       decimal.Decimal `db:"price" json:"price"`
	Description string          `db:"description" json:"description"`
}

type ServiceRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description" binding:"max=2000"`
}
