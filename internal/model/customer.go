package model

type Customer struct {
	Base
	Name  string `db:"name" json:"name"`
	Phone string `db:"phone" json:"phone"`
	Email string `db:"email" json:"email"`
}

type CustomerRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Phone string `json:"phone" binding:"required,phone"`
	Email string `json:"email" binding:"omitempty,email"`
}
