package model

import "time"

type AppointmentStatus string

// SlotConflictMessage is reported when a confirmed booking already holds the
// expert's slot.
const SlotConflictMessage = "Çakışma var! Bu tarih ve saatte uzman müsait değil."

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// AppointmentStatuses lists the statuses in dashboard order.
var AppointmentStatuses = []AppointmentStatus{
	AppointmentStatusConfirmed,
	AppointmentStatusPending,
	AppointmentStatusCompleted,
	AppointmentStatusCancelled,
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusConfirmed, AppointmentStatusCompleted, AppointmentStatusCancelled:
		return true
	}
	return false
}

// Appointment references its customer, service and expert by id. The
// pointers are populated on reads and never written back.
type Appointment struct {
	Base
	Date       Date              `db:"appointment_date" json:"date"`
	Time       string            `db:"appointment_time" json:"time"`
	Status     AppointmentStatus `db:"status" json:"status"`
	CustomerID int64             `db:"customer_id" json:"customerId"`
	ServiceID  int64             `db:"service_id" json:"serviceId"`
	ExpertID   int64             `db:"expert_id" json:"expertId"`

	Customer *Customer `db:"-" json:"customer,omitempty"`
	Service  *Service  `db:"-" json:"service,omitempty"`
	Expert   *Expert   `db:"-" json:"expert,omitempty"`
}

// AppointmentRequest is the body of create and update calls.
type AppointmentRequest struct {
	Date       Date              `json:"date"`
	Time       string            `json:"time" binding:"required,timeslot"`
	CustomerID FlexID            `json:"customerId" binding:"required"`
	ServiceID  FlexID            `json:"serviceId" binding:"required"`
	ExpertID   FlexID            `json:"expertId" binding:"required"`
	Status     AppointmentStatus `json:"status" binding:"omitempty,oneof=pending confirmed completed cancelled"`
}

// SlotKey identifies an expert's calendar slot.
type SlotKey struct {
	Date     Date
	Time     string
	ExpertID int64
}

func (a *Appointment) SlotKey() SlotKey {
	return SlotKey{Date: a.Date, Time: a.Time, ExpertID: a.ExpertID}
}

type AppointmentFilters struct {
	ExpertID   int64
	CustomerID int64
	ServiceID  int64
	Status     AppointmentStatus
	Date       Date
}

// Slot is one bookable time of day on an expert's calendar.
type Slot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

type Availability struct {
	ExpertID int64  `json:"expertId"`
	Date     Date   `json:"date"`
	WorksDay bool   `json:"worksDay"`
	Slots    []Slot `json:"slots"`
}

// ValidTimeOfDay reports whether s is a 24-hour "HH:MM" time.
func ValidTimeOfDay(s string) bool {
	if len(s) != 5 {
		return false
	}
	_, err := time.Parse("15:04", s)
	return err == nil
}
