package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelSMS   NotificationChannel = "sms"
)

type NotificationKind string

const (
	NotificationAppointmentCreated NotificationKind = "appointment_created"
	NotificationAppointmentUpdated NotificationKind = "appointment_updated"
	NotificationCustom             NotificationKind = "custom"
)

// NotificationJob is a fully rendered message ready for a channel. It is
// self-contained so a separate worker process can deliver it.
type NotificationJob struct {
	ID            uuid.UUID           `json:"id"`
	Kind          NotificationKind    `json:"kind"`
	Channel       NotificationChannel `json:"channel"`
	AppointmentID int64               `json:"appointmentId,omitempty"`
	Recipient     string              `json:"recipient"`
	Subject       string              `json:"subject,omitempty"`
	Body          string              `json:"body"`
	CreatedAt     time.Time           `json:"createdAt"`
}
