package notification

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/pkg/logger"
	"github.com/jwalitptl/salon-api/pkg/metrics"
)

const DefaultBusinessName = "Güzellik Merkezi"

// Dispatcher hands a rendered job to whatever delivers it. Implementations
// must not block on delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, job *model.NotificationJob) error
}

// Service tells customers about their appointments. Every method is best
// effort: failures are logged and counted, never returned.
type Service interface {
	// NotifyCreated sends the confirmation email and SMS the customer can receive.
	NotifyCreated(ctx context.Context, apt *model.Appointment)
	// NotifyUpdated sends the update email and SMS the customer can receive.
	NotifyUpdated(ctx context.Context, apt *model.Appointment)

	SendConfirmation(ctx context.Context, apt *model.Appointment) bool
	SendUpdate(ctx context.Context, apt *model.Appointment) bool
	SendSMS(ctx context.Context, phone string, message string) bool
}

type Config struct {
	BusinessName string
}

type service struct {
	dispatcher Dispatcher
	business   string
	logger     *logger.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

func NewService(dispatcher Dispatcher, cfg Config, logger *logger.Logger, metrics *metrics.Metrics) Service {
	business := cfg.BusinessName
	if business == "" {
		business = DefaultBusinessName
	}
	return &service{
		dispatcher: dispatcher,
		business:   business,
		logger:     logger,
		metrics:    metrics,
		now:        time.Now,
	}
}

func (s *service) NotifyCreated(ctx context.Context, apt *model.Appointment) {
	if apt.Customer == nil {
		return
	}
	if apt.Customer.Email != "" {
		s.SendConfirmation(ctx, apt)
	}
	if apt.Customer.Phone != "" {
		s.sendSMS(ctx, model.NotificationAppointmentCreated, apt.ID, apt.Customer.Phone, confirmationSMS(apt, s.business))
	}
}

func (s *service) NotifyUpdated(ctx context.Context, apt *model.Appointment) {
	if apt.Customer == nil {
		return
	}
	if apt.Customer.Email != "" {
		s.SendUpdate(ctx, apt)
	}
	if apt.Customer.Phone != "" {
		s.sendSMS(ctx, model.NotificationAppointmentUpdated, apt.ID, apt.Customer.Phone, updateSMS(apt, s.business))
	}
}

func (s *service) SendConfirmation(ctx context.Context, apt *model.Appointment) bool {
	subject, body, err := confirmationEmail(apt, s.business)
	return s.sendEmail(ctx, model.NotificationAppointmentCreated, apt, subject, body, err)
}

func (s *service) SendUpdate(ctx context.Context, apt *model.Appointment) bool {
	subject, body, err := updateEmail(apt, s.business)
	return s.sendEmail(ctx, model.NotificationAppointmentUpdated, apt, subject, body, err)
}

func (s *service) SendSMS(ctx context.Context, phone string, message string) bool {
	return s.sendSMS(ctx, model.NotificationCustom, 0, phone, message)
}

func (s *service) sendEmail(ctx context.Context, kind model.NotificationKind, apt *model.Appointment, subject, body string, renderErr error) bool {
	if renderErr != nil {
		s.fail(model.ChannelEmail, "render", apt.ID, renderErr)
		return false
	}
	if apt.Customer == nil || apt.Customer.Email == "" {
		return false
	}
	return s.dispatch(ctx, &model.NotificationJob{
		Kind:          kind,
		Channel:       model.ChannelEmail,
		AppointmentID: apt.ID,
		Recipient:     apt.Customer.Email,
		Subject:       subject,
		Body:          body,
	})
}

func (s *service) sendSMS(ctx context.Context, kind model.NotificationKind, appointmentID int64, phone, message string) bool {
	if phone == "" {
		return false
	}
	return s.dispatch(ctx, &model.NotificationJob{
		Kind:          kind,
		Channel:       model.ChannelSMS,
		AppointmentID: appointmentID,
		Recipient:     phone,
		Body:          message,
	})
}

func (s *service) dispatch(ctx context.Context, job *model.NotificationJob) bool {
	job.ID = uuid.New()
	job.CreatedAt = s.now()

	if err := s.dispatcher.Dispatch(ctx, job); err != nil {
		s.fail(job.Channel, "queue", job.AppointmentID, err)
		return false
	}
	s.metrics.NotificationsQueued.WithLabelValues(string(job.Channel)).Inc()
	return true
}

func (s *service) fail(channel model.NotificationChannel, stage string, appointmentID int64, err error) {
	s.metrics.NotificationsFailed.WithLabelValues(string(channel), stage).Inc()
	s.logger.Error(err, "Failed to dispatch notification",
		"channel", string(channel),
		"stage", stage,
		"appointment_id", appointmentID)
}

type discardDispatcher struct {
	logger *logger.Logger
}

// NewDiscardDispatcher drops every job. It backs the disabled mode.
func NewDiscardDispatcher(logger *logger.Logger) Dispatcher {
	return &discardDispatcher{logger: logger}
}

func (d *discardDispatcher) Dispatch(_ context.Context, job *model.NotificationJob) error {
	d.logger.Debug("Notification dropped",
		"channel", string(job.Channel),
		"kind", string(job.Kind),
		"appointment_id", job.AppointmentID)
	return nil
}
