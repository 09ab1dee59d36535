package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/jwalitptl/salon-api/internal/email"
	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/sms"
	"github.com/jwalitptl/salon-api/pkg/logger"
	"github.com/jwalitptl/salon-api/pkg/metrics"
)

type DelivererConfig struct {
	// SendTimeout bounds one channel call.
	SendTimeout time.Duration
	// FailureThreshold consecutive failures open a channel's breaker.
	FailureThreshold uint32
	// OpenTimeout is how long an open breaker rejects sends.
	OpenTimeout time.Duration
}

// Deliverer sends rendered jobs through their channel. Each channel sits
// behind its own circuit breaker; a job is attempted once.
type Deliverer struct {
	email    email.Service
	sms      sms.Service
	breakers map[model.NotificationChannel]*gobreaker.CircuitBreaker
	timeout  time.Duration
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewDeliverer(emailSvc email.Service, smsSvc sms.Service, cfg DelivererConfig, logger *logger.Logger, metrics *metrics.Metrics) *Deliverer {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 10 * time.Second
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}

	d := &Deliverer{
		email:    emailSvc,
		sms:      smsSvc,
		breakers: map[model.NotificationChannel]*gobreaker.CircuitBreaker{},
		timeout:  cfg.SendTimeout,
		logger:   logger,
		metrics:  metrics,
	}
	for _, ch := range []model.NotificationChannel{model.ChannelEmail, model.ChannelSMS} {
		d.breakers[ch] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    string(ch),
			Timeout: cfg.OpenTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= cfg.FailureThreshold
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logger.Warn("Notification channel breaker changed state",
					"channel", name,
					"from", from.String(),
					"to", to.String())
			},
		})
	}
	return d
}

// Deliver sends the job. It matches worker.Handler.
func (d *Deliverer) Deliver(ctx context.Context, job *model.NotificationJob) error {
	breaker, ok := d.breakers[job.Channel]
	if !ok {
		return fmt.Errorf("unsupported channel: %s", job.Channel)
	}

	start := time.Now()
	_, err := breaker.Execute(func() (interface{}, error) {
		sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
		defer cancel()
		return nil, d.send(sendCtx, job)
	})
	d.metrics.NotificationLatency.WithLabelValues(string(job.Channel)).Observe(time.Since(start).Seconds())

	if err != nil {
		d.metrics.NotificationsFailed.WithLabelValues(string(job.Channel), "deliver").Inc()
		return fmt.Errorf("failed to deliver %s notification %s: %w", job.Channel, job.ID, err)
	}

	d.metrics.NotificationsDelivered.WithLabelValues(string(job.Channel)).Inc()
	d.logger.Info("Notification delivered",
		"job_id", job.ID.String(),
		"channel", string(job.Channel),
		"appointment_id", job.AppointmentID)
	return nil
}

func (d *Deliverer) send(ctx context.Context, job *model.NotificationJob) error {
	switch job.Channel {
	case model.ChannelEmail:
		return d.email.Send(ctx, job.Recipient, job.Subject, job.Body)
	case model.ChannelSMS:
		return d.sms.Send(ctx, job.Recipient, job.Body)
	}
	return fmt.Errorf("unsupported channel: %s", job.Channel)
}
