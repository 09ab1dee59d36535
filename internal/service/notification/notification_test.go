package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/pkg/logger"
	"github.com/jwalitptl/salon-api/pkg/metrics"
)

type recordingDispatcher struct {
	mu   sync.Mutex
	jobs []*model.NotificationJob
	err  error
}

func (d *recordingDispatcher) Dispatch(_ context.Context, job *model.NotificationJob) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.jobs = append(d.jobs, job)
	return nil
}

func sampleAppointment() *model.Appointment {
	return &model.Appointment{
		Base:   model.Base{ID: 12},
		Date:   model.Date{Year: 2024, Month: time.May, Day: 10},
		Time:   "14:30",
		Status: model.AppointmentStatusConfirmed,
		Customer: &model.Customer{
			Name:  "Zeynep Kaya",
			Phone: "05321234567",
			Email: "zeynep@example.com",
		},
		Service: &model.Service{Name: "Manikür", Price: decimal.RequireFromString("250.00")},
		Expert:  &model.Expert{Name: "Elif"},
	}
}

func newTestService(d Dispatcher) Service {
	return NewService(d, Config{}, logger.Nop(), metrics.New("test"))
}

func TestNotifyCreatedSendsEmailAndSMS(t *testing.T) {
	d := &recordingDispatcher{}
	newTestService(d).NotifyCreated(context.Background(), sampleAppointment())

	require.Len(t, d.jobs, 2)
	mail, text := d.jobs[0], d.jobs[1]

	assert.Equal(t, model.ChannelEmail, mail.Channel)
	assert.Equal(t, "zeynep@example.com", mail.Recipient)
	assert.Equal(t, "Randevu Onayı - Güzellik Merkezi", mail.Subject)
	assert.Contains(t, mail.Body, "Zeynep Kaya")
	assert.Contains(t, mail.Body, "10.05.2024")
	assert.Contains(t, mail.Body, "250 TL")
	assert.Equal(t, int64(12), mail.AppointmentID)

	assert.Equal(t, model.ChannelSMS, text.Channel)
	assert.Equal(t, "05321234567", text.Recipient)
	assert.Equal(t, "Sayın Zeynep Kaya, randevunuz 10.05.2024 14:30 tarihinde onaylandı. Güzellik Merkezi.", text.Body)
	assert.NotEqual(t, mail.ID, text.ID)
}

func TestNotifySkipsMissingContacts(t *testing.T) {
	d := &recordingDispatcher{}
	apt := sampleAppointment()
	apt.Customer.Email = ""
	newTestService(d).NotifyCreated(context.Background(), apt)
	require.Len(t, d.jobs, 1)
	assert.Equal(t, model.ChannelSMS, d.jobs[0].Channel)

	d = &recordingDispatcher{}
	apt.Customer.Phone = ""
	newTestService(d).NotifyUpdated(context.Background(), apt)
	assert.Empty(t, d.jobs)
}

func TestNotifyUpdatedCarriesStatus(t *testing.T) {
	tests := []struct {
		status model.AppointmentStatus
		sms    string
		email  string
	}{
		{model.AppointmentStatusCompleted, "(Tamamlandı)", "Tamamlandı"},
		{model.AppointmentStatusCancelled, "(İptal Edildi)", "İptal Edildi"},
		{model.AppointmentStatusConfirmed, "(Güncellendi)", "Onaylandı"},
		{model.AppointmentStatusPending, "(Güncellendi)", "Beklemede"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			d := &recordingDispatcher{}
			apt := sampleAppointment()
			apt.Status = tt.status
			newTestService(d).NotifyUpdated(context.Background(), apt)

			require.Len(t, d.jobs, 2)
			assert.Equal(t, "Randevu Güncellendi - Güzellik Merkezi", d.jobs[0].Subject)
			assert.Contains(t, d.jobs[0].Body, tt.email)
			assert.Contains(t, d.jobs[1].Body, "randevunuz güncellendi: 10.05.2024 14:30 "+tt.sms)
		})
	}
}

func TestEmailEscapesCustomerInput(t *testing.T) {
	d := &recordingDispatcher{}
	apt := sampleAppointment()
	apt.Customer.Name = "<script>alert(1)</script>"
	assert.True(t, newTestService(d).SendConfirmation(context.Background(), apt))

	require.Len(t, d.jobs, 1)
	assert.NotContains(t, d.jobs[0].Body, "<script>")
}

func TestDispatchFailureIsReportedNotReturned(t *testing.T) {
	svc := newTestService(&recordingDispatcher{err: errors.New("queue full")})

	assert.False(t, svc.SendConfirmation(context.Background(), sampleAppointment()))
	assert.False(t, svc.SendSMS(context.Background(), "05321234567", "hi"))
	assert.NotPanics(t, func() { svc.NotifyCreated(context.Background(), sampleAppointment()) })
}

func TestBusinessNameOverride(t *testing.T) {
	d := &recordingDispatcher{}
	svc := NewService(d, Config{BusinessName: "Salon Nova"}, logger.Nop(), metrics.New("test"))
	svc.NotifyCreated(context.Background(), sampleAppointment())

	require.Len(t, d.jobs, 2)
	assert.Equal(t, "Randevu Onayı - Salon Nova", d.jobs[0].Subject)
	assert.Contains(t, d.jobs[1].Body, "onaylandı. Salon Nova.")
}

type fakeEmail struct {
	err  error
	sent int
}

func (f *fakeEmail) Send(ctx context.Context, to, subject, body string) error {
	f.sent++
	return f.err
}

type fakeSMS struct {
	block bool
	sent  int
}

func (f *fakeSMS) Send(ctx context.Context, phone, message string) error {
	f.sent++
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return nil
}

func TestDelivererRoutesByChannel(t *testing.T) {
	mail, text := &fakeEmail{}, &fakeSMS{}
	d := NewDeliverer(mail, text, DelivererConfig{}, logger.Nop(), metrics.New("test"))

	require.NoError(t, d.Deliver(context.Background(), &model.NotificationJob{Channel: model.ChannelEmail}))
	require.NoError(t, d.Deliver(context.Background(), &model.NotificationJob{Channel: model.ChannelSMS}))
	assert.Equal(t, 1, mail.sent)
	assert.Equal(t, 1, text.sent)

	assert.Error(t, d.Deliver(context.Background(), &model.NotificationJob{Channel: "fax"}))
}

func TestDelivererTimesOutSlowChannel(t *testing.T) {
	d := NewDeliverer(&fakeEmail{}, &fakeSMS{block: true}, DelivererConfig{SendTimeout: 20 * time.Millisecond}, logger.Nop(), metrics.New("test"))

	err := d.Deliver(context.Background(), &model.NotificationJob{Channel: model.ChannelSMS})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDelivererBreakerOpens(t *testing.T) {
	mail := &fakeEmail{err: errors.New("smtp down")}
	d := NewDeliverer(mail, &fakeSMS{}, DelivererConfig{FailureThreshold: 2, OpenTimeout: time.Minute}, logger.Nop(), metrics.New("test"))
	job := &model.NotificationJob{Channel: model.ChannelEmail}

	assert.Error(t, d.Deliver(context.Background(), job))
	assert.Error(t, d.Deliver(context.Background(), job))

	err := d.Deliver(context.Background(), job)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 2, mail.sent)

	// SMS keeps its own breaker.
	assert.NoError(t, d.Deliver(context.Background(), &model.NotificationJob{Channel: model.ChannelSMS}))
}
