package appointment

import (
	"context"
	"fmt"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	"github.com/jwalitptl/salon-api/internal/service/notification"
	apperrors "github.com/jwalitptl/salon-api/pkg/errors"
	"github.com/jwalitptl/salon-api/pkg/logger"
	"github.com/jwalitptl/salon-api/pkg/metrics"
)

type AppointmentServicer interface {
	CreateAppointment(ctx context.Context, req *model.AppointmentRequest) (*model.Appointment, error)
	GetAppointment(ctx context.Context, id int64) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, id int64, req *model.AppointmentRequest) (*model.Appointment, error)
	DeleteAppointment(ctx context.Context, id int64) error
	ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
	Availability(ctx context.Context, expertID int64, date model.Date) (*model.Availability, error)
}

type Config struct {
	// TimeSlots are the bookable times of day, "HH:MM", in display order.
	TimeSlots []string
}

type Service struct {
	repo     repository.AppointmentRepository
	experts  repository.ExpertRepository
	notifier notification.Service
	slots    []string
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewService(
	repo repository.AppointmentRepository,
	experts repository.ExpertRepository,
	notifier notification.Service,
	config Config,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		repo:     repo,
		experts:  experts,
		notifier: notifier,
		slots:    config.TimeSlots,
		logger:   logger,
		metrics:  metrics,
	}
}

// CreateAppointment books a slot. Any confirmed booking of the same expert,
// date and time blocks it, whatever the new booking's status.
func (s *Service) CreateAppointment(ctx context.Context, req *model.AppointmentRequest) (*model.Appointment, error) {
	apt, err := fromRequest(req)
	if err != nil {
		s.record("create", err)
		return nil, err
	}

	if err := s.checkSlot(ctx, apt); err != nil {
		s.record("create", err)
		return nil, err
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		s.record("create", err)
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	created, err := s.repo.Get(ctx, apt.ID)
	if err != nil {
		s.record("create", err)
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}
	s.record("create", nil)

	s.notifier.NotifyCreated(ctx, created)
	return created, nil
}

func (s *Service) GetAppointment(ctx context.Context, id int64) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return apt, nil
}

// UpdateAppointment overwrites every field. The slot is only checked when the
// result is confirmed, and never against the appointment itself.
func (s *Service) UpdateAppointment(ctx context.Context, id int64, req *model.AppointmentRequest) (*model.Appointment, error) {
	apt, err := fromRequest(req)
	if err != nil {
		s.record("update", err)
		return nil, err
	}
	apt.ID = id

	if _, err := s.repo.Get(ctx, id); err != nil {
		s.record("update", err)
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if apt.Status == model.AppointmentStatusConfirmed {
		if err := s.checkSlot(ctx, apt); err != nil {
			s.record("update", err)
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, apt); err != nil {
		s.record("update", err)
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		s.record("update", err)
		return nil, fmt.Errorf("failed to load appointment: %w", err)
	}
	s.record("update", nil)

	s.notifier.NotifyUpdated(ctx, updated)
	return updated, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	return nil
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	if filters != nil && filters.Status != "" && !filters.Status.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid status %q", filters.Status), nil)
	}
	appointments, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// Availability marks the configured slots of a day free or taken by a
// confirmed booking. It does not block bookings on days off.
func (s *Service) Availability(ctx context.Context, expertID int64, date model.Date) (*model.Availability, error) {
	if date.IsZero() {
		return nil, apperrors.BadRequest("date is required", nil)
	}
	expert, err := s.experts.Get(ctx, expertID)
	if err != nil {
		return nil, fmt.Errorf("failed to get expert: %w", err)
	}

	booked, err := s.repo.ConfirmedTimes(ctx, expertID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list booked times: %w", err)
	}
	taken := make(map[string]bool, len(booked))
	for _, t := range booked {
		taken[t] = true
	}

	availability := &model.Availability{
		ExpertID: expertID,
		Date:     date,
		WorksDay: expert.WorksOn(date.Weekday()),
		Slots:    make([]model.Slot, 0, len(s.slots)),
	}
	for _, t := range s.slots {
		availability.Slots = append(availability.Slots, model.Slot{Time: t, Available: !taken[t]})
	}
	return availability, nil
}

func (s *Service) checkSlot(ctx context.Context, apt *model.Appointment) error {
	holder, err := s.repo.FindConfirmed(ctx, apt.SlotKey(), apt.ID)
	if err != nil {
		return fmt.Errorf("failed to check expert availability: %w", err)
	}
	if holder != nil {
		return apperrors.Conflict(model.SlotConflictMessage, nil)
	}
	return nil
}

func (s *Service) record(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		if appErr, ok := apperrors.As(err); ok {
			switch appErr.Code {
			case apperrors.ErrConflict:
				outcome = "conflict"
			case apperrors.ErrBadRequest:
				outcome = "invalid"
			case apperrors.ErrNotFound:
				outcome = "not_found"
			}
		}
	}
	if outcome == "error" {
		s.logger.Error(err, "Appointment write failed", "operation", operation)
	}
	s.metrics.Bookings.WithLabelValues(operation, outcome).Inc()
}

func fromRequest(req *model.AppointmentRequest) (*model.Appointment, error) {
	if req.Date.IsZero() {
		return nil, apperrors.BadRequest("date is required", nil)
	}
	if !model.ValidTimeOfDay(req.Time) {
		return nil, apperrors.BadRequest("time must be HH:MM", nil)
	}
	if req.CustomerID <= 0 || req.ServiceID <= 0 || req.ExpertID <= 0 {
		return nil, apperrors.BadRequest("customerId, serviceId and expertId are required", nil)
	}

	status := req.Status
	if status == "" {
		status = model.AppointmentStatusPending
	}
	if !status.Valid() {
		return nil, apperrors.BadRequest(fmt.Sprintf("invalid status %q", req.Status), nil)
	}

	return &model.Appointment{
		Date:       req.Date,
		Time:       req.Time,
		Status:     status,
		CustomerID: req.CustomerID.Int64(),
		ServiceID:  req.ServiceID.Int64(),
		ExpertID:   req.ExpertID.Int64(),
	}, nil
}
