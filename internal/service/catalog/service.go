// Package catalog manages the treatments the salon offers.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	"github.com/jwalitptl/salon-api/internal/service/guard"
	apperrors "github.com/jwalitptl/salon-api/pkg/errors"
)

type CatalogServicer interface {
	CreateService(ctx context.Context, req *model.ServiceRequest) (*model.Service, error)
	GetService(ctx context.Context, id int64) (*model.Service, error)
	UpdateService(ctx context.Context, id int64, req *model.ServiceRequest) (*model.Service, error)
	DeleteService(ctx context.Context, id int64) error
	ListServices(ctx context.Context) ([]*model.Service, error)
}

type Service struct {
	repo  repository.ServiceRepository
	guard *guard.Guard
}

func NewService(repo repository.ServiceRepository, guard *guard.Guard) *Service {
	return &Service{
		repo:  repo,
		guard: guard,
	}
}

func (s *Service) CreateService(ctx context.Context, req *model.ServiceRequest) (*model.Service, error) {
	service, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return service, nil
}

func (s *Service) GetService(ctx context.Context, id int64) (*model.Service, error) {
	service, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return service, nil
}

func (s *Service) UpdateService(ctx context.Context, id int64, req *model.ServiceRequest) (*model.Service, error) {
	service, err := s.fromRequest(req)
	if err != nil {
		return nil, err
	}
	service.ID = id
	if err := s.repo.Update(ctx, service); err != nil {
		return nil, fmt.Errorf("failed to update service: %w", err)
	}
	return service, nil
}

func (s *Service) DeleteService(ctx context.Context, id int64) error {
	return s.guard.DeleteEntity(ctx, model.KindService, id, s.repo.Delete)
}

func (s *Service) ListServices(ctx context.Context) ([]*model.Service, error) {
	services, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	return services, nil
}

func (s *Service) fromRequest(req *model.ServiceRequest) (*model.Service, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.BadRequest("name is required", nil)
	}
	if req.Price.IsNegative() {
		return nil, apperrors.BadRequest("price must not be negative", nil)
	}
	return &model.Service{
		Name:        name,
		Price:       req.Price.Round(2),
		Description: strings.TrimSpace(req.Description),
	}, nil
}
