package customer

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	"github.com/jwalitptl/salon-api/internal/service/guard"
	apperrors "github.com/jwalitptl/salon-api/pkg/errors"
)

type CustomerServicer interface {
	CreateCustomer(ctx context.Context, req *model.CustomerRequest) (*model.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id int64, req *model.CustomerRequest) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id int64) error
	ListCustomers(ctx context.Context) ([]*model.Customer, error)
}

type Service struct {
	repo  repository.CustomerRepository
	guard *guard.Guard
}

func NewService(repo repository.CustomerRepository, guard *guard.Guard) *Service {
	return &Service{
		repo:  repo,
		guard: guard,
	}
}

func (s *Service) CreateCustomer(ctx context.Context, req *model.CustomerRequest) (*model.Customer, error) {
	customer, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	customer, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return customer, nil
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, req *model.CustomerRequest) (*model.Customer, error) {
	customer, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	customer.ID = id
	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	return s.guard.DeleteEntity(ctx, model.KindCustomer, id, s.repo.Delete)
}

func (s *Service) ListCustomers(ctx context.Context) ([]*model.Customer, error) {
	customers, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func fromRequest(req *model.CustomerRequest) (*model.Customer, error) {
	customer := &model.Customer{
		Name:  strings.TrimSpace(req.Name),
		Phone: strings.TrimSpace(req.Phone),
		Email: strings.TrimSpace(req.Email),
	}
	if customer.Name == "" {
		return nil, apperrors.BadRequest("name is required", nil)
	}
	if customer.Phone == "" {
		return nil, apperrors.BadRequest("phone is required", nil)
	}
	return customer, nil
}
