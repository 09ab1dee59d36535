package expert

import (
	"context"
	"fmt"
	"strings"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
	"github.com/jwalitptl/salon-api/internal/service/guard"
	apperrors "github.com/jwalitptl/salon-api/pkg/errors"
)

type ExpertServicer interface {
	CreateExpert(ctx context.Context, req *model.ExpertRequest) (*model.Expert, error)
	GetExpert(ctx context.Context, id int64) (*model.Expert, error)
	UpdateExpert(ctx context.Context, id int64, req *model.ExpertRequest) (*model.Expert, error)
	DeleteExpert(ctx context.Context, id int64) error
	ListExperts(ctx context.Context) ([]*model.Expert, error)
}

type Service struct {
	repo  repository.ExpertRepository
	guard *guard.Guard
}

func NewService(repo repository.ExpertRepository, guard *guard.Guard) *Service {
	return &Service{
		repo:  repo,
		guard: guard,
	}
}

func (s *Service) CreateExpert(ctx context.Context, req *model.ExpertRequest) (*model.Expert, error) {
	expert, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, expert); err != nil {
		return nil, fmt.Errorf("failed to create expert: %w", err)
	}
	return expert, nil
}

func (s *Service) GetExpert(ctx context.Context, id int64) (*model.Expert, error) {
	expert, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get expert: %w", err)
	}
	return expert, nil
}

func (s *Service) UpdateExpert(ctx context.Context, id int64, req *model.ExpertRequest) (*model.Expert, error) {
	expert, err := fromRequest(req)
	if err != nil {
		return nil, err
	}
	expert.ID = id
	if err := s.repo.Update(ctx, expert); err != nil {
		return nil, fmt.Errorf("failed to update expert: %w", err)
	}
	return expert, nil
}

func (s *Service) DeleteExpert(ctx context.Context, id int64) error {
	return s.guard.DeleteEntity(ctx, model.KindExpert, id, s.repo.Delete)
}

func (s *Service) ListExperts(ctx context.Context) ([]*model.Expert, error) {
	experts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list experts: %w", err)
	}
	return experts, nil
}

func fromRequest(req *model.ExpertRequest) (*model.Expert, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.BadRequest("name is required", nil)
	}
	days, err := model.NormalizeWorkDays(req.WorkDays)
	if err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}
	return &model.Expert{
		Name:      name,
		Specialty: strings.TrimSpace(req.Specialty),
		WorkDays:  days,
	}, nil
}
