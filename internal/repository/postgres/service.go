package postgres

import (
	"context"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
)

type serviceRepository struct {
	BaseRepository
}

func NewServiceRepository(base BaseRepository) repository.ServiceRepository {
	return &serviceRepository{base}
}

func (r *serviceRepository) Create(ctx context.Context, service *model.Service) error {
	query := `
		INSERT INTO services (name, price, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		service.Name,
		service.Price,
		service.Description,
	).Scan(&service.ID, &service.CreatedAt, &service.UpdatedAt)
	return translate(err, model.KindService, "create")
}

func (r *serviceRepository) Get(ctx context.Context, id int64) (*model.Service, error) {
	query := `
		SELECT id, name, price, description, created_at, updated_at
		FROM services
		WHERE id = $1
	`
	var service model.Service
	if err := r.db.GetContext(ctx, &service, query, id); err != nil {
		return nil, translate(err, model.KindService, "get")
	}
	return &service, nil
}

func (r *serviceRepository) Update(ctx context.Context, service *model.Service) error {
	query := `
		UPDATE services
		SET name = $1, price = $2, description = $3, updated_at = now()
		WHERE id = $4
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		service.Name,
		service.Price,
		service.Description,
		service.ID,
	).Scan(&service.CreatedAt, &service.UpdatedAt)
	return translate(err, model.KindService, "update")
}

func (r *serviceRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM services WHERE id = $1`, id)
	if err != nil {
		return translate(err, model.KindService, "delete")
	}
	return rowsAffected(result, model.KindService, "delete")
}

func (r *serviceRepository) List(ctx context.Context) ([]*model.Service, error) {
	query := `
		SELECT id, name, price, description, created_at, updated_at
		FROM services
		ORDER BY id ASC
	`
	services := []*model.Service{}
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, translate(err, model.KindService, "list")
	}
	return services, nil
}
