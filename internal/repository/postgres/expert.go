package postgres

import (
	"context"

	"github.com/lib/pq"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
)

type expertRepository struct {
	BaseRepository
}

func NewExpertRepository(base BaseRepository) repository.ExpertRepository {
	return &expertRepository{base}
}

func (r *expertRepository) Create(ctx context.Context, expert *model.Expert) error {
	query := `
		INSERT INTO experts (name, specialty, work_days)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		expert.Name,
		expert.Specialty,
		pq.StringArray(expert.WorkDays),
	).Scan(&expert.ID, &expert.CreatedAt, &expert.UpdatedAt)
	return translate(err, model.KindExpert, "create")
}

func (r *expertRepository) Get(ctx context.Context, id int64) (*model.Expert, error) {
	query := `
		SELECT id, name, specialty, work_days, created_at, updated_at
		FROM experts
		WHERE id = $1
	`
	var expert model.Expert
	if err := r.db.GetContext(ctx, &expert, query, id); err != nil {
		return nil, translate(err, model.KindExpert, "get")
	}
	return &expert, nil
}

func (r *expertRepository) Update(ctx context.Context, expert *model.Expert) error {
	query := `
		UPDATE experts
		SET name = $1, specialty = $2, work_days = $3, updated_at = now()
		WHERE id = $4
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		expert.Name,
		expert.Specialty,
		pq.StringArray(expert.WorkDays),
		expert.ID,
	).Scan(&expert.CreatedAt, &expert.UpdatedAt)
	return translate(err, model.KindExpert, "update")
}

func (r *expertRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM experts WHERE id = $1`, id)
	if err != nil {
		return translate(err, model.KindExpert, "delete")
	}
	return rowsAffected(result, model.KindExpert, "delete")
}

func (r *expertRepository) List(ctx context.Context) ([]*model.Expert, error) {
	query := `
		SELECT id, name, specialty, work_days, created_at, updated_at
		FROM experts
		ORDER BY id ASC
	`
	experts := []*model.Expert{}
	if err := r.db.SelectContext(ctx, &experts, query); err != nil {
		return nil, translate(err, model.KindExpert, "list")
	}
	return experts, nil
}
