package postgres

import (
	"context"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
)

type customerRepository struct {
	BaseRepository
}

func NewCustomerRepository(base BaseRepository) repository.CustomerRepository {
	return &customerRepository{base}
}

func (r *customerRepository) Create(ctx context.Context, customer *model.Customer) error {
	query := `
		INSERT INTO customers (name, phone, email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		customer.Name,
		customer.Phone,
		customer.Email,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
	return translate(err, model.KindCustomer, "create")
}

func (r *customerRepository) Get(ctx context.Context, id int64) (*model.Customer, error) {
	query := `
		SELECT id, name, phone, email, created_at, updated_at
		FROM customers
		WHERE id = $1
	`
	var customer model.Customer
	if err := r.db.GetContext(ctx, &customer, query, id); err != nil {
		return nil, translate(err, model.KindCustomer, "get")
	}
	return &customer, nil
}

func (r *customerRepository) Update(ctx context.Context, customer *model.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, phone = $2, email = $3, updated_at = now()
		WHERE id = $4
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query,
		customer.Name,
		customer.Phone,
		customer.Email,
		customer.ID,
	).Scan(&customer.CreatedAt, &customer.UpdatedAt)
	return translate(err, model.KindCustomer, "update")
}

func (r *customerRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return translate(err, model.KindCustomer, "delete")
	}
	return rowsAffected(result, model.KindCustomer, "delete")
}

func (r *customerRepository) List(ctx context.Context) ([]*model.Customer, error) {
	query := `
		SELECT id, name, phone, email, created_at, updated_at
		FROM customers
		ORDER BY id ASC
	`
	customers := []*model.Customer{}
	if err := r.db.SelectContext(ctx, &customers, query); err != nil {
		return nil, translate(err, model.KindCustomer, "list")
	}
	return customers, nil
}
