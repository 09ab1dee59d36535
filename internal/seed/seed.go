// Package seed loads the sample catalog a fresh installation starts with.
package seed

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
)

// Result counts the rows written by Seed.
type Result struct {
	Services  int
	Experts   int
	Customers int
	Skipped   bool
}

func Services() []*model.Service {
	return []*model.Service{
		{Name: "Saç Kesimi", Price: decimal.NewFromInt(150), Description: "Profesyonel saç kesimi hizmeti"},
		{Name: "Saç Boyama", Price: decimal.NewFromInt(300), Description: "Kalıcı saç boyama hizmeti"},
		{Name: "Manikür", Price: decimal.NewFromInt(100), Description: "El bakımı ve oje uygulaması"},
		{Name: "Pedikür", Price: decimal.NewFromInt(120), Description: "Ayak bakımı ve oje uygulaması"},
	}
}

func Experts() []*model.Expert {
	return []*model.Expert{
		{Name: "Ayşe Yılmaz", Specialty: "Saç Tasarımı", WorkDays: []string{"Pazartesi", "Salı", "Çarşamba", "Perşembe", "Cuma"}},
		{Name: "Fatma Demir", Specialty: "Saç Boyama", WorkDays: []string{"Salı", "Çarşamba", "Perşembe", "Cuma", "Cumartesi"}},
		{Name: "Zeynep Kaya", Specialty: "El ve Ayak Bakımı", WorkDays: []string{"Pazartesi", "Salı", "Çarşamba", "Perşembe", "Cuma", "Cumartesi"}},
	}
}

func Customers() []*model.Customer {
	return []*model.Customer{
		{Name: "Mehmet Özkan", Phone: "0532 123 45 67", Email: "mehmet@example.com"},
		{Name: "Elif Yıldız", Phone: "0533 987 65 43", Email: "elif@example.com"},
		{Name: "Can Arslan", Phone: "0534 555 44 33"},
	}
}

// Seed writes the sample services, experts and customers through the store's
// repositories. A store that already has services is left untouched, so it
// is safe to run on every start.
func Seed(ctx context.Context, store *repository.Store) (*Result, error) {
	existing, err := store.Services.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing services: %w", err)
	}
	if len(existing) > 0 {
		return &Result{Skipped: true}, nil
	}

	result := &Result{}
	for _, s := range Services() {
		if err := store.Services.Create(ctx, s); err != nil {
			return result, fmt.Errorf("failed to seed service %q: %w", s.Name, err)
		}
		result.Services++
	}
	for _, e := range Experts() {
		if err := store.Experts.Create(ctx, e); err != nil {
			return result, fmt.Errorf("failed to seed expert %q: %w", e.Name, err)
		}
		result.Experts++
	}
	for _, c := range Customers() {
		if err := store.Customers.Create(ctx, c); err != nil {
			return result, fmt.Errorf("failed to seed customer %q: %w", c.Name, err)
		}
		result.Customers++
	}
	return result, nil
}
