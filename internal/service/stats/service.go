// Package stats builds the dashboard figures from one store snapshot.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/salon-api/internal/model"
	"github.com/jwalitptl/salon-api/internal/repository"
)

const (
	monthsInRollup = 6
	topLimit       = 5
)

type StatsServicer interface {
	Dashboard(ctx context.Context) (*model.DashboardStats, error)
}

type Service struct {
	repo     repository.StatsRepository
	location *time.Location
	now      func() time.Time
}

// NewService computes "today" and the month window in loc.
func NewService(repo repository.StatsRepository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		repo:     repo,
		location: loc,
		now:      time.Now,
	}
}

func (s *Service) Dashboard(ctx context.Context) (*model.DashboardStats, error) {
	now := s.now().In(s.location)
	today := model.DateOf(now)
	months := trailingMonths(now, monthsInRollup)

	snapshot, err := s.repo.Snapshot(ctx, model.StatsQuery{
		Today:    today,
		Since:    model.Date{Year: months[0].year, Month: months[0].month, Day: 1},
		TopLimit: topLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read dashboard snapshot: %w", err)
	}

	stats := &model.DashboardStats{
		Overview: model.Overview{
			TotalServices:     snapshot.TotalServices,
			TotalExperts:      snapshot.TotalExperts,
			TotalCustomers:    snapshot.TotalCustomers,
			TotalAppointments: snapshot.TotalAppointments,
			TodayAppointments: snapshot.TodayCount,
		},
		StatusStats: model.StatusStats{
			Confirmed: snapshot.StatusCounts[model.AppointmentStatusConfirmed],
			Pending:   snapshot.StatusCounts[model.AppointmentStatusPending],
			Completed: snapshot.StatusCounts[model.AppointmentStatusCompleted],
			Cancelled: snapshot.StatusCounts[model.AppointmentStatusCancelled],
		},
		MonthlyStats:    rollup(months, snapshot.Monthly),
		PopularServices: make([]model.PopularService, 0, topLimit),
		ActiveExperts:   make([]model.ActiveExpert, 0, topLimit),
	}

	for _, r := range limit(snapshot.TopServices) {
		stats.PopularServices = append(stats.PopularServices, model.PopularService{ServiceName: r.Name, Count: r.Count})
	}
	for _, r := range limit(snapshot.TopExperts) {
		stats.ActiveExperts = append(stats.ActiveExperts, model.ActiveExpert{ExpertName: r.Name, Count: r.Count})
	}
	return stats, nil
}

type yearMonth struct {
	year  int
	month time.Month
}

func (ym yearMonth) label() string {
	return fmt.Sprintf("%04d-%02d", ym.year, int(ym.month))
}

// trailingMonths returns n months ending with now's month, oldest first.
func trailingMonths(now time.Time, n int) []yearMonth {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	months := make([]yearMonth, n)
	for i := 0; i < n; i++ {
		m := first.AddDate(0, i-(n-1), 0)
		months[i] = yearMonth{year: m.Year(), month: m.Month()}
	}
	return months
}

func rollup(months []yearMonth, counts []model.MonthStatusCount) []model.MonthlyStat {
	index := make(map[yearMonth]int, len(months))
	stats := make([]model.MonthlyStat, len(months))
	for i, ym := range months {
		index[ym] = i
		stats[i].Month = ym.label()
	}

	for _, c := range counts {
		i, ok := index[yearMonth{year: c.Year, month: time.Month(c.Month)}]
		if !ok {
			continue
		}
		stats[i].Total += c.Count
		switch c.Status {
		case model.AppointmentStatusCompleted:
			stats[i].Completed += c.Count
		case model.AppointmentStatusCancelled:
			stats[i].Cancelled += c.Count
		}
	}
	return stats
}

func limit(names []model.RankedName) []model.RankedName {
	if len(names) > topLimit {
		return names[:topLimit]
	}
	return names
}
