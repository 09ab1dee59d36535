package memory

import (
	"context"
	"sort"

	"github.com/jwalitptl/salon-api/internal/model"
)

type statsRepository struct{ *db }

type monthStatus struct {
	year, month int
	status      model.AppointmentStatus
}

func (r *statsRepository) Snapshot(_ context.Context, q model.StatsQuery) (*model.StatsSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := &model.StatsSnapshot{
		TotalServices:     len(r.services),
		TotalExperts:      len(r.experts),
		TotalCustomers:    len(r.customers),
		TotalAppointments: len(r.appointments),
		StatusCounts:      map[model.AppointmentStatus]int{},
	}

	monthly := map[monthStatus]int{}
	byService := map[int64]int{}
	byExpert := map[int64]int{}
	for _, a := range r.appointments {
		if a.Date == q.Today {
			snapshot.TodayCount++
		}
		snapshot.StatusCounts[a.Status]++
		if !a.Date.Before(q.Since) {
			monthly[monthStatus{a.Date.Year, int(a.Date.Month), a.Status}]++
		}
		byService[a.ServiceID]++
		byExpert[a.ExpertID]++
	}

	for k, count := range monthly {
		snapshot.Monthly = append(snapshot.Monthly, model.MonthStatusCount{
			Year:   k.year,
			Month:  k.month,
			Status: k.status,
			Count:  count,
		})
	}
	sort.Slice(snapshot.Monthly, func(i, j int) bool {
		a, b := snapshot.Monthly[i], snapshot.Monthly[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Status < b.Status
	})

	for id, count := range byService {
		if s, ok := r.services[id]; ok {
			snapshot.TopServices = append(snapshot.TopServices, model.RankedName{ID: id, Name: s.Name, Count: count})
		}
	}
	for id, count := range byExpert {
		if e, ok := r.experts[id]; ok {
			snapshot.TopExperts = append(snapshot.TopExperts, model.RankedName{ID: id, Name: e.Name, Count: count})
		}
	}
	snapshot.TopServices = rank(snapshot.TopServices, q.TopLimit)
	snapshot.TopExperts = rank(snapshot.TopExperts, q.TopLimit)

	return snapshot, nil
}

// rank orders by count descending then id ascending and keeps the first limit.
func rank(names []model.RankedName, limit int) []model.RankedName {
	sort.Slice(names, func(i, j int) bool {
		if names[i].Count != names[j].Count {
			return names[i].Count > names[j].Count
		}
		return names[i].ID < names[j].ID
	})
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	return names
}
