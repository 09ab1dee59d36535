package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
)

type Expert struct {
	Base
	Name      string         `db:"name" json:"name"`
	Specialty string         `db:"specialty" json:"specialty"`
	WorkDays  pq.StringArray `db:"work_days" json:"workDays"`
}

type ExpertRequest struct {
	Name      string   `json:"name" binding:"required,max=200"`
	Specialty string   `json:"specialty" binding:"max=200"`
	WorkDays  []string `json:"workDays" binding:"dive,weekday"`
}

// WorksOn reports whether the weekday is one of the expert's work days.
func (e *Expert) WorksOn(day time.Weekday) bool {
	for _, name := range e.WorkDays {
		if wd, ok := ParseWeekday(name); ok && wd == day {
			return true
		}
	}
	return false
}

var weekdayNames = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday, "pazar": time.Sunday,
	"monday": time.Monday, "mon": time.Monday, "pazartesi": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "salı": time.Tuesday, "sali": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday, "çarşamba": time.Wednesday, "carsamba": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "perşembe": time.Thursday, "persembe": time.Thursday,
	"friday": time.Friday, "fri": time.Friday, "cuma": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday, "cumartesi": time.Saturday,
}

// ParseWeekday resolves English (full or three-letter) and Turkish day names.
func ParseWeekday(name string) (time.Weekday, bool) {
	wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	return wd, ok
}

// NormalizeWorkDays trims names and drops repeated days, keeping the first
// spelling and the caller's order.
func NormalizeWorkDays(days []string) ([]string, error) {
	seen := make(map[time.Weekday]bool, len(days))
	out := make([]string, 0, len(days))
	for _, name := range days {
		name = strings.TrimSpace(name)
		wd, ok := ParseWeekday(name)
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		if seen[wd] {
			continue
		}
		seen[wd] = true
		out = append(out, name)
	}
	return out, nil
}
