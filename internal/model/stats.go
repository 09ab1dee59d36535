package model

// StatsQuery parameterises a dashboard snapshot read.
type StatsQuery struct {
	Today    Date
	Since    Date // first day of the oldest month in the rollup
	TopLimit int
}

// MonthStatusCount is an appointment count for one (year, month, status).
type MonthStatusCount struct {
	Year   int               `db:"year"`
	Month  int               `db:"month"`
	Status AppointmentStatus `db:"status"`
	Count  int               `db:"count"`
}

// RankedName is a display name with its appointment count.
type RankedName struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Count int    `db:"count"`
}

// StatsSnapshot is the raw material read from the store in one pass.
type StatsSnapshot struct {
	TotalServices     int
	TotalExperts      int
	TotalCustomers    int
	TotalAppointments int
	TodayCount        int
	StatusCounts      map[AppointmentStatus]int
	Monthly           []MonthStatusCount
	TopServices       []RankedName
	TopExperts        []RankedName
}

type Overview struct {
	TotalServices     int `json:"totalServices"`
	TotalExperts      int `json:"totalExperts"`
	TotalCustomers    int `json:"totalCustomers"`
	TotalAppointments int `json:"totalAppointments"`
	TodayAppointments int `json:"todayAppointments"`
}

type StatusStats struct {
	Confirmed int `json:"confirmed"`
	Pending   int `json:"pending"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

type MonthlyStat struct {
	Month     string `json:"month"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Cancelled int    `json:"cancelled"`
}

type PopularService struct {
	ServiceName string `json:"serviceName"`
	Count       int    `json:"count"`
}

type ActiveExpert struct {
	ExpertName string `json:"expertName"`
	Count      int    `json:"count"`
}

type DashboardStats struct {
	Overview        Overview         `json:"overview"`
	StatusStats     StatusStats      `json:"statusStats"`
	MonthlyStats    []MonthlyStat    `json:"monthlyStats"`
	PopularServices []PopularService `json:"popularServices"`
	ActiveExperts   []ActiveExpert   `json:"activeExperts"`
}
