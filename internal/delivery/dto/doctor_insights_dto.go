package dto

type DoctorDashboardResponse struct {
	Date          string                `json:"date"`
	Today         []AppointmentResponse `json:"today"`
	TodayCount    int                   `json:"today_count"`
	UpcomingCount int                   `json:"upcoming_count"`
	StatusCounts  map[string]int64      `json:"status_counts"`
}

type MonthlyCount struct {
	Month     string `json:"month"` // YYYY-MM
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Cancelled int    `json:"cancelled"`
}

type HourCount struct {
	Hour  string `json:"hour"` // HH:00
	Count int    `json:"count"`
}

type AgeBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type DoctorAnalyticsResponse struct {
	TotalAppointments int64          `json:"total_appointments"`
	Completed         int64          `json:"completed"`
	Cancelled         int64          `json:"cancelled"`
	NoShow            int64          `json:"no_show"`
	CompletionRate    float64        `json:"completion_rate"`
	CancellationRate  float64        `json:"cancellation_rate"`
	UniquePatients    int            `json:"unique_patients"`
	Monthly           []MonthlyCount `json:"monthly"`
	PopularHours      []HourCount    `json:"popular_hours"`
	AgeDistribution   []AgeBucket    `json:"age_distribution"`
}
