package models

// Productivity summarizes the workload spread across the week
type Productivity struct {
	TotalTasks      int     `json:"total_tasks"`
	CompletedTasks  int     `json:"completed_tasks"`
	BusiestDay      string  `json:"busiest_day"`
	BusiestDayCount int     `json:"busiest_day_count"`
	AvgTasksPerDay  float64 `json:"avg_tasks_per_day"`
	Recommendation  string  `json:"recommendation"`
}
