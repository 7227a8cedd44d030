package services

import (
	"context"
	"endify/models"
	"fmt"
	"time"
)

// busyThreshold is the task count above which a weekday is considered overloaded
const busyThreshold = 3

// Productivity computes workload statistics over every stored task
func (ts *TaskService) Productivity(ctx context.Context) (models.Productivity, error) {
	tasks, err := ts.store.ListTasks(ctx)
	if err != nil {
		return models.Productivity{}, err
	}
	return ComputeProductivity(tasks), nil
}

// ComputeProductivity summarizes tasks by completion and due weekday.
// On equal counts the later weekday wins; with no tasks the busiest day
// is Sunday with a count of zero.
func ComputeProductivity(tasks []models.Task) models.Productivity {
	var counts [7]int
	completed := 0

	for _, task := range tasks {
		if task.Completed {
			completed++
		}
		day, err := task.Weekday()
		if err != nil {
			continue
		}
		counts[day]++
	}

	busiest, busiestCount := time.Sunday, 0
	for day := time.Sunday; day <= time.Saturday; day++ {
		if counts[day] > 0 && counts[day] >= busiestCount {
			busiest, busiestCount = day, counts[day]
		}
	}

	recommendation := "Your workload is well distributed!"
	if busiestCount > busyThreshold {
		recommendation = fmt.Sprintf("Consider moving some tasks from %s to lighter days.", busiest)
	}

	return models.Productivity{
		TotalTasks:      len(tasks),
		CompletedTasks:  completed,
		BusiestDay:      busiest.String(),
		BusiestDayCount: busiestCount,
		AvgTasksPerDay:  float64(len(tasks)) / 7,
		Recommendation:  recommendation,
	}
}
