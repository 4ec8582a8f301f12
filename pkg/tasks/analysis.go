package tasks

import "time"

// overdueAfter is how long a task may stay in To Do before it counts as overdue
const overdueAfter = 7 * 24 * time.Hour

// Analysis summarizes a set of tasks
type Analysis struct {
	TotalTasks     int              `json:"totalTasks"`
	CompletedTasks int              `json:"completedTasks"`
	OverdueTasks   int              `json:"overdueTasks"`
	TrackedTime    time.Duration    `json:"trackedTime"`
	RunningTimers  int              `json:"runningTimers"`
	ByStatus       map[Status]int   `json:"byStatus"`
	ByPriority     map[Priority]int `json:"byPriority"`
}

// Analyze computes an Analysis at now
func Analyze(tasks []Task, now time.Time) Analysis {
	analysis := Analysis{
		TotalTasks: len(tasks),
		ByStatus:   map[Status]int{},
		ByPriority: map[Priority]int{},
	}

	for _, status := range Statuses {
		analysis.ByStatus[status] = 0
	}
	for _, priority := range Priorities {
		analysis.ByPriority[priority] = 0
	}

	for _, task := range tasks {
		analysis.ByStatus[task.Status]++
		analysis.ByPriority[task.Priority]++

		if task.Status == StatusCompleted {
			analysis.CompletedTasks++
		}

		if task.Status == StatusToDo && now.Sub(task.CreatedAt) > overdueAfter {
			analysis.OverdueTasks++
		}

		for i := range task.WorkLogs {
			if task.WorkLogs[i].IsRunning() {
				analysis.RunningTimers++
			}
			analysis.TrackedTime += task.WorkLogs[i].Duration(now)
		}
	}

	return analysis
}

// FilterByAssignees keeps the tasks assigned to one of the ids, order is preserved
func FilterByAssignees(tasks []Task, assignees map[string]bool) []Task {
	filtered := []Task{}
	for _, task := range tasks {
		if assignees[task.AssigneeID] {
			filtered = append(filtered, task)
		}
	}
	return filtered
}
