package tasks

import (
	"reflect"
	"testing"
	"time"
)

func TestAnalyze(t *testing.T) {
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)
	stopped := now.Add(-2 * time.Hour)

	all := []Task{
		{ID: "a", Status: StatusToDo, Priority: PriorityHigh, CreatedAt: now.Add(-10 * 24 * time.Hour)},
		{ID: "b", Status: StatusToDo, Priority: PriorityLow, CreatedAt: now.Add(-time.Hour)},
		{ID: "c", Status: StatusCompleted, Priority: PriorityHigh, CreatedAt: now.Add(-30 * 24 * time.Hour),
			WorkLogs: []WorkLog{{StartTime: now.Add(-3 * time.Hour), EndTime: &stopped}}},
		{ID: "d", Status: StatusInProgress, Priority: PriorityMedium, CreatedAt: now.Add(-time.Hour),
			WorkLogs: []WorkLog{{StartTime: now.Add(-30 * time.Minute)}}},
	}

	got := Analyze(all, now)

	want := Analysis{
		TotalTasks:     4,
		CompletedTasks: 1,
		OverdueTasks:   1,
		TrackedTime:    90 * time.Minute,
		RunningTimers:  1,
		ByStatus: map[Status]int{
			StatusToDo: 2, StatusInProgress: 1, StatusOnHold: 0, StatusDone: 0, StatusCompleted: 1,
		},
		ByPriority: map[Priority]int{PriorityLow: 1, PriorityMedium: 1, PriorityHigh: 2},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Analyze() got = %+v, want %+v", got, want)
	}
}

func TestAnalyze_Empty(t *testing.T) {
	got := Analyze(nil, time.Now())
	if got.TotalTasks != 0 || len(got.ByStatus) != len(Statuses) || len(got.ByPriority) != len(Priorities) {
		t.Errorf("Analyze() got = %+v", got)
	}
}

func TestFilterByAssignees(t *testing.T) {
	all := []Task{{ID: "a", AssigneeID: "u1"}, {ID: "b", AssigneeID: "u2"}, {ID: "c", AssigneeID: "u1"}}

	tests := []struct {
		name      string
		assignees map[string]bool
		want      []string
	}{
		{name: "single", assignees: map[string]bool{"u1": true}, want: []string{"a", "c"}},
		{name: "team", assignees: map[string]bool{"u1": true, "u2": true}, want: []string{"a", "b", "c"}},
		{name: "nobody", assignees: map[string]bool{"u9": true}, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ids(FilterByAssignees(all, tt.assignees)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterByAssignees() got = %v, want %v", got, tt.want)
			}
		})
	}
}
