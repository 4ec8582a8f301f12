package tasks

import (
	"time"
)

// Status is the board column of a task
type Status string

const (
	// StatusToDo is the initial status
	StatusToDo Status = "To Do"
	// StatusInProgress means somebody works on the task
	StatusInProgress Status = "In Progress"
	// StatusOnHold means the task is paused
	StatusOnHold Status = "On Hold"
	// StatusDone locks the task
	StatusDone Status = "Done"
	// StatusCompleted locks the task
	StatusCompleted Status = "Completed"
)

// Statuses lists all statuses in board order
var Statuses = []Status{StatusToDo, StatusInProgress, StatusOnHold, StatusDone, StatusCompleted}

// IsValid reports whether s is one of Statuses
func (s Status) IsValid() bool {
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a task with this status is locked
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusCompleted
}

// Priority of a task
type Priority string

const (
	// PriorityLow is the lowest priority
	PriorityLow Priority = "Low"
	// PriorityMedium is the default priority
	PriorityMedium Priority = "Medium"
	// PriorityHigh is the highest priority
	PriorityHigh Priority = "High"
)

// Priorities lists all priorities from low to high
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// IsValid reports whether p is one of Priorities
func (p Priority) IsValid() bool {
	for _, priority := range Priorities {
		if p == priority {
			return true
		}
	}
	return false
}

// Task is the model for a task
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	CreatedAt   time.Time `json:"createdAt"`
	AssigneeID  string    `json:"assigneeId"`

	Remarks  []Remark  `json:"remarks"`
	WorkLogs []WorkLog `json:"workLogs"`
}

// IsLocked reports whether the task accepts no more mutations
func (t *Task) IsLocked() bool {
	return t.Status.IsTerminal()
}

// RunningWorkLog returns the first running work log or nil
func (t *Task) RunningWorkLog() *WorkLog {
	for i := range t.WorkLogs {
		if t.WorkLogs[i].IsRunning() {
			return &t.WorkLogs[i]
		}
	}
	return nil
}

// Clone returns a deep copy
func (t Task) Clone() Task {
	clone := t
	clone.Remarks = append([]Remark{}, t.Remarks...)
	clone.WorkLogs = make([]WorkLog, len(t.WorkLogs))
	for i, log := range t.WorkLogs {
		clone.WorkLogs[i] = log.Clone()
	}
	return clone
}

// TaskCreate is the view of a task for creation
type TaskCreate struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Status      Status   `json:"status" validate:"required,taskstatus"`
	Priority    Priority `json:"priority" validate:"required,taskpriority"`
	AssigneeID  string   `json:"assigneeId" validate:"required"`
}

// TaskPatch is the view of a task for a partial update, nil fields stay untouched
type TaskPatch struct {
	Title       *string   `json:"title,omitempty" validate:"omitempty,min=1"`
	Description *string   `json:"description,omitempty"`
	Status      *Status   `json:"status,omitempty" validate:"omitempty,taskstatus"`
	Priority    *Priority `json:"priority,omitempty" validate:"omitempty,taskpriority"`
	AssigneeID  *string   `json:"assigneeId,omitempty" validate:"omitempty,min=1"`
}

// IsEmpty reports whether the patch changes nothing
func (p *TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil && p.Priority == nil && p.AssigneeID == nil
}

// ApplyTo merges the patch into a task
func (p *TaskPatch) ApplyTo(task *Task) {
	if p.Title != nil {
		task.Title = *p.Title
	}
	if p.Description != nil {
		task.Description = *p.Description
	}
	if p.Status != nil {
		task.Status = *p.Status
	}
	if p.Priority != nil {
		task.Priority = *p.Priority
	}
	if p.AssigneeID != nil {
		task.AssigneeID = *p.AssigneeID
	}
}
