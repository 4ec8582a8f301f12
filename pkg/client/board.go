package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/timeliness-app/taskboard-backend/pkg/logger"
	"github.com/timeliness-app/taskboard-backend/pkg/tasks"
	"github.com/timeliness-app/taskboard-backend/pkg/users"
)

type actionKind int

const (
	// actionApply runs a pure function over the list: optimistic updates, reconciliation and loads
	actionApply actionKind = iota
	// actionRollback restores the entry of one task from a snapshot taken before an optimistic update
	actionRollback
)

type action struct {
	kind     actionKind
	apply    func(list []tasks.Task) []tasks.Task
	snapshot []tasks.Task
	taskID   string
}

// Board mirrors the server's task list and updates it optimistically.
//
// A mutation is applied locally before the request is sent. A successful response replaces the local
// task entirely, a failure restores the task as it was before the mutation. Mutations on different tasks
// never touch each other. Two in-flight mutations on the same task can roll back each other: if the
// first fails after the second succeeded, the rollback also discards the second one until the next Load.
//
// The web dashboard restores its whole list on failure. Board narrows that to the mutated task so a
// failure never reverts a concurrent success on another task.
type Board struct {
	Backend Backend
	Logger  logger.Interface
	Now     func() time.Time

	mu        sync.Mutex
	tasks     []tasks.Task
	users     []users.User
	reporting []users.ReportingEdge
	pending   int
}

// NewBoard builds an empty Board
func NewBoard(backend Backend, log logger.Interface) *Board {
	return &Board{Backend: backend, Logger: log, Now: time.Now, tasks: []tasks.Task{}}
}

// dispatch is the only place where the list changes. It returns the list as it was before the action.
func (b *Board) dispatch(a action) []tasks.Task {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot := cloneTasks(b.tasks)

	switch a.kind {
	case actionApply:
		b.tasks = a.apply(cloneTasks(b.tasks))
	case actionRollback:
		b.tasks = restore(cloneTasks(b.tasks), a.snapshot, a.taskID)
	}

	return snapshot
}

// Load replaces the whole local state with the server's
func (b *Board) Load(ctx context.Context) error {
	bootstrap, err := b.Backend.Bootstrap(ctx)
	if err != nil {
		b.Logger.Error("could not load board", err)
		return err
	}

	b.mu.Lock()
	b.users = bootstrap.Users
	b.reporting = bootstrap.Reporting
	b.mu.Unlock()

	b.dispatch(action{kind: actionApply, apply: func([]tasks.Task) []tasks.Task {
		return cloneTasks(bootstrap.Tasks)
	}})
	return nil
}

// Tasks returns a copy of the local list
func (b *Board) Tasks() []tasks.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneTasks(b.tasks)
}

// Task returns a copy of a single local task
func (b *Board) Task(taskID string) (tasks.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, task := range b.tasks {
		if task.ID == taskID {
			return task.Clone(), true
		}
	}
	return tasks.Task{}, false
}

// Visible returns the local tasks viewer may see
func (b *Board) Visible(viewer *users.User) []tasks.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return cloneTasks(tasks.FilterByAssignees(b.tasks, users.Team(viewer, b.reporting)))
}

// Users returns the users loaded with the board
func (b *Board) Users() []users.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]users.User{}, b.users...)
}

// CreateTask waits for the server and appends the created task
func (b *Board) CreateTask(ctx context.Context, fields *tasks.TaskCreate) (*tasks.Task, error) {
	task, err := b.Backend.CreateTask(ctx, fields)
	if err != nil {
		b.Logger.Error("could not create task", err)
		return nil, err
	}

	created := task.Clone()
	b.dispatch(action{kind: actionApply, apply: func(list []tasks.Task) []tasks.Task {
		return append(list, created)
	}})
	return task, nil
}

// UpdateTask merges patch locally and reconciles with the server
func (b *Board) UpdateTask(ctx context.Context, taskID string, patch *tasks.TaskPatch) (*tasks.Task, error) {
	return b.mutate(ctx, "update task", taskID, func(task *tasks.Task) {
		patch.ApplyTo(task)
	}, func(ctx context.Context) (*tasks.Task, error) {
		return b.Backend.UpdateTask(ctx, taskID, patch)
	})
}

// DeleteTask removes the task locally and on the server
func (b *Board) DeleteTask(ctx context.Context, taskID string) error {
	snapshot := b.dispatch(action{kind: actionApply, apply: func(list []tasks.Task) []tasks.Task {
		kept := list[:0]
		for _, task := range list {
			if task.ID != taskID {
				kept = append(kept, task)
			}
		}
		return kept
	}})

	err := b.Backend.DeleteTask(ctx, taskID)
	if err != nil {
		b.Logger.Error(fmt.Sprintf("could not delete task %s", taskID), err)
		b.dispatch(action{kind: actionRollback, snapshot: snapshot, taskID: taskID})
		return err
	}

	return nil
}

// AddRemark appends a pending remark locally and reconciles with the server
func (b *Board) AddRemark(ctx context.Context, taskID string, text string) (*tasks.Task, error) {
	remark := tasks.Remark{ID: b.pendingID("rem"), TaskID: taskID, Text: text, CreatedAt: b.Now()}

	return b.mutate(ctx, "add remark", taskID, func(task *tasks.Task) {
		task.Remarks = append(task.Remarks, remark)
	}, func(ctx context.Context) (*tasks.Task, error) {
		return b.Backend.AddRemark(ctx, taskID, text)
	})
}

// StartTimer appends a pending running work log locally and reconciles with the server
func (b *Board) StartTimer(ctx context.Context, taskID string) (*tasks.Task, error) {
	log := tasks.WorkLog{ID: b.pendingID("wl"), TaskID: taskID, StartTime: b.Now()}

	return b.mutate(ctx, "start timer", taskID, func(task *tasks.Task) {
		if task.RunningWorkLog() == nil {
			task.WorkLogs = append(task.WorkLogs, log)
		}
	}, func(ctx context.Context) (*tasks.Task, error) {
		return b.Backend.StartTimer(ctx, taskID)
	})
}

// StopTimer closes the running work log locally and reconciles with the server
func (b *Board) StopTimer(ctx context.Context, taskID string) (*tasks.Task, error) {
	end := b.Now()

	return b.mutate(ctx, "stop timer", taskID, func(task *tasks.Task) {
		if running := task.RunningWorkLog(); running != nil {
			running.EndTime = &end
		}
	}, func(ctx context.Context) (*tasks.Task, error) {
		return b.Backend.StopTimer(ctx, taskID)
	})
}

func (b *Board) mutate(ctx context.Context, name string, taskID string, optimistic func(task *tasks.Task),
	call func(ctx context.Context) (*tasks.Task, error)) (*tasks.Task, error) {
	snapshot := b.dispatch(action{kind: actionApply, apply: func(list []tasks.Task) []tasks.Task {
		for i := range list {
			if list[i].ID == taskID {
				optimistic(&list[i])
			}
		}
		return list
	}})

	task, err := call(ctx)
	if err != nil {
		b.Logger.Error(fmt.Sprintf("could not %s on task %s", name, taskID), err)
		b.dispatch(action{kind: actionRollback, snapshot: snapshot, taskID: taskID})
		return nil, err
	}

	reconciled := task.Clone()
	b.dispatch(action{kind: actionApply, apply: func(list []tasks.Task) []tasks.Task {
		for i := range list {
			if list[i].ID == reconciled.ID {
				list[i] = reconciled
			}
		}
		return list
	}})

	return task, nil
}

func (b *Board) pendingID(prefix string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending++
	return fmt.Sprintf("pending-%s-%d", prefix, b.pending)
}

// restore puts the snapshot entry of taskID back into list, a deleted task returns to its old index
func restore(list []tasks.Task, snapshot []tasks.Task, taskID string) []tasks.Task {
	for index, task := range snapshot {
		if task.ID != taskID {
			continue
		}

		for i := range list {
			if list[i].ID == taskID {
				list[i] = task.Clone()
				return list
			}
		}

		if index > len(list) {
			index = len(list)
		}
		list = append(list, tasks.Task{})
		copy(list[index+1:], list[index:])
		list[index] = task.Clone()
		return list
	}

	return list
}

func cloneTasks(list []tasks.Task) []tasks.Task {
	cloned := make([]tasks.Task, len(list))
	for i, task := range list {
		cloned[i] = task.Clone()
	}
	return cloned
}
