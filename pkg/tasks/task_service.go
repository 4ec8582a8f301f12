package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/timeliness-app/taskboard-backend/pkg/locking"
	"github.com/timeliness-app/taskboard-backend/pkg/logger"
	"github.com/timeliness-app/taskboard-backend/pkg/sheet"
	"golang.org/x/sync/errgroup"
)

// lockTTL bounds how long a crashed request can block a task
const lockTTL = 30 * time.Second

// TaskServiceInterface is the interface for a *TaskService
type TaskServiceInterface interface {
	Create(ctx context.Context, fields *TaskCreate) (*Task, error)
	Update(ctx context.Context, taskID string, patch *TaskPatch) (*Task, error)
	Delete(ctx context.Context, taskID string) error
	AddRemark(ctx context.Context, taskID string, text string) (*Task, error)
	StartTimer(ctx context.Context, taskID string) (*Task, error)
	StopTimer(ctx context.Context, taskID string) (*Task, error)
	FindAll(ctx context.Context) ([]Task, error)
	FindByID(ctx context.Context, taskID string) (*Task, error)
}

// TaskService keeps tasks, remarks and work logs consistent on top of a row store.
// Every check-then-write sequence on a task runs while holding the task's lock.
type TaskService struct {
	Tasks    *sheet.Table
	Remarks  *sheet.Table
	WorkLogs *sheet.Table
	Locker   locking.LockerInterface
	Logger   logger.Interface

	// Now is the clock, overridable in tests
	Now func() time.Time
	// NewID generates identifiers, overridable in tests
	NewID func(prefix string) string
}

// NewTaskService builds a TaskService on top of store
func NewTaskService(store sheet.Store, locker locking.LockerInterface, log logger.Interface) *TaskService {
	return &TaskService{
		Tasks:    sheet.NewTable(store, sheet.Tasks),
		Remarks:  sheet.NewTable(store, sheet.Remarks),
		WorkLogs: sheet.NewTable(store, sheet.WorkLogs),
		Locker:   locker,
		Logger:   log,
		Now:      time.Now,
		NewID:    NewID,
	}
}

// NewID generates a prefixed random identifier
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Create appends a new task. Validation of the fields is up to the caller.
func (s *TaskService) Create(ctx context.Context, fields *TaskCreate) (*Task, error) {
	task := Task{
		ID:          s.NewID("task"),
		Title:       fields.Title,
		Description: fields.Description,
		Status:      fields.Status,
		Priority:    fields.Priority,
		CreatedAt:   s.now(),
		AssigneeID:  fields.AssigneeID,
		Remarks:     []Remark{},
		WorkLogs:    []WorkLog{},
	}

	err := s.Tasks.Append(ctx, EncodeTask(&task))
	if err != nil {
		return nil, errors.Wrap(err, "could not append task")
	}

	s.Logger.Debug(fmt.Sprintf("created task %s", task.ID))

	return &task, nil
}

// Update writes every field present in patch, one cell per field, and returns the re-read task.
// Moving a task into a terminal status stops its running timer first.
func (s *TaskService) Update(ctx context.Context, taskID string, patch *TaskPatch) (*Task, error) {
	err := s.withTaskLock(ctx, taskID, func() error {
		row, position, err := s.Tasks.Find(ctx, taskID)
		if err != nil {
			return errors.Wrap(err, "task")
		}

		current, err := DecodeTask(row)
		if err != nil {
			return err
		}

		if current.IsLocked() {
			return errors.Wrapf(ErrTaskLocked, "task %s is %s", taskID, current.Status)
		}

		if patch.Status != nil && patch.Status.IsTerminal() {
			err = s.stopRunningWorkLogs(ctx, taskID)
			if err != nil {
				return err
			}
		}

		for _, field := range patchCells(patch) {
			err = s.Tasks.UpdateAt(ctx, position, field.column, field.value)
			if err != nil {
				return errors.Wrapf(err, "could not update column %d of task %s", field.column, taskID)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.FindByID(ctx, taskID)
}

// Delete clears the task row. Remarks and work logs stay in the store as an audit trail.
func (s *TaskService) Delete(ctx context.Context, taskID string) error {
	return s.withTaskLock(ctx, taskID, func() error {
		err := s.Tasks.Clear(ctx, taskID)
		if err != nil {
			return errors.Wrap(err, "could not delete task")
		}

		s.Logger.Debug(fmt.Sprintf("deleted task %s", taskID))
		return nil
	})
}

// AddRemark appends a remark to an unlocked task
func (s *TaskService) AddRemark(ctx context.Context, taskID string, text string) (*Task, error) {
	err := s.withTaskLock(ctx, taskID, func() error {
		err := s.ensureUnlocked(ctx, taskID)
		if err != nil {
			return err
		}

		remark := Remark{
			ID:        s.NewID("rem"),
			TaskID:    taskID,
			Text:      text,
			CreatedAt: s.now(),
		}

		return errors.Wrap(s.Remarks.Append(ctx, EncodeRemark(&remark)), "could not append remark")
	})
	if err != nil {
		return nil, err
	}

	return s.FindByID(ctx, taskID)
}

// StartTimer appends a running work log unless the task already has one
func (s *TaskService) StartTimer(ctx context.Context, taskID string) (*Task, error) {
	err := s.withTaskLock(ctx, taskID, func() error {
		err := s.ensureUnlocked(ctx, taskID)
		if err != nil {
			return err
		}

		_, _, err = s.WorkLogs.FindFunc(ctx, isRunningWorkLogOf(taskID))
		if err == nil {
			return errors.Wrapf(ErrTimerAlreadyRunning, "task %s", taskID)
		}
		if !errors.Is(err, sheet.ErrNotFound) {
			return err
		}

		log := WorkLog{
			ID:        s.NewID("wl"),
			TaskID:    taskID,
			StartTime: s.now(),
		}

		return errors.Wrap(s.WorkLogs.Append(ctx, EncodeWorkLog(&log)), "could not append work log")
	})
	if err != nil {
		return nil, err
	}

	return s.FindByID(ctx, taskID)
}

// StopTimer sets the end time of the first running work log of the task
func (s *TaskService) StopTimer(ctx context.Context, taskID string) (*Task, error) {
	err := s.withTaskLock(ctx, taskID, func() error {
		err := s.ensureUnlocked(ctx, taskID)
		if err != nil {
			return err
		}

		_, position, err := s.WorkLogs.FindFunc(ctx, isRunningWorkLogOf(taskID))
		if errors.Is(err, sheet.ErrNotFound) {
			return errors.Wrapf(ErrNoRunningTimer, "task %s", taskID)
		}
		if err != nil {
			return err
		}

		end := sheet.FormatTime(s.now())
		return errors.Wrap(s.WorkLogs.UpdateAt(ctx, position, workLogColumnEndTime, end), "could not stop work log")
	})
	if err != nil {
		return nil, err
	}

	return s.FindByID(ctx, taskID)
}

// FindAll reads the three collections concurrently and assembles all tasks
func (s *TaskService) FindAll(ctx context.Context) ([]Task, error) {
	var taskRows, remarkRows, workLogRows []sheet.Row

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		taskRows, err = s.Tasks.Rows(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		remarkRows, err = s.Remarks.Rows(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		workLogRows, err = s.WorkLogs.Rows(groupCtx)
		return err
	})

	err := group.Wait()
	if err != nil {
		return nil, err
	}

	return Assemble(taskRows, remarkRows, workLogRows)
}

// FindByID re-reads everything and returns the assembled task
func (s *TaskService) FindByID(ctx context.Context, taskID string) (*Task, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range all {
		if all[i].ID == taskID {
			return &all[i], nil
		}
	}

	return nil, errors.Wrapf(sheet.ErrNotFound, "task %s", taskID)
}

func (s *TaskService) ensureUnlocked(ctx context.Context, taskID string) error {
	row, err := s.Tasks.Get(ctx, taskID)
	if err != nil {
		return err
	}

	task, err := DecodeTask(row)
	if err != nil {
		return err
	}

	if task.IsLocked() {
		return errors.Wrapf(ErrTaskLocked, "task %s is %s", taskID, task.Status)
	}

	return nil
}

func (s *TaskService) stopRunningWorkLogs(ctx context.Context, taskID string) error {
	rows, err := s.WorkLogs.Rows(ctx)
	if err != nil {
		return err
	}

	running := isRunningWorkLogOf(taskID)
	end := sheet.FormatTime(s.now())
	for _, row := range rows {
		if !running(row) {
			continue
		}

		err = s.WorkLogs.UpdateField(ctx, row.ID(), workLogColumnEndTime, end)
		if err != nil {
			return errors.Wrap(err, "could not stop work log")
		}
	}

	return nil
}

func (s *TaskService) withTaskLock(ctx context.Context, taskID string, fn func() error) error {
	lock, err := s.Locker.Acquire(ctx, "task:"+taskID, lockTTL)
	if errors.Is(err, locking.ErrNotObtained) {
		return errors.Wrapf(ErrConflict, "task %s", taskID)
	}
	if err != nil {
		return errors.Wrap(err, "could not acquire task lock")
	}

	defer func() {
		err := lock.Release(context.Background())
		if err != nil {
			s.Logger.Error(fmt.Sprintf("could not release lock %s", lock.Key()), err)
		}
	}()

	return fn()
}

// now returns the current time with the precision of a cell
func (s *TaskService) now() time.Time {
	return s.Now().UTC().Truncate(time.Millisecond)
}

type cellWrite struct {
	column int
	value  string
}

// patchCells lists the cell writes of a patch with the status written last
func patchCells(patch *TaskPatch) []cellWrite {
	var writes []cellWrite
	if patch.Title != nil {
		writes = append(writes, cellWrite{taskColumnTitle, *patch.Title})
	}
	if patch.Description != nil {
		writes = append(writes, cellWrite{taskColumnDescription, *patch.Description})
	}
	if patch.Priority != nil {
		writes = append(writes, cellWrite{taskColumnPriority, string(*patch.Priority)})
	}
	if patch.AssigneeID != nil {
		writes = append(writes, cellWrite{taskColumnAssigneeID, *patch.AssigneeID})
	}
	if patch.Status != nil {
		writes = append(writes, cellWrite{taskColumnStatus, string(*patch.Status)})
	}
	return writes
}
