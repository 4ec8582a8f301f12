package tasks

import "github.com/pkg/errors"

// ErrTaskLocked is returned when a task in a terminal status is mutated
var ErrTaskLocked = errors.New("task is locked")

// ErrTimerAlreadyRunning is returned when a timer is started on a task that already has a running work log
var ErrTimerAlreadyRunning = errors.New("timer already running")

// ErrNoRunningTimer is returned when a timer is stopped on a task without a running work log
var ErrNoRunningTimer = errors.New("no running timer found for this task")

// ErrConflict is returned when another request holds the task for too long
var ErrConflict = errors.New("task is being modified by another request")
