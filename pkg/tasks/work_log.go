package tasks

import "time"

// WorkLog is a tracked working session on a task. A nil EndTime means the timer is still running.
type WorkLog struct {
	ID        string     `json:"id"`
	TaskID    string     `json:"taskId"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
}

// IsRunning reports whether the timer of this log was not stopped yet
func (w *WorkLog) IsRunning() bool {
	return w.EndTime == nil
}

// Duration returns the tracked time, running logs are measured up to now
func (w *WorkLog) Duration(now time.Time) time.Duration {
	end := now
	if w.EndTime != nil {
		end = *w.EndTime
	}

	if end.Before(w.StartTime) {
		return 0
	}
	return end.Sub(w.StartTime)
}

// Clone returns a copy that does not share EndTime
func (w WorkLog) Clone() WorkLog {
	if w.EndTime != nil {
		end := *w.EndTime
		w.EndTime = &end
	}
	return w
}

// Remark is a comment on a task
type Remark struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
