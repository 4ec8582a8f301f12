package tasks

import (
	"github.com/timeliness-app/taskboard-backend/pkg/sheet"
)

// Task columns
const (
	taskColumnID = iota
	taskColumnTitle
	taskColumnDescription
	taskColumnStatus
	taskColumnPriority
	taskColumnCreatedAt
	taskColumnAssigneeID
)

// WorkLog columns
const (
	workLogColumnID = iota
	workLogColumnTaskID
	workLogColumnStartTime
	workLogColumnEndTime
)

// Remark columns
const (
	remarkColumnID = iota
	remarkColumnTaskID
	remarkColumnText
	remarkColumnCreatedAt
)

// DecodeTask decodes a task row without its children
func DecodeTask(row sheet.Row) (Task, error) {
	d := sheet.NewDecoder(sheet.Tasks, row)
	task := Task{
		ID:          d.Required(taskColumnID),
		Title:       d.Required(taskColumnTitle),
		Description: d.Required(taskColumnDescription),
		Status:      Status(d.Required(taskColumnStatus)),
		Priority:    Priority(d.Required(taskColumnPriority)),
		CreatedAt:   d.Time(taskColumnCreatedAt),
		AssigneeID:  d.Required(taskColumnAssigneeID),
	}
	if d.Err() != nil {
		return Task{}, d.Err()
	}

	return task, nil
}

// EncodeTask encodes the task fields, children live in their own collections
func EncodeTask(task *Task) sheet.Row {
	return sheet.Row{
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		sheet.FormatTime(task.CreatedAt),
		task.AssigneeID,
	}
}

// DecodeWorkLog decodes a work log row, a missing or empty end time cell means the timer is running
func DecodeWorkLog(row sheet.Row) (WorkLog, error) {
	d := sheet.NewDecoder(sheet.WorkLogs, row)
	log := WorkLog{
		ID:        d.Required(workLogColumnID),
		TaskID:    d.Required(workLogColumnTaskID),
		StartTime: d.Time(workLogColumnStartTime),
		EndTime:   d.NullableTime(workLogColumnEndTime),
	}
	if d.Err() != nil {
		return WorkLog{}, d.Err()
	}

	return log, nil
}

// EncodeWorkLog encodes a work log
func EncodeWorkLog(log *WorkLog) sheet.Row {
	return sheet.Row{
		log.ID,
		log.TaskID,
		sheet.FormatTime(log.StartTime),
		sheet.FormatNullableTime(log.EndTime),
	}
}

// DecodeRemark decodes a remark row
func DecodeRemark(row sheet.Row) (Remark, error) {
	d := sheet.NewDecoder(sheet.Remarks, row)
	remark := Remark{
		ID:        d.Required(remarkColumnID),
		TaskID:    d.Required(remarkColumnTaskID),
		Text:      d.Required(remarkColumnText),
		CreatedAt: d.Time(remarkColumnCreatedAt),
	}
	if d.Err() != nil {
		return Remark{}, d.Err()
	}

	return remark, nil
}

// EncodeRemark encodes a remark
func EncodeRemark(remark *Remark) sheet.Row {
	return sheet.Row{
		remark.ID,
		remark.TaskID,
		remark.Text,
		sheet.FormatTime(remark.CreatedAt),
	}
}

// isRunningWorkLogOf matches the raw row of a running timer of taskID without decoding it
func isRunningWorkLogOf(taskID string) func(row sheet.Row) bool {
	return func(row sheet.Row) bool {
		return !row.IsTombstone() && row.Cell(workLogColumnTaskID) == taskID && row.Cell(workLogColumnEndTime) == ""
	}
}
