package tasks

import (
	"github.com/timeliness-app/taskboard-backend/pkg/sheet"
)

// Assemble joins task rows with their remark and work log rows.
// Children are grouped in one pass per collection and keep the order of their collection.
func Assemble(taskRows []sheet.Row, remarkRows []sheet.Row, workLogRows []sheet.Row) ([]Task, error) {
	remarksByTaskID := map[string][]Remark{}
	for _, row := range remarkRows {
		if row.IsTombstone() {
			continue
		}

		remark, err := DecodeRemark(row)
		if err != nil {
			return nil, err
		}
		remarksByTaskID[remark.TaskID] = append(remarksByTaskID[remark.TaskID], remark)
	}

	workLogsByTaskID := map[string][]WorkLog{}
	for _, row := range workLogRows {
		if row.IsTombstone() {
			continue
		}

		log, err := DecodeWorkLog(row)
		if err != nil {
			return nil, err
		}
		workLogsByTaskID[log.TaskID] = append(workLogsByTaskID[log.TaskID], log)
	}

	assembled := make([]Task, 0, len(taskRows))
	for _, row := range taskRows {
		if row.IsTombstone() {
			continue
		}

		task, err := DecodeTask(row)
		if err != nil {
			return nil, err
		}

		task.Remarks = remarksByTaskID[task.ID]
		if task.Remarks == nil {
			task.Remarks = []Remark{}
		}
		task.WorkLogs = workLogsByTaskID[task.ID]
		if task.WorkLogs == nil {
			task.WorkLogs = []WorkLog{}
		}

		assembled = append(assembled, task)
	}

	return assembled, nil
}
