package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/timeliness-app/taskboard-backend/pkg/communication"
	"github.com/timeliness-app/taskboard-backend/pkg/describe"
	"github.com/timeliness-app/taskboard-backend/pkg/locking"
	"github.com/timeliness-app/taskboard-backend/pkg/logger"
	"github.com/timeliness-app/taskboard-backend/pkg/sheet"
	"github.com/timeliness-app/taskboard-backend/pkg/tasks"
	"github.com/timeliness-app/taskboard-backend/pkg/users"
)

var testLogger = logger.Discard{}

func newTestServer(t *testing.T) (*API, *sheet.MemoryStore) {
	t.Helper()

	store := sheet.NewMemoryStore()
	store.Seed(sheet.Users,
		sheet.Row{"u1", "alice", "secret", "Alice", "Admin"},
		sheet.Row{"u2", "bob", "secret", "Bob", "User"},
	)
	store.Seed(sheet.Reporting, sheet.Row{"rep-1", "u2", "u1"})

	handler := tasks.Handler{
		TaskService:     tasks.NewTaskService(store, locking.NewLockerMemory(), testLogger),
		UserRepository:  users.NewUserRepository(store, nil, testLogger),
		Describer:       &describe.Fallback{Generator: describe.Disabled{}, Logger: testLogger},
		Logger:          testLogger,
		ResponseManager: &communication.ResponseManager{Logger: testLogger},
		Validator:       tasks.NewValidator(),
	}
	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return NewAPI(server.URL), store
}

func status(s tasks.Status) *tasks.TaskPatch {
	return &tasks.TaskPatch{Status: &s}
}

func TestBoard_RollbackOnStoreFailure(t *testing.T) {
	api, store := newTestServer(t)
	board := NewBoard(api, testLogger)
	ctx := context.Background()

	err := board.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}

	task, err := board.CreateTask(ctx, &tasks.TaskCreate{
		Title: "Write docs", Status: tasks.StatusToDo, Priority: tasks.PriorityHigh, AssigneeID: "u2",
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = board.UpdateTask(ctx, task.ID, status(tasks.StatusInProgress))
	if err != nil {
		t.Fatal(err)
	}
	_, err = board.AddRemark(ctx, task.ID, "started")
	if err != nil {
		t.Fatal(err)
	}
	before := board.Tasks()

	store.SetFailure(errors.New("quota exceeded"))

	_, err = board.UpdateTask(ctx, task.ID, status(tasks.StatusDone))
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("UpdateTask() error = %v, want a 500 APIError", err)
	}

	got, ok := board.Task(task.ID)
	if !ok {
		t.Fatal("Task() lost the task after rollback")
	}
	if got.Status != tasks.StatusInProgress {
		t.Errorf("Task() status after rollback = %v, want In Progress", got.Status)
	}

	after := board.Tasks()
	if len(after) != len(before) || len(after[0].Remarks) != len(before[0].Remarks) {
		t.Errorf("Tasks() after rollback = %+v, want %+v", after, before)
	}
}

func TestBoard_ReconcileReplacesLocalTask(t *testing.T) {
	api, _ := newTestServer(t)
	board := NewBoard(api, testLogger)
	ctx := context.Background()

	task, err := board.CreateTask(ctx, &tasks.TaskCreate{
		Title: "Track time", Status: tasks.StatusInProgress, Priority: tasks.PriorityLow, AssigneeID: "u1",
	})
	if err != nil {
		t.Fatal(err)
	}

	_, err = board.AddRemark(ctx, task.ID, "first")
	if err != nil {
		t.Fatal(err)
	}
	got, _ := board.Task(task.ID)
	if len(got.Remarks) != 1 || got.Remarks[0].ID == "" || strings.HasPrefix(got.Remarks[0].ID, "pending-") {
		t.Errorf("AddRemark() remarks = %+v, want the server remark", got.Remarks)
	}

	_, err = board.StartTimer(ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	_, err = board.StartTimer(ctx, task.ID)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict {
		t.Errorf("StartTimer() twice error = %v, want a 409 APIError", err)
	}

	got, _ = board.Task(task.ID)
	if len(got.WorkLogs) != 1 || got.WorkLogs[0].EndTime != nil {
		t.Fatalf("StartTimer() work logs = %+v, want one running", got.WorkLogs)
	}

	_, err = board.StopTimer(ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	got, _ = board.Task(task.ID)
	if got.RunningWorkLog() != nil {
		t.Errorf("StopTimer() left a running work log")
	}

	err = board.DeleteTask(ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(board.Tasks()) != 0 {
		t.Errorf("DeleteTask() tasks = %v, want none", board.Tasks())
	}

	err = board.DeleteTask(ctx, task.ID)
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Errorf("DeleteTask() twice error = %v, want a 404 APIError", err)
	}
}

func TestBoard_Visible(t *testing.T) {
	api, _ := newTestServer(t)
	board := NewBoard(api, testLogger)
	ctx := context.Background()

	for _, assignee := range []string{"u1", "u2", "u3"} {
		_, err := api.CreateTask(ctx, &tasks.TaskCreate{
			Title: "task of " + assignee, Status: tasks.StatusToDo, Priority: tasks.PriorityMedium, AssigneeID: assignee,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	err := board.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}

	admin := users.User{ID: "u1", Role: users.RoleAdmin}
	if got := board.Visible(&admin); len(got) != 2 {
		t.Errorf("Visible() for an admin got %d tasks, want 2", len(got))
	}

	user := users.User{ID: "u2", Role: users.RoleUser}
	if got := board.Visible(&user); len(got) != 1 {
		t.Errorf("Visible() for a user got %d tasks, want 1", len(got))
	}

	if len(board.Users()) != 2 {
		t.Errorf("Users() got %d, want 2", len(board.Users()))
	}
}

// gatedBackend blocks every mutation until the test releases it
type gatedBackend struct {
	Backend
	gate   chan struct{}
	result error
	task   *tasks.Task
}

func (b *gatedBackend) UpdateTask(context.Context, string, *tasks.TaskPatch) (*tasks.Task, error) {
	<-b.gate
	return b.task, b.result
}

func (b *gatedBackend) StopTimer(context.Context, string) (*tasks.Task, error) {
	<-b.gate
	return b.task, b.result
}

func TestBoard_OptimisticUpdate(t *testing.T) {
	tests := []struct {
		name       string
		result     error
		wantStatus tasks.Status
	}{
		{name: "success keeps the server task", wantStatus: tasks.StatusOnHold},
		{name: "failure restores the snapshot", result: errors.New("offline"), wantStatus: tasks.StatusToDo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := tasks.Task{ID: "task-1", Status: tasks.StatusOnHold, Remarks: []tasks.Remark{}, WorkLogs: []tasks.WorkLog{}}
			backend := &gatedBackend{gate: make(chan struct{}), result: tt.result, task: &server}
			board := NewBoard(backend, testLogger)
			board.dispatch(action{kind: actionApply, apply: func([]tasks.Task) []tasks.Task {
				return []tasks.Task{{ID: "task-1", Status: tasks.StatusToDo}}
			}})

			done := make(chan struct{})
			go func() {
				defer close(done)
				_, _ = board.UpdateTask(context.Background(), "task-1", status(tasks.StatusInProgress))
			}()

			backend.gate <- struct{}{}
			<-done

			got, _ := board.Task("task-1")
			if got.Status != tt.wantStatus {
				t.Errorf("Task() status = %v, want %v", got.Status, tt.wantStatus)
			}
		})
	}
}

func TestBoard_OptimisticStateIsVisibleInFlight(t *testing.T) {
	server := tasks.Task{ID: "task-1", Status: tasks.StatusInProgress, Remarks: []tasks.Remark{}, WorkLogs: []tasks.WorkLog{}}
	backend := &gatedBackend{gate: make(chan struct{}), result: errors.New("offline"), task: &server}
	board := NewBoard(backend, testLogger)
	board.dispatch(action{kind: actionApply, apply: func([]tasks.Task) []tasks.Task {
		return []tasks.Task{{ID: "task-1", Status: tasks.StatusInProgress, WorkLogs: []tasks.WorkLog{{ID: "wl-1", TaskID: "task-1"}}}}
	}})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = board.StopTimer(context.Background(), "task-1")
	}()

	// wait until the optimistic change landed, the backend is still blocked
	for {
		got, _ := board.Task("task-1")
		if got.RunningWorkLog() == nil {
			break
		}
		time.Sleep(time.Millisecond)
	}

	backend.gate <- struct{}{}
	<-done

	got, _ := board.Task("task-1")
	if got.RunningWorkLog() == nil {
		t.Errorf("StopTimer() failure did not restore the running work log")
	}
}

// instantUpdateBackend answers updates right away while stopping timers stays gated
type instantUpdateBackend struct {
	*gatedBackend
	updated tasks.Task
}

func (b *instantUpdateBackend) UpdateTask(context.Context, string, *tasks.TaskPatch) (*tasks.Task, error) {
	updated := b.updated
	return &updated, nil
}

func TestBoard_RollbackLeavesOtherTasks(t *testing.T) {
	backend := &instantUpdateBackend{
		gatedBackend: &gatedBackend{gate: make(chan struct{}), result: errors.New("offline")},
		updated:      tasks.Task{ID: "task-2", Status: tasks.StatusOnHold, Remarks: []tasks.Remark{}, WorkLogs: []tasks.WorkLog{}},
	}
	board := NewBoard(backend, testLogger)
	board.dispatch(action{kind: actionApply, apply: func([]tasks.Task) []tasks.Task {
		return []tasks.Task{
			{ID: "task-1", Status: tasks.StatusInProgress, WorkLogs: []tasks.WorkLog{{ID: "wl-1", TaskID: "task-1"}}},
			{ID: "task-2", Status: tasks.StatusToDo},
		}
	}})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = board.StopTimer(context.Background(), "task-1")
	}()

	for {
		got, _ := board.Task("task-1")
		if got.RunningWorkLog() == nil {
			break
		}
		time.Sleep(time.Millisecond)
	}

	_, err := board.UpdateTask(context.Background(), "task-2", status(tasks.StatusOnHold))
	if err != nil {
		t.Fatal(err)
	}

	backend.gate <- struct{}{}
	<-done

	first, _ := board.Task("task-1")
	if first.RunningWorkLog() == nil {
		t.Errorf("StopTimer() failure did not restore task-1")
	}
	second, _ := board.Task("task-2")
	if second.Status != tasks.StatusOnHold {
		t.Errorf("StopTimer() failure on task-1 reverted task-2 to %v", second.Status)
	}
}

func TestRestore(t *testing.T) {
	snapshot := []tasks.Task{{ID: "a"}, {ID: "b", Title: "old"}, {ID: "c"}}

	tests := []struct {
		name   string
		list   []tasks.Task
		taskID string
		want   []string
	}{
		{name: "deleted task returns to its index", list: []tasks.Task{{ID: "a"}, {ID: "c"}}, taskID: "b", want: []string{"a", "b", "c"}},
		{name: "index past the end appends", list: []tasks.Task{}, taskID: "c", want: []string{"c"}},
		{name: "unknown task leaves the list", list: []tasks.Task{{ID: "a"}}, taskID: "x", want: []string{"a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := restore(tt.list, snapshot, tt.taskID)

			ids := []string{}
			for _, task := range got {
				ids = append(ids, task.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tt.want, ",") {
				t.Errorf("restore() got = %v, want %v", ids, tt.want)
			}
		})
	}

	got := restore([]tasks.Task{{ID: "b", Title: "new"}}, snapshot, "b")
	if got[0].Title != "old" {
		t.Errorf("restore() got = %v, want the snapshot entry", got[0].Title)
	}
}
