package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/timeliness-app/taskboard-backend/pkg/communication"
	"github.com/timeliness-app/taskboard-backend/pkg/tasks"
	"github.com/timeliness-app/taskboard-backend/pkg/users"
)

// Backend is the server side of the board
type Backend interface {
	Bootstrap(ctx context.Context) (*tasks.Bootstrap, error)
	CreateTask(ctx context.Context, fields *tasks.TaskCreate) (*tasks.Task, error)
	UpdateTask(ctx context.Context, taskID string, patch *tasks.TaskPatch) (*tasks.Task, error)
	DeleteTask(ctx context.Context, taskID string) error
	AddRemark(ctx context.Context, taskID string, text string) (*tasks.Task, error)
	StartTimer(ctx context.Context, taskID string) (*tasks.Task, error)
	StopTimer(ctx context.Context, taskID string) (*tasks.Task, error)
}

// APIError is a non 2xx response of the server
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// API talks to the board server over HTTP
type API struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewAPI builds an API for the server at baseURL, for example http://localhost:3001
func NewAPI(baseURL string) *API {
	return &API{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Bootstrap loads tasks, users and reporting edges
func (a *API) Bootstrap(ctx context.Context) (*tasks.Bootstrap, error) {
	bootstrap := tasks.Bootstrap{}
	err := a.do(ctx, http.MethodGet, "/bootstrap", nil, &bootstrap)
	if err != nil {
		return nil, err
	}
	return &bootstrap, nil
}

// Users loads all users
func (a *API) Users(ctx context.Context) ([]users.User, error) {
	var all []users.User
	err := a.do(ctx, http.MethodGet, "/users", nil, &all)
	return all, err
}

// CreateTask creates a task
func (a *API) CreateTask(ctx context.Context, fields *tasks.TaskCreate) (*tasks.Task, error) {
	return a.task(ctx, http.MethodPost, "/tasks", fields)
}

// UpdateTask applies a partial update
func (a *API) UpdateTask(ctx context.Context, taskID string, patch *tasks.TaskPatch) (*tasks.Task, error) {
	return a.task(ctx, http.MethodPut, taskPath(taskID), patch)
}

// DeleteTask deletes a task
func (a *API) DeleteTask(ctx context.Context, taskID string) error {
	return a.do(ctx, http.MethodDelete, taskPath(taskID), nil, nil)
}

// AddRemark adds a remark
func (a *API) AddRemark(ctx context.Context, taskID string, text string) (*tasks.Task, error) {
	return a.task(ctx, http.MethodPost, taskPath(taskID)+"/remarks", map[string]string{"text": text})
}

// StartTimer starts the timer of a task
func (a *API) StartTimer(ctx context.Context, taskID string) (*tasks.Task, error) {
	return a.task(ctx, http.MethodPost, taskPath(taskID)+"/timer/start", nil)
}

// StopTimer stops the timer of a task
func (a *API) StopTimer(ctx context.Context, taskID string) (*tasks.Task, error) {
	return a.task(ctx, http.MethodPost, taskPath(taskID)+"/timer/stop", nil)
}

func (a *API) task(ctx context.Context, method string, path string, body interface{}) (*tasks.Task, error) {
	task := tasks.Task{}
	err := a.do(ctx, method, path, body, &task)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (a *API) do(ctx context.Context, method string, path string, body interface{}, result interface{}) error {
	var reader io.Reader
	if body != nil {
		binary, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(binary)
	}

	request, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := a.HTTPClient.Do(request)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		failure := communication.ErrorResponse{}
		_ = json.NewDecoder(response.Body).Decode(&failure)
		return &APIError{Status: response.StatusCode, Message: failure.Message}
	}

	if result == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}

	return errors.Wrapf(json.NewDecoder(response.Body).Decode(result), "decoding %s %s", method, path)
}

func taskPath(taskID string) string {
	return "/tasks/" + url.PathEscape(taskID)
}
