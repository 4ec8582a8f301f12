package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/timeliness-app/taskboard-backend/pkg/communication"
	"github.com/timeliness-app/taskboard-backend/pkg/describe"
	"github.com/timeliness-app/taskboard-backend/pkg/logger"
	"github.com/timeliness-app/taskboard-backend/pkg/users"
)

// Handler handles all task related API calls
type Handler struct {
	TaskService     TaskServiceInterface
	UserRepository  users.UserRepositoryInterface
	Describer       describe.Generator
	Logger          logger.Interface
	ResponseManager *communication.ResponseManager
	Validator       *validator.Validate
}

// Bootstrap is everything the board needs on start
type Bootstrap struct {
	Tasks     []Task                `json:"tasks"`
	Users     []users.User          `json:"users"`
	Reporting []users.ReportingEdge `json:"reporting"`
}

type remarkBody struct {
	Text string `json:"text" validate:"required"`
}

type descriptionBody struct {
	Title string `json:"title" validate:"required"`
}

type descriptionResponse struct {
	Description string `json:"description"`
}

// NewValidator builds a validator that knows the task enums
func NewValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("taskstatus", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("taskpriority", func(fl validator.FieldLevel) bool {
		return Priority(fl.Field().String()).IsValid()
	})
	return v
}

// RegisterRoutes mounts all task routes on router
func (handler *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/bootstrap", handler.GetBootstrap).Methods(http.MethodGet)
	router.HandleFunc("/tasks", handler.GetAllTasks).Methods(http.MethodGet)
	router.HandleFunc("/tasks", handler.TaskAdd).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{taskID}", handler.TaskUpdate).Methods(http.MethodPut)
	router.HandleFunc("/tasks/{taskID}", handler.TaskDelete).Methods(http.MethodDelete)
	router.HandleFunc("/tasks/{taskID}/remarks", handler.RemarkAdd).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{taskID}/timer/start", handler.TimerStart).Methods(http.MethodPost)
	router.HandleFunc("/tasks/{taskID}/timer/stop", handler.TimerStop).Methods(http.MethodPost)
	router.HandleFunc("/analysis", handler.GetAnalysis).Methods(http.MethodGet)
	router.HandleFunc("/descriptions", handler.DescriptionGenerate).Methods(http.MethodPost)
}

// GetBootstrap is the route for loading tasks, users and reporting at once
func (handler *Handler) GetBootstrap(writer http.ResponseWriter, request *http.Request) {
	all, err := handler.visibleTasks(request)
	if err != nil {
		handler.respondWithError(writer, "Failed to bootstrap application data", err)
		return
	}

	directory, err := handler.UserRepository.FindDirectory(request.Context())
	if err != nil {
		handler.respondWithError(writer, "Failed to bootstrap application data", err)
		return
	}

	handler.ResponseManager.Respond(writer, Bootstrap{Tasks: all, Users: directory.Users, Reporting: directory.Reporting})
}

// GetAllTasks is the route for getting all tasks, optionally only the ones visible to ?viewer=
func (handler *Handler) GetAllTasks(writer http.ResponseWriter, request *http.Request) {
	all, err := handler.visibleTasks(request)
	if err != nil {
		handler.respondWithError(writer, "Failed to get tasks", err)
		return
	}

	handler.ResponseManager.Respond(writer, all)
}

// TaskAdd is the route for adding a task
func (handler *Handler) TaskAdd(writer http.ResponseWriter, request *http.Request) {
	fields := TaskCreate{}

	err := json.NewDecoder(request.Body).Decode(&fields)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	if !handler.validate(writer, fields) {
		return
	}

	task, err := handler.TaskService.Create(request.Context(), &fields)
	if err != nil {
		handler.respondWithError(writer, "Failed to add task", err)
		return
	}

	handler.ResponseManager.RespondWithStatus(writer, task, http.StatusCreated)
}

// TaskUpdate is the route for updating a Task
func (handler *Handler) TaskUpdate(writer http.ResponseWriter, request *http.Request) {
	taskID := mux.Vars(request)["taskID"]
	patch := TaskPatch{}

	err := json.NewDecoder(request.Body).Decode(&patch)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	if !handler.validate(writer, patch) {
		return
	}

	task, err := handler.TaskService.Update(request.Context(), taskID, &patch)
	if err != nil {
		handler.respondWithError(writer, "Failed to update task", err)
		return
	}

	handler.ResponseManager.Respond(writer, task)
}

// TaskDelete is the route for deleting a task
func (handler *Handler) TaskDelete(writer http.ResponseWriter, request *http.Request) {
	taskID := mux.Vars(request)["taskID"]

	err := handler.TaskService.Delete(request.Context(), taskID)
	if err != nil {
		handler.respondWithError(writer, "Failed to delete task", err)
		return
	}

	handler.ResponseManager.RespondWithNoContent(writer)
}

// RemarkAdd is the route for adding a remark to a task
func (handler *Handler) RemarkAdd(writer http.ResponseWriter, request *http.Request) {
	taskID := mux.Vars(request)["taskID"]
	body := remarkBody{}

	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	if !handler.validate(writer, body) {
		return
	}

	task, err := handler.TaskService.AddRemark(request.Context(), taskID, body.Text)
	if err != nil {
		handler.respondWithError(writer, "Failed to add remark", err)
		return
	}

	handler.ResponseManager.Respond(writer, task)
}

// TimerStart is the route for starting the timer of a task
func (handler *Handler) TimerStart(writer http.ResponseWriter, request *http.Request) {
	handler.timer(writer, request, handler.TaskService.StartTimer, "Failed to start timer")
}

// TimerStop is the route for stopping the timer of a task
func (handler *Handler) TimerStop(writer http.ResponseWriter, request *http.Request) {
	handler.timer(writer, request, handler.TaskService.StopTimer, "Failed to stop timer")
}

// GetAnalysis is the route for the statistics of the visible tasks
func (handler *Handler) GetAnalysis(writer http.ResponseWriter, request *http.Request) {
	all, err := handler.visibleTasks(request)
	if err != nil {
		handler.respondWithError(writer, "Failed to analyze tasks", err)
		return
	}

	handler.ResponseManager.Respond(writer, Analyze(all, time.Now()))
}

// DescriptionGenerate is the route for suggesting a description for a title
func (handler *Handler) DescriptionGenerate(writer http.ResponseWriter, request *http.Request) {
	body := descriptionBody{}

	err := json.NewDecoder(request.Body).Decode(&body)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Wrong format", err)
		return
	}

	if !handler.validate(writer, body) {
		return
	}

	description, err := handler.Describer.Generate(request.Context(), body.Title)
	if err != nil {
		handler.respondWithError(writer, "Failed to generate description", err)
		return
	}

	handler.ResponseManager.Respond(writer, descriptionResponse{Description: description})
}

func (handler *Handler) timer(writer http.ResponseWriter, request *http.Request,
	operation func(ctx context.Context, taskID string) (*Task, error), message string) {
	taskID := mux.Vars(request)["taskID"]

	task, err := operation(request.Context(), taskID)
	if err != nil {
		handler.respondWithError(writer, message, err)
		return
	}

	handler.ResponseManager.Respond(writer, task)
}

func (handler *Handler) visibleTasks(request *http.Request) ([]Task, error) {
	all, err := handler.TaskService.FindAll(request.Context())
	if err != nil {
		return nil, err
	}

	viewerID := request.URL.Query().Get("viewer")
	if viewerID == "" {
		return all, nil
	}

	viewer, err := handler.UserRepository.FindByID(request.Context(), viewerID)
	if err != nil {
		return nil, err
	}

	reporting, err := handler.UserRepository.FindReporting(request.Context())
	if err != nil {
		return nil, err
	}

	return FilterByAssignees(all, users.Team(viewer, reporting)), nil
}

func (handler *Handler) validate(writer http.ResponseWriter, s interface{}) bool {
	err := handler.Validator.Struct(s)
	if err == nil {
		return true
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, validationErrors[0].Error(), validationErrors[0])
		return false
	}

	handler.ResponseManager.RespondWithError(writer, http.StatusBadRequest, "Invalid request", err)
	return false
}

func (handler *Handler) respondWithError(writer http.ResponseWriter, message string, err error) {
	handler.ResponseManager.RespondWithError(writer, StatusFor(err), message, err)
}

// StatusFor maps an error of the TaskService to a HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrTaskLocked),
		errors.Is(err, ErrTimerAlreadyRunning),
		errors.Is(err, ErrNoRunningTimer),
		errors.Is(err, ErrConflict):
		return http.StatusConflict
	}

	return communication.StatusFor(err, http.StatusInternalServerError)
}
