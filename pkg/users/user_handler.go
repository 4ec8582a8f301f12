package users

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/timeliness-app/taskboard-backend/pkg/communication"
	"github.com/timeliness-app/taskboard-backend/pkg/logger"
)

// Handler is the handler for user API calls
type Handler struct {
	UserRepository  UserRepositoryInterface
	Logger          logger.Interface
	ResponseManager *communication.ResponseManager
}

// RegisterRoutes mounts all user routes on router
func (handler *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/users", handler.GetAllUsers).Methods(http.MethodGet)
	router.HandleFunc("/users/{userID}/team", handler.GetTeam).Methods(http.MethodGet)
	router.HandleFunc("/reporting", handler.GetReporting).Methods(http.MethodGet)
}

// GetAllUsers is the route for getting all users
func (handler *Handler) GetAllUsers(writer http.ResponseWriter, request *http.Request) {
	all, err := handler.UserRepository.FindAll(request.Context())
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Failed to get users", err)
		return
	}

	handler.ResponseManager.Respond(writer, all)
}

// GetTeam is the route for getting the users reporting to a user
func (handler *Handler) GetTeam(writer http.ResponseWriter, request *http.Request) {
	userID := mux.Vars(request)["userID"]

	directory, err := handler.UserRepository.FindDirectory(request.Context())
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Failed to get team", err)
		return
	}

	user, err := handler.UserRepository.FindByID(request.Context(), userID)
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, communication.StatusFor(err, http.StatusInternalServerError),
			"Failed to get team", err)
		return
	}

	handler.ResponseManager.Respond(writer, Reportees(user, directory.Users, directory.Reporting))
}

// GetReporting is the route for getting all reporting edges
func (handler *Handler) GetReporting(writer http.ResponseWriter, request *http.Request) {
	reporting, err := handler.UserRepository.FindReporting(request.Context())
	if err != nil {
		handler.ResponseManager.RespondWithError(writer, http.StatusInternalServerError, "Failed to get reporting data", err)
		return
	}

	handler.ResponseManager.Respond(writer, reporting)
}
