package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cloud.google.com/go/profiler"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/timeliness-app/taskboard-backend/internal/google"
	"github.com/timeliness-app/taskboard-backend/pkg/communication"
	"github.com/timeliness-app/taskboard-backend/pkg/describe"
	"github.com/timeliness-app/taskboard-backend/pkg/environment"
	"github.com/timeliness-app/taskboard-backend/pkg/locking"
	"github.com/timeliness-app/taskboard-backend/pkg/logger"
	"github.com/timeliness-app/taskboard-backend/pkg/sheet"
	"github.com/timeliness-app/taskboard-backend/pkg/tasks"
	"github.com/timeliness-app/taskboard-backend/pkg/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const serviceName = "taskboard-backend"

func main() {
	environment.Initialize()
	env := environment.Global

	var logging logger.Interface = logger.Logger{Quiet: env.Environment == environment.Production}

	if env.Environment == environment.Production && env.GoogleProject != "" {
		googleLogger, err := logger.NewGoogleLogger(context.Background(), env.GoogleProject, serviceName)
		if err != nil {
			logging.Fatal(err)
		}
		defer googleLogger.Close()
		logging = googleLogger

		err = profiler.Start(profiler.Config{Service: serviceName, ProjectID: env.GoogleProject})
		if err != nil {
			logging.Error("could not start profiler", err)
		}
	}

	fmt.Println("Server is starting up...")

	store, closeStore := setupStore(env, logging)
	defer closeStore()

	var locker locking.LockerInterface = locking.NewLockerMemory()
	var directoryCache users.DirectoryCacheInterface

	if env.Redis != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: env.Redis, Password: env.RedisPassword})
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			logging.Fatal(err)
		}

		locker = locking.NewLockerRedis(redisClient)
		directoryCache = users.NewDirectoryCacheRedis(redisClient)
		logging.Info("Redis connected")
	} else {
		memoryCache, err := users.NewDirectoryCacheMemory()
		if err != nil {
			logging.Fatal(err)
		}
		directoryCache = memoryCache
	}

	responseManager := communication.ResponseManager{Logger: logging}

	userRepository := users.NewUserRepository(store, directoryCache, logging)
	userHandler := users.Handler{UserRepository: userRepository, Logger: logging, ResponseManager: &responseManager}

	taskService := tasks.NewTaskService(store, locker, logging)
	taskHandler := tasks.Handler{
		TaskService:     taskService,
		UserRepository:  userRepository,
		Describer:       &describe.Fallback{Generator: describe.Disabled{}, Logger: logging},
		Logger:          logging,
		ResponseManager: &responseManager,
		Validator:       tasks.NewValidator(),
	}

	r := mux.NewRouter()
	r.HandleFunc("/", func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)

		_, err := fmt.Fprint(writer, "Welcome to the Taskboard API!")
		if err != nil {
			logging.Error("could not write welcome message", err)
		}
	})

	taskHandler.RegisterRoutes(r)
	userHandler.RegisterRoutes(r)

	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Content-Type", "application/json")
			w.Header().Set("Access-Control-Allow-Origin", env.Cors)
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	})

	logging.Info(fmt.Sprintf("Listening on port %s with %s store", env.Port, env.Store))
	logging.Fatal(http.ListenAndServe(":"+env.Port, r))
}

func setupStore(env environment.Environment, logging logger.Interface) (sheet.Store, func()) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch env.Store {
	case environment.StoreSheets:
		credentials, err := google.ReadCredentials(env.GoogleCredentials)
		if err != nil {
			logging.Fatal(err)
		}

		// the oauth2 client refreshes tokens with this context for the lifetime of the store
		store, err := sheet.NewGoogleSheetsStore(context.Background(), env.SpreadsheetID, credentials)
		if err != nil {
			logging.Fatal(err)
		}

		email, err := google.ServiceAccountEmail(credentials)
		if err == nil {
			logging.Info(fmt.Sprintf("Spreadsheet connected, it has to be shared with %s", email))
		}
		return store, func() {}
	case environment.StoreMongo:
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(env.DatabaseURL))
		if err != nil {
			logging.Fatal(err)
		}

		err = client.Ping(ctx, nil)
		if err != nil {
			logging.Fatal(err)
		}

		store := &sheet.MongoStore{DB: client.Database(env.Database)}
		err = store.EnsureIndexes(ctx)
		if err != nil {
			logging.Fatal(err)
		}

		logging.Info("Database connected")
		return store, func() {
			err := client.Disconnect(context.Background())
			if err != nil {
				logging.Error("could not disconnect database", err)
			}
		}
	case environment.StoreMemory:
		logging.Info("Using in-memory store, data is lost on shutdown")
		return sheet.NewMemoryStore(), func() {}
	}

	logging.Fatal(fmt.Errorf("unknown store %q", env.Store))
	return nil, func() {}
}
