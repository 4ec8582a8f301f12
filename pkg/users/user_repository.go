package users

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/timeliness-app/taskboard-backend/pkg/logger"
	"github.com/timeliness-app/taskboard-backend/pkg/sheet"
	"golang.org/x/sync/errgroup"
)

// directoryKey is the cache key of the single Directory
const directoryKey = "directory"

// UserRepositoryInterface is the interface for a UserRepository
type UserRepositoryInterface interface {
	FindAll(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	FindReporting(ctx context.Context) ([]ReportingEdge, error)
	FindDirectory(ctx context.Context) (*Directory, error)
}

// UserRepository reads users and reporting edges, the store is never written from here
type UserRepository struct {
	Users     *sheet.Table
	Reporting *sheet.Table
	Cache     DirectoryCacheInterface
	Logger    logger.Interface
}

// NewUserRepository builds a UserRepository, cache may be nil
func NewUserRepository(store sheet.Store, cache DirectoryCacheInterface, log logger.Interface) *UserRepository {
	return &UserRepository{
		Users:     sheet.NewTable(store, sheet.Users),
		Reporting: sheet.NewTable(store, sheet.Reporting),
		Cache:     cache,
		Logger:    log,
	}
}

// FindAll returns all users
func (r *UserRepository) FindAll(ctx context.Context) ([]User, error) {
	directory, err := r.FindDirectory(ctx)
	if err != nil {
		return nil, err
	}

	return directory.Users, nil
}

// FindByID finds a user by ID
func (r *UserRepository) FindByID(ctx context.Context, id string) (*User, error) {
	directory, err := r.FindDirectory(ctx)
	if err != nil {
		return nil, err
	}

	for i := range directory.Users {
		if directory.Users[i].ID == id {
			return &directory.Users[i], nil
		}
	}

	return nil, errors.Wrapf(sheet.ErrNotFound, "user %s", id)
}

// FindReporting returns all reporting edges
func (r *UserRepository) FindReporting(ctx context.Context) ([]ReportingEdge, error) {
	directory, err := r.FindDirectory(ctx)
	if err != nil {
		return nil, err
	}

	return directory.Reporting, nil
}

// FindDirectory returns the cached Directory or reads it from the store
func (r *UserRepository) FindDirectory(ctx context.Context) (*Directory, error) {
	if r.Cache != nil {
		directory, err := r.Cache.Get(ctx, directoryKey)
		if err == nil {
			return directory, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			r.Logger.Error("could not read directory cache", err)
		}
	}

	directory, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	if r.Cache != nil {
		err = r.Cache.Add(ctx, directoryKey, directory)
		if err != nil {
			r.Logger.Error("could not fill directory cache", err)
		}
	}

	return directory, nil
}

// Invalidate drops the cached Directory
func (r *UserRepository) Invalidate(ctx context.Context) error {
	if r.Cache == nil {
		return nil
	}
	return r.Cache.Invalidate(ctx, directoryKey)
}

func (r *UserRepository) load(ctx context.Context) (*Directory, error) {
	var userRows, reportingRows []sheet.Row

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() (err error) {
		userRows, err = r.Users.Live(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		reportingRows, err = r.Reporting.Live(groupCtx)
		return err
	})

	err := group.Wait()
	if err != nil {
		return nil, err
	}

	directory := Directory{
		Users:     make([]User, 0, len(userRows)),
		Reporting: make([]ReportingEdge, 0, len(reportingRows)),
		LoadedAt:  time.Now(),
	}

	for _, row := range userRows {
		user, err := DecodeUser(row)
		if err != nil {
			return nil, err
		}
		directory.Users = append(directory.Users, user)
	}

	for _, row := range reportingRows {
		edge, err := DecodeReportingEdge(row)
		if err != nil {
			return nil, err
		}
		directory.Reporting = append(directory.Reporting, edge)
	}

	return &directory, nil
}
