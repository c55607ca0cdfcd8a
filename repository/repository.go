package repository

import (
	"context"
	"errors"
	"fmt"

	"hunt/api-gateway/models"
)

// ErrNotFound is returned when no job application has the requested ID.
var ErrNotFound = errors.New("job application not found")

// StoreError wraps a failure of the underlying store.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func storeError(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// Repository stores job applications keyed by their ID.
type Repository interface {
	FindAll(ctx context.Context) ([]models.JobApplication, error)
	FindByID(ctx context.Context, id string) (*models.JobApplication, error)
	// Save inserts app when it has no ID yet and overwrites every column otherwise.
	Save(ctx context.Context, app *models.JobApplication) (*models.JobApplication, error)
	// DeleteByID does not fail when id is unknown.
	DeleteByID(ctx context.Context, id string) error
}

// Pinger is implemented by repositories that can check store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
