package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	"hunt/api-gateway/models"
)

// ApplicationService defines the operations handlers expect from the service layer.
// This allows for decoupling and easier testing.
type ApplicationService interface {
	GetAllApplications(ctx context.Context) ([]models.JobApplication, error)
	GetApplication(ctx context.Context, id string) (*models.JobApplication, error)
	SaveApplication(ctx context.Context, app models.JobApplication) (*models.JobApplication, error)
	UpdateApplication(ctx context.Context, id string, patch models.ApplicationPatch) (*models.JobApplication, error)
	DeleteApplication(ctx context.Context, id string) error
}

// HealthChecker reports whether the store is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// ApplicationHandler holds shared dependencies for handlers.
type ApplicationHandler struct {
	Service ApplicationService
	Health  HealthChecker // optional
	Logger  *logrus.Logger
}

// NewApplicationHandler creates a new ApplicationHandler with the given dependencies.
func NewApplicationHandler(service ApplicationService, health HealthChecker, logger *logrus.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		Service: service,
		Health:  health,
		Logger:  logger,
	}
}
