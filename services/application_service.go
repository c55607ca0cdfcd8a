package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"hunt/api-gateway/models"
	"hunt/api-gateway/repository"
)

// ApplicationService holds the business rules around job applications.
type ApplicationService struct {
	repo    repository.Repository
	logger  *logrus.Logger
	timeout time.Duration
}

// NewApplicationService creates a service on top of repo. A zero timeout leaves
// store calls bounded only by the caller's context.
func NewApplicationService(repo repository.Repository, logger *logrus.Logger, timeout time.Duration) *ApplicationService {
	return &ApplicationService{repo: repo, logger: logger, timeout: timeout}
}

func (s *ApplicationService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// GetAllApplications returns every stored application, never nil.
func (s *ApplicationService) GetAllApplications(ctx context.Context) ([]models.JobApplication, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	apps, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	if apps == nil {
		apps = []models.JobApplication{}
	}
	return apps, nil
}

// GetApplication returns a single application or repository.ErrNotFound.
func (s *ApplicationService) GetApplication(ctx context.Context, id string) (*models.JobApplication, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	app, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get application %s: %w", id, err)
	}
	return app, nil
}

// SaveApplication creates a new application. The store assigns id and createdAt.
func (s *ApplicationService) SaveApplication(ctx context.Context, app models.JobApplication) (*models.JobApplication, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	app.ID = ""
	app.CreatedAt = time.Time{}

	saved, err := s.repo.Save(ctx, &app)
	if err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	s.logger.WithFields(logrus.Fields{
		"application_id": saved.ID,
		"company":        saved.Company,
	}).Info("job application created")
	return saved, nil
}

// UpdateApplication merges patch into the stored application and saves it. An empty
// patch returns the stored application without writing.
func (s *ApplicationService) UpdateApplication(ctx context.Context, id string, patch models.ApplicationPatch) (*models.JobApplication, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update application %s: %w", id, err)
	}

	if patch.IsEmpty() {
		return existing, nil
	}
	patch.ApplyTo(existing)

	saved, err := s.repo.Save(ctx, existing)
	if err != nil {
		return nil, fmt.Errorf("update application %s: %w", id, err)
	}
	s.logger.WithFields(logrus.Fields{
		"application_id": saved.ID,
		"status":         saved.Status,
		"stage":          saved.Stage,
	}).Info("job application updated")
	return saved, nil
}

// DeleteApplication removes the application. Unknown ids are not an error.
func (s *ApplicationService) DeleteApplication(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("delete application %s: %w", id, err)
	}
	s.logger.WithField("application_id", id).Info("job application delete processed")
	return nil
}
