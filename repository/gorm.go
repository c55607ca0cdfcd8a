package repository

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hunt/api-gateway/models"
)

// GormRepository keeps job applications in a relational database through gorm.
type GormRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewGormRepository creates a repository on an open gorm connection.
func NewGormRepository(db *gorm.DB, logger *logrus.Logger) *GormRepository {
	return &GormRepository{db: db, logger: logger}
}

// Migrate creates or alters the job_applications table to match the model.
func (r *GormRepository) Migrate(ctx context.Context) error {
	if err := r.db.WithContext(ctx).AutoMigrate(&models.JobApplication{}); err != nil {
		return storeError("migrate", err)
	}
	return nil
}

func (r *GormRepository) FindAll(ctx context.Context) ([]models.JobApplication, error) {
	apps := make([]models.JobApplication, 0)
	if err := r.db.WithContext(ctx).Order("created_at asc").Find(&apps).Error; err != nil {
		return nil, storeError("find all", err)
	}
	return apps, nil
}

func (r *GormRepository) FindByID(ctx context.Context, id string) (*models.JobApplication, error) {
	var app models.JobApplication
	err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeError("find by id", err)
	}
	return &app, nil
}

func (r *GormRepository) Save(ctx context.Context, app *models.JobApplication) (*models.JobApplication, error) {
	if err := r.db.WithContext(ctx).Save(app).Error; err != nil {
		return nil, storeError("save", err)
	}
	r.logger.WithField("application_id", app.ID).Debug("job application saved")
	return app, nil
}

func (r *GormRepository) DeleteByID(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.JobApplication{}, "id = ?", id)
	if res.Error != nil {
		return storeError("delete", res.Error)
	}
	r.logger.WithFields(logrus.Fields{
		"application_id": id,
		"rows_affected":  res.RowsAffected,
	}).Debug("job application delete processed")
	return nil
}

// Ping checks the database connection.
func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return storeError("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return storeError("ping", err)
	}
	return nil
}
