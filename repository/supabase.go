package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	postgrest "github.com/supabase-community/postgrest-go"

	"hunt/api-gateway/models"
)

const applicationsTable = "job_applications"

// TableClient is satisfied by both *supabase.Client and *postgrest.Client.
type TableClient interface {
	From(table string) *postgrest.QueryBuilder
}

// applicationRow mirrors a job_applications row as PostgREST serializes it.
// created_at must be a timestamptz column so it round-trips as RFC 3339.
type applicationRow struct {
	ID          string    `json:"id"`
	Role        string    `json:"role"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Link        string    `json:"link"`
	Status      string    `json:"status"`
	Stage       string    `json:"stage"`
	Description string    `json:"description"`
	AIInsights  string    `json:"ai_insights"`
	Notes       string    `json:"notes"`
	Salary      string    `json:"salary"`
	DateApplied string    `json:"date_applied"`
	CreatedAt   time.Time `json:"created_at"`
}

func rowFromModel(app *models.JobApplication) applicationRow {
	return applicationRow{
		ID:          app.ID,
		Role:        app.Role,
		Company:     app.Company,
		Location:    app.Location,
		Link:        app.Link,
		Status:      app.Status,
		Stage:       app.Stage,
		Description: app.Description,
		AIInsights:  app.AIInsights,
		Notes:       app.Notes,
		Salary:      app.Salary,
		DateApplied: app.DateApplied,
		CreatedAt:   app.CreatedAt,
	}
}

func (r applicationRow) toModel() models.JobApplication {
	return models.JobApplication{
		ID:          r.ID,
		Role:        r.Role,
		Company:     r.Company,
		Location:    r.Location,
		Link:        r.Link,
		Status:      r.Status,
		Stage:       r.Stage,
		Description: r.Description,
		AIInsights:  r.AIInsights,
		Notes:       r.Notes,
		Salary:      r.Salary,
		DateApplied: r.DateApplied,
		CreatedAt:   r.CreatedAt,
	}
}

// SupabaseRepository keeps job applications in a Supabase table through PostgREST.
type SupabaseRepository struct {
	client TableClient
	logger *logrus.Logger
}

// NewSupabaseRepository creates a repository backed by the job_applications table.
func NewSupabaseRepository(client TableClient, logger *logrus.Logger) *SupabaseRepository {
	return &SupabaseRepository{client: client, logger: logger}
}

func (r *SupabaseRepository) FindAll(ctx context.Context) ([]models.JobApplication, error) {
	rows, err := r.execute(ctx, "find all", r.client.From(applicationsTable).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: true}))
	if err != nil {
		return nil, err
	}
	apps := make([]models.JobApplication, 0, len(rows))
	for _, row := range rows {
		apps = append(apps, row.toModel())
	}
	return apps, nil
}

func (r *SupabaseRepository) FindByID(ctx context.Context, id string) (*models.JobApplication, error) {
	rows, err := r.execute(ctx, "find by id", r.client.From(applicationsTable).
		Select("*", "", false).
		Eq("id", id).
		Limit(1, ""))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	app := rows[0].toModel()
	return &app, nil
}

// Save upserts on id, so a known ID overwrites every column of the stored row.
func (r *SupabaseRepository) Save(ctx context.Context, app *models.JobApplication) (*models.JobApplication, error) {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}

	rows, err := r.execute(ctx, "save", r.client.From(applicationsTable).
		Insert(rowFromModel(app), true, "id", "representation", ""))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, storeError("save", fmt.Errorf("no row returned for %s", app.ID))
	}

	saved := rows[0].toModel()
	r.logger.WithField("application_id", saved.ID).Debug("job application saved")
	return &saved, nil
}

func (r *SupabaseRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.execute(ctx, "delete", r.client.From(applicationsTable).
		Delete("", "").
		Eq("id", id))
	return err
}

// Ping issues a single-row select against the table.
func (r *SupabaseRepository) Ping(ctx context.Context) error {
	_, err := r.execute(ctx, "ping", r.client.From(applicationsTable).
		Select("id", "", false).
		Limit(1, ""))
	return err
}

// execute runs the query and decodes the returned rows. postgrest-go has no context
// support, so cancellation is only checked before the request goes out.
func (r *SupabaseRepository) execute(ctx context.Context, op string, query *postgrest.FilterBuilder) ([]applicationRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, storeError(op, err)
	}

	body, _, err := query.Execute()
	if err != nil {
		return nil, storeError(op, err)
	}

	var rows []applicationRow
	if len(body) == 0 {
		return rows, nil
	}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, storeError(op, fmt.Errorf("decode response: %w", err))
	}
	return rows, nil
}
