package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hunt/api-gateway/models"
	"hunt/api-gateway/repository"
)

type fakeRepo struct {
	mu      sync.Mutex
	items   map[string]models.JobApplication
	order   []string
	nextID  int
	saveErr error
	saves   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: make(map[string]models.JobApplication)}
}

func (r *fakeRepo) FindAll(ctx context.Context) ([]models.JobApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.JobApplication
	for _, id := range r.order {
		if app, ok := r.items[id]; ok {
			out = append(out, app)
		}
	}
	return out, nil
}

func (r *fakeRepo) FindByID(ctx context.Context, id string) (*models.JobApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &app, nil
}

func (r *fakeRepo) Save(ctx context.Context, app *models.JobApplication) (*models.JobApplication, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves++
	if r.saveErr != nil {
		return nil, &repository.StoreError{Op: "save", Err: r.saveErr}
	}
	if app.ID == "" {
		r.nextID++
		app.ID = fmt.Sprintf("app-%d", r.nextID)
		app.CreatedAt = time.Now().UTC()
		r.order = append(r.order, app.ID)
	}
	r.items[app.ID] = *app
	return app, nil
}

func (r *fakeRepo) DeleteByID(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func newTestService(repo repository.Repository) *ApplicationService {
	logger, _ := test.NewNullLogger()
	return NewApplicationService(repo, logger, time.Second)
}

func strPtr(s string) *string { return &s }

func TestGetAllApplications_EmptyStore(t *testing.T) {
	svc := newTestService(newFakeRepo())

	apps, err := svc.GetAllApplications(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, apps)
	assert.Len(t, apps, 0)
}

func TestSaveApplication_AssignsIDAndCreatedAt(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	saved, err := svc.SaveApplication(context.Background(), models.JobApplication{
		ID:        "client-chosen",
		Role:      "Engineer",
		Company:   "Acme",
		CreatedAt: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, saved.ID)
	assert.NotEqual(t, "client-chosen", saved.ID)
	assert.WithinDuration(t, time.Now(), saved.CreatedAt, 5*time.Second)
	assert.Equal(t, "Engineer", saved.Role)
	assert.Equal(t, "Acme", saved.Company)
	assert.Empty(t, saved.Location)
	assert.Empty(t, saved.Status)

	found, err := svc.GetApplication(context.Background(), saved.ID)
	require.NoError(t, err)
	assert.Equal(t, *saved, *found)
}

func TestUpdateApplication_MergesOnlyMergeableFields(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.SaveApplication(ctx, models.JobApplication{
		Role:        "Engineer",
		Company:     "Acme",
		Location:    "Remote",
		Link:        "https://acme.example/1",
		Status:      models.StatusApplied,
		Stage:       models.StageScreening,
		Salary:      "100k",
		DateApplied: "2024-05-01",
	})
	require.NoError(t, err)
	before := *created

	updated, err := svc.UpdateApplication(ctx, created.ID, models.ApplicationPatch{
		Status: strPtr("Interviewing"),
	})
	require.NoError(t, err)

	want := before
	want.Status = "Interviewing"
	assert.Equal(t, want, *updated)

	stored, err := svc.GetApplication(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, want, *stored)
}

func TestUpdateApplication_EmptyPatchDoesNotWrite(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.SaveApplication(ctx, models.JobApplication{Role: "Engineer", Status: models.StatusApplied})
	require.NoError(t, err)
	require.Equal(t, 1, repo.saves)

	updated, err := svc.UpdateApplication(ctx, created.ID, models.ApplicationPatch{})
	require.NoError(t, err)
	assert.Equal(t, *created, *updated)
	assert.Equal(t, 1, repo.saves)

	_, err = svc.UpdateApplication(ctx, "missing", models.ApplicationPatch{})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdateApplication_NotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	_, err := svc.UpdateApplication(context.Background(), "missing", models.ApplicationPatch{
		Role: strPtr("Engineer"),
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Equal(t, 0, repo.saves, "no record may be created")

	apps, err := svc.GetAllApplications(context.Background())
	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestUpdateApplication_StoreError(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	created, err := svc.SaveApplication(ctx, models.JobApplication{Role: "Engineer"})
	require.NoError(t, err)

	repo.saveErr = errors.New("connection reset")
	_, err = svc.UpdateApplication(ctx, created.ID, models.ApplicationPatch{Notes: strPtr("n")})

	var storeErr *repository.StoreError
	assert.ErrorAs(t, err, &storeErr)
}

func TestDeleteApplication(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	keep, err := svc.SaveApplication(ctx, models.JobApplication{Role: "Keep"})
	require.NoError(t, err)
	drop, err := svc.SaveApplication(ctx, models.JobApplication{Role: "Drop"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteApplication(ctx, drop.ID))

	_, err = svc.GetApplication(ctx, drop.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	apps, err := svc.GetAllApplications(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, keep.ID, apps[0].ID)

	assert.NoError(t, svc.DeleteApplication(ctx, "never-existed"))
}

func TestServiceAppliesTimeout(t *testing.T) {
	var deadlineSet bool
	repo := &deadlineRepo{fakeRepo: newFakeRepo(), seen: &deadlineSet}
	svc := newTestService(repo)

	_, err := svc.GetAllApplications(context.Background())
	require.NoError(t, err)
	assert.True(t, deadlineSet)
}

type deadlineRepo struct {
	*fakeRepo
	seen *bool
}

func (r *deadlineRepo) FindAll(ctx context.Context) ([]models.JobApplication, error) {
	_, *r.seen = ctx.Deadline()
	return r.fakeRepo.FindAll(ctx)
}
