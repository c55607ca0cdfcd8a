package repository

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	postgrest "github.com/supabase-community/postgrest-go"

	"hunt/api-gateway/models"
)

// fakePostgREST serves the subset of the PostgREST API the repository uses.
type fakePostgREST struct {
	mu   sync.Mutex
	rows []applicationRow
	fail bool
}

func (f *fakePostgREST) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.fail {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code":"XX000","message":"boom"}`))
		return
	}
	if !strings.HasSuffix(r.URL.Path, "/"+applicationsTable) {
		http.NotFound(w, r)
		return
	}

	id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")

	switch r.Method {
	case http.MethodGet:
		out := make([]applicationRow, 0)
		for _, row := range f.rows {
			if id == "" || row.ID == id {
				out = append(out, row)
			}
		}
		if r.URL.Query().Get("limit") == "1" && len(out) > 1 {
			out = out[:1]
		}
		writeRows(w, http.StatusOK, out)
	case http.MethodPost:
		body, _ := io.ReadAll(r.Body)
		var row applicationRow
		if err := json.Unmarshal(body, &row); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		replaced := false
		for i := range f.rows {
			if f.rows[i].ID == row.ID {
				f.rows[i] = row
				replaced = true
			}
		}
		if !replaced {
			f.rows = append(f.rows, row)
		}
		writeRows(w, http.StatusCreated, []applicationRow{row})
	case http.MethodDelete:
		kept := f.rows[:0]
		for _, row := range f.rows {
			if row.ID != id {
				kept = append(kept, row)
			}
		}
		f.rows = kept
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeRows(w http.ResponseWriter, status int, rows []applicationRow) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(rows)
}

func newTestSupabaseRepository(t *testing.T) (*SupabaseRepository, *fakePostgREST) {
	t.Helper()

	fake := &fakePostgREST{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	logger, _ := test.NewNullLogger()
	return NewSupabaseRepository(postgrest.NewClient(srv.URL, "", nil), logger), fake
}

func TestSupabaseRepository_CRUD(t *testing.T) {
	repo, _ := newTestSupabaseRepository(t)
	ctx := context.Background()

	apps, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, apps)
	assert.Empty(t, apps)

	saved, err := repo.Save(ctx, &models.JobApplication{
		Role:       "Engineer",
		Company:    "Acme",
		AIInsights: "Practice system design",
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	found, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Engineer", found.Role)
	assert.Equal(t, "Practice system design", found.AIInsights)
	assert.WithinDuration(t, saved.CreatedAt, found.CreatedAt, time.Millisecond)

	found.Stage = models.StageOffer
	_, err = repo.Save(ctx, found)
	require.NoError(t, err)

	apps, err = repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, models.StageOffer, apps[0].Stage)

	require.NoError(t, repo.DeleteByID(ctx, saved.ID))
	_, err = repo.FindByID(ctx, saved.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, repo.DeleteByID(ctx, saved.ID))
}

func TestSupabaseRepository_StoreError(t *testing.T) {
	repo, fake := newTestSupabaseRepository(t)
	fake.mu.Lock()
	fake.fail = true
	fake.mu.Unlock()

	_, err := repo.FindAll(context.Background())
	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "find all", storeErr.Op)

	assert.Error(t, repo.Ping(context.Background()))
}

func TestSupabaseRepository_CanceledContext(t *testing.T) {
	repo, _ := newTestSupabaseRepository(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FindAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
