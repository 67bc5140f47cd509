package projects

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TriAzz/showcase/internal/api"
	"github.com/TriAzz/showcase/internal/config"
	errs "github.com/TriAzz/showcase/internal/errors"
	"github.com/TriAzz/showcase/internal/model"
	"github.com/TriAzz/showcase/internal/storage"
)

type fakeSession bool

func (f fakeSession) Authenticated() bool { return bool(f) }

func newStore(t *testing.T, handler http.Handler, authed bool) (*Store, *storage.FileStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	files, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	cfg := config.Default()
	cfg.API.BaseURL = srv.URL

	client := api.NewClient(cfg.API, nil)
	store := New(client, fakeSession(authed), files, cfg, nil)
	store.sleep = func(time.Duration) {} // No real delays in tests
	return store, files
}

func listJSON(projects ...model.Project) []byte {
	data, _ := json.Marshal(projects)
	return data
}

func TestFetch_NoSessionReturnsEmptySilently(t *testing.T) {
	var hits int32
	s, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}), false)

	list, err := s.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
	assert.Zero(t, atomic.LoadInt32(&hits), "unauthenticated fetch must not hit the network")
}

func TestFetch_ReplacesListingAndPersists(t *testing.T) {
	s, files := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(listJSON(
			model.Project{ObjectID: "p1", Title: "One"},
			model.Project{ObjectID: "p2", Title: "Two"},
		))
	}), true)

	list, err := s.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Len(t, s.Projects(), 2)
	assert.False(t, s.LastFetch().IsZero())

	var persisted []model.Project
	require.NoError(t, files.LoadJSON(storage.KeyProjects, &persisted))
	assert.Len(t, persisted, 2)
}

func TestFetch_SendsActiveFilters(t *testing.T) {
	var gotQuery string
	s, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}), true)

	cat := "Research"
	search := "genome"
	s.UpdateFilters(FilterUpdate{Category: &cat, Search: &search})

	_, err := s.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Contains(t, gotQuery, "category=Research")
	assert.Contains(t, gotQuery, "search=genome")
	assert.NotContains(t, gotQuery, "status=")
}

func TestFetch_ForceRefreshCacheBusts(t *testing.T) {
	var gotBust string
	s, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBust = r.URL.Query().Get("_t")
		w.Write([]byte(`[]`))
	}), true)

	_, err := s.Fetch(context.Background(), true)
	require.NoError(t, err)
	assert.NotEmpty(t, gotBust)
}

func TestFetch_RecoversOnRetryAfterUnauthorized(t *testing.T) {
	var hits int32
	s, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&hits, 1)
		if n <= 2 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		// Retries must force a refresh
		if r.URL.Query().Get("_t") == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.Write(listJSON(model.Project{ObjectID: "p1", Title: "One"}))
	}), true)

	slept := 0
	s.sleep = func(d time.Duration) {
		slept++
		assert.Equal(t, time.Second, d)
	}

	expired := false
	s.OnSessionExpired = func() { expired = true }

	list, err := s.Fetch(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NoError(t, s.Err(), "a late success clears the recorded failure")
	assert.Equal(t, 2, slept)
	assert.False(t, expired, "recovered fetch must not end the session")
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits))
}

func TestFetch_RetriesExhaustedEndsSession(t *testing.T) {
	var hits int32
	s, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusUnauthorized)
	}), true)

	// Seed a listing so we can observe it surviving the failure
	s.projects = []model.Project{{ObjectID: "p0", Title: "Kept"}}

	expired := false
	s.OnSessionExpired = func() { expired = true }

	_, err := s.Fetch(context.Background(), false)
	require.Error(t, err)
	assert.True(t, errs.IsAuthFailure(err))
	assert.Error(t, s.Err())
	assert.True(t, expired)
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits), "initial attempt plus two retries")
	assert.Equal(t, "Kept", s.Projects()[0].Title, "failed fetch leaves the listing untouched")
}

func TestFetch_NonAuthFailureDoesNotRetry(t *testing.T) {
	var hits int32
	s, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}), true)

	expired := false
	s.OnSessionExpired = func() { expired = true }

	_, err := s.Fetch(context.Background(), false)
	require.Error(t, err)
	assert.Error(t, s.Err())
	assert.False(t, expired)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestGet_ServesFreshCacheWithoutNetwork(t *testing.T) {
	var hits int32
	s, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write(listJSON(model.Project{ObjectID: "p1", Title: "One"}))
	}), true)

	_, err := s.Fetch(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&hits))

	p, err := s.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "One", p.Title)
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "fresh cache entry must not hit the network")
}

func TestGet_ExpiredEntryRefetched(t *testing.T) {
	var hits int32
	s, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.URL.Path == "/projects/p1" {
			w.Write([]byte(`{"_id": "p1", "title": "Refreshed"}`))
			return
		}
		w.Write(listJSON(model.Project{ObjectID: "p1", Title: "Stale"}))
	}), true)

	base := time.Now()
	s.now = func() time.Time { return base }

	_, err := s.Fetch(context.Background(), false)
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(61 * time.Second) }

	p, err := s.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Refreshed", p.Title)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))

	// The refetch restamped the entry, so it serves from cache again
	_, err = s.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestGet_UnknownID(t *testing.T) {
	s, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}), true)

	_, err := s.Get(context.Background(), "ghost")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAdd_ValidatesBeforeNetwork(t *testing.T) {
	var hits int32
	s, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
	}), true)

	_, err := s.Add(context.Background(), model.ProjectDraft{Title: "No description"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
	assert.Zero(t, atomic.LoadInt32(&hits))
	assert.Empty(t, s.Projects())
}

func TestAdd_AppendsServerRecord(t *testing.T) {
	s, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"_id": "p9", "title": "Created"}`))
	}), true)

	p, err := s.Add(context.Background(), model.ProjectDraft{
		Title:        "Created",
		Description:  "A thing",
		Category:     "Research",
		Technologies: []string{"Go"},
	})
	require.NoError(t, err)
	assert.Equal(t, "p9", p.ObjectID)
	require.Len(t, s.Projects(), 1)

	// Fresh cache entry: no network on an immediate Get
	got, err := s.Get(context.Background(), "p9")
	require.NoError(t, err)
	assert.Equal(t, "Created", got.Title)
}

func TestUpdate_NormalizesNilSlices(t *testing.T) {
	var body map[string]any
	s, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &body)
		w.Write([]byte(`{"_id": "p1", "title": "Updated"}`))
	}), true)

	_, err := s.Update(context.Background(), "p1", model.ProjectDraft{
		Title:        "Updated",
		Description:  "A thing",
		Category:     "Research",
		Technologies: []string{"Go"},
		Tags:         nil,
	})
	require.NoError(t, err)
	assert.Equal(t, []any{}, body["tags"], "nil slices go out as empty arrays")
}

func TestUpdate_ReplacesMatchingRecord(t *testing.T) {
	s, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write(listJSON(
				model.Project{ObjectID: "p1", Title: "Old"},
				model.Project{ObjectID: "p2", Title: "Other"},
			))
		case http.MethodPut:
			w.Write([]byte(`{"_id": "p1", "title": "New"}`))
		}
	}), true)

	_, err := s.Fetch(context.Background(), false)
	require.NoError(t, err)

	_, err = s.Update(context.Background(), "p1", model.ProjectDraft{
		Title: "New", Description: "d", Category: "Other", Technologies: []string{"Go"},
	})
	require.NoError(t, err)

	list := s.Projects()
	assert.Equal(t, "New", list[0].Title)
	assert.Equal(t, "Other", list[1].Title)
}

func TestUpdate_FailureLeavesStateUntouched(t *testing.T) {
	s, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write(listJSON(model.Project{ObjectID: "p1", Title: "Old"}))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}), true)

	_, err := s.Fetch(context.Background(), false)
	require.NoError(t, err)

	_, err = s.Update(context.Background(), "p1", model.ProjectDraft{
		Title: "New", Description: "d", Category: "Other", Technologies: []string{"Go"},
	})
	require.Error(t, err)
	assert.Equal(t, "Old", s.Projects()[0].Title)
}

func TestDelete_RemovesOnlyAfterServerConfirms(t *testing.T) {
	deleteOK := false
	s, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write(listJSON(model.Project{ObjectID: "p1", Title: "One"}))
		case http.MethodDelete:
			if !deleteOK {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			w.Write([]byte(`{}`))
		}
	}), true)

	_, err := s.Fetch(context.Background(), false)
	require.NoError(t, err)

	require.Error(t, s.Delete(context.Background(), "p1"))
	assert.Len(t, s.Projects(), 1, "no optimistic removal")

	deleteOK = true
	require.NoError(t, s.Delete(context.Background(), "p1"))
	assert.Empty(t, s.Projects())
}

func TestAddTeamMember_MergesRecord(t *testing.T) {
	s, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Write(listJSON(model.Project{ObjectID: "p1", Title: "One"}))
		case http.MethodPut:
			w.Write([]byte(`{"_id": "p1", "title": "One", "teamMembers": [{"email": "new@x.com"}]}`))
		}
	}), true)

	_, err := s.Fetch(context.Background(), false)
	require.NoError(t, err)

	p, err := s.AddTeamMember(context.Background(), "p1", "new@x.com")
	require.NoError(t, err)
	require.Len(t, p.TeamMembers, 1)
	require.Len(t, s.Projects()[0].TeamMembers, 1)
}

func TestUpdateFilters_ReportsChange(t *testing.T) {
	s, _ := newStore(t, http.NotFoundHandler(), true)

	cat := "Research"
	assert.True(t, s.UpdateFilters(FilterUpdate{Category: &cat}))
	assert.False(t, s.UpdateFilters(FilterUpdate{Category: &cat}), "same value is not a change")

	empty := ""
	assert.True(t, s.UpdateFilters(FilterUpdate{Category: &empty}))

	assert.False(t, s.UpdateFilters(FilterUpdate{}), "nil fields touch nothing")

	status := "Completed"
	s.UpdateFilters(FilterUpdate{Status: &status, Category: &cat})
	s.ClearFilters()
	assert.Equal(t, Filter{}, s.Filters())
}

func TestClearCacheAndLoadCached(t *testing.T) {
	s, files := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(listJSON(model.Project{ObjectID: "p1", Title: "One"}))
	}), true)

	_, err := s.Fetch(context.Background(), false)
	require.NoError(t, err)

	s.ClearCache()
	assert.True(t, s.LastFetch().IsZero())
	exists, err := files.Exists(storage.KeyProjects)
	require.NoError(t, err)
	assert.False(t, exists, "durable copy dropped with the cache")

	// Simulate a restart restoring from a previously persisted listing
	require.NoError(t, files.SaveJSON(storage.KeyProjects, []model.Project{{ObjectID: "p7", Title: "Restored"}}))
	require.NoError(t, s.LoadCached())
	assert.Equal(t, "Restored", s.Projects()[0].Title)
}

func TestLoadCached_EmptyStore(t *testing.T) {
	s, _ := newStore(t, http.NotFoundHandler(), true)
	require.NoError(t, s.LoadCached())
	assert.Empty(t, s.Projects())
}

func TestReset_DropsEverything(t *testing.T) {
	s, _ := newStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(listJSON(model.Project{ObjectID: "p1", Title: "One"}))
	}), true)

	cat := "Research"
	s.UpdateFilters(FilterUpdate{Category: &cat})
	_, err := s.Fetch(context.Background(), false)
	require.NoError(t, err)

	s.Reset()
	assert.Empty(t, s.Projects())
	assert.Equal(t, Filter{}, s.Filters())
	assert.NoError(t, s.Err())
}
