// Package projects is the client-side cache and sync layer over the project
// endpoints: the last full listing, a per-record cache with a freshness TTL,
// the active filter set, and a durable fallback copy of the listing that
// survives restarts.
package projects

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/TriAzz/showcase/internal/api"
	"github.com/TriAzz/showcase/internal/config"
	errs "github.com/TriAzz/showcase/internal/errors"
	"github.com/TriAzz/showcase/internal/logging"
	"github.com/TriAzz/showcase/internal/model"
	"github.com/TriAzz/showcase/internal/storage"
)

// SessionState is the slice of the auth session the store needs.
type SessionState interface {
	Authenticated() bool
}

// Filter is the active listing filter set. Empty fields are not sent.
type Filter struct {
	Search     string
	Category   string
	Status     string
	Technology string
}

// FilterUpdate is a partial filter change; nil fields are left untouched.
type FilterUpdate struct {
	Search     *string
	Category   *string
	Status     *string
	Technology *string
}

type cacheEntry struct {
	project model.Project
	fetched time.Time
}

// Store holds the client's view of the project collection. All methods are
// safe for concurrent use.
type Store struct {
	api     *api.Client
	session SessionState
	files   *storage.FileStore
	log     *logging.Logger

	ttl        time.Duration
	persist    bool
	maxRetries int
	retryDelay time.Duration
	sleep      func(time.Duration)
	now        func() time.Time

	// OnSessionExpired fires after a listing fetch exhausts its retries
	// against 401 responses. Wired to the session teardown.
	OnSessionExpired func()

	mu        sync.Mutex
	projects  []model.Project
	filters   Filter
	loading   bool
	lastErr   error
	cache     map[string]cacheEntry
	lastFetch time.Time
}

// New builds a Store from the cache and retry sections of the configuration.
func New(client *api.Client, session SessionState, files *storage.FileStore, cfg *config.Config, log *logging.Logger) *Store {
	if log == nil {
		log = logging.NopLogger()
	}
	return &Store{
		api:        client,
		session:    session,
		files:      files,
		log:        log.WithComponent("projects"),
		ttl:        cfg.Cache.ProjectTTL(),
		persist:    cfg.Cache.PersistList,
		maxRetries: cfg.API.Retry.MaxAttempts,
		retryDelay: cfg.API.Retry.Delay(),
		sleep:      time.Sleep,
		now:        time.Now,
		cache:      make(map[string]cacheEntry),
	}
}

// Projects returns the last fetched listing.
func (s *Store) Projects() []model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Project, len(s.projects))
	copy(out, s.projects)
	return out
}

// Filters returns the active filter set.
func (s *Store) Filters() Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// Loading reports whether a listing fetch is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the failure recorded by the last listing fetch, if any. A
// successful fetch clears it.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Fetch retrieves the listing for the active filters. Without a session it
// returns an empty listing and no error. On a 401 it retries with a forced
// refresh and a fixed delay; only after the retries are exhausted does the
// session-expired hook fire. A failed fetch leaves the current listing
// untouched.
func (s *Store) Fetch(ctx context.Context, forceRefresh bool) ([]model.Project, error) {
	if !s.session.Authenticated() {
		return []model.Project{}, nil
	}

	s.mu.Lock()
	s.loading = true
	query := s.filters.query()
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	var list []model.Project
	var err error
	for attempt := 0; ; attempt++ {
		opts := []api.RequestOption{api.WithoutUnauthorizedHook()}
		if forceRefresh || attempt > 0 {
			opts = append(opts, api.WithCacheBust())
		}

		list, err = s.api.ListProjects(ctx, query, opts...)
		if err == nil {
			break
		}
		if !errs.IsAuthFailure(err) || attempt >= s.maxRetries {
			break
		}
		s.log.Warn("listing rejected, retrying",
			"attempt", attempt+1, "max_retries", s.maxRetries)
		s.sleep(s.retryDelay)
	}

	if err != nil {
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()

		if errs.IsAuthFailure(err) {
			s.log.Warn("listing retries exhausted, ending session")
			if s.OnSessionExpired != nil {
				s.OnSessionExpired()
			}
		}
		return nil, err
	}

	now := s.now()
	s.mu.Lock()
	s.projects = list
	s.lastErr = nil
	s.lastFetch = now
	for _, p := range list {
		if key := p.Key(); key != "" {
			s.cache[key] = cacheEntry{project: p, fetched: now}
		}
	}
	s.mu.Unlock()

	s.persistList(list)
	s.log.Debug("listing fetched", "count", len(list))

	out := make([]model.Project, len(list))
	copy(out, list)
	return out, nil
}

// Get returns a single project, served from the per-record cache while the
// entry is younger than the TTL and fetched from the server otherwise.
func (s *Store) Get(ctx context.Context, id string) (*model.Project, error) {
	s.mu.Lock()
	if entry, ok := s.cache[id]; ok && s.now().Sub(entry.fetched) < s.ttl {
		p := entry.project
		s.mu.Unlock()
		return &p, nil
	}
	s.mu.Unlock()

	project, err := s.api.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cache[id] = cacheEntry{project: *project, fetched: s.now()}
	s.mu.Unlock()
	return project, nil
}

// Add validates the draft locally, creates the project, and folds the
// server's record into the listing and cache. Validation failures never
// reach the network.
func (s *Store) Add(ctx context.Context, draft model.ProjectDraft) (*model.Project, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	project, err := s.api.CreateProject(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.projects = append(s.projects, *project)
	if key := project.Key(); key != "" {
		s.cache[key] = cacheEntry{project: *project, fetched: s.now()}
	}
	s.mu.Unlock()

	s.persistList(s.Projects())
	return project, nil
}

// Update sends the normalized draft and replaces the matching listing and
// cache entries on success. A failure leaves local state untouched.
func (s *Store) Update(ctx context.Context, id string, draft model.ProjectDraft) (*model.Project, error) {
	draft.Normalize()
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	project, err := s.api.UpdateProject(ctx, id, draft)
	if err != nil {
		return nil, err
	}

	s.merge(*project)
	return project, nil
}

// Delete removes the project on the server first; only a confirmed delete
// touches the listing and cache.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteProject(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.projects[:0]
	for _, p := range s.projects {
		if p.Key() != id {
			kept = append(kept, p)
		}
	}
	s.projects = kept
	delete(s.cache, id)
	s.mu.Unlock()

	s.persistList(s.Projects())
	return nil
}

// AddTeamMember adds a user to the project's team and merges the updated
// record into the listing and cache.
func (s *Store) AddTeamMember(ctx context.Context, id, email string) (*model.Project, error) {
	project, err := s.api.AddTeamMember(ctx, id, email)
	if err != nil {
		return nil, err
	}
	s.merge(*project)
	return project, nil
}

// UpdateFilters merges a partial filter change and reports whether anything
// actually changed. Callers re-fetch only on true.
func (s *Store) UpdateFilters(update FilterUpdate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.filters
	if update.Search != nil {
		next.Search = *update.Search
	}
	if update.Category != nil {
		next.Category = *update.Category
	}
	if update.Status != nil {
		next.Status = *update.Status
	}
	if update.Technology != nil {
		next.Technology = *update.Technology
	}

	if next == s.filters {
		return false
	}
	s.filters = next
	return true
}

// ClearFilters resets every filter field.
func (s *Store) ClearFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = Filter{}
}

// ClearCache drops the per-record cache, the fetch timestamp, and the
// durable listing copy. The in-memory listing is kept.
func (s *Store) ClearCache() {
	s.mu.Lock()
	s.cache = make(map[string]cacheEntry)
	s.lastFetch = time.Time{}
	s.mu.Unlock()

	if err := s.files.Delete(storage.KeyProjects); err != nil {
		s.log.Warn("failed to drop persisted listing", "error", err)
	}
}

// Reset clears everything the store holds. Wired to sign-out.
func (s *Store) Reset() {
	s.ClearCache()
	s.mu.Lock()
	s.projects = nil
	s.filters = Filter{}
	s.lastErr = nil
	s.mu.Unlock()
}

// LoadCached restores the listing from the durable copy, if one exists. The
// per-record cache stays empty: restored records have no known freshness.
func (s *Store) LoadCached() error {
	var list []model.Project
	if err := s.files.LoadJSON(storage.KeyProjects, &list); err != nil {
		if err == storage.ErrNotFound {
			return nil
		}
		return errs.Wrap(err, "restoring cached listing")
	}

	s.mu.Lock()
	s.projects = list
	s.mu.Unlock()

	s.log.Debug("listing restored from cache", "count", len(list))
	return nil
}

// LastFetch returns when the listing was last fetched from the server.
func (s *Store) LastFetch() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastFetch
}

func (s *Store) merge(project model.Project) {
	key := project.Key()

	s.mu.Lock()
	for i := range s.projects {
		if s.projects[i].Key() == key {
			s.projects[i] = project
			break
		}
	}
	if key != "" {
		s.cache[key] = cacheEntry{project: project, fetched: s.now()}
	}
	s.mu.Unlock()

	s.persistList(s.Projects())
}

func (s *Store) persistList(list []model.Project) {
	if !s.persist {
		return
	}
	if err := s.files.SaveJSON(storage.KeyProjects, list); err != nil {
		s.log.Warn("failed to persist listing", "error", err)
	}
}

func (f Filter) query() url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.Technology != "" {
		q.Set("technology", f.Technology)
	}
	return q
}
