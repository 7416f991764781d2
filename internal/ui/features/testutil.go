// Package features provides shared test utilities for UI feature tests.
package features

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/flowlens/internal/state"
	"github.com/leapstack-labs/flowlens/internal/testutil"
	"github.com/leapstack-labs/flowlens/internal/ui/notifier"
	"github.com/leapstack-labs/flowlens/pkg/core"
)

// TestComponent is a helper to create component records with minimal boilerplate.
type TestComponent struct {
	ID      string
	State   core.HealthState
	Message string
	Refs    []string
}

// Record converts the helper into a normalized core.ComponentRecord.
func (c TestComponent) Record() core.ComponentRecord {
	state := c.State
	if state == "" {
		state = core.HealthHealthy
	}
	rec := core.ComponentRecord{
		ID:           c.ID,
		Health:       core.Health{State: state, Message: c.Message},
		ReferencesTo: c.Refs,
	}
	rec.Normalize()
	return rec
}

// Records converts a list of helpers into component records.
func Records(components ...TestComponent) []core.ComponentRecord {
	out := make([]core.ComponentRecord, 0, len(components))
	for _, c := range components {
		out = append(out, c.Record())
	}
	core.ResolveReferences(out)
	return out
}

// CountingLoader is a ComponentLoader that serves a mutable record set and
// counts how often it was asked.
type CountingLoader struct {
	mu      sync.Mutex
	records []core.ComponentRecord
	err     error
	calls   atomic.Int64
}

// NewCountingLoader creates a loader serving records.
func NewCountingLoader(records []core.ComponentRecord) *CountingLoader {
	return &CountingLoader{records: records}
}

// LoadComponents implements core.ComponentLoader.
func (l *CountingLoader) LoadComponents(context.Context) ([]core.ComponentRecord, error) {
	l.calls.Add(1)
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	return append([]core.ComponentRecord(nil), l.records...), nil
}

// Set replaces the served records.
func (l *CountingLoader) Set(records []core.ComponentRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = records
}

// Fail makes every subsequent load return err.
func (l *CountingLoader) Fail(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}

// Calls returns the number of LoadComponents calls so far.
func (l *CountingLoader) Calls() int {
	return int(l.calls.Load())
}

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Loader       *CountingLoader
	Notifier     *notifier.Notifier
	SessionStore *sessions.CookieStore
}

// SetupTestFixture creates a fixture whose loader serves the given components.
func SetupTestFixture(t *testing.T, components ...TestComponent) *TestFixture {
	t.Helper()
	return &TestFixture{
		Loader:       NewCountingLoader(Records(components...)),
		Notifier:     NewTestNotifier(),
		SessionStore: NewTestSessionStore(),
	}
}

// SetupTestStore creates an in-memory state store holding the given components.
// Use this when the handler should exercise the store's direct lookups.
func SetupTestStore(t *testing.T, components ...TestComponent) *state.SQLiteStore {
	t.Helper()

	store, err := state.OpenStore(state.MemoryPath, testutil.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})

	_, err = store.ReplaceComponents(context.Background(), Records(components...))
	require.NoError(t, err)
	return store
}

// RequestWithPathParam wraps a request with chi URL params.
func RequestWithPathParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// RequestWithTimeout wraps a request with a context timeout.
// The context is cancelled when the test ends.
func RequestWithTimeout(t *testing.T, r *http.Request, timeout time.Duration) *http.Request {
	t.Helper()
	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	t.Cleanup(cancel)
	return r.WithContext(ctx)
}

// WaitForSubscribers blocks until n clients are subscribed to the notifier.
func WaitForSubscribers(t *testing.T, n *notifier.Notifier, count int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return n.Subscribers() >= count
	}, time.Second, 5*time.Millisecond, "SSE handler never subscribed")
}

// NewTestNotifier creates a notifier for testing.
func NewTestNotifier() *notifier.Notifier {
	return notifier.New()
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}
