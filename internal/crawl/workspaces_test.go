package crawl

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkchecker/internal/models"
	"linkchecker/internal/storage"
)

func TestWorkspaces_IsolatesVisitors(t *testing.T) {
	ctx := context.Background()
	ws := NewWorkspaces(NewStubService(0, nil), storage.NewMemory(), 0, nil, nil)

	alice, err := ws.Get(ctx, "alice", "")
	require.NoError(t, err)
	bob, err := ws.Get(ctx, "bob", "")
	require.NoError(t, err)

	_, err = alice.Submit(ctx, "example.com")
	require.NoError(t, err)

	assert.Equal(t, 1, alice.History().Len())
	assert.Equal(t, 0, bob.History().Len())

	again, err := ws.Get(ctx, "alice", "")
	require.NoError(t, err)
	assert.Same(t, alice, again)

	visitors, sessions := ws.Stats()
	assert.Equal(t, 2, visitors)
	assert.Equal(t, 1, sessions)
}

func TestWorkspaces_LoadsPersistedHistoryWithDeepLink(t *testing.T) {
	ctx := context.Background()
	blob := storage.NewMemory()
	svc := NewStubService(0, nil)

	first := NewWorkspaces(svc, blob, 0, nil, nil)
	o, err := first.Get(ctx, "alice", "")
	require.NoError(t, err)
	old, err := o.Submit(ctx, "old.test")
	require.NoError(t, err)
	_, err = o.Submit(ctx, "new.test")
	require.NoError(t, err)

	// A fresh process sees the persisted history and honors the deep link.
	restarted := NewWorkspaces(svc, blob, 0, nil, nil)
	o, err = restarted.Get(ctx, "alice", old.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, o.History().Len())
	assert.Equal(t, State{Phase: PhaseViewing, SessionID: old.ID}, o.State())

	// A stale deep link selects nothing.
	other := NewWorkspaces(svc, blob, 0, nil, nil)
	o, err = other.Get(ctx, "alice", "stale")
	require.NoError(t, err)
	assert.Equal(t, PhaseIdle, o.State().Phase)
}

func TestWorkspaces_HistoryLimit(t *testing.T) {
	ctx := context.Background()
	ws := NewWorkspaces(NewStubService(0, nil), storage.NewMemory(), 2, nil, nil)

	o, err := ws.Get(ctx, "v", "")
	require.NoError(t, err)
	for _, site := range []string{"a.test", "b.test", "c.test"} {
		_, err := o.Submit(ctx, site)
		require.NoError(t, err)
	}

	sessions := o.History().Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, "https://c.test", sessions[0].URL)
	assert.Equal(t, "https://b.test", sessions[1].URL)
}

func TestWorkspaces_BoundedByMaxVisitors(t *testing.T) {
	ctx := context.Background()
	ws := NewWorkspaces(NewStubService(0, nil), storage.NewMemory(), 0, nil, nil,
		WithMaxVisitors(10),
	)

	for i := 0; i < 500; i++ {
		_, err := ws.Get(ctx, fmt.Sprintf("anon:%d", i), "")
		require.NoError(t, err)
	}

	visitors, _ := ws.Stats()
	assert.Equal(t, 10, visitors)
}

func TestWorkspaces_IdleVisitorIsDroppedAndReloaded(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ws := NewWorkspaces(NewStubService(0, nil), storage.NewMemory(), 0, nil, nil,
		WithIdleTimeout(time.Minute),
		WithWorkspacesClock(func() time.Time { return now }),
	)

	o, err := ws.Get(ctx, "alice", "")
	require.NoError(t, err)
	session, err := o.Submit(ctx, "example.com")
	require.NoError(t, err)

	now = now.Add(2 * time.Minute)
	visitors, _ := ws.Stats()
	assert.Equal(t, 0, visitors)

	again, err := ws.Get(ctx, "alice", session.ID)
	require.NoError(t, err)
	assert.NotSame(t, o, again)
	assert.Equal(t, 1, again.History().Len())
	assert.Equal(t, State{Phase: PhaseViewing, SessionID: session.ID}, again.State())
}

func TestWorkspaces_KeepsVisitorWithCrawlInFlight(t *testing.T) {
	ctx := context.Background()
	release := make(chan struct{})
	svc := ServiceFunc(func(ctx context.Context, url string) ([]models.LinkRecord, error) {
		<-release
		return nil, nil
	})
	ws := NewWorkspaces(svc, storage.NewMemory(), 0, nil, nil, WithMaxVisitors(1))

	alice, err := ws.Get(ctx, "alice", "")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := alice.Submit(ctx, "example.com")
		done <- err
	}()
	require.Eventually(t, alice.Busy, time.Second, time.Millisecond)

	_, err = ws.Get(ctx, "bob", "")
	require.NoError(t, err)

	visitors, _ := ws.Stats()
	assert.Equal(t, 2, visitors)

	again, err := ws.Get(ctx, "alice", "")
	require.NoError(t, err)
	assert.Same(t, alice, again)
	assert.Equal(t, PhaseCrawling, again.State().Phase)

	close(release)
	require.NoError(t, <-done)
}

func TestWorkspaces_SeesCrawlsFromAnotherReplica(t *testing.T) {
	ctx := context.Background()
	blob := storage.NewMemory()
	svc := NewStubService(0, nil)
	replicaA := NewWorkspaces(svc, blob, 0, nil, nil)
	replicaB := NewWorkspaces(svc, blob, 0, nil, nil)

	a, err := replicaA.Get(ctx, "alice", "")
	require.NoError(t, err)
	b, err := replicaB.Get(ctx, "alice", "")
	require.NoError(t, err)

	_, err = a.Submit(ctx, "a.test")
	require.NoError(t, err)

	b, err = replicaB.Get(ctx, "alice", "")
	require.NoError(t, err)
	require.Equal(t, 1, b.History().Len())
	_, err = b.Submit(ctx, "b.test")
	require.NoError(t, err)

	a, err = replicaA.Get(ctx, "alice", "")
	require.NoError(t, err)
	urls := make([]string, 0, 2)
	for _, s := range a.History().Sessions() {
		urls = append(urls, s.URL)
	}
	assert.Equal(t, []string{"https://b.test", "https://a.test"}, urls)
}
