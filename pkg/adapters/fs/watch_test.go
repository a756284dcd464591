package fs_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notebook/pkg/adapters/fs"
	"github.com/aretw0/notebook/pkg/core"
)

func TestWatch(t *testing.T) {
	if testing.Short() {
		t.Skip("watcher tests touch the real filesystem")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, path := setupRepo(t)
	require.NoError(t, repo.Initialize(ctx))

	events, err := repo.Watch(ctx)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return repo.State().(fs.RepositoryState).WatcherActive
	}, 2*time.Second, 10*time.Millisecond)

	// Our own save must not come back as an external change.
	require.NoError(t, repo.Save(ctx, []core.Note{{Title: "Mine", Body: "x"}}))
	select {
	case e := <-events:
		t.Fatalf("unexpected event for own write: %v", e)
	case <-time.After(300 * time.Millisecond):
	}

	require.NoError(t, os.WriteFile(path, []byte("Theirs\ny\n---\n"), 0644))

	select {
	case e := <-events:
		assert.Contains(t, []core.EventType{core.EventCreate, core.EventModify}, e.Type)
		assert.Equal(t, path, e.Path)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for external change")
	}

	state := repo.State().(fs.RepositoryState)
	assert.NotNil(t, state.LastExternal)

	// Once reloaded, the external content counts as ours again.
	notes, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Theirs", notes[0].Title)

	require.NoError(t, os.Remove(path))
	select {
	case e := <-events:
		assert.Equal(t, core.EventDelete, e.Type)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for delete")
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 20*time.Millisecond, "events channel must close on cancel")
	assert.False(t, repo.State().(fs.RepositoryState).WatcherActive)
}

func TestWatch_CancelledContext(t *testing.T) {
	repo, _ := setupRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.Watch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
