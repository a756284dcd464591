package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notebook/pkg/adapters/fs"
	"github.com/aretw0/notebook/pkg/core"
)

// setupRepo creates a repository whose notes file lives in a fresh temp directory.
// It returns the repository and the path of the notes file.
func setupRepo(t *testing.T, opts ...func(*fs.Config)) (*fs.Repository, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data", fs.DefaultFileName)

	cfg := fs.Config{
		Path:     path,
		Location: time.UTC,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return fs.NewRepository(cfg), path
}

func TestInitialize(t *testing.T) {
	t.Run("Creates Parent Directory", func(t *testing.T) {
		repo, path := setupRepo(t)

		require.NoError(t, repo.Initialize(context.Background()))

		info, err := os.Stat(filepath.Dir(path))
		require.NoError(t, err)
		assert.True(t, info.IsDir())

		_, err = os.Stat(path)
		assert.True(t, os.IsNotExist(err), "notes file must not be created by Initialize")
	})

	t.Run("Fails If MustExist And Missing", func(t *testing.T) {
		repo, _ := setupRepo(t, func(c *fs.Config) { c.MustExist = true })
		assert.Error(t, repo.Initialize(context.Background()))
	})

	t.Run("ReadOnly Tolerates Missing Directory", func(t *testing.T) {
		repo, path := setupRepo(t, func(c *fs.Config) { c.ReadOnly = true })

		require.NoError(t, repo.Initialize(context.Background()))
		_, err := os.Stat(filepath.Dir(path))
		assert.True(t, os.IsNotExist(err))
	})
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("Missing File Is Empty Collection", func(t *testing.T) {
		repo, _ := setupRepo(t)

		notes, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("Decodes Existing File", func(t *testing.T) {
		repo, path := setupRepo(t)
		require.NoError(t, repo.Initialize(ctx))
		content := "Math\nDerivatives are slopes\n[updated:2024-03-14 09:26]\n---\nHistory\nworld war\n---\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		notes, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, "Math", notes[0].Title)
		require.NotNil(t, notes[0].UpdatedAt)
		assert.Equal(t, time.Date(2024, 3, 14, 9, 26, 0, 0, time.UTC), notes[0].UpdatedAt.UTC())
		assert.Equal(t, "History", notes[1].Title)
		assert.Nil(t, notes[1].UpdatedAt)
	})

	t.Run("Keeps Records Without Body", func(t *testing.T) {
		repo, path := setupRepo(t)
		require.NoError(t, repo.Initialize(ctx))
		require.NoError(t, os.WriteFile(path, []byte("Orphan\n---\n\n---\nA\nx\n---\n"), 0644))

		notes, err := repo.Load(ctx)
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, core.Note{Title: "Orphan"}, notes[0])
		assert.Equal(t, "A", notes[1].Title)

		state := repo.State().(fs.RepositoryState)
		assert.Equal(t, 2, state.Records)
	})

	t.Run("Unreadable Path Is StorageError", func(t *testing.T) {
		// A directory where the file should be cannot be read as a file.
		repo, path := setupRepo(t)
		require.NoError(t, os.MkdirAll(path, 0755))

		_, err := repo.Load(ctx)
		require.Error(t, err)

		var storageErr *core.StorageError
		require.True(t, errors.As(err, &storageErr))
		assert.Equal(t, "read", storageErr.Op)
		assert.Equal(t, path, storageErr.Path)
	})

	t.Run("Cancelled Context", func(t *testing.T) {
		repo, _ := setupRepo(t)
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := repo.Load(cctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSave(t *testing.T) {
	ctx := context.Background()

	t.Run("Writes Records In Order", func(t *testing.T) {
		repo, path := setupRepo(t)
		require.NoError(t, repo.Initialize(ctx))

		err := repo.Save(ctx, []core.Note{
			{Title: "B", Body: "y"},
			{Title: "A", Body: "x"},
		})
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "B\ny\n---\nA\nx\n---\n", string(data))
	})

	t.Run("Empty Collection Truncates", func(t *testing.T) {
		repo, path := setupRepo(t)
		require.NoError(t, repo.Initialize(ctx))
		require.NoError(t, repo.Save(ctx, []core.Note{{Title: "A", Body: "x"}}))

		require.NoError(t, repo.Save(ctx, nil))

		info, err := os.Stat(path)
		require.NoError(t, err, "truncated file must stay in place")
		assert.Zero(t, info.Size())

		notes, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, notes)
	})

	t.Run("Empty Collection Does Not Create File", func(t *testing.T) {
		repo, path := setupRepo(t)
		require.NoError(t, repo.Initialize(ctx))

		require.NoError(t, repo.Save(ctx, nil))

		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Invalid Note Leaves File Untouched", func(t *testing.T) {
		repo, path := setupRepo(t)
		require.NoError(t, repo.Initialize(ctx))
		require.NoError(t, repo.Save(ctx, []core.Note{{Title: "A", Body: "x"}}))

		err := repo.Save(ctx, []core.Note{{Title: "A", Body: "x"}, {Title: "", Body: "y"}})
		assert.ErrorIs(t, err, core.ErrInvalidNote)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "A\nx\n---\n", string(data))
	})

	t.Run("ReadOnly Rejects Writes", func(t *testing.T) {
		repo, path := setupRepo(t, func(c *fs.Config) { c.ReadOnly = true })

		err := repo.Save(ctx, []core.Note{{Title: "A", Body: "x"}})
		assert.ErrorIs(t, err, core.ErrReadOnly)

		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("Missing Directory Is StorageError", func(t *testing.T) {
		repo, _ := setupRepo(t)

		err := repo.Save(ctx, []core.Note{{Title: "A", Body: "x"}})
		require.Error(t, err)

		var storageErr *core.StorageError
		require.True(t, errors.As(err, &storageErr))
		assert.Equal(t, "write", storageErr.Op)
	})

	t.Run("New File Uses Configured Mode", func(t *testing.T) {
		if runtime.GOOS == "windows" {
			t.Skip("file modes are not enforced on windows")
		}
		repo, path := setupRepo(t, func(c *fs.Config) { c.FileMode = 0600 })
		require.NoError(t, repo.Initialize(ctx))
		require.NoError(t, repo.Save(ctx, []core.Note{{Title: "A", Body: "x"}}))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
	})
}

// Three notes are written, the middle one deleted,
// and the file reloaded by a fresh process.
func TestServiceOverFlatFile(t *testing.T) {
	ctx := context.Background()
	repo, path := setupRepo(t)
	require.NoError(t, repo.Initialize(ctx))

	clock := time.Date(2024, 3, 14, 9, 26, 53, 0, time.UTC)
	svc := core.NewService(repo, core.WithClock(func() time.Time { return clock }))

	_, created, err := svc.Upsert(ctx, "Math", "Derivatives are slopes")
	require.NoError(t, err)
	assert.True(t, created)
	_, _, err = svc.Upsert(ctx, "History", "world war")
	require.NoError(t, err)
	_, _, err = svc.Upsert(ctx, "Bio", "cells\n---\ndivide")
	require.NoError(t, err)

	removed, err := svc.Delete(ctx, "History")
	require.NoError(t, err)
	assert.True(t, removed)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Math\nDerivatives are slopes\n[updated:2024-03-14 09:26]\n---\n"+
			"Bio\ncells\n\\---\ndivide\n[updated:2024-03-14 09:26]\n---\n",
		string(data))

	fresh := core.NewService(fs.NewRepository(fs.Config{Path: path, Location: time.UTC}))
	notes, err := fresh.Load(ctx)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, []string{"Math", "Bio"}, fresh.ListTitles())

	bio, ok := fresh.Get("Bio")
	require.True(t, ok)
	assert.Equal(t, "cells\n---\ndivide", bio.Body)

	require.NoError(t, fresh.ClearAll(ctx))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())

	notes, err = core.NewService(fs.NewRepository(fs.Config{Path: path})).Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestServiceKeepsHandWrittenBodylessRecords(t *testing.T) {
	ctx := context.Background()
	repo, path := setupRepo(t)
	require.NoError(t, repo.Initialize(ctx))
	require.NoError(t, os.WriteFile(path, []byte("Keep\nbody\n---\nTodo idea\n---\n"), 0644))

	clock := time.Date(2024, 3, 14, 9, 26, 0, 0, time.UTC)
	svc := core.NewService(repo, core.WithClock(func() time.Time { return clock }))

	_, err := svc.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Keep", "Todo idea"}, svc.ListTitles())

	todo, ok := svc.Get("Todo idea")
	require.True(t, ok)
	assert.Empty(t, todo.Body)

	_, _, err = svc.Upsert(ctx, "New", "x")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Keep\nbody\n---\nTodo idea\n---\nNew\nx\n[updated:2024-03-14 09:26]\n---\n",
		string(data))

	// Writing a body-less note from scratch is still refused.
	_, _, err = svc.Upsert(ctx, "Todo idea", "")
	assert.ErrorIs(t, err, core.ErrInvalidNote)
}

func TestRepositoryState(t *testing.T) {
	ctx := context.Background()
	repo, path := setupRepo(t)
	require.NoError(t, repo.Initialize(ctx))
	require.NoError(t, repo.Save(ctx, []core.Note{{Title: "A", Body: "x"}, {Title: "B", Body: "y"}}))

	state, ok := repo.State().(fs.RepositoryState)
	require.True(t, ok)
	assert.Equal(t, path, state.Path)
	assert.Equal(t, 2, state.Records)
	assert.False(t, state.WatcherActive)
	assert.Equal(t, "UTC", state.TimestampZone)
	assert.Equal(t, "flatfile", repo.ComponentType())
}
