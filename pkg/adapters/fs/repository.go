package fs

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/notebook/pkg/core"
)

// DefaultFileName is the notes file used when no path is configured.
const DefaultFileName = "notes.txt"

// Repository implements core.Repository on top of a single flat text file.
// The file is read in full on Load and rewritten in full on Save.
type Repository struct {
	Path   string
	codec  *Codec
	config Config

	mu            sync.RWMutex
	digest        [sha256.Size]byte // digest of the bytes last read or written by us
	records       int
	watcherActive bool
	lastExternal  *time.Time
}

// Config holds the configuration for the flat-file repository.
type Config struct {
	Path         string // Path to the notes file
	MustExist    bool   // Fail Initialize if the parent directory is missing
	ReadOnly     bool
	Logger       *slog.Logger
	Location     *time.Location // Zone of the [updated:...] timestamps, nil means time.Local
	FileMode     os.FileMode    // Mode of a newly created notes file, zero means 0644
	ErrorHandler func(error)    // Receives watcher runtime errors
}

// NewRepository creates a new file-backed repository.
func NewRepository(config Config) *Repository {
	if config.Path == "" {
		config.Path = DefaultFileName
	}
	if config.FileMode == 0 {
		config.FileMode = 0644
	}
	return &Repository{
		Path:   config.Path,
		codec:  NewCodec(config.Location),
		config: config,
	}
}

// Codec returns the record codec used by the repository.
func (r *Repository) Codec() *Codec {
	return r.codec
}

// Initialize makes sure the directory holding the notes file exists.
// The notes file itself is not created; a missing file is an empty collection.
func (r *Repository) Initialize(ctx context.Context) error {
	dir := filepath.Dir(r.Path)

	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(dir)
		if os.IsNotExist(err) {
			if r.config.ReadOnly {
				return nil
			}
			return fmt.Errorf("notes directory does not exist: %s", dir)
		}
		if err != nil {
			return &core.StorageError{Op: "stat", Path: dir, Err: err}
		}
		if !info.IsDir() {
			return fmt.Errorf("notes directory is not a directory: %s", dir)
		}
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return &core.StorageError{Op: "mkdir", Path: dir, Err: err}
	}
	return nil
}

// Load reads and decodes the notes file.
//
// Workflow:
//  1. Read the whole file. A missing file yields an empty collection.
//  2. Split on separator lines and decode each record.
//  3. Skip blank chunks. Records without body are kept.
func (r *Repository) Load(ctx context.Context) ([]core.Note, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.Path)
	if os.IsNotExist(err) {
		r.remember(nil, 0)
		return nil, nil
	}
	if err != nil {
		return nil, &core.StorageError{Op: "read", Path: r.Path, Err: err}
	}

	notes := r.codec.DecodeAll(data)
	r.remember(data, len(notes))

	if r.config.Logger != nil {
		r.config.Logger.Debug("notes file loaded", "path", r.Path, "records", len(notes))
	}

	return notes, nil
}

// Save serializes the whole collection and atomically replaces the notes file.
// An empty collection leaves a zero-length file behind.
func (r *Repository) Save(ctx context.Context, notes []core.Note) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := r.codec.EncodeAll(notes)
	if err != nil {
		return err
	}

	if len(data) == 0 {
		if _, err := os.Stat(r.Path); os.IsNotExist(err) {
			r.remember(nil, 0)
			return nil
		}
	}

	if err := writeFileAtomic(r.Path, data, r.config.FileMode); err != nil {
		return &core.StorageError{Op: "write", Path: r.Path, Err: err}
	}
	r.remember(data, len(notes))

	if r.config.Logger != nil {
		r.config.Logger.Debug("notes file written", "path", r.Path, "records", len(notes), "bytes", len(data))
	}

	return nil
}

// remember records what the file held the last time we touched it.
func (r *Repository) remember(data []byte, records int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.digest = sha256.Sum256(data)
	r.records = records
}

// isOwnContent reports whether data is what we last read or wrote.
func (r *Repository) isOwnContent(data []byte) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.digest == sha256.Sum256(data)
}
