package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path          string     `json:"path"`
	ReadOnly      bool       `json:"read_only"`
	Records       int        `json:"records"`
	WatcherActive bool       `json:"watcher_active"`
	LastExternal  *time.Time `json:"last_external_change,omitempty"`
	TimestampZone string     `json:"timestamp_zone"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return RepositoryState{
		Path:          r.Path,
		ReadOnly:      r.config.ReadOnly,
		Records:       r.records,
		WatcherActive: r.watcherActive,
		LastExternal:  r.lastExternal,
		TimestampZone: r.codec.location().String(),
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "flatfile"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) setWatcherActive(active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watcherActive = active
}

func (r *Repository) recordExternalChange() {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now()
	r.lastExternal = &now
}
