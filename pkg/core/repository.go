package core

import "context"

// Repository defines the contract for storing and retrieving the note collection.
// The collection is always read and written as a whole.
type Repository interface {
	// Initialize ensures the underlying storage is ready (e.g., create directories).
	Initialize(ctx context.Context) error
	// Load returns every stored note in storage order.
	// A store that does not exist yet yields an empty collection.
	Load(ctx context.Context) ([]Note, error)
	// Save replaces the stored collection with notes.
	// Readers observe either the previous collection or the new one, never a mix.
	Save(ctx context.Context, notes []Note) error
}

// Watchable is implemented by repositories that can report external changes.
type Watchable interface {
	// Watch emits an event every time the store is changed by someone else.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan Event, error)
}
