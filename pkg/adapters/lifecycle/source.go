// Package lifecycle turns changes of the notes file into reload notifications
// on the event model of github.com/aretw0/lifecycle.
package lifecycle

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/notebook/pkg/core"
)

// Loader re-reads the notes collection. *core.Service satisfies it.
type Loader interface {
	Load(ctx context.Context) ([]core.Note, error)
}

// Reload is emitted once per file change, after the collection was re-read.
type Reload struct {
	Change core.Event
	Titles []string
	Err    error // set when re-reading failed; Titles is nil then
}

func (r Reload) String() string {
	if r.Err != nil {
		return fmt.Sprintf("[%s] reload failed: %v", r.Change, r.Err)
	}
	return fmt.Sprintf("[%s] %d notes: %s", r.Change, len(r.Titles), strings.Join(r.Titles, ", "))
}

type reloadSource struct {
	loader Loader
	events <-chan core.Event
	out    chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that reloads notes through loader on
// every change event and emits a Reload for it.
// The output channel closes when events closes or the context ends.
func NewSource(loader Loader, events <-chan core.Event) lifecycle.Source {
	return &reloadSource{
		loader: loader,
		events: events,
		out:    make(chan lifecycle.Event),
	}
}

func (s *reloadSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *reloadSource) Start(ctx context.Context) error {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-s.events:
				if !ok {
					return nil
				}
				select {
				case s.out <- s.reload(ctx, e):
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}

func (s *reloadSource) reload(ctx context.Context, e core.Event) Reload {
	notes, err := s.loader.Load(ctx)
	if err != nil {
		return Reload{Change: e, Err: err}
	}

	titles := make([]string, 0, len(notes))
	for _, n := range notes {
		titles = append(titles, n.Title)
	}
	return Reload{Change: e, Titles: titles}
}
