// Package notebook is the Composition Root for the notebook application.
//
// It connects the core note store (Domain Layer) with the flat-file adapter
// (Persistence Layer) using the Hexagonal Architecture pattern.
//
// A notebook is a single UTF-8 text file of short notes keyed by title. Each
// record is the title line, the body, an optional [updated:YYYY-MM-DD HH:MM]
// line, and a closing "---" separator line. The whole file is read on load and
// atomically rewritten on every change.
//
// Features:
//
//   - **Title-keyed upsert**: writing an existing title replaces the note in place.
//   - **Substring search**: case-sensitive match over titles and bodies.
//   - **Hand-editable storage**: plain text, safe to open in any editor.
//   - **External edit detection**: opt-in watcher for changes made by other programs.
//   - **Read-only mode**: inspect a notebook without any chance of writing it.
//
// Usage:
//
//	svc, err := notebook.New("./notes.txt",
//		notebook.WithLogger(logger),
//	)
//
//	// Create or replace a note
//	note, created, err := svc.Upsert(ctx, "Math", "Derivatives are slopes")
//
//	// Find notes mentioning a word
//	hits := svc.Search("slopes")
package notebook
