package main

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/notebook"
	"github.com/aretw0/notebook/pkg/core"
)

// scriptedInput feeds prepared lines to the REPL, then reports end of input.
type scriptedInput struct {
	lines   []string
	prompts []string
}

func (s *scriptedInput) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func newTestREPL(t *testing.T, lines ...string) (*REPL, *bytes.Buffer, *core.Service) {
	t.Helper()
	stamp := time.Date(2024, 3, 14, 9, 26, 0, 0, time.UTC)
	svc, err := notebook.New(filepath.Join(t.TempDir(), "notes.txt"),
		notebook.WithClock(func() time.Time { return stamp }),
		notebook.WithLocation(time.UTC),
	)
	require.NoError(t, err)

	var out bytes.Buffer
	return &REPL{svc: svc, out: &out, input: &scriptedInput{lines: lines}}, &out, svc
}

func TestREPL_Session(t *testing.T) {
	r, out, svc := newTestREPL(t,
		"write Math notes",
		"Derivatives are slopes",
		"---",
		"still the body",
		".",
		"write History",
		"world war",
		".",
		"list",
		"search slopes",
		"read Math notes",
		"delete History",
		"delete History",
		"count",
		"bogus",
		"quit",
		"list",
	)

	require.NoError(t, r.Loop(context.Background()))

	got := out.String()
	assert.Contains(t, got, "Note 'Math notes' created.\n")
	assert.Contains(t, got, "Note 'History' created.\n")
	assert.Contains(t, got, "Math notes\nHistory\n")
	assert.Contains(t, got, "Math notes\nUpdated: 2024-03-14 09:26\n\nDerivatives are slopes\n---\nstill the body\n")
	assert.Contains(t, got, "Note deleted: History\n")
	assert.Contains(t, got, "No note titled 'History'.\n")
	assert.Contains(t, got, "Unknown command: bogus")
	assert.Contains(t, got, "Bye!\n")

	// The trailing "list" must never run.
	assert.Equal(t, []string{"Math notes"}, svc.ListTitles())
	assert.Equal(t, []string{"list"}, r.input.(*scriptedInput).lines)
}

func TestREPL_ClearAsksFirst(t *testing.T) {
	r, out, svc := newTestREPL(t,
		"write A", "x", ".",
		"clear", "no",
		"count",
		"clear", "yes",
	)

	require.NoError(t, r.Loop(context.Background()))

	got := out.String()
	assert.Contains(t, got, "Cancelled.\n")
	assert.Contains(t, got, "Cleared 1 notes.\n")
	assert.Equal(t, 0, svc.Len())
}

func TestREPL_WriteRejectsEmptyBody(t *testing.T) {
	r, out, svc := newTestREPL(t, "write A", ".")

	require.NoError(t, r.Loop(context.Background()))
	assert.Contains(t, out.String(), "Error: ")
	assert.Equal(t, 0, svc.Len())
}

func TestREPL_EndOfInputSaysBye(t *testing.T) {
	r, out, _ := newTestREPL(t)

	require.NoError(t, r.Loop(context.Background()))
	assert.Equal(t, "\nBye!\n", out.String())
}

func TestREPL_Completer(t *testing.T) {
	r, _, _ := newTestREPL(t)
	ctx := context.Background()
	_, _, err := r.svc.Upsert(ctx, "Math", "slopes")
	require.NoError(t, err)
	_, _, err = r.svc.Upsert(ctx, "Music", "scales")
	require.NoError(t, err)

	assert.Equal(t, []string{"read", "reload"}, r.completer("re"))
	assert.Equal(t, []string{"read Math", "read Music"}, r.completer("read M"))
	assert.Equal(t, []string{"del Music"}, r.completer("del Mu"))
	assert.Nil(t, r.completer("search M"))
}
