package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/aretw0/notebook/pkg/adapters/fs"
	"github.com/aretw0/notebook/pkg/core"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive notebook session with history and tab completion",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, cfg, err := openService(cmd)
		if err != nil {
			return err
		}

		r := &REPL{svc: svc, out: cmd.OutOrStdout(), historyFile: cfg.HistoryFile}
		return r.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

// lineReader is the part of liner.State the loop needs.
type lineReader interface {
	Prompt(prompt string) (string, error)
}

// REPL is the interactive command loop.
type REPL struct {
	svc         *core.Service
	out         io.Writer
	input       lineReader
	historyFile string
	liner       *liner.State
}

// bodyTerminator ends a multi-line body typed at the body prompt.
const bodyTerminator = "."

var shellCommands = []string{
	"list", "ls", "read", "show", "write", "new",
	"delete", "del", "search", "find", "clear",
	"reload", "count", "help", "exit", "quit", "q",
}

// Run starts the REPL loop on the terminal.
func (r *REPL) Run(ctx context.Context) error {
	// Set up liner for readline-style input
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)
	r.input = r.liner

	if r.historyFile != "" {
		if f, err := os.Open(r.historyFile); err == nil {
			_, _ = r.liner.ReadHistory(f)
			f.Close()
		}
	}
	defer r.saveHistory()

	fmt.Fprintf(r.out, "notebook shell (%d notes)\n", r.svc.Len())
	fmt.Fprintln(r.out, "Type 'help' for available commands.")
	fmt.Fprintln(r.out)

	return r.Loop(ctx)
}

// Loop reads and executes commands until exit, end of input or an aborted prompt.
func (r *REPL) Loop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := r.input.Prompt("notebook> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nBye!")
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if r.liner != nil {
			r.liner.AppendHistory(line)
		}

		if quit := r.Exec(ctx, line); quit {
			return nil
		}
	}
}

// Exec runs a single command line and reports whether the session should end.
// The first word is the command, the rest of the line is its argument, so
// titles with spaces need no quoting.
func (r *REPL) Exec(ctx context.Context, line string) bool {
	name, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(name) {
	case "exit", "quit", "q":
		fmt.Fprintln(r.out, "Bye!")
		return true

	case "help", "?":
		r.printHelp()

	case "list", "ls":
		r.printTitles(r.svc.Notes())

	case "read", "show":
		r.cmdRead(arg)

	case "write", "new":
		r.cmdWrite(ctx, arg)

	case "delete", "del":
		r.cmdDelete(ctx, arg)

	case "search", "find":
		r.printTitles(r.svc.Search(arg))

	case "clear":
		r.cmdClear(ctx)

	case "reload":
		notes, err := r.svc.Load(ctx)
		if err != nil {
			r.printError(err)
			return false
		}
		fmt.Fprintf(r.out, "Reloaded %d notes.\n", len(notes))

	case "count":
		fmt.Fprintln(r.out, r.svc.Len())

	default:
		fmt.Fprintf(r.out, "Unknown command: %s (type 'help' for commands)\n", name)
	}

	return false
}

func (r *REPL) cmdRead(title string) {
	if title == "" {
		fmt.Fprintln(r.out, "Usage: read <title>")
		return
	}
	note, ok := r.svc.Get(title)
	if !ok {
		fmt.Fprintf(r.out, "No note titled '%s'.\n", title)
		return
	}

	fmt.Fprintln(r.out, note.Title)
	if note.UpdatedAt != nil {
		fmt.Fprintf(r.out, "Updated: %s\n", note.UpdatedAt.Format(fs.TimestampLayout))
	}
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, note.Body)
}

// cmdWrite prompts for body lines until a line holding only "." is entered.
func (r *REPL) cmdWrite(ctx context.Context, title string) {
	if title == "" {
		fmt.Fprintln(r.out, "Usage: write <title>")
		return
	}

	fmt.Fprintf(r.out, "Enter the body, finish with a line containing only '%s'.\n", bodyTerminator)

	var lines []string
	for {
		line, err := r.input.Prompt("... ")
		if errors.Is(err, liner.ErrPromptAborted) {
			fmt.Fprintln(r.out, "Write cancelled.")
			return
		}
		if err != nil && !errors.Is(err, io.EOF) {
			r.printError(err)
			return
		}
		if errors.Is(err, io.EOF) || line == bodyTerminator {
			break
		}
		lines = append(lines, line)
	}

	note, created, err := r.svc.Upsert(ctx, title, strings.Join(lines, "\n"))
	if err != nil {
		r.printError(err)
		return
	}
	if created {
		fmt.Fprintf(r.out, "Note '%s' created.\n", note.Title)
	} else {
		fmt.Fprintf(r.out, "Note '%s' updated.\n", note.Title)
	}
}

func (r *REPL) cmdDelete(ctx context.Context, title string) {
	if title == "" {
		fmt.Fprintln(r.out, "Usage: delete <title>")
		return
	}
	removed, err := r.svc.Delete(ctx, title)
	if err != nil {
		r.printError(err)
		return
	}
	if !removed {
		fmt.Fprintf(r.out, "No note titled '%s'.\n", title)
		return
	}
	fmt.Fprintf(r.out, "Note deleted: %s\n", title)
}

func (r *REPL) cmdClear(ctx context.Context) {
	answer, err := r.input.Prompt("Delete every note? (yes/no): ")
	if err != nil || strings.ToLower(strings.TrimSpace(answer)) != "yes" {
		fmt.Fprintln(r.out, "Cancelled.")
		return
	}

	count := r.svc.Len()
	if err := r.svc.ClearAll(ctx); err != nil {
		r.printError(err)
		return
	}
	fmt.Fprintf(r.out, "Cleared %d notes.\n", count)
}

func (r *REPL) printTitles(notes []core.Note) {
	if len(notes) == 0 {
		fmt.Fprintln(r.out, "(no notes)")
		return
	}
	for _, n := range notes {
		fmt.Fprintln(r.out, n.Title)
	}
}

func (r *REPL) printError(err error) {
	switch {
	case errors.Is(err, core.ErrReadOnly):
		fmt.Fprintln(r.out, "Error: notebook is read-only")
	default:
		fmt.Fprintf(r.out, "Error: %v\n", err)
		logger.Debug("shell command failed", "error", err)
	}
}

// saveHistory persists command history to disk.
func (r *REPL) saveHistory() {
	if r.historyFile == "" || r.liner == nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(r.historyFile), 0755); err != nil {
		logger.Debug("cannot create history directory", "error", err)
		return
	}
	if f, err := os.Create(r.historyFile); err == nil {
		_, _ = r.liner.WriteHistory(f)
		f.Close()
	}
}

// completer completes command names, then note titles for commands taking one.
func (r *REPL) completer(line string) []string {
	var completions []string

	name, arg, hasArg := strings.Cut(line, " ")
	if !hasArg {
		lower := strings.ToLower(line)
		for _, cmd := range shellCommands {
			if strings.HasPrefix(cmd, lower) {
				completions = append(completions, cmd)
			}
		}
		return completions
	}

	switch strings.ToLower(name) {
	case "read", "show", "write", "new", "delete", "del":
	default:
		return nil
	}

	arg = strings.TrimLeft(arg, " ")
	for _, title := range r.svc.ListTitles() {
		if strings.HasPrefix(title, arg) {
			completions = append(completions, name+" "+title)
		}
	}
	return completions
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, "Commands:")
	fmt.Fprintln(r.out, "  list                 List note titles")
	fmt.Fprintln(r.out, "  read <title>         Show a note")
	fmt.Fprintln(r.out, "  write <title>        Create or replace a note (body ends with '.')")
	fmt.Fprintln(r.out, "  delete <title>       Delete a note")
	fmt.Fprintln(r.out, "  search <text>        Titles of notes containing text")
	fmt.Fprintln(r.out, "  clear                Delete every note (asks first)")
	fmt.Fprintln(r.out, "  reload               Re-read the notes file")
	fmt.Fprintln(r.out, "  count                Number of notes")
	fmt.Fprintln(r.out, "  help                 Show this help")
	fmt.Fprintln(r.out, "  exit / quit / q      Exit")
}
