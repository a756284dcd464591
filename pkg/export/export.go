// Package export renders a note collection into formats meant for other tools:
// JSON and YAML for programs, Markdown and HTML for people.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/notebook/pkg/core"
)

// Format identifies an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatYAML     Format = "yaml"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// Formats lists the supported formats in display order.
func Formats() []Format {
	return []Format{FormatJSON, FormatYAML, FormatMarkdown, FormatHTML}
}

// ParseFormat accepts a format name or a common file extension for it.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (want one of %v)", name, Formats())
	}
}

type options struct {
	title    string
	location *time.Location
}

// Option configures an export.
type Option func(*options)

// WithTitle sets the document title used by the Markdown and HTML formats.
func WithTitle(title string) Option {
	return func(o *options) {
		o.title = title
	}
}

// WithLocation sets the zone timestamps are shown in. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(o *options) {
		o.location = loc
	}
}

// Write renders notes to w in the given format, preserving collection order.
func Write(w io.Writer, format Format, notes []core.Note, opts ...Option) error {
	o := &options{title: "Notebook", location: time.Local}
	for _, opt := range opts {
		opt(o)
	}
	if notes == nil {
		notes = []core.Note{}
	}

	switch format {
	case FormatJSON:
		return writeJSON(w, notes)
	case FormatYAML:
		return writeYAML(w, notes)
	case FormatMarkdown:
		_, err := io.WriteString(w, renderMarkdown(notes, o))
		return err
	case FormatHTML:
		return writeHTML(w, notes, o)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

func writeJSON(w io.Writer, notes []core.Note) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(notes); err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	return nil
}

func writeYAML(w io.Writer, notes []core.Note) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(notes); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return enc.Close()
}

// renderMarkdown lays notes out as level-two sections under a level-one title.
// Bodies are emitted verbatim, so Markdown written in a note keeps working.
func renderMarkdown(notes []core.Note, o *options) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n", o.title)
	for _, n := range notes {
		fmt.Fprintf(&b, "\n## %s\n", n.Title)
		if n.UpdatedAt != nil {
			fmt.Fprintf(&b, "\n_Updated %s_\n", formatStamp(n.UpdatedAt, o.location))
		}
		if body := strings.TrimRight(n.Body, "\n"); body != "" {
			fmt.Fprintf(&b, "\n%s\n", body)
		}
	}
	return b.String()
}

func formatStamp(t *time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02 15:04")
}
