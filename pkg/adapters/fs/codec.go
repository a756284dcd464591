package fs

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/aretw0/notebook/pkg/core"
)

const (
	// Separator is the line that terminates every record in the notes file.
	Separator = "---"

	// TimestampLayout is the layout of the timestamp inside a metadata line.
	TimestampLayout = "2006-01-02 15:04"

	escapePrefix = `\`
)

var metadataLine = regexp.MustCompile(`^\[updated:(\d{4}-\d{2}-\d{2} \d{2}:\d{2})\]$`)

// Codec converts notes to and from the flat-file record format:
//
//	<title>
//	<body lines>
//	[updated:YYYY-MM-DD HH:MM]
//	---
//
// A title or body line that would read as a separator or a metadata line is written
// with one extra leading backslash, and Decode strips it again.
type Codec struct {
	// Location is used to format and parse timestamps. Nil means time.Local.
	// Stamps carry no zone offset, so in a zone with daylight saving a stamp in
	// the hour repeated when clocks go back may read back one hour off. UTC has
	// no repeated hour.
	Location *time.Location
}

// NewCodec creates a codec rendering timestamps in loc.
func NewCodec(loc *time.Location) *Codec {
	return &Codec{Location: loc}
}

func (c *Codec) location() *time.Location {
	if c == nil || c.Location == nil {
		return time.Local
	}
	return c.Location
}

// Encode renders a single record, without its trailing separator.
// Only the title is required: a record without body, as found in a hand-edited
// file, is written back as a lone title line.
func (c *Codec) Encode(n core.Note) (string, error) {
	title := strings.TrimSpace(n.Title)
	if title == "" {
		return "", fmt.Errorf("%w: title is empty", core.ErrInvalidNote)
	}
	if strings.ContainsAny(title, "\r\n") {
		return "", fmt.Errorf("%w: title must be a single line", core.ErrInvalidNote)
	}

	var buf strings.Builder
	buf.WriteString(escapeLine(title))
	buf.WriteByte('\n')

	body := strings.TrimRightFunc(normalizeNewlines(n.Body), unicode.IsSpace)
	if body != "" {
		for _, line := range strings.Split(body, "\n") {
			buf.WriteString(escapeLine(line))
			buf.WriteByte('\n')
		}
	}

	if n.UpdatedAt != nil {
		buf.WriteString("[updated:")
		buf.WriteString(n.UpdatedAt.In(c.location()).Format(TimestampLayout))
		buf.WriteString("]\n")
	}

	return buf.String(), nil
}

// Decode parses a single record.
// It reports false for a record without title; DecodeAll discards such chunks
// rather than failing the whole file. A titled record may have an empty body.
func (c *Codec) Decode(raw string) (core.Note, bool) {
	return c.decode(normalizeNewlines(raw))
}

// decode parses a record whose line endings are already normalized.
func (c *Codec) decode(raw string) (core.Note, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return core.Note{}, false
	}

	titleLine, rest, _ := strings.Cut(raw, "\n")
	title := strings.TrimSpace(unescapeLine(titleLine))
	if title == "" {
		return core.Note{}, false
	}

	lines := strings.Split(rest, "\n")
	note := core.Note{Title: title}

	if ts, ok := c.parseMetadata(lines[len(lines)-1]); ok {
		note.UpdatedAt = &ts
		lines = lines[:len(lines)-1]
	}

	for i, line := range lines {
		lines[i] = unescapeLine(line)
	}
	note.Body = strings.TrimRightFunc(strings.Join(lines, "\n"), unicode.IsSpace)

	return note, true
}

// EncodeAll renders the whole collection, each record followed by a separator line.
// An empty collection renders to zero bytes.
func (c *Codec) EncodeAll(notes []core.Note) ([]byte, error) {
	var buf bytes.Buffer
	for _, n := range notes {
		record, err := c.Encode(n)
		if err != nil {
			return nil, err
		}
		buf.WriteString(record)
		buf.WriteString(Separator)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// DecodeAll splits data on separator lines and decodes every record, in file order.
// Blank and untitled chunks are skipped.
func (c *Codec) DecodeAll(data []byte) []core.Note {
	var (
		notes []core.Note
		chunk []string
	)

	flush := func() {
		raw := strings.Join(chunk, "\n")
		chunk = chunk[:0]
		if n, ok := c.decode(raw); ok {
			notes = append(notes, n)
		}
	}

	for _, line := range strings.Split(normalizeNewlines(string(data)), "\n") {
		if line == Separator {
			flush()
			continue
		}
		chunk = append(chunk, line)
	}
	flush()

	return notes
}

func (c *Codec) parseMetadata(line string) (time.Time, bool) {
	m := metadataLine.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}, false
	}
	ts, err := time.ParseInLocation(TimestampLayout, m[1], c.location())
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

// needsEscape reports whether a line, ignoring any leading backslashes,
// would be mistaken for framing.
func needsEscape(line string) bool {
	bare := strings.TrimLeft(line, escapePrefix)
	return bare == Separator || metadataLine.MatchString(bare)
}

func escapeLine(line string) string {
	if needsEscape(line) {
		return escapePrefix + line
	}
	return line
}

func unescapeLine(line string) string {
	if strings.HasPrefix(line, escapePrefix) && needsEscape(line) {
		return line[len(escapePrefix):]
	}
	return line
}

// normalizeNewlines converts every CRLF pair to LF. Other CRs are kept.
func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
