package core

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Search returns, in collection order, the notes whose title or body contains query.
// Matching is plain case-sensitive substring containment. The query is trimmed
// before matching as well as for the blank check, so "war " also finds "warfare".
// A blank query returns the whole collection.
func Search(notes []Note, query string) []Note {
	q := strings.TrimSpace(query)
	if q == "" {
		return append([]Note(nil), notes...)
	}

	var matches []Note
	for _, n := range notes {
		if strings.Contains(n.Title, q) || strings.Contains(n.Body, q) {
			matches = append(matches, n)
		}
	}
	return matches
}

// MatchTitles returns, in collection order, the notes whose title matches the glob pattern.
// Patterns follow doublestar syntax, so "/" in a title acts as a segment separator.
func MatchTitles(notes []Note, pattern string) ([]Note, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid title pattern %q: %w", pattern, doublestar.ErrBadPattern)
	}

	var matches []Note
	for _, n := range notes {
		ok, err := doublestar.Match(pattern, n.Title)
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, n)
		}
	}
	return matches, nil
}
