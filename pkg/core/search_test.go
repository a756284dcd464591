package core_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/aretw0/notebook/pkg/core"
)

func TestSearch(t *testing.T) {
	notes := []core.Note{
		{Title: "Math", Body: "integral calculus"},
		{Title: "History", Body: "world war"},
		{Title: "Calc notes", Body: "limits"},
	}

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query returns all", "", []string{"Math", "History", "Calc notes"}},
		{"blank query returns all", "  \t", []string{"Math", "History", "Calc notes"}},
		{"body match", "calc", []string{"Math"}},
		{"title match is case sensitive", "Calc", []string{"Calc notes"}},
		{"match in body only", "war", []string{"History"}},
		{"query is trimmed", "  war ", []string{"History"}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, n := range core.Search(notes, tt.query) {
				got = append(got, n.Title)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("surrounding spaces do not anchor words", func(t *testing.T) {
		got := core.Search([]core.Note{{Title: "Essay", Body: "warfare"}}, "war ")
		require.Len(t, got, 1)
		assert.Equal(t, "Essay", got[0].Title)
	})
}

func TestSearch_DoesNotAliasInput(t *testing.T) {
	notes := []core.Note{{Title: "A", Body: "x"}}
	got := core.Search(notes, "")
	got[0].Title = "changed"
	assert.Equal(t, "A", notes[0].Title)
}

func noteGen() *rapid.Generator[core.Note] {
	return rapid.Custom(func(t *rapid.T) core.Note {
		return core.Note{
			Title: rapid.StringMatching(`[A-Za-z ]{1,8}`).Draw(t, "title"),
			Body:  rapid.StringMatching(`[a-cA-C \n]{1,12}`).Draw(t, "body"),
		}
	})
}

// Search returns exactly the notes containing the query, in their original order.
func TestSearch_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		notes := rapid.SliceOf(noteGen()).Draw(rt, "notes")
		query := rapid.StringMatching(`[a-cA-C]{0,3}`).Draw(rt, "query")

		got := core.Search(notes, query)

		var want []core.Note
		for _, n := range notes {
			if query == "" || strings.Contains(n.Title, query) || strings.Contains(n.Body, query) {
				want = append(want, n)
			}
		}
		if len(want) != len(got) {
			rt.Fatalf("expected %d matches, got %d", len(want), len(got))
		}
		for i := range want {
			if !want[i].Equal(got[i]) {
				rt.Fatalf("match %d: expected %q, got %q", i, want[i].Title, got[i].Title)
			}
		}
	})
}

func TestMatchTitles(t *testing.T) {
	notes := []core.Note{
		{Title: "Math", Body: "x"},
		{Title: "Math/Algebra", Body: "y"},
		{Title: "History", Body: "z"},
	}

	t.Run("Single Segment Wildcard", func(t *testing.T) {
		got, err := core.MatchTitles(notes, "M*")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Math", got[0].Title)
	})

	t.Run("Double Star Crosses Segments", func(t *testing.T) {
		got, err := core.MatchTitles(notes, "Math/**")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "Math", got[0].Title)
		assert.Equal(t, "Math/Algebra", got[1].Title)
	})

	t.Run("Invalid Pattern", func(t *testing.T) {
		_, err := core.MatchTitles(notes, "[")
		assert.Error(t, err)
	})
}
