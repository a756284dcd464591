package core_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/notebook/pkg/core"
)

func TestNote_Validate(t *testing.T) {
	tests := []struct {
		name    string
		note    core.Note
		wantErr bool
	}{
		{"valid", core.Note{Title: "T", Body: "B"}, false},
		{"multi-line body", core.Note{Title: "T", Body: "a\nb"}, false},
		{"empty title", core.Note{Body: "B"}, true},
		{"blank body", core.Note{Title: "T", Body: "\n "}, true},
		{"title with newline", core.Note{Title: "a\nb", Body: "B"}, true},
		{"title with carriage return", core.Note{Title: "a\rb", Body: "B"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.note.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, core.ErrInvalidNote), "expected ErrInvalidNote, got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestNote_Equal(t *testing.T) {
	utc := time.Date(2024, 1, 2, 3, 4, 0, 0, time.UTC)
	sameInstant := utc.In(time.FixedZone("X", 3600))

	a := core.Note{Title: "T", Body: "B", UpdatedAt: &utc}
	b := core.Note{Title: "T", Body: "B", UpdatedAt: &sameInstant}

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(core.Note{Title: "T", Body: "B"}))
	assert.True(t, core.Note{Title: "T", Body: "B"}.Equal(core.Note{Title: "T", Body: "B"}))
	assert.False(t, a.Equal(core.Note{Title: "T", Body: "other", UpdatedAt: &utc}))
}

func TestStorageError(t *testing.T) {
	inner := errors.New("disk full")
	err := error(&core.StorageError{Op: "write", Path: "notes.txt", Err: inner})

	assert.ErrorIs(t, err, inner)
	assert.Equal(t, "write notes.txt: disk full", err.Error())
}
