package fs

import (
	"bytes"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// writeFileAtomic replaces filename with data in a single rename, so readers see
// either the previous contents or the new ones.
// perm is applied when the file did not exist before.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	_, statErr := os.Stat(filename)
	created := os.IsNotExist(statErr)

	if err := atomic.WriteFile(filename, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", filename, err)
	}

	// atomic.WriteFile keeps the mode of an existing file but not for new ones.
	if created {
		if err := os.Chmod(filename, perm); err != nil {
			return fmt.Errorf("failed to chmod %s: %w", filename, err)
		}
	}

	return nil
}
