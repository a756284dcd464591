package platform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/notebook/pkg/adapters/fs"
)

// ProjectConfigFile marks the root of a notebook project.
const ProjectConfigFile = ".notebook.json"

// FindRoot recursively looks upwards for a notebook root indicator.
// Indicators are: a .notebook.json file or a notes.txt file.
// If found, returns the absolute path to the root.
func FindRoot(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		if hasFile(dir, ProjectConfigFile) || hasFile(dir, fs.DefaultFileName) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("root not found")
}

func hasFile(dir, name string) bool {
	path := filepath.Join(dir, name)
	_, err := os.Stat(path)
	return err == nil
}
