package platform

import (
	"os"
	"path/filepath"
	"strings"
)

// devDirName is the namespace for sandboxed notes under the system temp directory.
const devDirName = "notebook-dev"

// IsDevRun checks if the current process is running via `go run` or `go test`.
// It relies on the fact that these commands build binaries in temporary directories.
func IsDevRun() bool {
	exe, err := os.Executable()
	if err != nil {
		return false
	}

	tempDir := os.TempDir()
	if strings.HasPrefix(strings.ToLower(exe), strings.ToLower(tempDir)) {
		return true
	}

	if strings.HasSuffix(exe, ".test") || strings.HasSuffix(exe, ".test.exe") {
		return true
	}

	return false
}

// ResolvePath determines the directory actually used for the notes file.
// When forceTemp is set it re-roots userDir into a temporary directory, unless
// userDir already lives under the system temp directory.
func ResolvePath(userDir string, forceTemp bool) string {
	if !forceTemp {
		if userDir == "" {
			return "."
		}
		return userDir
	}

	cleanUserDir := filepath.Clean(userDir)
	rel, err := filepath.Rel(os.TempDir(), cleanUserDir)
	if err == nil && !strings.HasPrefix(rel, "..") && filepath.IsAbs(cleanUserDir) {
		return cleanUserDir
	}

	baseTemp := filepath.Join(os.TempDir(), devDirName)
	subName := "default"
	if userDir != "" && userDir != "." && userDir != "./" {
		// Only the base name survives, so "../foo" cannot escape the sandbox.
		subName = filepath.Base(cleanUserDir)
		if subName == "." || subName == string(os.PathSeparator) {
			subName = "default"
		}
	}

	return filepath.Join(baseTemp, subName)
}
