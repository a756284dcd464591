// Package config loads notebook settings from layered JSONC files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tailscale/hujson"

	"github.com/aretw0/notebook/internal/platform"
	"github.com/aretw0/notebook/pkg/adapters/fs"
)

var (
	errConfigInvalid      = errors.New("invalid config")
	errConfigFileNotFound = errors.New("config file not found")
	errConfigFileRead     = errors.New("cannot read config file")
	errNotesFileEmpty     = errors.New("notes_file cannot be empty")
	errTimezoneInvalid    = errors.New("unknown timezone")
)

// Config holds all configuration options.
type Config struct {
	NotesFile   string `json:"notes_file"`
	HistoryFile string `json:"history_file,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
	ReadOnly    *bool  `json:"read_only,omitempty"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global   string `json:"global,omitempty"`   // Path to global config if loaded, empty otherwise
	Project  string `json:"project,omitempty"`  // Path to project or explicit config if loaded
	RootDir  string `json:"root_dir,omitempty"` // Project root found by walking up, if any
	Explicit bool   `json:"explicit"`
}

// Overrides are values given on the command line. Zero values are ignored.
type Overrides struct {
	NotesFile string
	ReadOnly  *bool
}

// appDir is the directory name under $XDG_CONFIG_HOME.
const appDir = "notebook"

// IsReadOnly reports the effective read-only flag.
func (c Config) IsReadOnly() bool {
	return c.ReadOnly != nil && *c.ReadOnly
}

// Location resolves Timezone. Empty means time.Local.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", errTimezoneInvalid, c.Timezone, err)
	}
	return loc, nil
}

// globalConfigDir returns $XDG_CONFIG_HOME/notebook, or ~/.config/notebook.
// Returns empty string if home directory cannot be determined.
func globalConfigDir(env []string) string {
	for _, e := range env {
		if after, ok := strings.CutPrefix(e, "XDG_CONFIG_HOME="); ok && after != "" {
			return filepath.Join(after, appDir)
		}
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, appDir)
	}

	home, err := os.UserHomeDir()
	if err == nil {
		return filepath.Join(home, ".config", appDir)
	}

	return ""
}

// GlobalConfigPath returns the path of the per-user config file.
func GlobalConfigPath(env []string) string {
	dir := globalConfigDir(env)
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.json")
}

// Default returns the configuration used when no file says otherwise.
func Default(workDir string, env []string) Config {
	cfg := Config{NotesFile: filepath.Join(workDir, fs.DefaultFileName)}
	if dir := globalConfigDir(env); dir != "" {
		cfg.HistoryFile = filepath.Join(dir, "history")
	}
	return cfg
}

// Load loads configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config ($XDG_CONFIG_HOME/notebook/config.json)
// 3. Project config (.notebook.json in the nearest parent holding one)
// 4. Explicit config file via configPath (replaces the project config)
// 5. CLI overrides.
//
// Relative paths inside a config file are resolved against the directory of
// that file.
func Load(workDir, configPath string, overrides Overrides, env []string) (Config, Sources, error) {
	var sources Sources

	cfg := Default(workDir, env)

	if root, err := platform.FindRoot(workDir); err == nil {
		sources.RootDir = root
		cfg.NotesFile = filepath.Join(root, fs.DefaultFileName)
	}

	globalPath := GlobalConfigPath(env)
	if globalPath != "" {
		globalCfg, loaded, err := loadFile(globalPath, false)
		if err != nil {
			return Config{}, Sources{}, err
		}
		if loaded {
			sources.Global = globalPath
			cfg = merge(cfg, globalCfg)
		}
	}

	projectPath, mustExist := "", false
	switch {
	case configPath != "":
		projectPath, mustExist = configPath, true
		if !filepath.IsAbs(projectPath) {
			projectPath = filepath.Join(workDir, projectPath)
		}
		sources.Explicit = true
	case sources.RootDir != "":
		projectPath = filepath.Join(sources.RootDir, platform.ProjectConfigFile)
	}

	if projectPath != "" {
		projectCfg, loaded, err := loadFile(projectPath, mustExist)
		if err != nil {
			return Config{}, Sources{}, err
		}
		if loaded {
			sources.Project = projectPath
			cfg = merge(cfg, projectCfg)
		}
	}

	if overrides.NotesFile != "" {
		cfg.NotesFile = overrides.NotesFile
		if !filepath.IsAbs(cfg.NotesFile) {
			cfg.NotesFile = filepath.Join(workDir, cfg.NotesFile)
		}
	}
	if overrides.ReadOnly != nil {
		cfg.ReadOnly = overrides.ReadOnly
	}

	if err := validate(cfg); err != nil {
		return Config{}, Sources{}, err
	}

	return cfg, sources, nil
}

// loadFile loads a config file. If mustExist is false, a missing file is not an error.
// Relative paths in the file are made absolute against the file's directory.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if mustExist {
				return Config{}, false, fmt.Errorf("%w: %s", errConfigFileNotFound, path)
			}
			return Config{}, false, nil
		}
		return Config{}, false, fmt.Errorf("%w %s: %w", errConfigFileRead, path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", errConfigInvalid, path, err)
	}

	base := filepath.Dir(path)
	if cfg.NotesFile != "" && !filepath.IsAbs(cfg.NotesFile) {
		cfg.NotesFile = filepath.Join(base, cfg.NotesFile)
	}
	if cfg.HistoryFile != "" && !filepath.IsAbs(cfg.HistoryFile) {
		cfg.HistoryFile = filepath.Join(base, cfg.HistoryFile)
	}

	return cfg, true, nil
}

// Parse decodes a JSONC document (comments and trailing commas allowed).
func Parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	// An explicit empty notes_file is a mistake, not a request for the default.
	var raw map[string]any
	_ = json.Unmarshal(standardized, &raw)
	if val, exists := raw["notes_file"]; exists {
		if str, ok := val.(string); ok && strings.TrimSpace(str) == "" {
			return Config{}, errNotesFileEmpty
		}
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.NotesFile != "" {
		base.NotesFile = overlay.NotesFile
	}
	if overlay.HistoryFile != "" {
		base.HistoryFile = overlay.HistoryFile
	}
	if overlay.Timezone != "" {
		base.Timezone = overlay.Timezone
	}
	if overlay.ReadOnly != nil {
		base.ReadOnly = overlay.ReadOnly
	}
	return base
}

func validate(cfg Config) error {
	if cfg.NotesFile == "" {
		return errNotesFileEmpty
	}
	if _, err := cfg.Location(); err != nil {
		return err
	}
	return nil
}

// Format returns the config as formatted JSON.
func Format(cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to format config: %w", err)
	}
	return string(data), nil
}

// WriteProject writes a project config file into dir, pointing at notes.txt.
// An existing file is left untouched and reported as not written.
func WriteProject(dir string) (string, bool, error) {
	path := filepath.Join(dir, platform.ProjectConfigFile)
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	content := "{\n  // Notes file, relative to this config.\n  \"notes_file\": \"" + fs.DefaultFileName + "\",\n}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return path, false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, true, nil
}
