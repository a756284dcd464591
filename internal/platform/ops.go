package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/notebook/pkg/adapters/fs"
	"github.com/aretw0/notebook/pkg/core"
)

// Init prepares the storage for a notebook based on the provided configuration.
// The 'uri' argument is adapter-specific. For 'fs' it is the notes file, or a
// directory that holds notes.txt.
//
// It returns the configured core.Repository.
func Init(uri string, opts ...Option) (core.Repository, error) {
	o := buildOptions(opts)

	// 1. Check for injected repository
	if o.repository != nil {
		return o.repository, nil
	}

	// 2. Initialize based on Adapter
	var repo core.Repository
	var err error

	switch o.adapter {
	case "fs":
		repo, err = initFS(uri, o)
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err != nil {
		return nil, err
	}

	// 3. Run Initialization
	if err := repo.Initialize(context.Background()); err != nil {
		return nil, err
	}

	return repo, nil
}

// initFS handles the initialization logic for the flat-file adapter.
func initFS(uri string, o *options) (core.Repository, error) {
	tempDir, _ := o.config["temp_dir"].(bool)
	mustExist, _ := o.config["must_exist"].(bool)
	isReadOnly, _ := o.config["read_only"].(bool)
	location, _ := o.config["location"].(*time.Location)
	fileMode, _ := o.config["file_mode"].(os.FileMode)
	errorHandler, _ := o.config["watcher_error_handler"].(func(error))

	// Default to true (safe) if not present.
	devSafety := true
	if val, ok := o.config["dev_safety"].(bool); ok {
		devSafety = val
	}

	// Bypass Safety if:
	// 1. ReadOnly is active (inherently safe)
	// 2. User explicitly disabled DevSafety
	bypassSafety := isReadOnly || !devSafety
	useTemp := tempDir || (IsDevRun() && !bypassSafety)

	file := NotesFile(uri)
	dir := ResolvePath(filepath.Dir(file), useTemp)
	resolved := filepath.Join(dir, filepath.Base(file))

	if IsDevRun() && o.logger != nil {
		if bypassSafety {
			if isReadOnly {
				o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
			} else {
				o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
			}
		} else {
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		}
	}

	if o.logger != nil && useTemp && resolved != file {
		o.logger.Warn("running in SAFE MODE (Dev/Test)", "original_path", file, "resolved_path", resolved)
	}

	return fs.NewRepository(fs.Config{
		Path:         resolved,
		MustExist:    mustExist,
		ReadOnly:     isReadOnly,
		Logger:       o.logger,
		Location:     location,
		FileMode:     fileMode,
		ErrorHandler: errorHandler,
	}), nil
}

// NotesFile maps a user supplied location to the notes file it designates.
// An empty uri, an existing directory or a path ending in a separator all mean
// notes.txt inside that directory.
func NotesFile(uri string) string {
	if uri == "" {
		return fs.DefaultFileName
	}
	if strings.HasSuffix(uri, "/") || strings.HasSuffix(uri, string(os.PathSeparator)) {
		return filepath.Join(uri, fs.DefaultFileName)
	}
	if info, err := os.Stat(uri); err == nil && info.IsDir() {
		return filepath.Join(uri, fs.DefaultFileName)
	}
	return uri
}
