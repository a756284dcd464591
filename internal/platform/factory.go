package platform

import (
	"github.com/aretw0/notebook/pkg/core"
)

// New creates a notebook service backed by the storage selected through opts.
//
//	svc, err := notebook.New("./notes.txt", notebook.WithReadOnly(true))
//
// The URI argument is adapter-specific (e.g., notes file or directory for 'fs').
func New(uri string, opts ...Option) (*core.Service, error) {
	// 1. Initialize storage (path resolution, directories)
	repo, err := Init(uri, opts...)
	if err != nil {
		return nil, err
	}

	// We also need to parse options here to wire the service
	o := buildOptions(opts)
	readOnly, _ := o.config["read_only"].(bool)

	serviceOpts := []core.ServiceOption{
		core.WithServiceLogger(o.logger),
		core.WithServiceReadOnly(readOnly),
	}
	if o.clock != nil {
		serviceOpts = append(serviceOpts, core.WithClock(o.clock))
	}

	return core.NewService(repo, serviceOpts...), nil
}
