// Copyright 2025 Mulga Defense Corporation (MDC). All rights reserved.
// Use of this source code is governed by an Apache 2.0 license
// that can be found in the LICENSE file.

package backend

import (
	"errors"
	"fmt"

	"github.com/mulgadc/arenawire/store/backends/file"
	"github.com/mulgadc/arenawire/store/backends/memory"
	"github.com/mulgadc/arenawire/store/backends/s3"
	"github.com/mulgadc/arenawire/types"
)

var ErrInvalidBackend = errors.New("invalid backend")

// New returns the backend named by btype. config must be the matching
// config struct of that backend package.
func New(btype string, config any) (backend types.Backend, err error) {

	switch btype {
	case "file":
		if cfg, ok := config.(file.FileConfig); ok {
			return file.New(cfg), nil
		}
	case "memory":
		if cfg, ok := config.(memory.MemoryConfig); ok {
			return memory.New(cfg), nil
		}
	case "s3":
		if cfg, ok := config.(s3.S3Config); ok {
			return s3.New(cfg), nil
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidBackend, btype)
	}

	return nil, fmt.Errorf("%w: config %T does not match backend %q", ErrInvalidBackend, config, btype)
}
