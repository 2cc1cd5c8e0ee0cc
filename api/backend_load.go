package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/GlintPay/dockercluster/backend"
	gotel "github.com/GlintPay/dockercluster/otel"
	"github.com/GlintPay/dockercluster/store"
	"github.com/rs/zerolog/log"
)

var ErrDefinitionMissing = errors.New("cluster definition not found")

// LoadStores returns the definition of the first backend that has one.
func LoadStores(ctxt context.Context, backends backend.Backends, req LoadRequest) (*store.Store, error) {
	if len(backends) == 0 {
		return nil, fmt.Errorf("%w: no backends", ErrDefinitionMissing)
	}

	var lastErr error
	for _, each := range backends {
		s, err := LoadStore(ctxt, each, req)
		if err == nil {
			return s, nil
		}
		if !errors.Is(err, ErrDefinitionMissing) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// LoadStore reads and decodes the definition file of a single backend,
// stamping the store with the backend version.
func LoadStore(ctxt context.Context, b backend.Backend, req LoadRequest) (*store.Store, error) {
	log.Debug().Msgf("Requesting: [%s] label [%s]", req.DefinitionFile, req.Label)

	if req.EnableTrace {
		_, span := gotel.GetTracer(ctxt).Start(ctxt, "loadDefinition", gotel.ServerOptions)
		defer span.End()
	}

	state, err := b.GetCurrentState(ctxt, req.Label, req.RefreshBackend)
	if err != nil {
		return nil, err
	}

	if state.Files == nil {
		return nil, fmt.Errorf("%w: %s", ErrDefinitionMissing, req.DefinitionFile)
	}

	var found *store.Store
	err = state.Files.ForEach(func(f backend.File) error {
		if found != nil || f.Name() != req.DefinitionFile {
			return nil
		}

		if readable, _ := f.IsReadable(); !readable {
			return fmt.Errorf("%s is not YAML", f.FullyQualifiedName())
		}

		s, e := f.ToStore()
		if e != nil {
			return e
		}

		log.Debug().Msgf("Loaded %s at version [%s]", f.FullyQualifiedName(), state.Version)
		found = s
		return nil
	})

	if err != nil {
		return nil, err
	}

	if found == nil {
		return nil, fmt.Errorf("%w: %s", ErrDefinitionMissing, req.DefinitionFile)
	}

	found.Version = state.Version
	return found, nil
}
