package setup

import (
	"context"

	"github.com/GlintPay/dockercluster/backend"
	"github.com/GlintPay/dockercluster/backend/file"
	"github.com/GlintPay/dockercluster/backend/git"
	"github.com/GlintPay/dockercluster/config"
	"github.com/rs/zerolog/log"
)

// Init creates the enabled backends, initialised and sorted by priority.
func Init(ctx context.Context, appConfig config.ApplicationConfiguration) (backend.Backends, error) {
	var backends backend.Backends

	if appConfig.Git.Disabled {
		log.Info().Msg("Git backend is disabled")
	} else {
		log.Info().Msg("Enabling Git backend")
		backends = append(backends, &git.Backend{EnableTrace: appConfig.Tracing.Enabled})
	}

	if appConfig.File.Disabled {
		log.Info().Msg("File backend is disabled")
	} else {
		log.Info().Msg("Enabling File backend")
		backends = append(backends, &file.Backend{})
	}

	for _, each := range backends {
		if backendErr := each.Init(ctx, appConfig); backendErr != nil {
			return nil, backendErr
		}
	}

	backends.SortByOrder()
	return backends, nil
}
