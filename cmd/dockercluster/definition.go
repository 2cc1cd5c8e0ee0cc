package main

import (
	"fmt"
	"os"

	"github.com/GlintPay/dockercluster/filetypes"
	"github.com/GlintPay/dockercluster/store"
	"github.com/GlintPay/dockercluster/utils"
	"github.com/rs/zerolog/log"
)

// readDefinition loads a local cluster definition, decrypting it with sops if needed.
func readDefinition(path string) (*store.Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	log.Debug().Msgf("Loading definition from %s", utils.FriendlyFileName(path))

	s, err := filetypes.DecodeDefinition(data, filetypes.YamlContext{Decrypter: filetypes.SopsDecrypter{}})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
