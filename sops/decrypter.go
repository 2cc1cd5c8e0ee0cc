package sops

import (
	"fmt"

	"github.com/getsops/sops/v3/decrypt"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

const metadataKey = "sops"

// IsEncrypted reports whether a YAML document carries SOPS metadata.
func IsEncrypted(data []byte) bool {
	var content map[string]any
	if err := yaml.Unmarshal(data, &content); err != nil {
		return false
	}
	_, hasSops := content[metadataKey]
	return hasSops
}

// DecryptYAML returns plain documents untouched and decrypts SOPS documents
// with whatever key service the environment provides (KMS, age, PGP).
func DecryptYAML(data []byte) ([]byte, error) {
	if !IsEncrypted(data) {
		return data, nil
	}

	log.Debug().Msg("Decrypting SOPS-encrypted definition")

	decrypted, err := decrypt.Data(data, "yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt SOPS-encrypted definition: %w", err)
	}

	return decrypted, nil
}
