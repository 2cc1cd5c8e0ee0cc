package filetypes

import (
	"fmt"
	"io"
	"path"

	"github.com/GlintPay/dockercluster/backend"
	"github.com/GlintPay/dockercluster/sops"
	"github.com/GlintPay/dockercluster/store"
	"github.com/rs/zerolog/log"
)

type YamlContext struct {
	Decrypter Decrypter
}

// IsYaml reports whether the file name has a YAML suffix, and which.
func IsYaml(name string) (bool, string) {
	suffix := path.Ext(name)
	if suffix != ".yml" && suffix != ".yaml" {
		return false, ""
	}
	return true, suffix
}

// ToStore reads a cluster definition, decrypting it first if it carries SOPS metadata.
func ToStore(f backend.File, yc YamlContext) (*store.Store, error) {
	bytes, err := ToBytes(f)
	if err != nil {
		return nil, err
	}

	s, err := DecodeDefinition(bytes, yc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.FullyQualifiedName(), err)
	}
	return s, nil
}

// DecodeDefinition decodes definition bytes, decrypting them first when they
// carry SOPS metadata and a decrypter is available.
func DecodeDefinition(data []byte, yc YamlContext) (*store.Store, error) {
	if yc.Decrypter != nil && sops.IsEncrypted(data) {
		plain, err := yc.Decrypter.Decrypt(data)
		if err != nil {
			return nil, err
		}
		data = plain
	}
	return store.Decode(data)
}

func ToBytes(f backend.File) ([]byte, error) {
	reader, err := f.Data().Reader()
	if err != nil {
		return nil, err
	}

	defer func(reader io.ReadCloser) {
		if e := reader.Close(); e != nil {
			log.Error().Err(e).Msgf("Closing %s", f.Name())
		}
	}(reader)

	return io.ReadAll(reader)
}
