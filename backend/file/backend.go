package file

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/GlintPay/dockercluster/backend"
	"github.com/GlintPay/dockercluster/config"
	"github.com/GlintPay/dockercluster/filetypes"
	"github.com/GlintPay/dockercluster/store"
	"github.com/rs/zerolog/log"
)

func (s *Backend) Init(_ context.Context, appConfig config.ApplicationConfiguration) error {
	s.Config = appConfig.File
	s.YamlContext = filetypes.YamlContext{
		Decrypter: filetypes.SopsDecrypter{},
	}
	log.Debug().Msgf("Reading definitions from %s", s.Config.Path)
	return nil
}

func (s *Backend) GetCurrentState(_ context.Context, branch string, _ bool) (*backend.State, error) {
	if branch != "" {
		return nil, errors.New("labels, multiple branches not supported by File backend")
	}

	return &backend.State{
		Files:   fileItrWrapper{DirPath: s.Config.Path, YamlContext: s.YamlContext},
		Version: "",
	}, nil
}

func (s *Backend) Close() {
	// NOOP
}

func (g fileWrapper) Name() string {
	return g.FileName
}

func (g fileWrapper) IsReadable() (bool, string) {
	return filetypes.IsYaml(g.Name())
}

func (g fileWrapper) ToStore() (*store.Store, error) {
	return filetypes.ToStore(g, g.YamlContext)
}

func (g fileWrapper) FullyQualifiedName() string {
	return g.Path
}

func (g fileWrapper) Data() backend.Blob {
	return file{Path: g.Path}
}

func (g file) Reader() (io.ReadCloser, error) {
	return os.Open(g.Path)
}

// ForEach walks the directory tree, skipping hidden directories such as `.git`
func (itr fileItrWrapper) ForEach(handler func(f backend.File) error) error {
	return filepath.WalkDir(itr.DirPath, func(filePath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if filePath != itr.DirPath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(itr.DirPath, filePath)
		if err != nil {
			return err
		}

		return handler(fileWrapper{
			FileName:    filepath.ToSlash(rel),
			Path:        filePath,
			YamlContext: itr.YamlContext,
		})
	})
}
