package file

import (
	"github.com/GlintPay/dockercluster/config"
	"github.com/GlintPay/dockercluster/filetypes"
)

type Backend struct {
	Config      config.FileConfig
	YamlContext filetypes.YamlContext
}

func (s *Backend) Order() int {
	return s.Config.Order
}

type fileItrWrapper struct {
	DirPath     string
	YamlContext filetypes.YamlContext
}

type fileWrapper struct {
	FileName    string
	Path        string
	YamlContext filetypes.YamlContext
}

type file struct {
	Path string
}
