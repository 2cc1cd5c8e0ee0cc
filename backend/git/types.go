package git

import (
	"sync"

	"codnect.io/chrono"
	"github.com/GlintPay/dockercluster/config"
	"github.com/GlintPay/dockercluster/filetypes"
	goGit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
)

type Backend struct {
	Config      config.GitConfig
	Repo        *goGit.Repository
	PublicKeys  *ssh.PublicKeys
	YamlContext filetypes.YamlContext
	EnableTrace bool

	refreshTask chrono.ScheduledTask

	// go-git pack indexes are not safe for concurrent commit lookups
	repoLock sync.Mutex
}

func (s *Backend) Order() int {
	return s.Config.Order
}

type fileItrWrapper struct {
	RepoUri     string
	Files       *object.FileIter
	YamlContext filetypes.YamlContext
}

type fileWrapper struct {
	RepoUri     string
	File        *object.File
	YamlContext filetypes.YamlContext
}

type fileBlob struct {
	Blob *object.Blob
}
