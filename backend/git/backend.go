package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"codnect.io/chrono"
	"github.com/GlintPay/dockercluster/backend"
	"github.com/GlintPay/dockercluster/config"
	"github.com/GlintPay/dockercluster/filetypes"
	gotel "github.com/GlintPay/dockercluster/otel"
	"github.com/GlintPay/dockercluster/store"
	goGit "github.com/go-git/go-git/v5"
	goGitConfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/rs/zerolog/log"
)

func (s *Backend) Init(ctxt context.Context, config config.ApplicationConfiguration) error {
	s.Config = config.Git

	s.YamlContext = filetypes.YamlContext{
		Decrypter: filetypes.SopsDecrypter{},
	}

	if s.Config.PrivateKey != "" {
		hostKeyCallback, err := ssh.NewKnownHostsCallback(s.Config.KnownHostsFile)
		if err != nil {
			return err
		}

		s.PublicKeys, err = ssh.NewPublicKeys("git", []byte(strings.TrimSpace(s.Config.PrivateKey)), "")
		if err != nil {
			return err
		}

		s.PublicKeys.HostKeyCallback = hostKeyCallback
	}

	if s.Config.CloneOnStart {
		log.Debug().Msgf("Cloning %s on startup...", s.Config.Uri)

		if e := s.connect(ctxt, "", !s.Config.DisableBaseDirCleaning, false); e != nil {
			return e
		}
	}

	if s.Config.RefreshRateMillis > 0 {
		scheduler := chrono.NewDefaultTaskScheduler()

		period := time.Duration(s.Config.RefreshRateMillis) * time.Millisecond
		log.Info().Msgf("Scheduling definition pull every %v", period)

		task, err := scheduler.ScheduleAtFixedRate(func(ctx context.Context) {
			if e := s.connect(ctx, "", false, true); e != nil {
				log.Error().Err(e).Msgf("Scheduled pull failed")
			}
		}, period)

		if err != nil {
			return err
		}
		s.refreshTask = task
	}

	return nil
}

func (s *Backend) defaultBranch() string {
	if s.Config.DefaultBranchName == "" {
		return "master"
	}
	return s.Config.DefaultBranchName
}

func (s *Backend) connect(ctxt context.Context, branch string, cleanExisting bool, pull bool) error {
	s.repoLock.Lock()
	defer s.repoLock.Unlock()

	return s.connectLocked(ctxt, branch, cleanExisting, pull)
}

// connectLocked expects repoLock to be held
func (s *Backend) connectLocked(ctxt context.Context, branch string, cleanExisting bool, pull bool) error {
	if cleanExisting {
		if e := s.cleanRepo(); e != nil {
			return e
		}
	}

	branch, ref := s.branchRef(branch)

	repo, cloned, err := s.open(ctxt, ref)
	if err != nil {
		return err
	}

	if !cloned {
		w, err := repo.Worktree()
		if err != nil {
			return err
		}

		if err = s.switchBranch(repo, w, branch, ref); err != nil {
			return err
		}

		if pull {
			if s.EnableTrace {
				_, span := gotel.GetTracer(ctxt).Start(ctxt, "git-pull", gotel.ServerOptions)
				defer span.End()
			}

			err = w.PullContext(ctxt, s.getPullOptions(ref))
			if err != nil && !errors.Is(err, goGit.NoErrAlreadyUpToDate) {
				return err
			}

			log.Debug().Msgf("Pulled [%s] OK", branch)
		}
	}

	s.Repo = repo
	return nil
}

func (s *Backend) branchRef(branch string) (string, plumbing.ReferenceName) {
	if branch == "" {
		branch = s.defaultBranch()
	}
	return branch, plumbing.NewBranchReferenceName(branch)
}

// switchBranch checks out ref unless it is already HEAD
func (s *Backend) switchBranch(repo *goGit.Repository, w *goGit.Worktree, branch string, ref plumbing.ReferenceName) error {
	head, err := repo.Head()
	if err != nil || head.Name() == ref {
		return nil
	}
	return s.checkout(repo, w, branch, ref)
}

// open returns the local repository, cloning it on first use
func (s *Backend) open(ctxt context.Context, ref plumbing.ReferenceName) (*goGit.Repository, bool, error) {
	repo, err := goGit.PlainOpen(s.Config.Basedir)
	if !errors.Is(err, goGit.ErrRepositoryNotExists) {
		return repo, false, err
	}

	if s.EnableTrace {
		_, span := gotel.GetTracer(ctxt).Start(ctxt, "git-clone", gotel.ServerOptions)
		defer span.End()
	}

	depth := 0 // unlimited
	if s.Config.DisableLabels {
		depth = 1 // shallow
	}

	repo, err = goGit.PlainCloneContext(ctxt, s.Config.Basedir, false, s.getCloneOptions(ref, depth))
	if err != nil {
		return nil, false, err
	}

	log.Debug().Msgf("Cloned [%s] OK", ref.Short())
	return repo, true, nil
}

func (s *Backend) getCloneOptions(ref plumbing.ReferenceName, depth int) *goGit.CloneOptions {
	cloneOpts := &goGit.CloneOptions{
		ReferenceName: ref,
		Depth:         depth,
		URL:           s.Config.Uri,
	}

	if s.PublicKeys != nil {
		cloneOpts.Auth = s.PublicKeys
	}
	if s.Config.ShowProgress {
		cloneOpts.Progress = os.Stdout
	}

	return cloneOpts
}

func (s *Backend) getPullOptions(ref plumbing.ReferenceName) *goGit.PullOptions {
	po := &goGit.PullOptions{
		ReferenceName: ref,
		Force:         s.Config.ForcePull,
	}

	if s.PublicKeys != nil {
		po.Auth = s.PublicKeys
	}
	if s.Config.ShowProgress {
		po.Progress = os.Stdout
	}

	return po
}

func (s *Backend) checkout(repo *goGit.Repository, w *goGit.Worktree, branch string, ref plumbing.ReferenceName) error {
	coOpts := &goGit.CheckoutOptions{Branch: ref}

	if err := w.Checkout(coOpts); err == nil {
		log.Debug().Msgf("Checked out local [%s] OK", branch)
		return nil
	}

	mirrorRemoteBranchRefSpec := fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch)
	if err := s.fetchOrigin(repo, mirrorRemoteBranchRefSpec); err != nil {
		return err
	}

	if err := w.Checkout(coOpts); err != nil {
		return err
	}

	log.Debug().Msgf("Checked out remote [%s] OK", branch)
	return nil
}

func (s *Backend) fetchOrigin(repo *goGit.Repository, refSpecStr string) error {
	remote, err := repo.Remote("origin")
	if err != nil {
		return err
	}

	fo := &goGit.FetchOptions{
		RefSpecs: []goGitConfig.RefSpec{goGitConfig.RefSpec(refSpecStr)},
	}

	if s.Config.ShowProgress {
		fo.Progress = os.Stdout
	}
	if s.PublicKeys != nil {
		fo.Auth = s.PublicKeys
	}

	if err = remote.Fetch(fo); err != nil {
		if !errors.Is(err, goGit.NoErrAlreadyUpToDate) {
			return fmt.Errorf("fetch origin failed: %w", err)
		}
		log.Debug().Msgf("refs already up to date")
	}

	return nil
}

func (s *Backend) cleanRepo() error {
	if s.Config.Basedir == "" {
		return nil
	}
	log.Debug().Msgf("Cleaning %s...", s.Config.Basedir)
	return os.RemoveAll(s.Config.Basedir)
}

// GetCurrentState exposes the files of the requested branch, versioned by its
// commit hash. repoLock is held from checkout until the commit is read.
func (s *Backend) GetCurrentState(ctxt context.Context, branch string, refresh bool) (*backend.State, error) {
	s.repoLock.Lock()
	defer s.repoLock.Unlock()

	if refresh || s.Repo == nil {
		if e := s.connectLocked(ctxt, branch, false, refresh && s.Config.RefreshRateMillis <= 0); e != nil {
			return nil, e
		}
	} else {
		w, err := s.Repo.Worktree()
		if err != nil {
			return nil, err
		}

		branch, ref := s.branchRef(branch)
		if err = s.switchBranch(s.Repo, w, branch, ref); err != nil {
			return nil, err
		}
	}

	ref, err := s.Repo.Head()
	if err != nil {
		return nil, err
	}

	commit, err := s.Repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, err
	}

	commitFiles, err := commit.Files()
	if err != nil {
		return nil, err
	}

	return &backend.State{
		Files: fileItrWrapper{
			RepoUri:     s.Config.Uri,
			Files:       commitFiles,
			YamlContext: s.YamlContext,
		},
		Version: commit.Hash.String(),
	}, nil
}

func (s *Backend) Close() {
	if s.refreshTask != nil {
		s.refreshTask.Cancel()
	}
}

func (g fileWrapper) Name() string {
	return g.File.Name
}

func (g fileWrapper) IsReadable() (bool, string) {
	return filetypes.IsYaml(g.Name())
}

func (g fileWrapper) ToStore() (*store.Store, error) {
	return filetypes.ToStore(g, g.YamlContext)
}

func (g fileWrapper) FullyQualifiedName() string {
	return g.RepoUri + "/" + g.File.Name
}

func (g fileWrapper) Data() backend.Blob {
	return fileBlob{Blob: &g.File.Blob}
}

func (g fileBlob) Reader() (io.ReadCloser, error) {
	return g.Blob.Reader()
}

func (itr fileItrWrapper) ForEach(handler func(f backend.File) error) error {
	return itr.Files.ForEach(func(f *object.File) error {
		return handler(fileWrapper{
			RepoUri:     itr.RepoUri,
			File:        f,
			YamlContext: itr.YamlContext,
		})
	})
}
