package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/GlintPay/dockercluster/resolution"
	"github.com/GlintPay/dockercluster/scripts"
	"github.com/GlintPay/dockercluster/store"
	"github.com/GlintPay/dockercluster/utils"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type renderOptions struct {
	Definition string
	Hosts      []string
	Out        string
	Now        func() time.Time
}

func newRenderCommand() *cobra.Command {
	var hostsCsv string
	opts := renderOptions{Now: time.Now}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Write bin/start, bin/run and bin/stop for each host",
		Long: `Write the scripts of every host, or of the hosts given with --hosts,
to <out>/<host>/bin. Existing scripts are overwritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Hosts = utils.SplitNames(hostsCsv)
			return runRender(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.Definition, "definition", "cluster.yml", "cluster definition file")
	cmd.Flags().StringVar(&hostsCsv, "hosts", "", "comma separated hosts to render, all when empty")
	cmd.Flags().StringVar(&opts.Out, "out", "build", "output directory")

	return cmd
}

func runRender(ctx context.Context, opts renderOptions) error {
	s, err := readDefinition(opts.Definition)
	if err != nil {
		return err
	}

	var hosts []store.Host
	for _, name := range s.HostNames() {
		if utils.Contains(opts.Hosts, name) {
			h, _ := s.Host(name)
			hosts = append(hosts, h)
		}
	}

	for _, name := range opts.Hosts {
		if _, err := s.Host(name); err != nil {
			return err
		}
	}

	generator := scripts.NewGenerator(resolution.New(s))
	if opts.Now != nil {
		generator.Now = opts.Now
	}

	g, _ := errgroup.WithContext(ctx)
	for _, host := range hosts {
		g.Go(func() error {
			return writeScripts(generator, host, filepath.Join(opts.Out, host.Name))
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msgf("Rendered %d host(s) to %s", len(hosts), utils.FriendlyFileName(opts.Out))
	return nil
}

func writeScripts(generator scripts.Generator, host store.Host, dir string) error {
	for _, kind := range scripts.Kinds {
		script, err := generator.Render(kind, host)
		if err != nil {
			return fmt.Errorf("host [%s]: %w", host.Name, err)
		}

		path := filepath.Join(dir, filepath.FromSlash(kind.Path()))
		if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}

		if err = os.WriteFile(path, []byte(script), 0o755); err != nil {
			return err
		}

		// WriteFile keeps the mode of an existing file
		if err = os.Chmod(path, 0o755); err != nil {
			return err
		}

		log.Debug().Msgf("Wrote %s", path)
	}
	return nil
}
