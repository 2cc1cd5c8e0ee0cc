package main

import (
	"encoding/json"
	"io"

	"github.com/GlintPay/dockercluster/resolution"
	"github.com/spf13/cobra"
)

func newConfigsCommand() *cobra.Command {
	var definition, host string

	cmd := &cobra.Command{
		Use:   "configs",
		Short: "Print the config files a host needs, keyed by upload name",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigs(cmd.OutOrStdout(), definition, host)
		},
	}

	cmd.Flags().StringVar(&definition, "definition", "cluster.yml", "cluster definition file")
	cmd.Flags().StringVar(&host, "host", "", "host name")
	_ = cmd.MarkFlagRequired("host")

	return cmd
}

func runConfigs(w io.Writer, definition string, hostName string) error {
	s, err := readDefinition(definition)
	if err != nil {
		return err
	}

	host, err := s.Host(hostName)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resolution.New(s).ConfigFileMap(host))
}
