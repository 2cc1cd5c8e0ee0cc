package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/GlintPay/dockercluster/internal/test"
	"github.com/GlintPay/dockercluster/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const definition = `
docker_repository: registry.example.com/shop
docker_tag: v42
docker_apps: [web]
docker_configs: [config/base.yml]
hosts:
  - name: h1
  - name: h2
    docker_configs: [etc/h2/base.yml, etc/h2/extra.yml]
`

func TestRunRender(t *testing.T) {
	dir := t.TempDir()
	def := test.WriteFile(t, dir, "cluster.yml", definition)
	out := filepath.Join(dir, "out")

	require.NoError(t, runRender(context.Background(), renderOptions{Definition: def, Out: out, Now: test.FixedClock}))

	for _, host := range []string{"h1", "h2"} {
		for _, kind := range []string{"start", "run", "stop"} {
			path := filepath.Join(out, host, "bin", kind)
			info, err := os.Stat(path)
			require.NoError(t, err, path)
			assert.Equal(t, os.FileMode(0o755), info.Mode().Perm(), path)

			contents, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Contains(t, string(contents), "# Generated: 2024-10-01T12:30:00Z\n")
		}
	}

	start, err := os.ReadFile(filepath.Join(out, "h2", "bin", "start"))
	require.NoError(t, err)
	assert.Contains(t, string(start), "exec bin/docker-cluster --config 'config/base.yml' --config 'config/extra.yml' --name 'web' --image 'registry.example.com/shop:v42' \"$@\"")
}

func TestRunRenderSelectedHosts(t *testing.T) {
	dir := t.TempDir()
	def := test.WriteFile(t, dir, "cluster.yml", definition)
	out := filepath.Join(dir, "out")

	require.NoError(t, runRender(context.Background(), renderOptions{Definition: def, Hosts: []string{"h2"}, Out: out}))

	assert.FileExists(t, filepath.Join(out, "h2", "bin", "stop"))
	assert.NoDirExists(t, filepath.Join(out, "h1"))

	err := runRender(context.Background(), renderOptions{Definition: def, Hosts: []string{"h3"}, Out: out})
	assert.ErrorIs(t, err, store.ErrHostNotFound)
}

func TestRunRenderOverwritesScripts(t *testing.T) {
	dir := t.TempDir()
	def := test.WriteFile(t, dir, "cluster.yml", definition)
	out := filepath.Join(dir, "out")

	stale := test.WriteFile(t, out, "h1/bin/start", "stale")
	require.NoError(t, os.Chmod(stale, 0o600))

	require.NoError(t, runRender(context.Background(), renderOptions{Definition: def, Hosts: []string{"h1"}, Out: out, Now: test.FixedClock}))

	info, err := os.Stat(stale)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	contents, err := os.ReadFile(stale)
	require.NoError(t, err)
	assert.NotContains(t, string(contents), "stale")
}

func TestRunRenderMissingDefinition(t *testing.T) {
	err := runRender(context.Background(), renderOptions{Definition: filepath.Join(t.TempDir(), "nope.yml"), Out: t.TempDir()})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunConfigs(t *testing.T) {
	dir := t.TempDir()
	def := test.WriteFile(t, dir, "cluster.yml", definition)

	var buf bytes.Buffer
	require.NoError(t, runConfigs(&buf, def, "h2"))
	assert.JSONEq(t, `{"base.yml":"etc/h2/base.yml","extra.yml":"etc/h2/extra.yml"}`, buf.String())

	err := runConfigs(&buf, def, "h3")
	assert.ErrorIs(t, err, store.ErrHostNotFound)
}

func TestRootCommand(t *testing.T) {
	dir := t.TempDir()
	def := test.WriteFile(t, dir, "cluster.yml", definition)

	var buf bytes.Buffer
	root := newRootCommand()
	root.SetOut(&buf)
	root.SetArgs([]string{"configs", "--definition", def, "--host", "h1"})

	require.NoError(t, root.Execute())
	assert.JSONEq(t, `{"base.yml":"config/base.yml"}`, buf.String())

	root = newRootCommand()
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs([]string{"configs", "--definition", def})
	assert.Error(t, root.Execute())
}
