package resolution

import (
	"encoding/json"
	"testing"

	"github.com/GlintPay/dockercluster/internal/test"
	"github.com/GlintPay/dockercluster/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_configFileMapLastWriterWins(t *testing.T) {
	s := test.Definition(t, `
docker_configs:
  - etc/a/db.yml
  - etc/b/db.yml
hosts:
  - name: h1
`)

	configs := New(s).ConfigFileMap(test.Host(t, s, "h1"))
	assert.Equal(t, map[string]string{"db.yml": "etc/b/db.yml"}, configs.ToMap())
}

func Test_configFileMapStages(t *testing.T) {
	s := test.Definition(t, `
docker_configs: [global/base.yml, global/shared.yml, global/s1.yml]
docker_app_configs:
  web: [map/shared.yml, map/s2.yml]
  worker: map/worker.yml
applications:
  web:
    docker_app_configs: [inline/shared.yml, inline/s3.yml]
  console:
    docker_app_configs: inline/console.yml
  unused:
    docker_app_configs: inline/unused.yml
docker_app_args:
  console: [--tty]
hosts:
  - name: h1
    docker_apps: [web]
    docker_configs: [host/s1.yml]
    docker_app_configs:
      other: [hostmap/s2.yml]
    applications:
      web:
        docker_app_configs: hostinline/s3.yml
      other:
        docker_app_configs: [hostinline/shared.yml]
  - name: h2
`)
	r := New(s)

	h1 := r.ConfigFileMap(test.Host(t, s, "h1"))
	assert.Equal(t, map[string]string{
		"base.yml":    "global/base.yml",
		"shared.yml":  "hostinline/shared.yml",
		"s1.yml":      "host/s1.yml",
		"s2.yml":      "hostmap/s2.yml",
		"worker.yml":  "map/worker.yml",
		"s3.yml":      "hostinline/s3.yml",
		"console.yml": "inline/console.yml",
	}, h1.ToMap())
	assert.Equal(t, []string{"base.yml", "shared.yml", "s1.yml", "s2.yml", "worker.yml", "s3.yml", "console.yml"}, h1.Names())

	h2 := r.ConfigFileMap(test.Host(t, s, "h2"))
	assert.Equal(t, map[string]string{
		"base.yml":    "global/base.yml",
		"shared.yml":  "inline/shared.yml",
		"s1.yml":      "global/s1.yml",
		"s2.yml":      "map/s2.yml",
		"worker.yml":  "map/worker.yml",
		"s3.yml":      "inline/s3.yml",
		"console.yml": "inline/console.yml",
	}, h2.ToMap())
}

func Test_configFileMapDeclarationOrderDecides(t *testing.T) {
	first := test.Definition(t, "docker_configs: [x/app.yml]\nhosts:\n  - name: h1\n    docker_configs: [y/app.yml]\n")
	swapped := test.Definition(t, "docker_configs: [y/app.yml]\nhosts:\n  - name: h1\n    docker_configs: [x/app.yml]\n")

	path, ok := New(first).ConfigFileMap(test.Host(t, first, "h1")).Get("app.yml")
	assert.True(t, ok)
	assert.Equal(t, "y/app.yml", path)

	path, ok = New(swapped).ConfigFileMap(test.Host(t, swapped, "h1")).Get("app.yml")
	assert.True(t, ok)
	assert.Equal(t, "x/app.yml", path)
}

func Test_configFileMapEmpty(t *testing.T) {
	configs := New(store.New()).ConfigFileMap(store.NewHost("h1"))
	assert.Equal(t, 0, configs.Len())
	assert.Empty(t, configs.Names())

	_, ok := configs.Get("anything.yml")
	assert.False(t, ok)
}

func Test_configFileMapJson(t *testing.T) {
	s := test.Definition(t, "docker_configs: [b/two.yml, a/one.yml]\nhosts:\n  - name: h1\n")

	bytes, err := json.Marshal(New(s).ConfigFileMap(test.Host(t, s, "h1")))
	require.NoError(t, err)
	assert.Equal(t, `{"one.yml":"a/one.yml","two.yml":"b/two.yml"}`, string(bytes))
}
