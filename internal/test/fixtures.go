package test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/GlintPay/dockercluster/store"
	"github.com/stretchr/testify/require"
)

// FixedTime is the generation time stamped into scripts rendered by tests.
var FixedTime = time.Date(2024, 10, 1, 12, 30, 0, 0, time.UTC)

func FixedClock() time.Time {
	return FixedTime
}

// Definition decodes a YAML cluster definition, failing the test on error.
func Definition(t *testing.T, yaml string) *store.Store {
	t.Helper()
	s, err := store.Decode([]byte(yaml))
	require.NoError(t, err)
	return s
}

// Host fetches a host of the store, failing the test if it is missing.
func Host(t *testing.T, s *store.Store, name string) store.Host {
	t.Helper()
	h, err := s.Host(name)
	require.NoError(t, err)
	return h
}

// WriteFile writes a file below dir, creating parent directories.
func WriteFile(t *testing.T, dir string, name string, contents string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(contents), 0o644))
	return p
}
