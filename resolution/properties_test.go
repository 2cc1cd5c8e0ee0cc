package resolution

import (
	"fmt"
	"testing"

	"github.com/GlintPay/dockercluster/store"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

const application = "web"

// Each source of arguments, in the order they are merged.
type sourceSetter func(global, host store.Properties, tokens []string) (store.Properties, store.Properties)

var argumentSources = []sourceSetter{
	globalValue(store.DockerConfigs),
	globalValue(store.DockerArgs),
	globalMap(store.DockerAppConfigs),
	globalInline(store.DockerAppConfigs),
	globalMap(store.DockerAppArgs),
	globalInline(store.DockerAppArgs),
	hostValue(store.DockerConfigs),
	hostValue(store.DockerArgs),
	hostMap(store.DockerAppConfigs),
	hostInline(store.DockerAppConfigs),
	hostMap(store.DockerAppArgs),
	hostInline(store.DockerAppArgs),
}

func globalValue(p store.Property) sourceSetter {
	return func(g, h store.Properties, tokens []string) (store.Properties, store.Properties) {
		return g.With(p, store.List(tokens...)), h
	}
}

func globalMap(p store.Property) sourceSetter {
	return func(g, h store.Properties, tokens []string) (store.Properties, store.Properties) {
		return g.With(p, appMap(tokens)), h
	}
}

func globalInline(p store.Property) sourceSetter {
	return func(g, h store.Properties, tokens []string) (store.Properties, store.Properties) {
		return g.WithApplication(application, p, store.List(tokens...)), h
	}
}

func hostValue(p store.Property) sourceSetter {
	return func(g, h store.Properties, tokens []string) (store.Properties, store.Properties) {
		return g, h.With(p, store.List(tokens...))
	}
}

func hostMap(p store.Property) sourceSetter {
	return func(g, h store.Properties, tokens []string) (store.Properties, store.Properties) {
		return g, h.With(p, appMap(tokens))
	}
}

func hostInline(p store.Property) sourceSetter {
	return func(g, h store.Properties, tokens []string) (store.Properties, store.Properties) {
		return g, h.WithApplication(application, p, store.List(tokens...))
	}
}

func appMap(tokens []string) store.Value {
	return store.Map(
		store.MapEntry{Key: "other", Value: store.List("--never")},
		store.MapEntry{Key: application, Value: store.List(tokens...)},
	)
}

// Sources 0, 2, 3, 6, 8 and 9 hold config paths, the rest hold flags.
func isConfigSource(i int) bool {
	switch i {
	case 0, 2, 3, 6, 8, 9:
		return true
	}
	return false
}

func expectedToken(source int, raw string) string {
	if isConfigSource(source) {
		return fmt.Sprintf("--config 'config/%s.yml'", raw)
	}
	return "--" + raw
}

func sourceToken(source int, raw string, dir string) string {
	if isConfigSource(source) {
		return dir + "/" + raw + ".yml"
	}
	return "--" + raw
}

func TestArgumentsProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		global, host := store.NewProperties(), store.NewProperties()

		var contributions [][]string
		for i, set := range argumentSources {
			raw := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c", "d"}), 0, 3).Draw(t, fmt.Sprintf("source%d", i))
			dir := rapid.SampledFrom([]string{"x", "y/z"}).Draw(t, fmt.Sprintf("dir%d", i))

			tokens := make([]string, 0, len(raw))
			expected := make([]string, 0, len(raw))
			for _, each := range raw {
				tokens = append(tokens, sourceToken(i, each, dir))
				expected = append(expected, expectedToken(i, each))
			}

			global, host = set(global, host, tokens)
			contributions = append(contributions, expected)
		}

		s := store.New()
		s.Global = global
		h := store.Host{Name: "h", Properties: host}

		args := New(s).Arguments(application, h)

		// No duplicates
		seen := map[string]bool{}
		for _, each := range args {
			if seen[each] {
				t.Fatalf("duplicate token %q in %v", each, args)
			}
			seen[each] = true
		}

		// Same set of tokens as contributed, nothing from other applications
		firstSource := map[string]int{}
		for i, group := range contributions {
			for _, each := range group {
				if _, ok := firstSource[each]; !ok {
					firstSource[each] = i
				}
			}
		}
		if len(firstSource) != len(args) {
			t.Fatalf("expected %d unique tokens, got %v", len(firstSource), args)
		}

		// First occurrences follow the source order
		last := 0
		for _, each := range args {
			src, ok := firstSource[each]
			if !ok {
				t.Fatalf("unexpected token %q", each)
			}
			if src < last {
				t.Fatalf("token %q from source %d placed after source %d: %v", each, src, last, args)
			}
			last = src
		}
	})
}

func TestHostOverrideWinsWhenTruthy(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		hostValues := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,5}`), 1, 4).Draw(t, "host")
		globalValues := rapid.SliceOfN(rapid.StringMatching(`[a-z]{0,5}`), 0, 4).Draw(t, "global")

		s := store.New()
		s.Global = s.Global.With(store.DockerApps, store.List(globalValues...))
		h := store.NewHost("h")
		h.Properties = h.With(store.DockerApps, store.List(hostValues...))

		got := New(s).FetchForHost(h, store.DockerApps, store.Absent())
		assert.Equal(t, hostValues, got.Strings())
	})
}

func TestConfigFileMapIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		paths := rapid.SliceOfN(rapid.StringMatching(`(a|b|c)/(x|y|z)\.yml`), 0, 8).Draw(t, "paths")
		hostPaths := rapid.SliceOfN(rapid.StringMatching(`(a|b|c)/(x|y|z)\.yml`), 0, 8).Draw(t, "hostPaths")

		s := store.New()
		s.Global = s.Global.With(store.DockerConfigs, store.List(paths...))
		h := store.NewHost("h")
		h.Properties = h.With(store.DockerConfigs, store.List(hostPaths...))

		r := New(s)
		first := r.ConfigFileMap(h)
		second := r.ConfigFileMap(h)
		assert.Equal(t, first.ToMap(), second.ToMap())
		assert.Equal(t, first.Names(), second.Names())

		// The last declaration of every name wins
		all := append(append([]string{}, paths...), hostPaths...)
		for i, each := range all {
			later := false
			for _, other := range all[i+1:] {
				if BaseName(other) == BaseName(each) {
					later = true
				}
			}
			if !later {
				got, ok := first.Get(BaseName(each))
				assert.True(t, ok)
				assert.Equal(t, each, got)
			}
		}
	})
}
