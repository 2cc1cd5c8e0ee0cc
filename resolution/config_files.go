package resolution

import (
	"encoding/json"

	"github.com/GlintPay/dockercluster/store"
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// ConfigFiles maps the uploaded file name to the local path it comes from.
// Names keep the position of their first write.
type ConfigFiles struct {
	files *linkedhashmap.Map
}

func newConfigFiles() ConfigFiles {
	return ConfigFiles{files: linkedhashmap.New()}
}

func (c ConfigFiles) put(paths store.Value) {
	for _, each := range paths.Strings() {
		c.files.Put(BaseName(each), each)
	}
}

func (c ConfigFiles) Get(name string) (string, bool) {
	v, ok := c.files.Get(name)
	if !ok {
		return "", false
	}
	return v.(string), true
}

func (c ConfigFiles) Names() []string {
	names := make([]string, 0, c.files.Size())
	for _, each := range c.files.Keys() {
		names = append(names, each.(string))
	}
	return names
}

func (c ConfigFiles) Len() int {
	return c.files.Size()
}

func (c ConfigFiles) ToMap() map[string]string {
	m := make(map[string]string, c.files.Size())
	it := c.files.Iterator()
	for it.Next() {
		m[it.Key().(string)] = it.Value().(string)
	}
	return m
}

func (c ConfigFiles) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.ToMap())
}

// ConfigFileMap returns every local config file the host needs, keyed by the
// name it is uploaded as. When two paths share a name the later one wins:
// global before host, and within each scope the plain list, then the
// application map, then the per-application declarations.
func (r Resolver) ConfigFileMap(host store.Host) ConfigFiles {
	global := r.Store.Global
	applications := r.mappedApplications(host)

	configs := newConfigFiles()

	configs.put(global.Lookup(store.DockerConfigs))
	for _, each := range global.Lookup(store.DockerAppConfigs).Entries() {
		configs.put(each)
	}
	for _, app := range applications {
		configs.put(global.ApplicationProperty(store.DockerAppConfigs, app))
	}

	configs.put(host.Lookup(store.DockerConfigs))
	for _, each := range host.Lookup(store.DockerAppConfigs).Entries() {
		configs.put(each)
	}
	for _, app := range applications {
		configs.put(host.ApplicationProperty(store.DockerAppConfigs, app))
	}

	return configs
}
