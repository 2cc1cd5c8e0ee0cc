package resolution

import (
	"github.com/GlintPay/dockercluster/store"
)

// Resolver answers property lookups for hosts of a single store snapshot.
// It holds no state of its own and is safe for concurrent use.
type Resolver struct {
	Store *store.Store
}

func New(s *store.Store) Resolver {
	return Resolver{Store: s}
}

// FetchForHost returns the host specific value of a property. A host value
// only counts when truthy: empty lists and false fall back to the global
// value, and then to the supplied default.
func (r Resolver) FetchForHost(host store.Host, p store.Property, def store.Value) store.Value {
	if v := host.Lookup(p); v.Truthy() {
		return v
	}
	return r.Fetch(p, def)
}

// Fetch returns the global value of a property, or the default if undefined.
func (r Resolver) Fetch(p store.Property, def store.Value) store.Value {
	if v := r.Store.Global.Lookup(p); v.Present() {
		return v
	}
	return def
}

// Image is the `repository:tag` reference every script launches.
func (r Resolver) Image() string {
	return r.Fetch(store.DockerRepository, store.Absent()).String() + ":" + r.Fetch(store.DockerTag, store.Absent()).String()
}

// ContainerName is the stable name of an application's container.
func (r Resolver) ContainerName(application string) string {
	return r.Fetch(store.DockerPrefix, store.Absent()).String() + application
}
