package store

type Property string

const (
	DockerApps       Property = "docker_apps"
	DockerConfigs    Property = "docker_configs"
	DockerArgs       Property = "docker_args"
	DockerAppConfigs Property = "docker_app_configs"
	DockerAppArgs    Property = "docker_app_args"
	DockerRepository Property = "docker_repository"
	DockerTag        Property = "docker_tag"
	DockerPrefix     Property = "docker_prefix"
)

var knownProperties = map[Property]bool{
	DockerApps:       true,
	DockerConfigs:    true,
	DockerArgs:       true,
	DockerAppConfigs: true,
	DockerAppArgs:    true,
	DockerRepository: true,
	DockerTag:        true,
	DockerPrefix:     true,
}

func ParseProperty(name string) (Property, bool) {
	p := Property(name)
	return p, knownProperties[p]
}

// Scope is one namespace of the configuration store, global or host specific.
type Scope interface {
	Lookup(p Property) Value
	ApplicationProperty(p Property, application string) Value
}

// Properties is the in-memory Scope. Absent keys yield Absent values.
type Properties struct {
	values       map[Property]Value
	applications map[string]map[Property]Value
}

func NewProperties() Properties {
	return Properties{
		values:       map[Property]Value{},
		applications: map[string]map[Property]Value{},
	}
}

func (ps Properties) Lookup(p Property) Value {
	return ps.values[p]
}

// ApplicationProperty looks up a property declared for a single application,
// e.g. the `applications.web.docker_app_args` list of a definition.
func (ps Properties) ApplicationProperty(p Property, application string) Value {
	return ps.applications[application][p]
}

// With returns a copy carrying the value. Used while decoding and by tests.
func (ps Properties) With(p Property, v Value) Properties {
	c := ps.clone()
	c.values[p] = v
	return c
}

// WithApplication returns a copy carrying the per-application value.
func (ps Properties) WithApplication(application string, p Property, v Value) Properties {
	c := ps.clone()
	if c.applications[application] == nil {
		c.applications[application] = map[Property]Value{}
	}
	c.applications[application][p] = v
	return c
}

func (ps Properties) clone() Properties {
	c := NewProperties()
	for k, v := range ps.values {
		c.values[k] = v
	}
	for app, values := range ps.applications {
		m := make(map[Property]Value, len(values))
		for k, v := range values {
			m[k] = v
		}
		c.applications[app] = m
	}
	return c
}
