package config

type Configuration struct {
	ApplicationConfigFileYmlPath string `env:"APP_CONFIG_FILE_YML_PATH" envDefault:"application.yml"`
}

// ApplicationConfiguration Must use full names for `sigs.k8s.io/yaml`
type ApplicationConfiguration struct {
	Server     Server
	Prometheus Prometheus
	File       FileConfig
	Git        GitConfig
	Defaults   Defaults
	Tracing    Tracing
	Logging    Logging
}

type Defaults struct {
	DefinitionFile  string `json:"definitionFile"`
	LogResponses    bool
	PrettyPrintJson bool
}

// DefinitionFileOrDefault is the definition path inside a backend, `cluster.yml` unless configured.
func (d Defaults) DefinitionFileOrDefault() string {
	if d.DefinitionFile == "" {
		return "cluster.yml"
	}
	return d.DefinitionFile
}

type Server struct {
	Port int
}

type Tracing struct {
	Enabled         bool
	Endpoint        string
	SamplerFraction float64
}

type Prometheus struct {
	Path string
}

type Logging struct {
	Level string
}

type FileConfig struct {
	Disabled bool
	Order    int
	Path     string
}
