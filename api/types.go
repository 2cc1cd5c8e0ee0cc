package api

// LoadRequest selects the definition to load and how.
type LoadRequest struct {
	Label          string
	RefreshBackend bool
	DefinitionFile string

	LogResponses    bool
	PrettyPrintJson bool
	EnableTrace     bool
}

type applicationsResponse struct {
	Deployed   []string `json:"deployed"`
	Configured []string `json:"configured"`
}
